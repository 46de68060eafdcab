package cli

import (
	"io"

	"github.com/fatih/color"
)

// ColorNotifier imprime los avisos de éxito/fallo de cada acción.
type ColorNotifier struct {
	out  io.Writer
	ok   *color.Color
	fail *color.Color
}

func NewColorNotifier(w io.Writer) *ColorNotifier {
	return &ColorNotifier{
		out:  w,
		ok:   color.New(color.FgGreen, color.Bold),
		fail: color.New(color.FgRed, color.Bold),
	}
}

func (n *ColorNotifier) Success(action, msg string) {
	n.ok.Fprintf(n.out, "✔ %s: ", action)
	_, _ = io.WriteString(n.out, msg+"\n")
}

func (n *ColorNotifier) Failure(action, msg string) {
	n.fail.Fprintf(n.out, "✘ %s: ", action)
	_, _ = io.WriteString(n.out, msg+"\n")
}
