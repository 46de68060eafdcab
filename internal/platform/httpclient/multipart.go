package httpclient

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/form"
)

var formEncoder = form.NewEncoder()

// FilePart es un archivo adjunto a un form multipart.
type FilePart struct {
	Field    string
	Filename string
	Data     []byte
}

// Multipart es un body multipart/form-data: campos de texto + archivos.
type Multipart struct {
	Fields url.Values
	Files  []FilePart
}

// NewMultipart codifica v (struct con tags `form:"..."`) como campos del form.
// Si skipEmpty, los campos vacíos no se envían (edición parcial).
func NewMultipart(v any, skipEmpty bool) (*Multipart, error) {
	fields, err := formEncoder.Encode(v)
	if err != nil {
		return nil, fmt.Errorf("encode form fields: %w", err)
	}
	if skipEmpty {
		for k, vals := range fields {
			kept := vals[:0]
			for _, s := range vals {
				if strings.TrimSpace(s) != "" {
					kept = append(kept, s)
				}
			}
			if len(kept) == 0 {
				delete(fields, k)
				continue
			}
			fields[k] = kept
		}
	}
	return &Multipart{Fields: fields}, nil
}

// Set agrega/reemplaza un campo de texto.
func (m *Multipart) Set(key, value string) {
	if m.Fields == nil {
		m.Fields = url.Values{}
	}
	m.Fields.Set(key, value)
}

// AttachFile lee path del disco y lo agrega bajo field.
func (m *Multipart) AttachFile(field, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	m.Files = append(m.Files, FilePart{Field: field, Filename: filepath.Base(path), Data: data})
	return nil
}

// Encode arma el body y devuelve el Content-Type con boundary.
func (m *Multipart) Encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(m.Fields))
	for k := range m.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range m.Fields[k] {
			if err := w.WriteField(k, v); err != nil {
				return nil, "", err
			}
		}
	}

	for _, f := range m.Files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.Field, f.Filename))
		h.Set("Content-Type", mimetype.Detect(f.Data).String())
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
