package records

import (
	"bytes"
	_ "embed"
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/go-pdf/fpdf"
)

// DejaVu Sans cubre latín, griego y cirílico. Para tailandés hay que cargar otro TTF.
//
//go:embed fonts/DejaVuSansCondensed.ttf
var defaultReceiptFont []byte

const receiptFamily = "receipt"

// checkTTF acepta sólo TrueType (0x00010000 o "true"); fpdf no lee OpenType/CFF ni colecciones.
func checkTTF(font []byte) error {
	if len(font) < 12 {
		return fmt.Errorf("%w: font file too short", ErrInvalidInput)
	}
	switch binary.BigEndian.Uint32(font) {
	case 0x00010000, 0x74727565:
		return nil
	default:
		return fmt.Errorf("%w: receipt font must be a TrueType file", ErrInvalidInput)
	}
}

// Receipt arma el PDF A4 de la reserva: título y un renglón por campo no vacío, ordenados por clave.
func Receipt(font []byte, title string, fields map[string]any) ([]byte, error) {
	if len(font) == 0 {
		font = defaultReceiptFont
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetCreator("goldendogfarm devapi", true)
	pdf.AddUTF8FontFromBytes(receiptFamily, "", font)
	pdf.AddPage()

	pdf.SetFont(receiptFamily, "", 16)
	pdf.CellFormat(0, 10, title, "B", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(receiptFamily, "", 11)
	for _, k := range keys {
		v := asString(fields[k])
		if v == "" {
			continue
		}
		pdf.CellFormat(45, 7, k, "", 0, "L", false, 0, "")
		pdf.MultiCell(0, 7, v, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}
	return buf.Bytes(), nil
}
