package render

import (
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/multierr"

	"github.com/go-tangra/go-tangra-sysreport/internal/collector"
	"github.com/go-tangra/go-tangra-sysreport/internal/qr"
)

// Text writes one "Name: value" row per field with right-aligned names,
// in report order.
func Text(w io.Writer, r *collector.Report) error {
	fields := r.Fields()
	width := 0
	for _, f := range fields {
		if n := len(f.Name) + 1; n > width {
			width = n
		}
	}
	for _, f := range fields {
		if _, err := fmt.Fprintf(w, "%*s  %s\n", width, f.Name+":", f.Value); err != nil {
			return err
		}
	}
	return nil
}

// JSON writes the report as an indented object with keys in report order.
func JSON(w io.Writer, r *collector.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// Code is a labelled link shown as a QR code.
type Code struct {
	Label string
	URL   string
}

// QRCodes writes each code as a terminal QR block under its label. Codes
// that fail to encode are skipped and their errors returned together.
func QRCodes(w io.Writer, codes []Code) error {
	var errs error
	for _, c := range codes {
		block, err := qr.Terminal(c.URL)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", c.Label, err))
			continue
		}
		if _, err := fmt.Fprintf(w, "%s\n%s\n%s\n", c.Label, c.URL, block); err != nil {
			return err
		}
	}
	return errs
}
