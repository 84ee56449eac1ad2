// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package export renders the recruitment and contact reports as PDF.
package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"
	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/encoding/charmap"
)

const (
	rowHeight  = 7.0
	lineHeight = 5.5
	fontFamily = "Helvetica"
)

// document is a single report being rendered.
type document struct {
	pdf       *fpdf.Fpdf
	translate func(string) string
}

func newDocument(subtitle string, now time.Time, total int, compress bool) *document {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.SetAutoPageBreak(true, 15)
	pdf.SetCompression(compress)
	pdf.SetCreationDate(now)
	pdf.SetModificationDate(now)
	pdf.SetTitle("DreamCore - "+subtitle, true)

	d := &document{pdf: pdf, translate: pdf.UnicodeTranslatorFromDescriptor("")}
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont(fontFamily, "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 8, fmt.Sprintf("DreamCore - %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFont(fontFamily, "B", 22)
	pdf.SetTextColor(88, 28, 135)
	pdf.CellFormat(0, 12, "DreamCore", "", 1, "L", false, 0, "")

	pdf.SetFont(fontFamily, "B", 14)
	pdf.SetTextColor(30, 30, 30)
	pdf.CellFormat(0, 8, d.text(subtitle), "", 1, "L", false, 0, "")

	pdf.SetFont(fontFamily, "", 10)
	pdf.SetTextColor(80, 80, 80)
	pdf.CellFormat(0, 6, d.text("Gerado em: "+now.Format("02/01/2006 15:04")), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, d.text(fmt.Sprintf("Total de registros: %d", total)), "", 1, "L", false, 0, "")
	pdf.Ln(4)
	return d
}

// text converts s to the cp1252 encoding of the core fonts. Characters
// outside cp1252 are transliterated to ASCII first.
func (d *document) text(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if _, ok := charmap.Windows1252.EncodeRune(r); ok {
			b.WriteRune(r)
			continue
		}
		b.WriteString(unidecode.Unidecode(string(r)))
	}
	return d.translate(b.String())
}

// table writes a header row and one row per record, repeating the header
// after each page break.
func (d *document) table(headers []string, widths []float64, rows [][]string) {
	pdf := d.pdf
	header := func() {
		pdf.SetFont(fontFamily, "B", 9)
		pdf.SetFillColor(88, 28, 135)
		pdf.SetTextColor(255, 255, 255)
		for i, h := range headers {
			pdf.CellFormat(widths[i], rowHeight, d.text(h), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont(fontFamily, "", 8)
		pdf.SetTextColor(30, 30, 30)
	}

	header()
	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	for n, row := range rows {
		if pdf.GetY()+rowHeight > pageHeight-bottom-15 {
			pdf.AddPage()
			header()
		}
		fill := n%2 == 1
		pdf.SetFillColor(245, 243, 250)
		for i, cell := range row {
			pdf.CellFormat(widths[i], rowHeight, d.fit(cell, widths[i]-2), "1", 0, "L", fill, 0, "")
		}
		pdf.Ln(-1)
	}
}

// fit shortens s with "..." until it fits in width millimetres.
func (d *document) fit(s string, width float64) string {
	t := d.text(s)
	if d.pdf.GetStringWidth(t) <= width {
		return t
	}
	runes := []rune(s)
	for n := len(runes) - 1; n > 0; n-- {
		t = d.text(string(runes[:n]) + "...")
		if d.pdf.GetStringWidth(t) <= width {
			return t
		}
	}
	return d.text("...")
}

// section starts the detail part on a new page.
func (d *document) section(title string) {
	d.pdf.AddPage()
	d.pdf.SetFont(fontFamily, "B", 14)
	d.pdf.SetTextColor(88, 28, 135)
	d.pdf.CellFormat(0, 10, d.text(title), "", 1, "L", false, 0, "")
	d.pdf.Ln(2)
}

// entry writes one record of the detail section.
func (d *document) entry(heading string, fields [][2]string) {
	pdf := d.pdf
	pdf.SetFont(fontFamily, "B", 11)
	pdf.SetTextColor(30, 30, 30)
	pdf.CellFormat(0, 7, d.text(heading), "B", 1, "L", false, 0, "")
	pdf.Ln(1)
	for _, f := range fields {
		pdf.SetFont(fontFamily, "B", 9)
		label := d.text(f[0] + ": ")
		pdf.CellFormat(pdf.GetStringWidth(label)+1, lineHeight, label, "", 0, "L", false, 0, "")
		pdf.SetFont(fontFamily, "", 9)
		pdf.MultiCell(0, lineHeight, d.text(f[1]), "", "L", false)
	}
	pdf.Ln(4)
}

func (d *document) bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// truncate keeps the first n characters of s, adding "..." when cut.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

func dateLabel(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02/01/2006")
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
