// Package spreadsheet reads source cells from and writes highlights, comments
// and the legend to .xlsx workbooks.
package spreadsheet

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/turtacn/GeneHighlighter/internal/intelligence/highlight"
	"github.com/turtacn/GeneHighlighter/pkg/errors"
)

// HeaderRow is the row holding column names. Data starts on the next row.
const HeaderRow = 1

// LegendGap is the number of rows between the last used row and the legend
// header.
const LegendGap = 3

// LegendTitle heads the legend block.
const LegendTitle = "Highlight Legend:"

// Workbook wraps an excelize file with the operations the highlighter needs.
// It is not safe for concurrent use.
type Workbook struct {
	f      *excelize.File
	author string
	styles map[styleKey]int
}

type styleKey struct {
	base  int
	color string
	bold  bool
}

// Option customizes a Workbook.
type Option func(*Workbook)

// WithCommentAuthor sets the author of highlight comments.
func WithCommentAuthor(author string) Option {
	return func(w *Workbook) { w.author = author }
}

func wrap(f *excelize.File, opts []Option) *Workbook {
	w := &Workbook{f: f, author: "genehl", styles: make(map[styleKey]int)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Open reads the workbook at path.
func Open(path string, opts ...Option) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInput, "cannot open workbook").WithDetail("path=" + path)
	}
	return wrap(f, opts), nil
}

// OpenBytes reads a workbook from memory. name only labels errors.
func OpenBytes(data []byte, name string, opts ...Option) (*Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInput, "cannot read workbook").WithDetail("name=" + name)
	}
	return wrap(f, opts), nil
}

// FromRows builds a new single-sheet workbook whose first row is the header.
func FromRows(sheet string, rows [][]string, opts ...Option) (*Workbook, error) {
	f := excelize.NewFile()
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return nil, err
		}
	}
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellStr(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}
	return wrap(f, opts), nil
}

// ResolveSheet returns name if the sheet exists, or the active sheet when name
// is empty.
func (w *Workbook) ResolveSheet(name string) (string, error) {
	if name == "" {
		return w.f.GetSheetName(w.f.GetActiveSheetIndex()), nil
	}
	idx, err := w.f.GetSheetIndex(name)
	if err != nil || idx < 0 {
		return "", errors.Input("sheet not found").
			WithDetail(fmt.Sprintf("sheet=%s available=%s", name, strings.Join(w.f.GetSheetList(), ",")))
	}
	return name, nil
}

// Headers returns the header row of sheet.
func (w *Workbook) Headers(sheet string) ([]string, error) {
	rows, err := w.f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInput, "cannot read sheet").WithDetail("sheet=" + sheet)
	}
	if len(rows) < HeaderRow {
		return nil, nil
	}
	return rows[HeaderRow-1], nil
}

// SourceCells returns one text unit per non-blank data cell of the selected
// columns, column by column in the order requested. With no columns every
// named header column is used. A requested column missing from the header is
// an input error.
func (w *Workbook) SourceCells(sheet string, columns []string) ([]highlight.TextUnit, error) {
	sheet, err := w.ResolveSheet(sheet)
	if err != nil {
		return nil, err
	}
	rows, err := w.f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInput, "cannot read sheet").WithDetail("sheet=" + sheet)
	}
	if len(rows) < HeaderRow {
		if len(columns) > 0 {
			return nil, errors.Input("sheet has no header row").WithDetail("sheet=" + sheet)
		}
		return nil, nil
	}

	header := rows[HeaderRow-1]
	index := make(map[string]int, len(header))
	for i, name := range header {
		if name = strings.TrimSpace(name); name != "" {
			if _, dup := index[name]; !dup {
				index[name] = i + 1
			}
		}
	}

	type target struct {
		name string
		col  int
	}
	var targets []target
	if len(columns) == 0 {
		for i, name := range header {
			if name = strings.TrimSpace(name); name != "" && index[name] == i+1 {
				targets = append(targets, target{name, i + 1})
			}
		}
	} else {
		var missing []string
		for _, name := range columns {
			col, ok := index[strings.TrimSpace(name)]
			if !ok {
				missing = append(missing, name)
				continue
			}
			targets = append(targets, target{strings.TrimSpace(name), col})
		}
		if len(missing) > 0 {
			return nil, errors.Input("column not found").
				WithDetail(fmt.Sprintf("sheet=%s columns=%s", sheet, strings.Join(missing, ",")))
		}
	}

	var units []highlight.TextUnit
	for _, t := range targets {
		for r := HeaderRow; r < len(rows); r++ {
			row := rows[r]
			if t.col > len(row) || strings.TrimSpace(row[t.col-1]) == "" {
				continue
			}
			axis, err := excelize.CoordinatesToCellName(t.col, r+1)
			if err != nil {
				return nil, errors.Wrap(err, errors.CodeInternal, "cell name")
			}
			units = append(units, highlight.TextUnit{
				Cell: highlight.CellRef{Sheet: sheet, Column: t.name, Axis: axis, Row: r + 1, Col: t.col},
				Text: row[t.col-1],
			})
		}
	}
	return units, nil
}

// ApplyHighlights fills every highlighted cell with its color, keeping the
// rest of the cell's style, and attaches the annotation as a comment.
func (w *Workbook) ApplyHighlights(highlights []highlight.Highlight) error {
	for _, h := range highlights {
		if err := w.fill(h.Cell.Sheet, h.Cell.Axis, h.Color, false); err != nil {
			return err
		}
		if err := w.f.AddComment(h.Cell.Sheet, excelize.Comment{
			Cell:   h.Cell.Axis,
			Author: w.author,
			Text:   h.Annotation,
		}); err != nil {
			return errors.Wrap(err, errors.CodeInternal, "add comment").WithDetail("cell=" + h.Cell.String())
		}
	}
	return nil
}

// AppendLegend writes the legend LegendGap rows below the last used row of
// sheet: a bold title, then per entry the filled description in column A and
// "(LABEL)" in column B. It returns the title row.
func (w *Workbook) AppendLegend(sheet string, entries []highlight.LegendEntry) (int, error) {
	rows, err := w.f.GetRows(sheet)
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeInput, "cannot read sheet").WithDetail("sheet=" + sheet)
	}
	start := len(rows) + LegendGap

	title := fmt.Sprintf("A%d", start)
	if err := w.f.SetCellStr(sheet, title, LegendTitle); err != nil {
		return 0, err
	}
	if err := w.fill(sheet, title, "", true); err != nil {
		return 0, err
	}

	for i, e := range entries {
		row := start + 1 + i
		desc := fmt.Sprintf("A%d", row)
		if err := w.f.SetCellStr(sheet, desc, e.Description); err != nil {
			return 0, err
		}
		if err := w.fill(sheet, desc, e.Color, false); err != nil {
			return 0, err
		}
		if err := w.f.SetCellStr(sheet, fmt.Sprintf("B%d", row), "("+e.Label+")"); err != nil {
			return 0, err
		}
	}
	return start, nil
}

// fill merges a solid fill and/or bold font into the cell's current style.
func (w *Workbook) fill(sheet, axis, color string, bold bool) error {
	base, err := w.f.GetCellStyle(sheet, axis)
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "read cell style").WithDetail("cell=" + sheet + "!" + axis)
	}
	key := styleKey{base: base, color: color, bold: bold}
	id, ok := w.styles[key]
	if !ok {
		style, err := w.f.GetStyle(base)
		if err != nil || style == nil {
			style = &excelize.Style{}
		}
		if color != "" {
			style.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}}
		}
		if bold {
			font := excelize.Font{}
			if style.Font != nil {
				font = *style.Font
			}
			font.Bold = true
			style.Font = &font
		}
		id, err = w.f.NewStyle(style)
		if err != nil {
			return errors.Wrap(err, errors.CodeInternal, "create style")
		}
		w.styles[key] = id
	}
	return w.f.SetCellStyle(sheet, axis, axis, id)
}

// SaveAs writes the workbook to path.
func (w *Workbook) SaveAs(path string) error {
	if err := w.f.SaveAs(path); err != nil {
		return errors.Wrap(err, errors.ErrCodeInput, "cannot save workbook").WithDetail("path=" + path)
	}
	return nil
}

// Bytes serializes the workbook.
func (w *Workbook) Bytes() ([]byte, error) {
	buf, err := w.f.WriteToBuffer()
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "serialize workbook")
	}
	return buf.Bytes(), nil
}

// Close releases temporary files held by the workbook.
func (w *Workbook) Close() error {
	return w.f.Close()
}

//Personal.AI order the ending
