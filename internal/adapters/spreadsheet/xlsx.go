package spreadsheet

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/ogurasousui/turnover-analytics/internal/core/roster"
	"github.com/xuri/excelize/v2"
)

// dateCellLayout は日付書式のセルを文字列化する際の書式です (日先頭)。
const dateCellLayout = "02/01/2006"

// ReadXLSX はブックの 1 シートを読み込みます。
// 日付書式のセルだけをシリアル値から日付文字列に変換し、それ以外は生の値を返します。
func ReadXLSX(r io.Reader, opts Options) (roster.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return roster.Table{}, fmt.Errorf("spreadsheet: open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	sheet := opts.Sheet
	switch {
	case sheet == "" && len(sheets) > 0:
		sheet = sheets[0]
	case !slices.Contains(sheets, sheet):
		return roster.Table{}, fmt.Errorf("%w: %q", ErrSheetNotFound, sheet)
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return roster.Table{}, fmt.Errorf("spreadsheet: read sheet %q: %w", sheet, err)
	}

	conv := newDateConverter(f, sheet)
	for i, row := range rows {
		for j, cell := range row {
			value, err := conv.convert(j+1, i+1, cell)
			if err != nil {
				return roster.Table{}, fmt.Errorf("spreadsheet: read sheet %q: %w", sheet, err)
			}
			row[j] = value
		}
	}

	return toTable(rows, opts)
}

// dateConverter はセルのスタイルを見て日付シリアル値を判定します。
type dateConverter struct {
	f        *excelize.File
	sheet    string
	date1904 bool
	styles   map[int]bool
}

func newDateConverter(f *excelize.File, sheet string) *dateConverter {
	c := &dateConverter{f: f, sheet: sheet, styles: make(map[int]bool)}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		c.date1904 = *props.Date1904
	}
	return c
}

func (c *dateConverter) convert(col, row int, raw string) (string, error) {
	serial, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return raw, nil
	}

	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return "", err
	}
	styleID, err := c.f.GetCellStyle(c.sheet, cell)
	if err != nil {
		return "", err
	}
	if !c.isDateStyle(styleID) {
		return raw, nil
	}

	t, err := excelize.ExcelDateToTime(serial, c.date1904)
	if err != nil {
		return raw, nil
	}
	return t.Format(dateCellLayout), nil
}

func (c *dateConverter) isDateStyle(styleID int) bool {
	if styleID == 0 {
		return false
	}
	if isDate, ok := c.styles[styleID]; ok {
		return isDate
	}

	isDate := false
	if style, err := c.f.GetStyle(styleID); err == nil && style != nil {
		if style.CustomNumFmt != nil {
			isDate = isDateFormatCode(*style.CustomNumFmt)
		} else {
			isDate = isBuiltInDateNumFmt(style.NumFmt)
		}
	}
	c.styles[styleID] = isDate
	return isDate
}

// isBuiltInDateNumFmt は組み込み書式のうち日付を含むものを判定します。
func isBuiltInDateNumFmt(id int) bool {
	switch {
	case id >= 14 && id <= 17, id == 22:
		return true
	case id >= 27 && id <= 36, id >= 50 && id <= 58:
		return true
	default:
		return false
	}
}

// isDateFormatCode はユーザー定義書式に日または年のトークンがあるかを判定します。
// 引用符・角括弧内とエスケープ文字は無視します。
func isDateFormatCode(code string) bool {
	var (
		inQuote   bool
		inBracket bool
	)
	lower := strings.ToLower(code)
	for i := 0; i < len(lower); i++ {
		ch := lower[i]
		switch {
		case inQuote:
			inQuote = ch != '"'
		case inBracket:
			inBracket = ch != ']'
		case ch == '"':
			inQuote = true
		case ch == '[':
			inBracket = true
		case ch == '\\' || ch == '_':
			i++
		case ch == ';':
			return false
		case ch == 'd' || ch == 'y':
			return true
		}
	}
	return false
}
