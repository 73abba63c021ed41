package spreadsheet

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ogurasousui/turnover-analytics/internal/core/roster"
)

var (
	// ErrUnsupportedFormat は拡張子から形式を判別できない場合に返却されます。
	ErrUnsupportedFormat = errors.New("spreadsheet: unsupported file format")
	// ErrSheetNotFound は指定したシートがブックに存在しない場合に返却されます。
	ErrSheetNotFound = errors.New("spreadsheet: sheet not found")
)

// Options は表形式ファイルの読み込み条件です。
type Options struct {
	// HeaderRow は 1 始まりのヘッダー行番号です。0 は 1 行目として扱います。
	HeaderRow int
	// Sheet は XLSX のシート名です。空の場合は先頭のシートを読みます。
	Sheet string
	// Delimiter は CSV の区切り文字です。0 の場合はヘッダー行から推定します。
	Delimiter rune
}

func (o Options) headerIndex() int {
	if o.HeaderRow <= 1 {
		return 0
	}
	return o.HeaderRow - 1
}

// ReadFile は拡張子に応じて CSV または XLSX を読み込み、roster.Table を返します。
func ReadFile(path string, opts Options) (roster.Table, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv", ".txt", ".xlsx", ".xlsm":
	default:
		return roster.Table{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return roster.Table{}, fmt.Errorf("spreadsheet: open %s: %w", path, err)
	}
	defer f.Close()

	if ext == ".xlsx" || ext == ".xlsm" {
		return ReadXLSX(f, opts)
	}
	return ReadCSV(f, opts)
}

// toTable はヘッダー行以降を Table に変換します。ヘッダー行より上の行は捨てます。
func toTable(rows [][]string, opts Options) (roster.Table, error) {
	idx := opts.headerIndex()
	if idx >= len(rows) {
		return roster.Table{}, fmt.Errorf("spreadsheet: header row %d beyond %d rows: %w", idx+1, len(rows), roster.ErrEmptyTable)
	}

	header := make([]string, len(rows[idx]))
	for i, h := range rows[idx] {
		header[i] = strings.TrimSpace(h)
	}

	return roster.Table{
		Header: header,
		Rows:   rows[idx+1:],
	}, nil
}
