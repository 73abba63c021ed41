package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/ogurasousui/turnover-analytics/internal/core/roster"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// ReadCSV は CSV を読み込みます。UTF-8 以外は UTF-16 (BOM 付き) か Windows-1252 として復号します。
func ReadCSV(r io.Reader, opts Options) (roster.Table, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return roster.Table{}, fmt.Errorf("spreadsheet: read csv: %w", err)
	}

	data, err := decodeText(raw)
	if err != nil {
		return roster.Table{}, err
	}

	delimiter := opts.Delimiter
	if delimiter == 0 {
		delimiter = detectDelimiter(data, opts.headerIndex())
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return roster.Table{}, fmt.Errorf("spreadsheet: parse csv: %w", err)
		}
		rows = append(rows, rec)
	}

	return toTable(rows, opts)
}

func decodeText(data []byte) ([]byte, error) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return data[len(bomUTF8):], nil
	case bytes.HasPrefix(data, bomUTF16LE), bytes.HasPrefix(data, bomUTF16BE):
		decoded, _, err := transform.Bytes(unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder(), data)
		if err != nil {
			return nil, fmt.Errorf("spreadsheet: decode utf-16: %w", err)
		}
		return decoded, nil
	case utf8.Valid(data):
		return data, nil
	}

	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("spreadsheet: decode windows-1252: %w", err)
	}
	return decoded, nil
}

// detectDelimiter はヘッダー行でセミコロンがカンマより多ければセミコロンを選びます。
func detectDelimiter(data []byte, headerIndex int) rune {
	lines := bytes.SplitN(data, []byte("\n"), headerIndex+2)
	if headerIndex >= len(lines) {
		return ','
	}
	line := lines[headerIndex]
	if bytes.Count(line, []byte(";")) > bytes.Count(line, []byte(",")) {
		return ';'
	}
	return ','
}
