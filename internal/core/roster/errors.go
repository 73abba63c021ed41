package roster

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSchema は必須列が欠けている場合の致命的エラーです。
	ErrSchema = errors.New("roster: schema error")
	// ErrMalformedRecord は行単位の不備を表し、該当行は除外されます。
	ErrMalformedRecord = errors.New("roster: malformed record")
	// ErrNoSnapshot は公開済みのスナップショットが無い場合に返却されます。
	ErrNoSnapshot = errors.New("roster: no snapshot loaded")
	// ErrSnapshotNotFound は指定したスナップショットが永続層に存在しない場合に返却されます。
	ErrSnapshotNotFound = errors.New("roster: snapshot not found")
	// ErrEmptyTable はヘッダー行が無い入力に対して返却されます。
	ErrEmptyTable = errors.New("roster: empty table")
)

// SchemaError は欠落した必須列を保持します。
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("roster: missing required columns: %s", strings.Join(e.Missing, ", "))
}

func (e *SchemaError) Unwrap() error {
	return ErrSchema
}

// MalformedRecordError は除外された行の位置と理由を保持します。Row は 1 始まりのデータ行番号です。
type MalformedRecordError struct {
	Row    int
	Field  string
	Value  string
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("roster: row %d: %s %q: %s", e.Row, e.Field, e.Value, e.Reason)
}

func (e *MalformedRecordError) Unwrap() error {
	return ErrMalformedRecord
}
