package replacement

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidRange は期間の終了が開始より前の場合に返却されます。
var ErrInvalidRange = errors.New("replacement: invalid range")

// RangeError は不正な期間を保持します。
type RangeError struct {
	Start time.Time
	End   time.Time
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("replacement: window end %s is before start %s", e.End.Format(time.DateOnly), e.Start.Format(time.DateOnly))
}

func (e *RangeError) Unwrap() error {
	return ErrInvalidRange
}
