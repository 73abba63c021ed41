package analytics

import "errors"

// ErrInvalidFilter は期間基準や日付などの絞り込み条件が解釈できない場合に返却されます。
var ErrInvalidFilter = errors.New("analytics: invalid filter")
