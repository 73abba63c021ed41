package classify

import "errors"

// ErrUnknownCategory は補正ファイルに未定義のカテゴリが含まれる場合に返却されます。
var ErrUnknownCategory = errors.New("classify: unknown category")
