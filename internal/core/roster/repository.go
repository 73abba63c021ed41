package roster

import (
	"context"
	"time"
)

// Repository は名簿スナップショット永続化の抽象です。
type Repository interface {
	SaveSnapshot(ctx context.Context, batch *Batch) error
	FindLatestSnapshotID(ctx context.Context) (string, error)
	LoadSnapshot(ctx context.Context, id string) (*StoredSnapshot, error)
}

// StoredSnapshot は永続層から読み出したスナップショットです。派生フィールドは未計算のままです。
type StoredSnapshot struct {
	ID          string
	Source      string
	CreatedAt   time.Time
	Diagnostics Diagnostics
	Records     []Record
}
