package roster

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// Service は名簿の取り込みと現在のスナップショットの公開を担います。
// 公開中の Batch は atomic に差し替えるため、参照中のクエリは古い Batch を使い続けられます。
type Service struct {
	repo       Repository
	clock      Clock
	tx         TransactionManager
	normalizer *Normalizer
	classifier Classifier
	newID      func() string
	current    atomic.Pointer[Batch]
}

// UseCase は名簿ユースケースの公開インターフェースです。
type UseCase interface {
	Ingest(ctx context.Context, in IngestInput) (*IngestResult, error)
	Reload(ctx context.Context) (*Batch, error)
	Snapshot(ctx context.Context, id string) (*Batch, error)
	Current() (*Batch, error)
}

// NewService は Service を生成します。repo が nil の場合は永続化せずメモリ上でのみ公開します。
func NewService(repo Repository, normalizer *Normalizer, clock Clock, tx TransactionManager) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	if normalizer == nil {
		normalizer = NewNormalizer(ColumnMap{}, nil, 0)
	}
	return &Service{
		repo:       repo,
		clock:      clock,
		tx:         tx,
		normalizer: normalizer,
		classifier: normalizer.classifier,
		newID:      uuid.NewString,
	}
}

// IngestInput は取り込み時の入力です。
type IngestInput struct {
	Table  Table
	Source string
}

// IngestResult は取り込み結果です。
type IngestResult struct {
	Batch    *Batch
	Imported int
	Skipped  int
}

// Ingest は表を正規化して永続化し、現在のスナップショットとして公開します。
func (s *Service) Ingest(ctx context.Context, in IngestInput) (*IngestResult, error) {
	normalized, err := s.normalizer.Normalize(in.Table)
	if err != nil {
		return nil, err
	}

	batch := NewBatch(s.newID(), strings.TrimSpace(in.Source), s.clock.Now(), normalized.records, normalized.Diagnostics)

	if s.repo != nil {
		if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
			return s.repo.SaveSnapshot(txCtx, batch)
		}); err != nil {
			return nil, fmt.Errorf("roster: save snapshot: %w", err)
		}
	}

	s.current.Store(batch)

	return &IngestResult{
		Batch:    batch,
		Imported: batch.Len(),
		Skipped:  batch.Diagnostics.Skipped,
	}, nil
}

// Current は公開中のスナップショットを返します。
func (s *Service) Current() (*Batch, error) {
	batch := s.current.Load()
	if batch == nil {
		return nil, ErrNoSnapshot
	}
	return batch, nil
}

// Reload は永続層の最新スナップショットを読み込み、現在の分類器で派生フィールドを再計算して公開します。
func (s *Service) Reload(ctx context.Context) (*Batch, error) {
	if s.repo == nil {
		return s.Current()
	}

	var batch *Batch
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		id, err := s.repo.FindLatestSnapshotID(txCtx)
		if err != nil {
			return err
		}
		loaded, err := s.load(txCtx, id)
		if err != nil {
			return err
		}
		batch = loaded
		return nil
	}); err != nil {
		return nil, err
	}

	s.current.Store(batch)
	return batch, nil
}

// Snapshot は指定 ID のスナップショットを読み込みます。公開中のスナップショットは変更しません。
func (s *Service) Snapshot(ctx context.Context, id string) (*Batch, error) {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return nil, ErrSnapshotNotFound
	}
	if current := s.current.Load(); current != nil && current.ID == trimmed {
		return current, nil
	}
	if s.repo == nil {
		return nil, ErrSnapshotNotFound
	}

	var batch *Batch
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		loaded, err := s.load(txCtx, trimmed)
		if err != nil {
			return err
		}
		batch = loaded
		return nil
	}); err != nil {
		return nil, err
	}
	return batch, nil
}

func (s *Service) load(ctx context.Context, id string) (*Batch, error) {
	stored, err := s.repo.LoadSnapshot(ctx, id)
	if err != nil {
		return nil, err
	}

	records := make([]Record, len(stored.Records))
	for i, raw := range stored.Records {
		rec := BuildRecord(raw, s.classifier)
		rec.Seq = i
		records[i] = rec
	}

	return NewBatch(stored.ID, stored.Source, stored.CreatedAt, records, stored.Diagnostics), nil
}
