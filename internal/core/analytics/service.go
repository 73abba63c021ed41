package analytics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ogurasousui/turnover-analytics/internal/core/metrics"
	"github.com/ogurasousui/turnover-analytics/internal/core/replacement"
	"github.com/ogurasousui/turnover-analytics/internal/core/roster"
)

// SnapshotSource は公開中の名簿スナップショットを提供します。roster.Service が実装します。
type SnapshotSource interface {
	Current() (*roster.Batch, error)
	Reload(ctx context.Context) (*roster.Batch, error)
}

// UseCase は集計クエリの公開インターフェースです。
type UseCase interface {
	FilterOptions(ctx context.Context, periodBasis string) (*OptionsView, error)
	Headcount(ctx context.Context, q Query) (*HeadcountView, error)
	TerminationReasons(ctx context.Context, q Query, topN int) (*ReasonsView, error)
	TimeMetrics(ctx context.Context, q Query) (*TimeView, error)
	Replacements(ctx context.Context, w Window) (*ReplacementView, error)
	TitleCatalog(ctx context.Context) (*CatalogView, error)
	ReloadSnapshot(ctx context.Context) (*SnapshotInfo, error)
}

// Query は画面側から受け取る絞り込み条件です。
type Query struct {
	Periods        []string
	RoleCategories []string
	CareLines      []string
	Statuses       []string
	PeriodBasis    string
}

// Window は後任照合の退職日期間です。空の端は無制限として扱います。
type Window struct {
	Start string
	End   string
}

// SnapshotInfo は結果を計算したスナップショットの識別情報です。
type SnapshotInfo struct {
	ID          string
	Source      string
	CreatedAt   time.Time
	Records     int
	Diagnostics roster.Diagnostics
}

// OptionsView はフィルタの選択肢です。
type OptionsView struct {
	Snapshot SnapshotInfo
	Options  metrics.Options
}

// HeadcountView は人数集計です。
type HeadcountView struct {
	Snapshot SnapshotInfo
	Result   metrics.HeadcountResult
}

// ReasonsView は離職理由の内訳です。
type ReasonsView struct {
	Snapshot SnapshotInfo
	Result   metrics.ReasonsResult
}

// TimeView は所要日数の集計です。
type TimeView struct {
	Snapshot SnapshotInfo
	Result   metrics.TimeResult
}

// ReplacementView は後任照合の結果です。
type ReplacementView struct {
	Snapshot SnapshotInfo
	Start    time.Time
	End      time.Time
	Summary  replacement.Summary
}

// CatalogView は職名一覧と分類の進捗です。
type CatalogView struct {
	Snapshot SnapshotInfo
	Catalog  metrics.Catalog
}

var (
	openStart = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)
	openEnd   = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)
)

// Service は 1 回の呼び出しの間、同じスナップショットだけを参照して集計します。
type Service struct {
	source SnapshotSource
}

// NewService は Service を生成します。
func NewService(source SnapshotSource) *Service {
	return &Service{source: source}
}

// FilterOptions は期間基準に応じた選択肢を返します。
func (s *Service) FilterOptions(_ context.Context, periodBasis string) (*OptionsView, error) {
	basis, err := parseBasis(periodBasis)
	if err != nil {
		return nil, err
	}
	batch, err := s.source.Current()
	if err != nil {
		return nil, err
	}
	return &OptionsView{
		Snapshot: infoOf(batch),
		Options:  metrics.FilterOptions(batch.Records(), basis),
	}, nil
}

// Headcount は人数と離職の集計を返します。
func (s *Service) Headcount(_ context.Context, q Query) (*HeadcountView, error) {
	batch, filter, err := s.prepare(q)
	if err != nil {
		return nil, err
	}
	return &HeadcountView{
		Snapshot: infoOf(batch),
		Result:   metrics.Headcount(batch.Records(), filter),
	}, nil
}

// TerminationReasons は離職理由の内訳を返します。
func (s *Service) TerminationReasons(_ context.Context, q Query, topN int) (*ReasonsView, error) {
	if topN < 0 {
		return nil, fmt.Errorf("%w: top must not be negative", ErrInvalidFilter)
	}
	batch, filter, err := s.prepare(q)
	if err != nil {
		return nil, err
	}
	return &ReasonsView{
		Snapshot: infoOf(batch),
		Result:   metrics.TerminationReasons(batch.Records(), filter, topN),
	}, nil
}

// TimeMetrics は所要日数の集計を返します。
func (s *Service) TimeMetrics(_ context.Context, q Query) (*TimeView, error) {
	batch, filter, err := s.prepare(q)
	if err != nil {
		return nil, err
	}
	return &TimeView{
		Snapshot: infoOf(batch),
		Result:   metrics.TimeMetrics(batch.Records(), filter),
	}, nil
}

// Replacements は期間内の退職に対する後任照合の結果と補充率を返します。
func (s *Service) Replacements(_ context.Context, w Window) (*ReplacementView, error) {
	start, err := parseBound(w.Start, openStart)
	if err != nil {
		return nil, err
	}
	end, err := parseBound(w.End, openEnd)
	if err != nil {
		return nil, err
	}

	batch, err := s.source.Current()
	if err != nil {
		return nil, err
	}

	summary, err := replacement.Summarize(batch.Records(), start, end)
	if err != nil {
		return nil, err
	}
	return &ReplacementView{
		Snapshot: infoOf(batch),
		Start:    start,
		End:      end,
		Summary:  summary,
	}, nil
}

// TitleCatalog は職名一覧と分類の進捗を返します。
func (s *Service) TitleCatalog(_ context.Context) (*CatalogView, error) {
	batch, err := s.source.Current()
	if err != nil {
		return nil, err
	}
	return &CatalogView{
		Snapshot: infoOf(batch),
		Catalog:  metrics.TitleCatalog(batch.Records()),
	}, nil
}

// ReloadSnapshot は永続層の最新スナップショットを読み直して公開します。
func (s *Service) ReloadSnapshot(ctx context.Context) (*SnapshotInfo, error) {
	batch, err := s.source.Reload(ctx)
	if err != nil {
		return nil, err
	}
	info := infoOf(batch)
	return &info, nil
}

func (s *Service) prepare(q Query) (*roster.Batch, metrics.Filter, error) {
	basis, err := parseBasis(q.PeriodBasis)
	if err != nil {
		return nil, metrics.Filter{}, err
	}
	batch, err := s.source.Current()
	if err != nil {
		return nil, metrics.Filter{}, err
	}
	return batch, metrics.Filter{
		Periods:        q.Periods,
		RoleCategories: q.RoleCategories,
		CareLines:      q.CareLines,
		Statuses:       q.Statuses,
		PeriodBasis:    basis,
	}, nil
}

func parseBasis(raw string) (metrics.PeriodBasis, error) {
	basis, err := metrics.ParsePeriodBasis(raw)
	if err != nil {
		return "", fmt.Errorf("%w: period basis %q", ErrInvalidFilter, raw)
	}
	return basis, nil
}

func parseBound(raw string, fallback time.Time) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return fallback, nil
	}
	t, ok := roster.ParseDate(raw)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: date %q", ErrInvalidFilter, raw)
	}
	return t, nil
}

func infoOf(batch *roster.Batch) SnapshotInfo {
	return SnapshotInfo{
		ID:          batch.ID,
		Source:      batch.Source,
		CreatedAt:   batch.CreatedAt,
		Records:     batch.Len(),
		Diagnostics: batch.Diagnostics,
	}
}
