package handler

import (
	"context"
	"fmt"
	"math"
	"time"

	analyticspb "github.com/ogurasousui/turnover-analytics/internal/adapters/grpc/gen/analytics/v1"
	"github.com/ogurasousui/turnover-analytics/internal/core/analytics"
	"github.com/ogurasousui/turnover-analytics/internal/core/metrics"
	"github.com/ogurasousui/turnover-analytics/internal/core/replacement"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// AnalyticsGrpcHandler は AnalyticsService の gRPC 実装です。
type AnalyticsGrpcHandler struct {
	svc analytics.UseCase
	analyticspb.UnimplementedAnalyticsServiceServer
}

// NewAnalyticsGrpcHandler は AnalyticsGrpcHandler を生成します。
func NewAnalyticsGrpcHandler(svc analytics.UseCase) *AnalyticsGrpcHandler {
	return &AnalyticsGrpcHandler{svc: svc}
}

// ListFilterOptions はフィルタの選択肢を返します。
func (h *AnalyticsGrpcHandler) ListFilterOptions(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	view, err := h.svc.FilterOptions(ctx, stringField(req, "period_basis"))
	if err != nil {
		return nil, toStatusError(err)
	}

	return toStruct(map[string]any{
		"snapshot":        snapshotValue(view.Snapshot),
		"periods":         stringsValue(view.Options.Periods),
		"role_categories": stringsValue(view.Options.RoleCategories),
		"care_lines":      stringsValue(view.Options.CareLines),
		"statuses":        stringsValue(view.Options.Statuses),
	})
}

// GetHeadcount は人数・離職数・クロス集計を返します。
func (h *AnalyticsGrpcHandler) GetHeadcount(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	view, err := h.svc.Headcount(ctx, toQuery(req))
	if err != nil {
		return nil, toStatusError(err)
	}

	r := view.Result
	return toStruct(map[string]any{
		"snapshot":         snapshotValue(view.Snapshot),
		"total":            r.Total,
		"terminated":       r.Terminated,
		"active":           r.Active,
		"termination_rate": r.TerminationRate,
		"early_within_45":  r.EarlyWithin45,
		"early_within_90":  r.EarlyWithin90,
		"by_role":          groupsValue(r.ByRole),
		"by_care_line":     groupsValue(r.ByCareLine),
		"by_period":        groupsValue(r.ByPeriod),
		"crosstab":         crossTabValue(r.CrossTab),
	})
}

// GetTerminationReasons は離職理由の内訳を返します。
func (h *AnalyticsGrpcHandler) GetTerminationReasons(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	top, err := intField(req, "top", maxTopReasons)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	view, err := h.svc.TerminationReasons(ctx, toQuery(req), top)
	if err != nil {
		return nil, toStatusError(err)
	}

	r := view.Result
	return toStruct(map[string]any{
		"snapshot":         snapshotValue(view.Snapshot),
		"total":            r.Total,
		"overall":          reasonsValue(r.Overall),
		"urgent_care":      reasonsValue(r.UrgentCare),
		"primary_care":     reasonsValue(r.PrimaryCare),
		"other_lines":      careLineReasonsValue(r.OtherLines),
		"top":              reasonsValue(r.Top),
		"top_by_care_line": careLineReasonsValue(r.TopByCareLine),
	})
}

// GetTimeMetrics は所要日数の集計を返します。
func (h *AnalyticsGrpcHandler) GetTimeMetrics(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	view, err := h.svc.TimeMetrics(ctx, toQuery(req))
	if err != nil {
		return nil, toStatusError(err)
	}

	r := view.Result
	return toStruct(map[string]any{
		"snapshot":       snapshotValue(view.Snapshot),
		"overall":        timeStatsValue(r.Overall),
		"by_care_line":   timeStatsListValue(r.ByCareLine),
		"by_role":        timeStatsListValue(r.ByRole),
		"by_period":      timeStatsListValue(r.ByPeriod),
		"tenure_buckets": groupsValue(r.TenureBuckets),
	})
}

// FindReplacements は期間内の退職に対する後任と補充率を返します。
func (h *AnalyticsGrpcHandler) FindReplacements(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	view, err := h.svc.Replacements(ctx, analytics.Window{
		Start: stringField(req, "start"),
		End:   stringField(req, "end"),
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	s := view.Summary
	return toStruct(map[string]any{
		"snapshot":              snapshotValue(view.Snapshot),
		"start":                 dateValue(view.Start),
		"end":                   dateValue(view.End),
		"pairs":                 pairsValue(s.Pairs),
		"eligible_terminations": s.EligibleTerminations,
		"replaced":              s.Replaced,
		"rate":                  s.Rate,
		"avg_days_to_replace":   s.AvgDaysToReplace,
	})
}

// ListTitles は職名一覧と分類の進捗を返します。
func (h *AnalyticsGrpcHandler) ListTitles(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	view, err := h.svc.TitleCatalog(ctx)
	if err != nil {
		return nil, toStatusError(err)
	}

	c := view.Catalog
	titles := make([]any, 0, len(c.Titles))
	for _, t := range c.Titles {
		titles = append(titles, map[string]any{
			"title":      t.Title,
			"category":   string(t.Category),
			"headcount":  t.Headcount,
			"classified": t.Classified,
		})
	}

	return toStruct(map[string]any{
		"snapshot":    snapshotValue(view.Snapshot),
		"titles":      titles,
		"total":       c.Total,
		"classified":  c.Classified,
		"percent":     c.Percent,
		"by_category": groupsValue(c.ByCategory),
	})
}

// ReloadSnapshot は永続層の最新スナップショットを読み直します。
func (h *AnalyticsGrpcHandler) ReloadSnapshot(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	info, err := h.svc.ReloadSnapshot(ctx)
	if err != nil {
		return nil, toStatusError(err)
	}

	return toStruct(map[string]any{"snapshot": snapshotValue(*info)})
}

func toQuery(req *structpb.Struct) analytics.Query {
	return analytics.Query{
		Periods:        stringList(req, "periods"),
		RoleCategories: stringList(req, "role_categories"),
		CareLines:      stringList(req, "care_lines"),
		Statuses:       stringList(req, "statuses"),
		PeriodBasis:    stringField(req, "period_basis"),
	}
}

func stringField(req *structpb.Struct, key string) string {
	v, ok := req.GetFields()[key]
	if !ok {
		return ""
	}
	return v.GetStringValue()
}

func stringList(req *structpb.Struct, key string) []string {
	v, ok := req.GetFields()[key]
	if !ok {
		return nil
	}
	if s, isString := v.GetKind().(*structpb.Value_StringValue); isString {
		return []string{s.StringValue}
	}
	values := v.GetListValue().GetValues()
	out := make([]string, 0, len(values))
	for _, item := range values {
		if s := item.GetStringValue(); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// maxTopReasons は離職理由の上位件数として受け付ける上限です。
const maxTopReasons = 1000

// intField は 0 以上 limit 以下の整数フィールドを読み取ります。未指定の場合は 0 です。
func intField(req *structpb.Struct, key string, limit int) (int, error) {
	v, ok := req.GetFields()[key]
	if !ok {
		return 0, nil
	}
	n, isNumber := v.GetKind().(*structpb.Value_NumberValue)
	if !isNumber || n.NumberValue != math.Trunc(n.NumberValue) {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	if n.NumberValue < 0 || n.NumberValue > float64(limit) {
		return 0, fmt.Errorf("%s must be between 0 and %d", key, limit)
	}
	return int(n.NumberValue), nil
}

func toStruct(m map[string]any) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

func snapshotValue(info analytics.SnapshotInfo) map[string]any {
	return map[string]any{
		"id":         info.ID,
		"source":     info.Source,
		"created_at": info.CreatedAt.UTC().Format(time.RFC3339),
		"records":    info.Records,
		"skipped":    info.Diagnostics.Skipped,
		"empty_rows": info.Diagnostics.EmptyRows,
	}
}

func dateValue(t time.Time) string {
	return t.Format(time.DateOnly)
}

func stringsValue(values []string) []any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		out = append(out, v)
	}
	return out
}

func groupsValue(groups []metrics.GroupCount) []any {
	out := make([]any, 0, len(groups))
	for _, g := range groups {
		out = append(out, map[string]any{
			"key":        g.Key,
			"total":      g.Total,
			"terminated": g.Terminated,
		})
	}
	return out
}

func crossTabValue(ct metrics.CrossTab) map[string]any {
	cells := make([]any, 0, len(ct.Cells))
	for _, row := range ct.Cells {
		values := make([]any, 0, len(row))
		for _, n := range row {
			values = append(values, n)
		}
		cells = append(cells, values)
	}
	return map[string]any{
		"rows":    stringsValue(ct.Rows),
		"columns": stringsValue(ct.Columns),
		"cells":   cells,
	}
}

func reasonsValue(reasons []metrics.ReasonCount) []any {
	out := make([]any, 0, len(reasons))
	for _, r := range reasons {
		out = append(out, map[string]any{
			"reason": r.Reason,
			"count":  r.Count,
			"share":  r.Share,
		})
	}
	return out
}

func careLineReasonsValue(lines []metrics.CareLineReasons) []any {
	out := make([]any, 0, len(lines))
	for _, l := range lines {
		out = append(out, map[string]any{
			"care_line": l.CareLine,
			"total":     l.Total,
			"reasons":   reasonsValue(l.Reasons),
		})
	}
	return out
}

func averageValue(a metrics.Average) map[string]any {
	return map[string]any{
		"count":   a.Count,
		"samples": a.Samples,
		"mean":    a.Mean,
	}
}

func timeStatsValue(s metrics.TimeStats) map[string]any {
	return map[string]any{
		"key":       s.Key,
		"count":     s.Count,
		"selection": averageValue(s.Selection),
		"admission": averageValue(s.Admission),
		"total":     averageValue(s.Total),
		"tenure":    averageValue(s.Tenure),
	}
}

func timeStatsListValue(stats []metrics.TimeStats) []any {
	out := make([]any, 0, len(stats))
	for _, s := range stats {
		out = append(out, timeStatsValue(s))
	}
	return out
}

func pairsValue(pairs []replacement.Pair) []any {
	out := make([]any, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, map[string]any{
			"departing_id":    p.Departing.PersonID,
			"departing_name":  p.Departing.PersonName,
			"arriving_id":     p.Arriving.PersonID,
			"arriving_name":   p.Arriving.PersonName,
			"role_title":      p.RoleTitle,
			"cost_center":     p.CostCenter,
			"shift_id":        p.ShiftID,
			"terminated_at":   dateValue(p.TerminatedAt),
			"hired_at":        dateValue(p.HiredAt),
			"days_to_replace": p.DaysToReplace,
		})
	}
	return out
}
