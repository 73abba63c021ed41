package handler

import (
	"errors"

	"github.com/ogurasousui/turnover-analytics/internal/core/analytics"
	"github.com/ogurasousui/turnover-analytics/internal/core/replacement"
	"github.com/ogurasousui/turnover-analytics/internal/core/roster"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func toStatusError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, analytics.ErrInvalidFilter),
		errors.Is(err, replacement.ErrInvalidRange),
		errors.Is(err, roster.ErrSchema),
		errors.Is(err, roster.ErrEmptyTable):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, roster.ErrNoSnapshot):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, roster.ErrSnapshotNotFound):
		return status.Error(codes.NotFound, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
