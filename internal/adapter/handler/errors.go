package handler

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/rl1809/cart-sync/internal/core/domain"
)

func mapErr(err error) error {
	switch {
	case errors.Is(err, domain.ErrCartNotFound),
		errors.Is(err, domain.ErrItemNotFound),
		errors.Is(err, domain.ErrDiscountNotFound),
		errors.Is(err, domain.ErrProductNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrCartExists):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, domain.ErrInvalidItem),
		errors.Is(err, domain.ErrInvalidProduct),
		errors.Is(err, domain.ErrEmptyUsername):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrNegativePrice):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrLockTimeout):
		return status.Error(codes.Aborted, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}

	slog.Error("internal error", "err", err)
	return status.Error(codes.Internal, "internal error")
}
