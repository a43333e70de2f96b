package usecase

import (
	"errors"

	"tablebook/internal/infra"
	"tablebook/internal/pkg/errs"
)

var (
	ErrStorageTimeout          = errors.New("storage did not respond in time")
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)

// translateRepoErr maps repository error kinds onto usecase sentinels.
// notFound is the sentinel to surface for KindNotFound; timeouts always map
// to ErrStorageTimeout so callers can distinguish "try again" from failure.
func translateRepoErr(err error, notFound error) error {
	switch {
	case infra.IsKind(err, infra.KindNotFound):
		return notFound
	case infra.IsKind(err, infra.KindTimeout):
		return errs.Mark(err, ErrStorageTimeout)
	default:
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
}
