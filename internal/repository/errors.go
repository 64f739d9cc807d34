// Package repository implements the domain repositories on top of GORM and
// a storage.Bucket. Every exported method returns a domain.Result; store
// errors are translated here and never leave the package.
package repository

import (
	"errors"
	"fmt"

	"github.com/lensfolio/internal/domain"
	"github.com/lensfolio/internal/result"
	"gorm.io/gorm"
)

// run executes fn and folds its outcome into a domain.Result. fn reports
// failures as *domain.Error; anything else (including panics) becomes a
// database error.
func run[T any](fn func() (T, error)) domain.Result[T] {
	return result.TryCatch(fn, asDomainError)
}

func asDomainError(err error) *domain.Error {
	var de *domain.Error
	if errors.As(err, &de) && de != nil {
		return de
	}
	return domain.NewDatabaseError("unexpected store failure", err)
}

// translate maps a GORM error for entity/id into the domain taxonomy.
func translate(err error, entity, id, action string) *domain.Error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.NewNotFoundError(entity, id)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.NewConflictError(fmt.Sprintf("%s: duplicate %s", action, entity), "")
	default:
		return domain.NewDatabaseError(action, err)
	}
}
