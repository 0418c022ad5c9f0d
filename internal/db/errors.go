package db

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// IsUniqueViolation reports whether err came from a unique index rejecting a
// write. GORM translates most driver errors into gorm.ErrDuplicatedKey, the
// remaining checks cover raw driver errors that slip through untranslated.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return true
	}

	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

// normalizeWriteError folds raw driver unique violations into
// gorm.ErrDuplicatedKey so callers only need one errors.Is check.
func normalizeWriteError(err error) error {
	if err == nil || errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}
	if IsUniqueViolation(err) {
		return fmt.Errorf("%w: %v", gorm.ErrDuplicatedKey, err)
	}
	return err
}
