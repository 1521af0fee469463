package persistence

import (
	"errors"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// isDuplicateKey reports whether err is a unique constraint violation.
// The GORM postgres driver surfaces these as gorm.ErrDuplicatedKey when
// error translation is enabled; raw database/sql paths surface pq errors
// with SQLSTATE 23505.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
