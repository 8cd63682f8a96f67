// internal/services/locking.go
package services

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lockForUpdate adds a row-level write lock to the query so concurrent
// workflows touching the same rows serialize at the storage layer.
// Must run inside a transaction; the lock is held until commit.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
