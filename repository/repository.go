// Package repository holds the gorm backed stores. Writes accept an optional
// transaction handle; passing nil runs them on the shared connection.
package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
)

func conn(ctx context.Context, db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// likePattern builds a case-insensitive substring pattern for LOWER(col) LIKE ?
func likePattern(term string) string {
	term = strings.ToLower(strings.TrimSpace(term))
	term = strings.NewReplacer("%", "", "_", "").Replace(term)
	return "%" + term + "%"
}
