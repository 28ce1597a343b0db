// Package repository holds the GORM implementations of the service stores.
package repository

import (
	"errors"

	"gorm.io/gorm"
)

// first runs First on tx and maps a missing row to (nil, nil)
func first[T any](tx *gorm.DB) (*T, error) {
	var dest T
	if err := tx.First(&dest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &dest, nil
}
