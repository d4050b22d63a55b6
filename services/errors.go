package services

import (
	"errors"
	"strings"

	"recipe-blog-cms/models"

	"gorm.io/gorm"
)

// storeError maps a repository error to the application taxonomy. A missing
// row becomes NotFound for resource, anything else a backend error.
func storeError(err error, resource, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ErrorNotFound{Resource: resource}
	}
	return models.NewBackendError(message, err)
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}

// NormalizeEmail trims and lowercases an address before any lookup or write.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
