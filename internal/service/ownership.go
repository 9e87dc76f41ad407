package service

import (
	"github.com/noah-isme/acervo-api/internal/models"
	appErrors "github.com/noah-isme/acervo-api/pkg/errors"
)

// ensureOwner fails with Forbidden unless actor owns resource according to ownerOf.
func ensureOwner[T any](actor *models.User, resource T, ownerOf func(T) string, message string) error {
	if actor == nil {
		return appErrors.ErrUnauthorized
	}
	if ownerOf(resource) != actor.ID {
		return appErrors.Clone(appErrors.ErrForbidden, message)
	}
	return nil
}
