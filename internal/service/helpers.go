package service

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/noah-isme/acervo-api/internal/dto"
	appErrors "github.com/noah-isme/acervo-api/pkg/errors"
)

const (
	defaultPage     = 1
	defaultPageSize = 10
	maxPageSize     = 100
)

// validID filters identifiers the UUID primary keys can never match.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// normalisePage fills in defaults for absent (zero) values and rejects anything
// outside 1..maxPageSize.
func normalisePage(page, pageSize int) (int, int, error) {
	var details []dto.FieldError
	if page < 0 {
		details = append(details, dto.FieldError{Field: "pagina", Rule: "min", Message: "pagina must be at least 1"})
	}
	if pageSize < 0 || pageSize > maxPageSize {
		details = append(details, dto.FieldError{Field: "limite", Rule: "max", Message: fmt.Sprintf("limite must be between 1 and %d", maxPageSize)})
	}
	if len(details) > 0 {
		return 0, 0, appErrors.WithDetails(appErrors.Clone(appErrors.ErrValidation, "invalid query"), details)
	}
	if page == 0 {
		page = defaultPage
	}
	if pageSize == 0 {
		pageSize = defaultPageSize
	}
	return page, pageSize, nil
}
