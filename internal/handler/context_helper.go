package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/acervo-api/internal/dto"
	"github.com/noah-isme/acervo-api/internal/middleware"
	"github.com/noah-isme/acervo-api/internal/models"
	appErrors "github.com/noah-isme/acervo-api/pkg/errors"
)

var requestValidator = dto.NewValidator()

func currentUser(c *gin.Context) (*models.User, error) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return nil, appErrors.ErrUnauthorized
	}
	return user, nil
}

// bindJSON decodes the body into target and rejects it before any service sees it.
func bindJSON(c *gin.Context, target interface{}) error {
	if err := c.ShouldBindJSON(target); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload")
	}
	return dto.Validate(requestValidator, target)
}

func bindQuery(c *gin.Context, target interface{}) error {
	if err := c.ShouldBindQuery(target); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters")
	}
	return dto.Validate(requestValidator, target)
}
