package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/acervo-api/internal/dto"
	"github.com/noah-isme/acervo-api/internal/models"
	"github.com/noah-isme/acervo-api/pkg/response"
)

type authorService interface {
	CreatePerson(ctx context.Context, req dto.CreatePersonAuthorRequest) (*models.Author, error)
	CreateInstitution(ctx context.Context, req dto.CreateInstitutionAuthorRequest) (*models.Author, error)
	List(ctx context.Context) ([]models.Author, error)
	Get(ctx context.Context, id string) (*models.Author, error)
	Update(ctx context.Context, id string, req dto.UpdateAuthorRequest) (*models.Author, error)
	Delete(ctx context.Context, id string) error
}

// AuthorHandler exposes author directory endpoints.
type AuthorHandler struct {
	service authorService
}

// NewAuthorHandler constructs an AuthorHandler.
func NewAuthorHandler(svc authorService) *AuthorHandler {
	return &AuthorHandler{service: svc}
}

// List godoc
// @Summary List authors
// @Tags Authors
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /autor [get]
func (h *AuthorHandler) List(c *gin.Context) {
	authors, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, authors, nil)
}

// CreatePerson godoc
// @Summary Create person author
// @Tags Authors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreatePersonAuthorRequest true "Person payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /autor/pessoa [post]
func (h *AuthorHandler) CreatePerson(c *gin.Context) {
	var req dto.CreatePersonAuthorRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	author, err := h.service.CreatePerson(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, author)
}

// CreateInstitution godoc
// @Summary Create institution author
// @Tags Authors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateInstitutionAuthorRequest true "Institution payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /autor/instituicao [post]
func (h *AuthorHandler) CreateInstitution(c *gin.Context) {
	var req dto.CreateInstitutionAuthorRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	author, err := h.service.CreateInstitution(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, author)
}

// Get godoc
// @Summary Get author
// @Tags Authors
// @Produce json
// @Security BearerAuth
// @Param id path string true "Author ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /autor/{id} [get]
func (h *AuthorHandler) Get(c *gin.Context) {
	author, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, author, nil)
}

// Update godoc
// @Summary Update author
// @Description Merges the name and the field belonging to the author's kind
// @Tags Authors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Author ID"
// @Param payload body dto.UpdateAuthorRequest true "Update payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /autor/{id} [patch]
func (h *AuthorHandler) Update(c *gin.Context) {
	var req dto.UpdateAuthorRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	author, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, author, nil)
}

// Delete godoc
// @Summary Delete author
// @Description Fails with 409 while materials still reference the author
// @Tags Authors
// @Security BearerAuth
// @Param id path string true "Author ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /autor/{id} [delete]
func (h *AuthorHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
