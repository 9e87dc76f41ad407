package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/acervo-api/internal/dto"
	"github.com/noah-isme/acervo-api/internal/models"
	"github.com/noah-isme/acervo-api/internal/service"
	"github.com/noah-isme/acervo-api/pkg/response"
)

type materialService interface {
	CreateBook(ctx context.Context, req dto.CreateBookRequest, creator *models.User) (*models.Material, error)
	CreateArticle(ctx context.Context, req dto.CreateArticleRequest, creator *models.User) (*models.Material, error)
	CreateVideo(ctx context.Context, req dto.CreateVideoRequest, creator *models.User) (*models.Material, error)
	List(ctx context.Context, term string, page, pageSize int) ([]models.Material, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.Material, error)
	Update(ctx context.Context, id string, req dto.UpdateMaterialRequest, actor *models.User) (*models.Material, error)
	Delete(ctx context.Context, id string, actor *models.User) error
}

type catalogExporter interface {
	Export(ctx context.Context, format, term string) (*service.ExportFile, error)
}

// MaterialHandler exposes the material catalog endpoints.
type MaterialHandler struct {
	service  materialService
	exporter catalogExporter
}

// NewMaterialHandler constructs a MaterialHandler.
func NewMaterialHandler(svc materialService, exporter catalogExporter) *MaterialHandler {
	return &MaterialHandler{service: svc, exporter: exporter}
}

// List godoc
// @Summary Search materials
// @Description Case-insensitive search over title, description and author name, ordered by title
// @Tags Materials
// @Produce json
// @Security BearerAuth
// @Param termo query string false "Search term"
// @Param pagina query int false "Page number"
// @Param limite query int false "Page size (max 100)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /material [get]
func (h *MaterialHandler) List(c *gin.Context) {
	var query dto.MaterialListQuery
	if err := bindQuery(c, &query); err != nil {
		response.Error(c, err)
		return
	}

	page, pageSize := query.Paging()
	items, pagination, err := h.service.List(c.Request.Context(), query.Term, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, items, pagination)
}

// Export godoc
// @Summary Export materials
// @Description Renders the matching catalog as CSV or PDF
// @Tags Materials
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param formato query string true "csv or pdf"
// @Param termo query string false "Search term"
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Router /material/export [get]
func (h *MaterialHandler) Export(c *gin.Context) {
	var query dto.ExportQuery
	if err := bindQuery(c, &query); err != nil {
		response.Error(c, err)
		return
	}

	file, err := h.exporter.Export(c.Request.Context(), query.Format, query.Term)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.File(c, file.ContentType, file.Filename, file.Body)
}

// CreateBook godoc
// @Summary Create book
// @Description Missing title or page count are filled from the ISBN lookup
// @Tags Materials
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateBookRequest true "Book payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /material/livro [post]
func (h *MaterialHandler) CreateBook(c *gin.Context) {
	creator, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.CreateBookRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	material, err := h.service.CreateBook(c.Request.Context(), req, creator)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, material)
}

// CreateArticle godoc
// @Summary Create article
// @Tags Materials
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateArticleRequest true "Article payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /material/artigo [post]
func (h *MaterialHandler) CreateArticle(c *gin.Context) {
	creator, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.CreateArticleRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	material, err := h.service.CreateArticle(c.Request.Context(), req, creator)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, material)
}

// CreateVideo godoc
// @Summary Create video
// @Tags Materials
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateVideoRequest true "Video payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /material/video [post]
func (h *MaterialHandler) CreateVideo(c *gin.Context) {
	creator, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.CreateVideoRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	material, err := h.service.CreateVideo(c.Request.Context(), req, creator)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, material)
}

// Get godoc
// @Summary Get material
// @Tags Materials
// @Produce json
// @Security BearerAuth
// @Param id path string true "Material ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /material/{id} [get]
func (h *MaterialHandler) Get(c *gin.Context) {
	material, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, material, nil)
}

// Update godoc
// @Summary Update material
// @Description Only the creator may update a material
// @Tags Materials
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Material ID"
// @Param payload body dto.UpdateMaterialRequest true "Update payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /material/{id} [patch]
func (h *MaterialHandler) Update(c *gin.Context) {
	actor, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.UpdateMaterialRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	material, err := h.service.Update(c.Request.Context(), c.Param("id"), req, actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, material, nil)
}

// Delete godoc
// @Summary Delete material
// @Description Only the creator may delete a material
// @Tags Materials
// @Security BearerAuth
// @Param id path string true "Material ID"
// @Success 204
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /material/{id} [delete]
func (h *MaterialHandler) Delete(c *gin.Context) {
	actor, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), c.Param("id"), actor); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
