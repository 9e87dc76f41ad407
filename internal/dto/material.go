package dto

import "github.com/noah-isme/acervo-api/internal/models"

// CreateBookRequest registers a book. Title and page count may be omitted and
// completed from the ISBN lookup.
type CreateBookRequest struct {
	Title       *string               `json:"titulo" validate:"omitempty,notblank,min=3,max=100"`
	Description *string               `json:"descricao" validate:"omitempty,max=1000"`
	Status      models.MaterialStatus `json:"status" validate:"omitempty,oneof=RASCUNHO PUBLICADO ARQUIVADO"`
	AuthorID    string                `json:"id_autor" validate:"required"`
	ISBN        string                `json:"isbn" validate:"required,len=13"`
	PageCount   *int                  `json:"numero_paginas" validate:"omitempty,min=1"`
}

// CreateArticleRequest registers an article.
type CreateArticleRequest struct {
	Title       string                `json:"titulo" validate:"required,notblank,min=3,max=100"`
	Description *string               `json:"descricao" validate:"omitempty,max=1000"`
	Status      models.MaterialStatus `json:"status" validate:"omitempty,oneof=RASCUNHO PUBLICADO ARQUIVADO"`
	AuthorID    string                `json:"id_autor" validate:"required"`
	DOI         string                `json:"doi" validate:"required,max=255,doi"`
}

// CreateVideoRequest registers a video.
type CreateVideoRequest struct {
	Title           string                `json:"titulo" validate:"required,notblank,min=3,max=100"`
	Description     *string               `json:"descricao" validate:"omitempty,max=1000"`
	Status          models.MaterialStatus `json:"status" validate:"omitempty,oneof=RASCUNHO PUBLICADO ARQUIVADO"`
	AuthorID        string                `json:"id_autor" validate:"required"`
	DurationMinutes int                   `json:"duracao_minutos" validate:"required,min=1"`
}

// UpdateMaterialRequest merges onto an existing material. Variant fields must
// belong to the material's kind.
type UpdateMaterialRequest struct {
	Title           *string                `json:"titulo" validate:"omitempty,notblank,min=3,max=100"`
	Description     *string                `json:"descricao" validate:"omitempty,max=1000"`
	Status          *models.MaterialStatus `json:"status" validate:"omitempty,oneof=RASCUNHO PUBLICADO ARQUIVADO"`
	AuthorID        *string                `json:"id_autor" validate:"omitempty,min=1"`
	ISBN            *string                `json:"isbn" validate:"omitempty,len=13"`
	PageCount       *int                   `json:"numero_paginas" validate:"omitempty,min=1"`
	DOI             *string                `json:"doi" validate:"omitempty,max=255,doi"`
	DurationMinutes *int                   `json:"duracao_minutos" validate:"omitempty,min=1"`
}

// MaterialListQuery carries the catalog listing query string.
type MaterialListQuery struct {
	Term     string `form:"termo"`
	Page     *int   `form:"pagina" validate:"omitempty,min=1"`
	PageSize *int   `form:"limite" validate:"omitempty,min=1,max=100"`
}

// Paging returns the requested page and size, zero for absent values.
func (q MaterialListQuery) Paging() (int, int) {
	var page, pageSize int
	if q.Page != nil {
		page = *q.Page
	}
	if q.PageSize != nil {
		pageSize = *q.PageSize
	}
	return page, pageSize
}

// ExportQuery carries the catalog export query string.
type ExportQuery struct {
	Format string `form:"formato" validate:"required,oneof=csv pdf"`
	Term   string `form:"termo"`
}
