package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/acervo-api/internal/dto"
	"github.com/noah-isme/acervo-api/internal/models"
	"github.com/noah-isme/acervo-api/internal/repository"
	appErrors "github.com/noah-isme/acervo-api/pkg/errors"
	"github.com/noah-isme/acervo-api/pkg/logger"
)

type materialRepository interface {
	Create(ctx context.Context, material *models.Material) error
	FindByID(ctx context.Context, id string) (*models.Material, error)
	List(ctx context.Context, query models.MaterialQuery) ([]models.Material, int, error)
	Update(ctx context.Context, material *models.Material) error
	Delete(ctx context.Context, id string) error
	ExistsByISBN(ctx context.Context, isbn, excludeID string) (bool, error)
	ExistsByDOI(ctx context.Context, doi, excludeID string) (bool, error)
}

type authorResolver interface {
	Get(ctx context.Context, id string) (*models.Author, error)
}

type bookLookup interface {
	Lookup(ctx context.Context, isbn string) (*models.BookMetadata, error)
}

// MaterialService runs the catalog workflows: author resolution, uniqueness,
// book enrichment, ownership and search.
type MaterialService struct {
	repo      materialRepository
	authors   authorResolver
	lookup    bookLookup
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMaterialService constructs a MaterialService. A nil lookup disables enrichment.
func NewMaterialService(repo materialRepository, authors authorResolver, lookup bookLookup, validate *validator.Validate, logger *zap.Logger) *MaterialService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = dto.NewValidator()
	}
	return &MaterialService{repo: repo, authors: authors, lookup: lookup, validator: validate, logger: logger}
}

// CreateBook registers a book, completing a missing title or page count from the ISBN lookup.
func (s *MaterialService) CreateBook(ctx context.Context, req dto.CreateBookRequest, creator *models.User) (*models.Material, error) {
	if err := dto.Validate(s.validator, req); err != nil {
		return nil, err
	}
	if creator == nil {
		return nil, appErrors.ErrUnauthorized
	}
	author, err := s.resolveAuthor(ctx, req.AuthorID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUnique(ctx, "isbn", req.ISBN, ""); err != nil {
		return nil, err
	}

	title := trimmed(req.Title)
	pages := req.PageCount
	if title == nil || pages == nil {
		title, pages = s.enrich(ctx, req.ISBN, title, pages)
	}
	if title == nil || pages == nil {
		return nil, appErrors.Clone(appErrors.ErrBadRequest, "titulo and numero_paginas are required when the isbn lookup cannot provide them")
	}

	isbn := req.ISBN
	material := &models.Material{
		Kind:        models.MaterialBook,
		Title:       *title,
		Description: req.Description,
		Status:      req.Status,
		ISBN:        &isbn,
		PageCount:   pages,
	}
	return s.persist(ctx, material, author, creator)
}

// CreateArticle registers an article.
func (s *MaterialService) CreateArticle(ctx context.Context, req dto.CreateArticleRequest, creator *models.User) (*models.Material, error) {
	if err := dto.Validate(s.validator, req); err != nil {
		return nil, err
	}
	if creator == nil {
		return nil, appErrors.ErrUnauthorized
	}
	author, err := s.resolveAuthor(ctx, req.AuthorID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUnique(ctx, "doi", req.DOI, ""); err != nil {
		return nil, err
	}
	doi := req.DOI
	material := &models.Material{
		Kind:        models.MaterialArticle,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Status:      req.Status,
		DOI:         &doi,
	}
	return s.persist(ctx, material, author, creator)
}

// CreateVideo registers a video.
func (s *MaterialService) CreateVideo(ctx context.Context, req dto.CreateVideoRequest, creator *models.User) (*models.Material, error) {
	if err := dto.Validate(s.validator, req); err != nil {
		return nil, err
	}
	if creator == nil {
		return nil, appErrors.ErrUnauthorized
	}
	author, err := s.resolveAuthor(ctx, req.AuthorID)
	if err != nil {
		return nil, err
	}
	duration := req.DurationMinutes
	material := &models.Material{
		Kind:            models.MaterialVideo,
		Title:           strings.TrimSpace(req.Title),
		Description:     req.Description,
		Status:          req.Status,
		DurationMinutes: &duration,
	}
	return s.persist(ctx, material, author, creator)
}

func (s *MaterialService) persist(ctx context.Context, material *models.Material, author *models.Author, creator *models.User) (*models.Material, error) {
	material.AuthorID = author.ID
	material.CreatorID = creator.ID
	if err := s.repo.Create(ctx, material); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, duplicateConflict(material)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create material")
	}
	material.Author = author
	public := *creator
	public.PasswordHash = ""
	material.Creator = &public
	logger.FromContext(ctx, s.logger).Info("material created",
		zap.String("material_id", material.ID),
		zap.String("kind", string(material.Kind)),
		zap.String("creator_id", creator.ID))
	return material, nil
}

// enrich fills only the missing fields. Lookup failures are logged and ignored.
func (s *MaterialService) enrich(ctx context.Context, isbn string, title *string, pages *int) (*string, *int) {
	if s.lookup == nil {
		return title, pages
	}
	meta, err := s.lookup.Lookup(ctx, isbn)
	if err != nil {
		logger.FromContext(ctx, s.logger).Warn("book lookup failed", zap.String("isbn", isbn), zap.Error(err))
		return title, pages
	}
	if title == nil && strings.TrimSpace(meta.Title) != "" {
		t := strings.TrimSpace(meta.Title)
		if len([]rune(t)) > 100 {
			t = string([]rune(t)[:100])
		}
		title = &t
	}
	if pages == nil && meta.PageCount > 0 {
		p := meta.PageCount
		pages = &p
	}
	return title, pages
}

// List searches the catalog by title, description or author name.
func (s *MaterialService) List(ctx context.Context, term string, page, pageSize int) ([]models.Material, *models.Pagination, error) {
	page, pageSize, err := normalisePage(page, pageSize)
	if err != nil {
		return nil, nil, err
	}
	items, total, err := s.repo.List(ctx, models.MaterialQuery{Term: strings.TrimSpace(term), Page: page, PageSize: pageSize})
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list materials")
	}
	return items, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// Get returns a material with its author and creator.
func (s *MaterialService) Get(ctx context.Context, id string) (*models.Material, error) {
	if !validID(id) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "material not found")
	}
	material, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "material not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load material")
	}
	return material, nil
}

// Update merges a partial update onto a material owned by actor. Enrichment never runs here.
func (s *MaterialService) Update(ctx context.Context, id string, req dto.UpdateMaterialRequest, actor *models.User) (*models.Material, error) {
	if err := dto.Validate(s.validator, req); err != nil {
		return nil, err
	}
	material, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ensureOwner(actor, *material, creatorOf, "only the creator can update this material"); err != nil {
		return nil, err
	}
	if err := checkVariantFields(material.Kind, req); err != nil {
		return nil, err
	}

	if req.ISBN != nil && (material.ISBN == nil || *req.ISBN != *material.ISBN) {
		if err := s.ensureUnique(ctx, "isbn", *req.ISBN, material.ID); err != nil {
			return nil, err
		}
	}
	if req.DOI != nil && (material.DOI == nil || *req.DOI != *material.DOI) {
		if err := s.ensureUnique(ctx, "doi", *req.DOI, material.ID); err != nil {
			return nil, err
		}
	}
	if req.AuthorID != nil && *req.AuthorID != material.AuthorID {
		author, err := s.resolveAuthor(ctx, *req.AuthorID)
		if err != nil {
			return nil, err
		}
		material.AuthorID = author.ID
		material.Author = author
	}

	mergeMaterial(material, req)

	if err := s.repo.Update(ctx, material); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, duplicateConflict(material)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update material")
	}
	return s.Get(ctx, id)
}

// Delete hard deletes a material owned by actor.
func (s *MaterialService) Delete(ctx context.Context, id string, actor *models.User) error {
	material, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := ensureOwner(actor, *material, creatorOf, "only the creator can delete this material"); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "material not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete material")
	}
	return nil
}

// resolveAuthor maps every failure to BadRequest; the caller referenced the author.
func (s *MaterialService) resolveAuthor(ctx context.Context, id string) (*models.Author, error) {
	author, err := s.authors.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, appErrors.ErrNotFound) {
			logger.FromContext(ctx, s.logger).Warn("author resolution failed", zap.String("author_id", id), zap.Error(err))
		}
		return nil, appErrors.Clone(appErrors.ErrBadRequest, fmt.Sprintf("author %s does not exist", id))
	}
	return author, nil
}

func (s *MaterialService) ensureUnique(ctx context.Context, field, value, excludeID string) error {
	var (
		exists bool
		err    error
	)
	switch field {
	case "isbn":
		exists, err = s.repo.ExistsByISBN(ctx, value, excludeID)
	case "doi":
		exists, err = s.repo.ExistsByDOI(ctx, value, excludeID)
	}
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check "+field+" uniqueness")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("a material with %s %s already exists", field, value))
	}
	return nil
}

func checkVariantFields(kind models.MaterialKind, req dto.UpdateMaterialRequest) error {
	foreign := map[string]bool{
		"isbn":            req.ISBN != nil && kind != models.MaterialBook,
		"numero_paginas":  req.PageCount != nil && kind != models.MaterialBook,
		"doi":             req.DOI != nil && kind != models.MaterialArticle,
		"duracao_minutos": req.DurationMinutes != nil && kind != models.MaterialVideo,
	}
	var details []dto.FieldError
	for _, field := range []string{"isbn", "numero_paginas", "doi", "duracao_minutos"} {
		if foreign[field] {
			details = append(details, dto.FieldError{
				Field:   field,
				Rule:    "kind",
				Message: fmt.Sprintf("%s does not apply to %s", field, kind),
			})
		}
	}
	if len(details) == 0 {
		return nil
	}
	return appErrors.WithDetails(appErrors.Clone(appErrors.ErrValidation, "invalid payload"), details)
}

func mergeMaterial(material *models.Material, req dto.UpdateMaterialRequest) {
	if t := trimmed(req.Title); t != nil {
		material.Title = *t
	}
	if req.Description != nil {
		material.Description = req.Description
	}
	if req.Status != nil {
		material.Status = *req.Status
	}
	if req.ISBN != nil {
		material.ISBN = req.ISBN
	}
	if req.PageCount != nil {
		material.PageCount = req.PageCount
	}
	if req.DOI != nil {
		material.DOI = req.DOI
	}
	if req.DurationMinutes != nil {
		material.DurationMinutes = req.DurationMinutes
	}
}

func duplicateConflict(material *models.Material) error {
	switch material.Kind {
	case models.MaterialBook:
		return appErrors.Clone(appErrors.ErrConflict, "a material with this isbn already exists")
	case models.MaterialArticle:
		return appErrors.Clone(appErrors.ErrConflict, "a material with this doi already exists")
	}
	return appErrors.Clone(appErrors.ErrConflict, "material already exists")
}

func creatorOf(m models.Material) string { return m.CreatorID }

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
