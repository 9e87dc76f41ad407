package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/acervo-api/internal/dto"
	"github.com/noah-isme/acervo-api/internal/models"
	"github.com/noah-isme/acervo-api/internal/repository"
	appErrors "github.com/noah-isme/acervo-api/pkg/errors"
)

const maxPersonNameLength = 80

type authorRepository interface {
	List(ctx context.Context) ([]models.Author, error)
	FindByID(ctx context.Context, id string) (*models.Author, error)
	Create(ctx context.Context, author *models.Author) error
	Update(ctx context.Context, author *models.Author) error
	Delete(ctx context.Context, id string) error
	CountMaterials(ctx context.Context, id string) (int, error)
}

// AuthorService manages person and institution authors.
type AuthorService struct {
	repo      authorRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAuthorService constructs an AuthorService.
func NewAuthorService(repo authorRepository, validate *validator.Validate, logger *zap.Logger) *AuthorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = dto.NewValidator()
	}
	return &AuthorService{repo: repo, validator: validate, logger: logger}
}

// CreatePerson registers a person author.
func (s *AuthorService) CreatePerson(ctx context.Context, req dto.CreatePersonAuthorRequest) (*models.Author, error) {
	if err := dto.Validate(s.validator, req); err != nil {
		return nil, err
	}
	birth, err := time.Parse(dto.DateLayout, req.BirthDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid data_nascimento")
	}
	author := &models.Author{Kind: models.AuthorPerson, Name: strings.TrimSpace(req.Name), BirthDate: &birth}
	return s.create(ctx, author)
}

// CreateInstitution registers an institution author.
func (s *AuthorService) CreateInstitution(ctx context.Context, req dto.CreateInstitutionAuthorRequest) (*models.Author, error) {
	if err := dto.Validate(s.validator, req); err != nil {
		return nil, err
	}
	city := strings.TrimSpace(req.City)
	author := &models.Author{Kind: models.AuthorInstitution, Name: strings.TrimSpace(req.Name), City: &city}
	return s.create(ctx, author)
}

func (s *AuthorService) create(ctx context.Context, author *models.Author) (*models.Author, error) {
	if err := s.repo.Create(ctx, author); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create author")
	}
	return author, nil
}

// List returns every author.
func (s *AuthorService) List(ctx context.Context) ([]models.Author, error) {
	authors, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list authors")
	}
	return authors, nil
}

// Get returns an author by ID.
func (s *AuthorService) Get(ctx context.Context, id string) (*models.Author, error) {
	if !validID(id) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "author not found")
	}
	author, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "author not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load author")
	}
	return author, nil
}

// Update merges the name and the field belonging to the author's own kind.
func (s *AuthorService) Update(ctx context.Context, id string, req dto.UpdateAuthorRequest) (*models.Author, error) {
	if err := dto.Validate(s.validator, req); err != nil {
		return nil, err
	}
	author, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := mergeAuthor(author, req); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, author); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update author")
	}
	return author, nil
}

func mergeAuthor(author *models.Author, req dto.UpdateAuthorRequest) error {
	switch author.Kind {
	case models.AuthorPerson:
		if req.City != nil {
			return variantMismatch("cidade", "a person author")
		}
		if req.Name != nil && utf8.RuneCountInString(*req.Name) > maxPersonNameLength {
			return appErrors.WithDetails(appErrors.Clone(appErrors.ErrValidation, "invalid payload"), []dto.FieldError{{
				Field: "nome", Rule: "max", Message: "nome must have at most 80 characters",
			}})
		}
		if req.BirthDate != nil {
			birth, err := time.Parse(dto.DateLayout, *req.BirthDate)
			if err != nil {
				return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid data_nascimento")
			}
			author.BirthDate = &birth
		}
	case models.AuthorInstitution:
		if req.BirthDate != nil {
			return variantMismatch("data_nascimento", "an institution author")
		}
		if req.City != nil {
			city := strings.TrimSpace(*req.City)
			author.City = &city
		}
	}
	if req.Name != nil {
		author.Name = strings.TrimSpace(*req.Name)
	}
	return nil
}

// Delete removes an author that no material references.
func (s *AuthorService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	count, err := s.repo.CountMaterials(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check author materials")
	}
	if count > 0 {
		return appErrors.Clone(appErrors.ErrConflict, "author is still credited on materials")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return appErrors.Clone(appErrors.ErrNotFound, "author not found")
		case errors.Is(err, repository.ErrReferenced):
			return appErrors.Clone(appErrors.ErrConflict, "author is still credited on materials")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete author")
	}
	return nil
}

func variantMismatch(field, kind string) error {
	return appErrors.WithDetails(appErrors.Clone(appErrors.ErrValidation, field+" does not apply to "+kind), []dto.FieldError{{
		Field: field, Rule: "kind", Message: field + " does not apply to " + kind,
	}})
}
