package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/acervo-api/internal/models"
	"github.com/noah-isme/acervo-api/pkg/logger"
)

// ErrBookNotFound is returned when the lookup has no record for the ISBN.
var ErrBookNotFound = errors.New("book metadata not found")

const maxLookupBody = 1 << 20

type lookupObserver interface {
	ObserveBookLookup(outcome string, duration time.Duration)
}

// BookMetadataConfig configures the Open Library compatible lookup.
type BookMetadataConfig struct {
	BaseURL string
	Timeout time.Duration
}

// BookMetadataService fetches title and page count for an ISBN.
type BookMetadataService struct {
	baseURL string
	client  *http.Client
	metrics lookupObserver
	logger  *zap.Logger
}

type openLibraryBook struct {
	Title         string `json:"title"`
	NumberOfPages int    `json:"number_of_pages"`
}

// NewBookMetadataService constructs a lookup client with a bounded timeout.
func NewBookMetadataService(cfg BookMetadataConfig, metrics lookupObserver, logger *zap.Logger) *BookMetadataService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &BookMetadataService{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
		metrics: metrics,
		logger:  logger,
	}
}

// Lookup queries {base}/api/books?bibkeys=ISBN:<isbn>&format=json&jscmd=data.
func (s *BookMetadataService) Lookup(ctx context.Context, isbn string) (*models.BookMetadata, error) {
	start := time.Now()
	meta, err := s.lookup(ctx, isbn)
	outcome := "found"
	switch {
	case errors.Is(err, ErrBookNotFound):
		outcome = "not_found"
	case err != nil:
		outcome = "error"
	}
	if s.metrics != nil {
		s.metrics.ObserveBookLookup(outcome, time.Since(start))
	}
	logger.FromContext(ctx, s.logger).Debug("book lookup", zap.String("isbn", isbn), zap.String("outcome", outcome), zap.Duration("duration", time.Since(start)))
	return meta, err
}

func (s *BookMetadataService) lookup(ctx context.Context, isbn string) (*models.BookMetadata, error) {
	key := "ISBN:" + isbn
	params := url.Values{}
	params.Set("bibkeys", key)
	params.Set("format", "json")
	params.Set("jscmd", "data")
	endpoint := s.baseURL + "/api/books?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build book lookup request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("book lookup request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("book lookup: unexpected status %d", resp.StatusCode)
	}

	var payload map[string]openLibraryBook
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxLookupBody)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode book lookup: %w", err)
	}
	book, ok := payload[key]
	if !ok {
		return nil, ErrBookNotFound
	}
	return &models.BookMetadata{Title: book.Title, PageCount: book.NumberOfPages}, nil
}
