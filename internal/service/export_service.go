package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/acervo-api/internal/models"
	"github.com/noah-isme/acervo-api/pkg/export"
	appErrors "github.com/noah-isme/acervo-api/pkg/errors"
	"github.com/noah-isme/acervo-api/pkg/logger"
)

// MaxExportRows caps a single catalog export.
const MaxExportRows = 1000

const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

var exportHeaders = []string{"Título", "Tipo", "Status", "Autor", "ISBN", "Páginas", "DOI", "Duração (min)", "Criado por", "Criado em"}

type materialLister interface {
	List(ctx context.Context, query models.MaterialQuery) ([]models.Material, int, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportFile is a rendered catalog document.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
	Rows        int
	Truncated   bool
}

// ExportService renders catalog searches as CSV or PDF documents.
type ExportService struct {
	materials materialLister
	csv       csvRenderer
	pdf       pdfRenderer
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(materials materialLister, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{materials: materials, csv: csv, pdf: pdf, logger: logger, now: time.Now}
}

// Export renders every material matching term, ordered by title, in the requested format.
func (s *ExportService) Export(ctx context.Context, format, term string) (*ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format != ExportFormatCSV && format != ExportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	items, total, err := s.materials.List(ctx, models.MaterialQuery{Term: strings.TrimSpace(term), Page: 1, PageSize: MaxExportRows})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load materials for export")
	}

	dataset := buildCatalogDataset(items)
	var body []byte
	var contentType string
	switch format {
	case ExportFormatCSV:
		body, err = s.csv.Render(dataset)
		contentType = "text/csv; charset=utf-8"
	case ExportFormatPDF:
		title := "Acervo"
		if term != "" {
			title = fmt.Sprintf("Acervo - busca: %s", strings.TrimSpace(term))
		}
		body, err = s.pdf.Render(dataset, title)
		contentType = "application/pdf"
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	file := &ExportFile{
		Filename:    fmt.Sprintf("acervo_%s.%s", s.now().UTC().Format("20060102_150405"), format),
		ContentType: contentType,
		Body:        body,
		Rows:        len(items),
		Truncated:   total > len(items),
	}
	if file.Truncated {
		logger.FromContext(ctx, s.logger).Warn("catalog export truncated", zap.Int("total", total), zap.Int("rows", len(items)))
	}
	return file, nil
}

func buildCatalogDataset(items []models.Material) export.Dataset {
	rows := make([]map[string]string, 0, len(items))
	for _, m := range items {
		row := map[string]string{
			"Título":        m.Title,
			"Tipo":          string(m.Kind),
			"Status":        string(m.Status),
			"ISBN":          deref(m.ISBN),
			"DOI":           deref(m.DOI),
			"Páginas":       derefInt(m.PageCount),
			"Duração (min)": derefInt(m.DurationMinutes),
			"Criado em":     m.CreatedAt.UTC().Format("2006-01-02"),
		}
		if m.Author != nil {
			row["Autor"] = m.Author.Name
		}
		if m.Creator != nil {
			row["Criado por"] = m.Creator.Email
		}
		rows = append(rows, row)
	}
	return export.Dataset{Headers: exportHeaders, Rows: rows}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(i *int) string {
	if i == nil {
		return ""
	}
	return strconv.Itoa(*i)
}
