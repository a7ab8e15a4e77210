package invoicing

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/selectmedia/invoicing/internal/domain/invoice"
	"github.com/selectmedia/invoicing/internal/infrastructure/assets"
	"github.com/selectmedia/invoicing/internal/infrastructure/printing"
)

const (
	invoiceTemplate = "invoice_pdf.html"
	previewTemplate = "preview.html"
)

// InvoiceService orchestrates the invoice lifecycle: assemble and store
// on submission, render for preview, render and snapshot for export,
// purging the stored record after a successful export.
type InvoiceService struct {
	store       invoice.Store
	engine      *printing.TemplateEngine
	pdfRenderer printing.PDFRenderer
	company     invoice.CompanyProfile
	logoPath    string
	logger      *zap.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	store invoice.Store,
	engine *printing.TemplateEngine,
	pdfRenderer printing.PDFRenderer,
	company invoice.CompanyProfile,
	logoPath string,
	logger *zap.Logger,
) *InvoiceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvoiceService{
		store:       store,
		engine:      engine,
		pdfRenderer: pdfRenderer,
		company:     company,
		logoPath:    logoPath,
		logger:      logger,
	}
}

// Create assembles the submitted form into a resolved invoice and stores
// it under its invoice number, replacing any prior record with that key.
// Malformed numeric fields surface as *invoice.ValidationError.
func (s *InvoiceService) Create(ctx context.Context, form invoice.FormInput) (*invoice.Invoice, error) {
	encodedLogo := assets.EncodeLogo(s.logoPath, s.logger)

	inv, err := invoice.Assemble(form, s.company, encodedLogo)
	if err != nil {
		return nil, err
	}

	if err := s.store.Put(ctx, inv.InvoiceNo, inv); err != nil {
		return nil, fmt.Errorf("failed to store invoice %q: %w", inv.InvoiceNo, err)
	}

	s.logger.Info("invoice stored",
		zap.String("invoice_no", inv.InvoiceNo),
		zap.String("grand_total", inv.GrandTotal.String()))

	return inv, nil
}

// Load fetches a stored invoice for form prefill. Returns
// shared.ErrNotFound when the number is unknown or already purged.
func (s *InvoiceService) Load(ctx context.Context, invoiceNo string) (*invoice.Invoice, error) {
	return s.store.Get(ctx, invoiceNo)
}

// Preview renders the stored invoice wrapped in the preview page. The
// stored record is left untouched so the preview can be repeated.
func (s *InvoiceService) Preview(ctx context.Context, invoiceNo string) (string, error) {
	inv, err := s.store.Get(ctx, invoiceNo)
	if err != nil {
		return "", err
	}

	invoiceHTML, err := s.engine.Render(invoiceTemplate, inv)
	if err != nil {
		return "", err
	}

	return s.engine.Render(previewTemplate, map[string]any{
		"InvoiceNo":   inv.InvoiceNo,
		"InvoiceHTML": invoiceHTML,
	})
}

// ExportPDF renders the stored invoice to PDF via the headless renderer
// and purges the record afterwards, so a repeated export reports not
// found. The purge happens regardless of filename derivation.
func (s *InvoiceService) ExportPDF(ctx context.Context, invoiceNo string) (*PDFExport, error) {
	inv, err := s.store.Get(ctx, invoiceNo)
	if err != nil {
		return nil, err
	}

	invoiceHTML, err := s.engine.Render(invoiceTemplate, inv)
	if err != nil {
		return nil, err
	}

	result, err := s.pdfRenderer.Render(ctx, &printing.RenderRequest{
		HTML:  invoiceHTML,
		Title: "Tax Invoice " + inv.InvoiceNo,
	})
	if err != nil {
		return nil, err
	}

	if err := s.store.Remove(ctx, invoiceNo); err != nil {
		s.logger.Warn("failed to purge exported invoice",
			zap.String("invoice_no", invoiceNo),
			zap.Error(err))
	}

	filename := sanitizeFilename(fmt.Sprintf("%s_%s.pdf", inv.InvoiceNo, inv.InvoiceDate))
	s.logger.Info("invoice exported",
		zap.String("invoice_no", invoiceNo),
		zap.String("filename", filename),
		zap.Int("bytes", len(result.PDFData)))

	return &PDFExport{
		Filename:       filename,
		Data:           result.PDFData,
		RenderDuration: result.RenderDuration,
	}, nil
}

// sanitizeFilename keeps the download filename header-safe: anything
// outside letters, digits, dot, underscore and dash becomes a dash
func sanitizeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '_' || r == '-':
			return r
		default:
			return '-'
		}
	}, name)
}
