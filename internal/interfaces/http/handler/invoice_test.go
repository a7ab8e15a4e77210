package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/selectmedia/invoicing/internal/application/invoicing"
	"github.com/selectmedia/invoicing/internal/domain/invoice"
	"github.com/selectmedia/invoicing/internal/infrastructure/cache"
	"github.com/selectmedia/invoicing/internal/infrastructure/logger"
	"github.com/selectmedia/invoicing/internal/infrastructure/printing"
	"github.com/selectmedia/invoicing/internal/interfaces/http/middleware"
)

type stubPDFRenderer struct {
	fail bool
}

func (s *stubPDFRenderer) Render(_ context.Context, req *printing.RenderRequest) (*printing.RenderResult, error) {
	if s.fail {
		return nil, &printing.RenderError{Code: printing.ErrCodeRenderFailed, Message: "boom"}
	}
	return &printing.RenderResult{PDFData: []byte("%PDF-1.7 stub")}, nil
}

func (s *stubPDFRenderer) Close() error { return nil }

func newTestRouter(t *testing.T) (*gin.Engine, *cache.InMemoryInvoiceStore) {
	return newTestRouterWith(t, &stubPDFRenderer{}, zap.NewNop())
}

func newTestRouterWith(t *testing.T, renderer printing.PDFRenderer, log *zap.Logger) (*gin.Engine, *cache.InMemoryInvoiceStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine, err := printing.NewTemplateEngine()
	require.NoError(t, err)

	store := cache.NewInMemoryInvoiceStore()
	company := invoice.DefaultCompanyProfile()
	svc := invoicing.NewInvoiceService(store, engine, renderer, company, "", zap.NewNop())
	h := NewInvoiceHandler(svc, engine, company)

	r := gin.New()
	r.Use(middleware.RequestID(), logger.GinMiddleware(log))
	h.RegisterRoutes(r.Group("/"))
	return r, store
}

func validForm() url.Values {
	form := url.Values{}
	form.Set("invoice_no", "INV-42")
	form.Set("invoice_date", "2026-08-30")
	form.Set("client_name", "Hariom Transport")
	form.Set("client_state", "Uttar Pradesh")
	form.Set("cgst_rate", "9")
	form.Set("sgst_rate", "9")
	form.Add("item_desc[]", "Hoarding Display")
	form.Add("item_qty[]", "2")
	form.Add("item_uom[]", "Sq.Ft")
	form.Add("item_rate[]", "500")
	return form
}

func postForm(r *gin.Engine, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/new-invoice", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHome(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Select Media House")
	assert.Contains(t, rec.Body.String(), "/new-invoice")
}

func TestNewInvoiceForm(t *testing.T) {
	t.Run("fresh form", func(t *testing.T) {
		r, _ := newTestRouter(t)

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/new-invoice", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, invoice.FixedItemRows, strings.Count(rec.Body.String(), `name="item_desc[]"`))
	})

	t.Run("prefill from stored invoice", func(t *testing.T) {
		r, _ := newTestRouter(t)
		rec := postForm(r, validForm())
		require.Equal(t, http.StatusSeeOther, rec.Code)

		rec = httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/new-invoice?invoice_no=INV-42", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `value="INV-42"`)
		assert.Contains(t, rec.Body.String(), "Hariom Transport")
	})

	t.Run("unknown invoice falls back to empty form", func(t *testing.T) {
		r, _ := newTestRouter(t)

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/new-invoice?invoice_no=MISSING", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), "MISSING")
	})
}

func TestSubmitInvoice(t *testing.T) {
	t.Run("valid submission redirects to preview", func(t *testing.T) {
		r, store := newTestRouter(t)

		rec := postForm(r, validForm())

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/preview/INV-42", rec.Header().Get("Location"))
		assert.Equal(t, 1, store.Size())
	})

	t.Run("oversized fields re-render the form with errors", func(t *testing.T) {
		r, store := newTestRouter(t)

		form := validForm()
		form.Set("invoice_no", strings.Repeat("X", 80))
		rec := postForm(r, form)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "InvoiceNo: must be at most 64 characters")
		assert.Contains(t, rec.Body.String(), "Hariom Transport")
		assert.Equal(t, 0, store.Size())
	})

	t.Run("malformed numerics re-render the form with errors", func(t *testing.T) {
		r, store := newTestRouter(t)

		form := validForm()
		form.Set("discount", "ten")
		rec := postForm(r, form)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "discount")
		// Operator text survives the round trip
		assert.Contains(t, rec.Body.String(), "Hariom Transport")
		assert.Equal(t, 0, store.Size())
	})
}

func TestPreviewInvoice(t *testing.T) {
	t.Run("renders stored invoice", func(t *testing.T) {
		r, _ := newTestRouter(t)
		require.Equal(t, http.StatusSeeOther, postForm(r, validForm()).Code)

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/preview/INV-42", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "TAX INVOICE")
		assert.Contains(t, rec.Body.String(), "/generate-pdf/INV-42")
	})

	t.Run("missing invoice returns 404", func(t *testing.T) {
		r, _ := newTestRouter(t)

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/preview/NOPE", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "not found or expired")
	})
}

func TestGeneratePDF(t *testing.T) {
	t.Run("downloads the PDF and purges the record", func(t *testing.T) {
		r, store := newTestRouter(t)
		require.Equal(t, http.StatusSeeOther, postForm(r, validForm()).Code)

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/generate-pdf/INV-42", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "INV-42_2026-08-30.pdf")
		assert.Equal(t, "%PDF-1.7 stub", rec.Body.String())
		assert.Equal(t, 0, store.Size())

		// The purged record is gone for a second export
		rec = httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/generate-pdf/INV-42", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("missing invoice returns 404", func(t *testing.T) {
		r, _ := newTestRouter(t)

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/generate-pdf/NOPE", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("renderer failure returns 500 and logs the cause", func(t *testing.T) {
		core, logs := observer.New(zapcore.ErrorLevel)
		r, store := newTestRouterWith(t, &stubPDFRenderer{fail: true}, zap.New(core))
		require.Equal(t, http.StatusSeeOther, postForm(r, validForm()).Code)

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/generate-pdf/INV-42", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, 1, store.Size(), "failed export keeps the record")

		entries := logs.FilterMessage("failed to export invoice PDF").All()
		require.Len(t, entries, 1)
		assert.Contains(t, entries[0].ContextMap(), "error")
	})
}
