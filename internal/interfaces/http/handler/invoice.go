package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/selectmedia/invoicing/internal/application/invoicing"
	"github.com/selectmedia/invoicing/internal/domain/invoice"
	"github.com/selectmedia/invoicing/internal/domain/shared"
	"github.com/selectmedia/invoicing/internal/infrastructure/logger"
	"github.com/selectmedia/invoicing/internal/infrastructure/printing"
)

const notFoundMessage = "Invoice data not found or expired. Please create it again."

// InvoiceHandler serves the invoice pages: landing, form, preview and
// PDF download
type InvoiceHandler struct {
	service *invoicing.InvoiceService
	engine  *printing.TemplateEngine
	company invoice.CompanyProfile
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(service *invoicing.InvoiceService, engine *printing.TemplateEngine, company invoice.CompanyProfile) *InvoiceHandler {
	return &InvoiceHandler{
		service: service,
		engine:  engine,
		company: company,
	}
}

// RegisterRoutes registers the invoice routes
func (h *InvoiceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.Home)
	rg.GET("/new-invoice", h.NewInvoiceForm)
	rg.POST("/new-invoice", h.SubmitInvoice)
	rg.GET("/preview/:invoice_no", h.PreviewInvoice)
	rg.GET("/generate-pdf/:invoice_no", h.GeneratePDF)
}

// invoiceFormRequest mirrors the invoice form fields. Numeric inputs stay
// strings here; the assembler owns their parsing and reports per-field
// errors.
type invoiceFormRequest struct {
	InvoiceNo       string `form:"invoice_no" binding:"max=64"`
	InvoiceDate     string `form:"invoice_date" binding:"max=32"`
	SupplyDate      string `form:"supply_date" binding:"max=32"`
	BuyerOrderNo    string `form:"buyer_order_no" binding:"max=64"`
	TransporterName string `form:"transporter_name" binding:"max=128"`
	VehicleNo       string `form:"vehicle_no" binding:"max=32"`
	GRNo            string `form:"gr_no" binding:"max=64"`
	ReferenceNo     string `form:"reference_no" binding:"max=64"`

	ClientName      string `form:"client_name" binding:"max=128"`
	ClientAddress   string `form:"client_address" binding:"max=512"`
	ClientState     string `form:"client_state" binding:"max=64"`
	ClientStateCode string `form:"client_state_code" binding:"max=8"`
	ClientGSTIN     string `form:"client_gstin" binding:"max=32"`

	ShipName      string `form:"ship_name" binding:"max=128"`
	ShipAddress   string `form:"ship_address" binding:"max=512"`
	ShipState     string `form:"ship_state" binding:"max=64"`
	ShipStateCode string `form:"ship_state_code" binding:"max=8"`
	ShipGSTIN     string `form:"ship_gstin" binding:"max=32"`

	Discount string `form:"discount" binding:"max=32"`
	CGSTRate string `form:"cgst_rate" binding:"max=32"`
	SGSTRate string `form:"sgst_rate" binding:"max=32"`
	IGSTRate string `form:"igst_rate" binding:"max=32"`

	ItemDesc []string `form:"item_desc[]"`
	ItemHSN  []string `form:"item_hsn[]"`
	ItemQty  []string `form:"item_qty[]"`
	ItemUOM  []string `form:"item_uom[]"`
	ItemRate []string `form:"item_rate[]"`
}

func (r *invoiceFormRequest) toFormInput() invoice.FormInput {
	return invoice.FormInput{
		InvoiceNo:       r.InvoiceNo,
		InvoiceDate:     r.InvoiceDate,
		SupplyDate:      r.SupplyDate,
		BuyerOrderNo:    r.BuyerOrderNo,
		TransporterName: r.TransporterName,
		VehicleNo:       r.VehicleNo,
		GRNo:            r.GRNo,
		ReferenceNo:     r.ReferenceNo,
		ClientName:      r.ClientName,
		ClientAddress:   r.ClientAddress,
		ClientState:     r.ClientState,
		ClientStateCode: r.ClientStateCode,
		ClientGSTIN:     r.ClientGSTIN,
		ShipName:        r.ShipName,
		ShipAddress:     r.ShipAddress,
		ShipState:       r.ShipState,
		ShipStateCode:   r.ShipStateCode,
		ShipGSTIN:       r.ShipGSTIN,
		Discount:        r.Discount,
		CGSTRate:        r.CGSTRate,
		SGSTRate:        r.SGSTRate,
		IGSTRate:        r.IGSTRate,
		ItemDesc:        r.ItemDesc,
		ItemHSN:         r.ItemHSN,
		ItemQty:         r.ItemQty,
		ItemUOM:         r.ItemUOM,
		ItemRate:        r.ItemRate,
	}
}

// Home serves the landing page
func (h *InvoiceHandler) Home(c *gin.Context) {
	h.renderPage(c, http.StatusOK, "home.html", map[string]any{
		"CompanyName": h.company.Name,
	})
}

// NewInvoiceForm serves the invoice form, prefilled from the store when
// an invoice_no query parameter names a stored record
func (h *InvoiceHandler) NewInvoiceForm(c *gin.Context) {
	formInvoice := emptyFormInvoice()

	if invoiceNo := c.Query("invoice_no"); invoiceNo != "" {
		stored, err := h.service.Load(c.Request.Context(), invoiceNo)
		switch {
		case err == nil:
			formInvoice = stored
		case errors.Is(err, shared.ErrNotFound):
			// Unknown id prefills nothing; the operator starts fresh
		default:
			logger.GetGinLogger(c).Error("failed to load invoice for prefill", zap.Error(err))
			c.String(http.StatusInternalServerError, "Failed to load invoice.")
			return
		}
	}

	h.renderPage(c, http.StatusOK, "new_invoice.html", map[string]any{
		"Invoice": formInvoice,
	})
}

// SubmitInvoice assembles and stores the submitted invoice, then
// redirects to its preview
func (h *InvoiceHandler) SubmitInvoice(c *gin.Context) {
	var req invoiceFormRequest
	if err := c.ShouldBind(&req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			c.String(http.StatusBadRequest, "Invalid form submission: %v", err)
			return
		}
		// Binding-level failures (oversized fields) re-render the form
		// the same way assembler errors do
		h.renderPage(c, http.StatusBadRequest, "new_invoice.html", map[string]any{
			"Invoice": displayInvoice(req.toFormInput()),
			"Errors":  bindingFieldErrors(verrs),
		})
		return
	}

	form := req.toFormInput()
	inv, err := h.service.Create(c.Request.Context(), form)
	if err != nil {
		var verr *invoice.ValidationError
		if errors.As(err, &verr) {
			h.renderPage(c, http.StatusBadRequest, "new_invoice.html", map[string]any{
				"Invoice": displayInvoice(form),
				"Errors":  verr.Fields,
			})
			return
		}
		logger.GetGinLogger(c).Error("failed to create invoice", zap.Error(err))
		c.String(http.StatusInternalServerError, "Failed to create invoice.")
		return
	}

	c.Redirect(http.StatusSeeOther, "/preview/"+inv.InvoiceNo)
}

// PreviewInvoice renders the in-browser preview of a stored invoice
func (h *InvoiceHandler) PreviewInvoice(c *gin.Context) {
	invoiceNo := c.Param("invoice_no")

	html, err := h.service.Preview(c.Request.Context(), invoiceNo)
	if errors.Is(err, shared.ErrNotFound) {
		c.String(http.StatusNotFound, notFoundMessage)
		return
	}
	if err != nil {
		logger.GetGinLogger(c).Error("failed to render preview", zap.Error(err))
		c.String(http.StatusInternalServerError, "Failed to render invoice preview.")
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// GeneratePDF exports the stored invoice as a downloadable PDF
func (h *InvoiceHandler) GeneratePDF(c *gin.Context) {
	invoiceNo := c.Param("invoice_no")

	export, err := h.service.ExportPDF(c.Request.Context(), invoiceNo)
	if errors.Is(err, shared.ErrNotFound) {
		c.String(http.StatusNotFound, notFoundMessage)
		return
	}
	if err != nil {
		logger.GetGinLogger(c).Error("failed to export invoice PDF", zap.Error(err))
		c.String(http.StatusInternalServerError, "Failed to generate PDF.")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+export.Filename+`"`)
	c.Data(http.StatusOK, "application/pdf", export.Data)
}

func (h *InvoiceHandler) renderPage(c *gin.Context, status int, template string, data map[string]any) {
	html, err := h.engine.Render(template, data)
	if err != nil {
		logger.GetGinLogger(c).Error("failed to render page", zap.Error(err))
		c.String(http.StatusInternalServerError, "Failed to render page.")
		return
	}
	c.Data(status, "text/html; charset=utf-8", []byte(html))
}

// bindingFieldErrors maps struct-tag validation failures onto the form's
// field-error shape
func bindingFieldErrors(verrs validator.ValidationErrors) []invoice.FieldError {
	fields := make([]invoice.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		msg := "is invalid"
		if fe.Tag() == "max" {
			msg = "must be at most " + fe.Param() + " characters"
		}
		fields = append(fields, invoice.FieldError{Field: fe.Field(), Message: msg})
	}
	return fields
}

// emptyFormInvoice backs a fresh form: blank scalars plus the fixed
// number of editable item rows
func emptyFormInvoice() *invoice.Invoice {
	return &invoice.Invoice{
		LineItems: make([]invoice.LineItem, invoice.FixedItemRows),
	}
}

// displayInvoice rebuilds a best-effort record from a rejected
// submission so the re-rendered form keeps the operator's text. Numeric
// fields that failed to parse come back blank.
func displayInvoice(form invoice.FormInput) *invoice.Invoice {
	inv := &invoice.Invoice{
		InvoiceNo:       form.InvoiceNo,
		InvoiceDate:     form.InvoiceDate,
		SupplyDate:      form.SupplyDate,
		BuyerOrderNo:    form.BuyerOrderNo,
		TransporterName: form.TransporterName,
		VehicleNo:       form.VehicleNo,
		GRNo:            form.GRNo,
		ReferenceNo:     form.ReferenceNo,
		BilledTo: invoice.Party{
			Name:      form.ClientName,
			Address:   form.ClientAddress,
			State:     form.ClientState,
			StateCode: form.ClientStateCode,
			GSTIN:     form.ClientGSTIN,
		},
		ShippedTo: invoice.Party{
			Name:      form.ShipName,
			Address:   form.ShipAddress,
			State:     form.ShipState,
			StateCode: form.ShipStateCode,
			GSTIN:     form.ShipGSTIN,
		},
		LineItems: make([]invoice.LineItem, invoice.FixedItemRows),
	}
	for i := 0; i < invoice.FixedItemRows && i < len(form.ItemDesc); i++ {
		inv.LineItems[i].Description = form.ItemDesc[i]
		if i < len(form.ItemHSN) {
			inv.LineItems[i].HSN = form.ItemHSN[i]
		}
		if i < len(form.ItemUOM) {
			inv.LineItems[i].UOM = form.ItemUOM[i]
		}
	}
	return inv
}
