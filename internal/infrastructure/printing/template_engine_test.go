package printing

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selectmedia/invoicing/internal/domain/invoice"
)

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":        "0.00",
		"1180":     "1,180.00",
		"1234.5":   "1,234.50",
		"1234567":  "1,234,567.00",
		"-0.6":     "-0.60",
		"-1234.56": "-1,234.56",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatMoney(decimal.RequireFromString(in)), "in=%s", in)
	}
}

func TestFormatOptMoney(t *testing.T) {
	assert.Equal(t, "", formatOptMoney(decimal.NullDecimal{}), "padding rows render blank")
	assert.Equal(t, "500.00", formatOptMoney(decimal.NewNullDecimal(decimal.NewFromInt(500))))
}

func TestFormatQty(t *testing.T) {
	assert.Equal(t, "", formatQty(decimal.NullDecimal{}))
	assert.Equal(t, "2.5", formatQty(decimal.NewNullDecimal(decimal.RequireFromString("2.5"))))
}

func TestTemplateEngine_RenderInvoice(t *testing.T) {
	engine, err := NewTemplateEngine()
	require.NoError(t, err)

	inv, err := invoice.Assemble(invoice.FormInput{
		InvoiceNo:   "SMH/2026/042",
		InvoiceDate: "2026-08-30",
		ClientName:  "Agra Retail Co",
		ClientState: "uttar pradesh",
		ClientGSTIN: "09aagcu1234f1z5",
		CGSTRate:    "9",
		SGSTRate:    "9",
		ItemDesc:    []string{"  Flex Banner  "},
		ItemHSN:     []string{"3921"},
		ItemQty:     []string{"10"},
		ItemUOM:     []string{"Sqft"},
		ItemRate:    []string{"100"},
	}, invoice.DefaultCompanyProfile(), "")
	require.NoError(t, err)

	html, err := engine.Render("invoice_pdf.html", inv)
	require.NoError(t, err)

	assert.Contains(t, html, "SMH/2026/042")
	assert.Contains(t, html, "Agra Retail Co")
	assert.Contains(t, html, "Select Media House")
	assert.Contains(t, html, "1,180.00", "grand total is formatted with separators")
	assert.Contains(t, html, "One Thousand One Hundred Eighty Rupees Only")
	assert.NotContains(t, html, "data:image/png", "no logo tag when the asset is missing")

	// party fields are normalized for the printed document
	assert.Contains(t, html, "State: Uttar Pradesh")
	assert.Contains(t, html, "GSTIN: 09AAGCU1234F1Z5")
	assert.Contains(t, html, "<td>Flex Banner</td>", "description is trimmed")
}

func TestTemplateEngine_RenderForm(t *testing.T) {
	engine, err := NewTemplateEngine()
	require.NoError(t, err)

	inv, err := invoice.Assemble(invoice.FormInput{InvoiceNo: "INV-1"}, invoice.DefaultCompanyProfile(), "")
	require.NoError(t, err)

	html, err := engine.Render("new_invoice.html", map[string]any{
		"Invoice": inv,
		"Errors":  []invoice.FieldError{{Field: "discount", Message: "must be a number"}},
	})
	require.NoError(t, err)

	assert.Contains(t, html, `value="INV-1"`)
	assert.Contains(t, html, "discount: must be a number")
	// eight editable item rows regardless of content
	assert.Equal(t, invoice.FixedItemRows, strings.Count(html, `name="item_desc[]"`))
}

func TestTemplateEngine_RenderPreview(t *testing.T) {
	engine, err := NewTemplateEngine()
	require.NoError(t, err)

	html, err := engine.Render("preview.html", map[string]any{
		"InvoiceNo":   "INV-2",
		"InvoiceHTML": "<div id=\"doc\">inner</div>",
	})
	require.NoError(t, err)

	assert.Contains(t, html, "/generate-pdf/INV-2")
	assert.Contains(t, html, `<div id="doc">inner</div>`, "invoice HTML is embedded unescaped")
}

func TestTemplateEngine_UnknownTemplate(t *testing.T) {
	engine, err := NewTemplateEngine()
	require.NoError(t, err)

	_, err = engine.Render("missing.html", nil)
	require.Error(t, err)

	var rerr *RenderError
	assert.ErrorAs(t, err, &rerr)
}
