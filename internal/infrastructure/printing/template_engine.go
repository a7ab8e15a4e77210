package printing

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates/*.html
var templateFS embed.FS

// TemplateEngine renders the application's HTML pages and the invoice
// document from embedded templates, with formatting helpers for money
// and quantity columns.
type TemplateEngine struct {
	templates *template.Template
}

// NewTemplateEngine parses the embedded templates
func NewTemplateEngine() (*TemplateEngine, error) {
	t, err := template.New("").Funcs(funcMap()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded templates: %w", err)
	}
	return &TemplateEngine{templates: t}, nil
}

// Render executes the named template and returns the resulting HTML
func (e *TemplateEngine) Render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := e.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "failed to render template "+name, err)
	}
	return buf.String(), nil
}

func funcMap() template.FuncMap {
	titleCaser := cases.Title(language.English)
	return template.FuncMap{
		"formatMoney":    formatMoney,
		"formatOptMoney": formatOptMoney,
		"formatQty":      formatQty,
		"addOne":         func(i int) int { return i + 1 },
		"decOrEmpty":     decOrEmpty,
		"upper":          strings.ToUpper,
		"trim":           strings.TrimSpace,
		"title":          titleCaser.String,
		"nl2br":          nl2br,
		"safeHTML":       safeHTML,
	}
}

// formatMoney renders a decimal with two fixed decimals and thousands
// separators, e.g. 1234.5 -> "1,234.50"
func formatMoney(d decimal.Decimal) string {
	fixed := d.StringFixed(2)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}

	intPart, decPart, _ := strings.Cut(fixed, ".")
	var b strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return sign + b.String() + "." + decPart
}

// formatOptMoney renders a nullable amount, blank for padding rows
func formatOptMoney(nd decimal.NullDecimal) string {
	if !nd.Valid {
		return ""
	}
	return formatMoney(nd.Decimal)
}

// formatQty renders a nullable quantity without forcing decimals
func formatQty(nd decimal.NullDecimal) string {
	if !nd.Valid {
		return ""
	}
	return nd.Decimal.String()
}

// decOrEmpty renders a decimal for form prefill, leaving zero blank
func decOrEmpty(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

// nl2br turns newline-separated text (bank details, addresses) into
// safe HTML line breaks
func nl2br(s string) template.HTML {
	escaped := template.HTMLEscapeString(s)
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
}

// safeHTML marks pre-rendered HTML as safe for embedding; only ever used
// for HTML this service rendered itself
func safeHTML(s string) template.HTML {
	return template.HTML(s)
}
