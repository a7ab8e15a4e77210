package invoicing

import "time"

// PDFExport is the outcome of a successful invoice export
type PDFExport struct {
	// Filename follows the {invoice_no}_{invoice_date}.pdf convention,
	// sanitised for use in a Content-Disposition header
	Filename string
	// Data is the raw PDF content
	Data []byte
	// RenderDuration is how long the headless snapshot took
	RenderDuration time.Duration
}
