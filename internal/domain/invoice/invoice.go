package invoice

import (
	"context"

	"github.com/shopspring/decimal"
)

// FixedItemRows is the number of line item rows printed on every invoice.
// Submitted rows beyond this count are dropped; missing rows are padded
// with empty placeholders so the printed table always has the same height.
const FixedItemRows = 8

// CompanyProfile holds the issuing company's letterhead details.
// It is configured at startup and never editable through the form.
type CompanyProfile struct {
	Name        string `json:"name"`
	GSTIN       string `json:"gstin"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	BankDetails string `json:"bank_details"`
}

// DefaultCompanyProfile returns the built-in issuing company details,
// used when the configuration does not override them.
func DefaultCompanyProfile() CompanyProfile {
	return CompanyProfile{
		Name:        "Select Media House",
		GSTIN:       "09AFMPG9060R1ZK",
		Address:     "A-6, Sarla Bagh Extension, Dayal Bagh, Agra - 282005 (U.P.)",
		Phone:       "9837346250",
		BankDetails: "Bank : Canara Bank, MG Road, Agra\nIFSC Code:- CNRB0000192 A/c : 0192201001908",
	}
}

// Party identifies either the billed-to or shipped-to side of an invoice
type Party struct {
	Name      string `json:"name"`
	Address   string `json:"address"`
	State     string `json:"state"`
	StateCode string `json:"state_code"`
	GSTIN     string `json:"gstin"`
}

// LineItem is one row of the invoice item table. Placeholder rows carry
// empty strings and invalid NullDecimals so templates can render blanks.
type LineItem struct {
	Description string              `json:"description"`
	HSN         string              `json:"hsn"`
	Qty         decimal.NullDecimal `json:"qty"`
	UOM         string              `json:"uom"`
	Rate        decimal.NullDecimal `json:"rate"`
	Amount      decimal.NullDecimal `json:"amount"`
}

// Filled reports whether the row holds a real item rather than padding
func (li LineItem) Filled() bool {
	return li.Description != ""
}

// Invoice is the fully-resolved invoice record. It is produced only by
// Assemble and treated as immutable afterwards; re-submitting the same
// invoice number replaces the whole record.
type Invoice struct {
	InvoiceNo       string `json:"invoice_no"`
	InvoiceDate     string `json:"invoice_date"`
	SupplyDate      string `json:"supply_date"`
	BuyerOrderNo    string `json:"buyer_order_no"`
	TransporterName string `json:"transporter_name"`
	VehicleNo       string `json:"vehicle_no"`
	GRNo            string `json:"gr_no"`
	ReferenceNo     string `json:"reference_no"`

	Company   CompanyProfile `json:"company"`
	BilledTo  Party          `json:"billed_to"`
	ShippedTo Party          `json:"shipped_to"`

	// LineItems always has exactly FixedItemRows entries
	LineItems []LineItem `json:"line_items"`

	Discount   decimal.Decimal `json:"discount"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	CGSTRate   decimal.Decimal `json:"cgst_rate"`
	SGSTRate   decimal.Decimal `json:"sgst_rate"`
	IGSTRate   decimal.Decimal `json:"igst_rate"`
	CGSTAmount decimal.Decimal `json:"cgst_amount"`
	SGSTAmount decimal.Decimal `json:"sgst_amount"`
	IGSTAmount decimal.Decimal `json:"igst_amount"`
	TotalTax   decimal.Decimal `json:"total_tax"`
	// GrandTotal is the floored (integer-valued) payable amount
	GrandTotal decimal.Decimal `json:"grand_total"`
	// RoundOff is GrandTotal minus the raw total, always <= 0
	RoundOff      decimal.Decimal `json:"round_off"`
	AmountInWords string          `json:"amount_in_words"`

	// EncodedLogo is the base64-encoded letterhead logo, empty when the
	// asset file is missing
	EncodedLogo string `json:"encoded_logo,omitempty"`
}

// Store is the short-lived handoff between the create and render steps of
// the invoice flow, keyed by invoice number. Get returns
// shared.ErrNotFound for unknown or already-purged keys; Remove is a no-op
// when the key is absent.
type Store interface {
	Put(ctx context.Context, invoiceNo string, inv *Invoice) error
	Get(ctx context.Context, invoiceNo string) (*Invoice, error)
	Remove(ctx context.Context, invoiceNo string) error
}
