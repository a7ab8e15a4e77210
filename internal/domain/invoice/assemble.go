package invoice

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FormInput carries the raw invoice form submission. All fields are
// untyped strings exactly as received; the item slices are parallel
// sequences aligned by index.
type FormInput struct {
	InvoiceNo       string
	InvoiceDate     string
	SupplyDate      string
	BuyerOrderNo    string
	TransporterName string
	VehicleNo       string
	GRNo            string
	ReferenceNo     string

	ClientName      string
	ClientAddress   string
	ClientState     string
	ClientStateCode string
	ClientGSTIN     string

	ShipName      string
	ShipAddress   string
	ShipState     string
	ShipStateCode string
	ShipGSTIN     string

	Discount string
	CGSTRate string
	SGSTRate string
	IGSTRate string

	ItemDesc []string
	ItemHSN  []string
	ItemQty  []string
	ItemUOM  []string
	ItemRate []string
}

// FieldError describes a single invalid form field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates all invalid fields of a submission so the
// form can be re-rendered with every problem at once
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Field + ": " + f.Message
	}
	return "invalid invoice form: " + strings.Join(msgs, "; ")
}

var oneHundred = decimal.NewFromInt(100)

// Assemble normalizes a raw form submission into a fully-resolved Invoice:
// defaults for missing scalars, fixed-row line items, subtotal, GST
// amounts, floored grand total, round-off and the amount-in-words string.
// Malformed numeric fields are collected into a *ValidationError; no
// partially-computed invoice is ever returned.
func Assemble(form FormInput, company CompanyProfile, encodedLogo string) (*Invoice, error) {
	var fieldErrs []FieldError

	parse := func(field, value string) decimal.Decimal {
		if strings.TrimSpace(value) == "" {
			return decimal.Zero
		}
		d, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil {
			fieldErrs = append(fieldErrs, FieldError{Field: field, Message: "must be a number"})
			return decimal.Zero
		}
		return d
	}

	inv := &Invoice{
		InvoiceNo:       form.InvoiceNo,
		InvoiceDate:     form.InvoiceDate,
		SupplyDate:      form.SupplyDate,
		BuyerOrderNo:    form.BuyerOrderNo,
		TransporterName: form.TransporterName,
		VehicleNo:       form.VehicleNo,
		GRNo:            form.GRNo,
		ReferenceNo:     defaultString(form.ReferenceNo, "N/A"),
		Company:         company,
		BilledTo: Party{
			Name:      form.ClientName,
			Address:   form.ClientAddress,
			State:     form.ClientState,
			StateCode: form.ClientStateCode,
			GSTIN:     form.ClientGSTIN,
		},
		ShippedTo: Party{
			Name:      form.ShipName,
			Address:   form.ShipAddress,
			State:     form.ShipState,
			StateCode: form.ShipStateCode,
			GSTIN:     form.ShipGSTIN,
		},
		Discount:    parse("discount", form.Discount),
		CGSTRate:    parse("cgst_rate", form.CGSTRate),
		SGSTRate:    parse("sgst_rate", form.SGSTRate),
		IGSTRate:    parse("igst_rate", form.IGSTRate),
		EncodedLogo: encodedLogo,
	}

	itemSum := decimal.Zero
	items := make([]LineItem, 0, FixedItemRows)
	for i := range form.ItemDesc {
		// Rows beyond the fixed count are dropped silently, so their
		// values must never be parsed
		if len(items) == FixedItemRows {
			break
		}
		desc := form.ItemDesc[i]
		if strings.TrimSpace(desc) == "" {
			continue
		}
		qty := parse(fmt.Sprintf("item_qty[%d]", i), at(form.ItemQty, i))
		rate := parse(fmt.Sprintf("item_rate[%d]", i), at(form.ItemRate, i))
		amount := qty.Mul(rate)
		items = append(items, LineItem{
			Description: desc,
			HSN:         at(form.ItemHSN, i),
			Qty:         decimal.NewNullDecimal(qty),
			UOM:         at(form.ItemUOM, i),
			Rate:        decimal.NewNullDecimal(rate),
			Amount:      decimal.NewNullDecimal(amount),
		})
	}
	for _, it := range items {
		itemSum = itemSum.Add(it.Amount.Decimal)
	}
	for len(items) < FixedItemRows {
		items = append(items, LineItem{})
	}
	inv.LineItems = items

	if len(fieldErrs) > 0 {
		return nil, &ValidationError{Fields: fieldErrs}
	}

	inv.Subtotal = itemSum.Sub(inv.Discount)
	inv.CGSTAmount = inv.Subtotal.Mul(inv.CGSTRate).Div(oneHundred)
	inv.SGSTAmount = inv.Subtotal.Mul(inv.SGSTRate).Div(oneHundred)
	inv.IGSTAmount = inv.Subtotal.Mul(inv.IGSTRate).Div(oneHundred)
	inv.TotalTax = inv.CGSTAmount.Add(inv.SGSTAmount).Add(inv.IGSTAmount)

	rawTotal := inv.Subtotal.Add(inv.TotalTax)
	inv.GrandTotal = rawTotal.Floor()
	inv.RoundOff = inv.GrandTotal.Sub(rawTotal)
	inv.AmountInWords = AmountInWords(inv.GrandTotal.IntPart())

	return inv, nil
}

func defaultString(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// at indexes a parallel form slice defensively; browsers are expected to
// submit equal-length slices but nothing enforces it
func at(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}
