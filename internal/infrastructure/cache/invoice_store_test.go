package cache

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selectmedia/invoicing/internal/domain/invoice"
	"github.com/selectmedia/invoicing/internal/domain/shared"
)

func sampleInvoice(no string) *invoice.Invoice {
	inv, err := invoice.Assemble(invoice.FormInput{
		InvoiceNo:   no,
		InvoiceDate: "2026-08-30",
		CGSTRate:    "9",
		SGSTRate:    "9",
		ItemDesc:    []string{"Banner"},
		ItemHSN:     []string{"4911"},
		ItemQty:     []string{"2"},
		ItemUOM:     []string{"Pcs"},
		ItemRate:    []string{"500"},
	}, invoice.DefaultCompanyProfile(), "")
	if err != nil {
		panic(err)
	}
	return inv
}

func TestInMemoryInvoiceStore_RoundTrip(t *testing.T) {
	store := NewInMemoryInvoiceStore()
	defer store.Close()

	ctx := context.Background()
	inv := sampleInvoice("INV-100")

	require.NoError(t, store.Put(ctx, "INV-100", inv))

	got, err := store.Get(ctx, "INV-100")
	require.NoError(t, err)
	assert.Equal(t, inv, got, "stored and loaded invoices must be field-equal")
	assert.Equal(t, 1, store.Size())
}

func TestInMemoryInvoiceStore_Missing(t *testing.T) {
	store := NewInMemoryInvoiceStore()
	defer store.Close()

	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestInMemoryInvoiceStore_Overwrite(t *testing.T) {
	store := NewInMemoryInvoiceStore()
	defer store.Close()
	ctx := context.Background()

	first := sampleInvoice("INV-101")
	require.NoError(t, store.Put(ctx, "INV-101", first))

	second := sampleInvoice("INV-101")
	second.TransporterName = "Hariom Transport"
	require.NoError(t, store.Put(ctx, "INV-101", second))

	got, err := store.Get(ctx, "INV-101")
	require.NoError(t, err)
	assert.Equal(t, "Hariom Transport", got.TransporterName, "last write wins")
	assert.Equal(t, 1, store.Size())
}

func TestInMemoryInvoiceStore_RemoveIdempotent(t *testing.T) {
	store := NewInMemoryInvoiceStore()
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "INV-102", sampleInvoice("INV-102")))
	require.NoError(t, store.Remove(ctx, "INV-102"))

	_, err := store.Get(ctx, "INV-102")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	// Removing again must not fail
	require.NoError(t, store.Remove(ctx, "INV-102"))
}

func TestInMemoryInvoiceStore_GetReturnsCopy(t *testing.T) {
	store := NewInMemoryInvoiceStore()
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "INV-103", sampleInvoice("INV-103")))

	got, err := store.Get(ctx, "INV-103")
	require.NoError(t, err)
	got.Subtotal = decimal.NewFromInt(999999)

	again, err := store.Get(ctx, "INV-103")
	require.NoError(t, err)
	assert.False(t, again.Subtotal.Equal(decimal.NewFromInt(999999)),
		"mutating a loaded record must not affect the stored one")
}
