package cache

import (
	"context"
	"sync"

	"github.com/selectmedia/invoicing/internal/domain/invoice"
	"github.com/selectmedia/invoicing/internal/domain/shared"
)

// InMemoryInvoiceStore implements invoice.Store with a process-wide map.
// Entries live until an export purges them or the process restarts; there
// is no TTL because a previewed-but-never-downloaded invoice is expected
// to stay available for the whole session.
type InMemoryInvoiceStore struct {
	mu      sync.RWMutex
	entries map[string]invoice.Invoice
}

// NewInMemoryInvoiceStore creates an empty in-memory invoice store
func NewInMemoryInvoiceStore() *InMemoryInvoiceStore {
	return &InMemoryInvoiceStore{
		entries: make(map[string]invoice.Invoice),
	}
}

// Put stores an invoice, replacing any prior entry under the same number
func (s *InMemoryInvoiceStore) Put(ctx context.Context, invoiceNo string, inv *invoice.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Stored by value so callers cannot mutate a record after Put
	s.entries[invoiceNo] = clone(inv)
	return nil
}

// Get returns the stored invoice or shared.ErrNotFound
func (s *InMemoryInvoiceStore) Get(ctx context.Context, invoiceNo string) (*invoice.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inv, exists := s.entries[invoiceNo]
	if !exists {
		return nil, shared.ErrNotFound
	}
	out := clone(&inv)
	return &out, nil
}

// clone copies a record including its line item slice
func clone(inv *invoice.Invoice) invoice.Invoice {
	out := *inv
	out.LineItems = append([]invoice.LineItem(nil), inv.LineItems...)
	return out
}

// Remove deletes the entry; removing an absent key is a no-op
func (s *InMemoryInvoiceStore) Remove(ctx context.Context, invoiceNo string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, invoiceNo)
	return nil
}

// Size returns the number of stored invoices (for testing/monitoring)
func (s *InMemoryInvoiceStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Close releases resources; the in-memory store holds none
func (s *InMemoryInvoiceStore) Close() error {
	return nil
}

// Ensure InMemoryInvoiceStore implements invoice.Store
var _ invoice.Store = (*InMemoryInvoiceStore)(nil)
