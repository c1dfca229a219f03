package store

import (
	"context"
	"fmt"
	"log"
	"sync"

	"teebay-client/internal/domain"
)

// DefaultPageSize matches the listing screens' fixed page size.
const DefaultPageSize = 10

// PageStore holds the paginated catalog state for one listing screen: the
// current page of products, the server-reported page count, and the
// per-item expanded-description flags. The flags are keyed by product id,
// independent of the fetched item list, so a re-fetch does not reset the
// user's expand/collapse choices.
//
// A PageStore is safe for concurrent use. Fetches are tagged with a
// generation counter; a load superseded by a later load discards its
// response when it arrives (last-requested-page-wins).
type PageStore struct {
	querier  PageQuerier
	scope    Scope
	pageSize int
	logger   *log.Logger

	mu            sync.Mutex
	pageIndex     int
	items         []domain.Product
	totalPages    int
	totalElements int
	expanded      map[int64]bool
	loading       bool
	loaded        bool // first successful load done
	stale         bool
	lastErr       error
	generation    uint64
}

// NewPageStore creates a store bound to one feed scope. A pageSize below
// one falls back to DefaultPageSize; a nil logger falls back to the
// process default.
func NewPageStore(querier PageQuerier, scope Scope, pageSize int, logger *log.Logger) *PageStore {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if logger == nil {
		logger = log.Default()
	}
	return &PageStore{
		querier:  querier,
		scope:    scope,
		pageSize: pageSize,
		logger:   logger,
		expanded: make(map[int64]bool),
	}
}

// Load issues exactly one fetch for the given page. While the fetch is in
// flight the previously displayed items stay visible (no flash-to-empty).
// On success items and totalPages are replaced; expanded flags survive
// except for ids that vanished from a re-fetch of the same page. On
// failure the previous items remain and the error is kept for display.
func (s *PageStore) Load(ctx context.Context, page int) error {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	samePage := s.loaded && page == s.pageIndex
	prevItems := s.items
	s.pageIndex = page
	s.loading = true
	s.mu.Unlock()

	result, err := s.querier.FetchPage(ctx, page, s.pageSize, s.scope)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		// Superseded by a later Load; the store has moved on.
		s.logger.Printf("INFO: discarding stale page %d response for scope %s", page, s.scope)
		return nil
	}
	s.loading = false
	if err != nil {
		s.lastErr = err
		s.logger.Printf("WARN: loading page %d of scope %s failed: %v", page, s.scope, err)
		return err
	}
	if samePage {
		s.pruneVanished(prevItems, result.Items)
	}
	s.items = result.Items
	s.totalPages = result.TotalPages
	s.totalElements = result.TotalElements
	s.loaded = true
	s.stale = false
	s.lastErr = nil
	return nil
}

// SetPage validates n against the known page range and loads it. A known
// totalPages of zero means no fetch has completed yet, so any non-negative
// index is allowed through.
func (s *PageStore) SetPage(ctx context.Context, n int) error {
	s.mu.Lock()
	total := s.totalPages
	s.mu.Unlock()
	if n < 0 || (total > 0 && n >= total) {
		return fmt.Errorf("%w: page %d of %d", domain.ErrOutOfRange, n, total)
	}
	return s.Load(ctx, n)
}

// Invalidate marks the store stale so the next Refresh re-fetches the
// current page regardless of freshness. Used after create/edit mutations,
// where the item's position in any page is not locally derivable.
func (s *PageStore) Invalidate() {
	s.mu.Lock()
	s.stale = true
	s.mu.Unlock()
}

// Refresh re-loads the current page if the store is stale or has never
// loaded; otherwise it is a no-op.
func (s *PageStore) Refresh(ctx context.Context) error {
	s.mu.Lock()
	fresh := s.loaded && !s.stale
	page := s.pageIndex
	s.mu.Unlock()
	if fresh {
		return nil
	}
	return s.Load(ctx, page)
}

// ToggleExpanded flips the expanded-description flag for a product.
// Pure local state, no network effect.
func (s *PageStore) ToggleExpanded(productID int64) {
	s.mu.Lock()
	s.expanded[productID] = !s.expanded[productID]
	s.mu.Unlock()
}

// IsExpanded reports the expanded-description flag for a product.
func (s *PageStore) IsExpanded(productID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expanded[productID]
}

// Items returns a copy of the currently displayed page.
func (s *PageStore) Items() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Product, len(s.items))
	copy(out, s.items)
	return out
}

// PageIndex returns the zero-based index of the current (or last
// requested) page.
func (s *PageStore) PageIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pageIndex
}

// TotalPages returns the server-reported page count, zero before the
// first successful load.
func (s *PageStore) TotalPages() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalPages
}

// TotalElements returns the server-reported total item count across all pages.
func (s *PageStore) TotalElements() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalElements
}

// Loading reports whether a fetch is in flight.
func (s *PageStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Stale reports whether the store has been invalidated since its last load.
func (s *PageStore) Stale() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stale
}

// LastError returns the error from the most recent failed load, nil after
// a successful one.
func (s *PageStore) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Scope returns the feed scope this store is bound to.
func (s *PageStore) Scope() Scope {
	return s.scope
}

// PageSize returns the fixed page size of this store.
func (s *PageStore) PageSize() int {
	return s.pageSize
}

// pruneVanished drops expanded flags for ids that were on the previous
// fetch of this page but are gone from the new one. Flags for items on
// other pages are kept (lazy pruning), so paging away and back does not
// collapse anything.
func (s *PageStore) pruneVanished(prev, next []domain.Product) {
	present := make(map[int64]bool, len(next))
	for _, p := range next {
		present[p.ID] = true
	}
	for _, p := range prev {
		if !present[p.ID] {
			delete(s.expanded, p.ID)
		}
	}
}

// removeItem optimistically removes a product from the current page,
// returning its original index for a possible rollback.
func (s *PageStore) removeItem(productID int64) (index int, removed domain.Product, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.items {
		if p.ID == productID {
			removed = p
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			return i, removed, true
		}
	}
	return 0, domain.Product{}, false
}

// restoreItem reinserts a product at its original index after a failed
// delete mutation.
func (s *PageStore) restoreItem(index int, p domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index > len(s.items) {
		index = len(s.items)
	}
	s.items = append(s.items[:index], append([]domain.Product{p}, s.items[index:]...)...)
}

// forgetExpanded drops the expanded flag of a permanently deleted product.
func (s *PageStore) forgetExpanded(productID int64) {
	s.mu.Lock()
	delete(s.expanded, productID)
	s.mu.Unlock()
}

// emptyNonFirstPage reports whether the current page drained to zero items
// while not being the first page.
func (s *PageStore) emptyNonFirstPage() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded && s.pageIndex > 0 && len(s.items) == 0
}
