package store

import (
	"context"
	"log"

	"teebay-client/internal/domain"
)

// Coordinator applies the effect of completed product mutations to a
// displayed PageStore without waiting for a full server round-trip.
//
// Deletion is handled optimistically: removal is locally derivable and
// safe to predict, so the item disappears before the network call is even
// dispatched. Create and edit are not predictable client-side (the item's
// sort position and derived fields are server-determined), so those only
// invalidate the store.
type Coordinator struct {
	deleter ProductDeleter
	logger  *log.Logger
}

// NewCoordinator creates a coordinator backed by the product-mutation
// collaborator. A nil logger falls back to the process default.
func NewCoordinator(deleter ProductDeleter, logger *log.Logger) *Coordinator {
	if logger == nil {
		logger = log.Default()
	}
	return &Coordinator{deleter: deleter, logger: logger}
}

// ApplyDelete removes the product from the store's current page before
// dispatching the delete mutation, so the UI never shows a deleted item
// past the user's click. If the mutation fails the item is re-inserted at
// its original index and the server's message is returned for display.
//
// When the deleted item was the only one left on a non-first page, the
// store is invalidated and stepped back one page rather than left showing
// an empty page.
func (c *Coordinator) ApplyDelete(ctx context.Context, s *PageStore, productID int64) error {
	index, removed, onPage := s.removeItem(productID)

	status, err := c.deleter.DeleteProduct(ctx, productID)
	switch {
	case err != nil:
		if onPage {
			s.restoreItem(index, removed)
		}
		c.logger.Printf("WARN: delete of product %d failed: %v", productID, err)
		return err
	case !status.Success():
		if onPage {
			s.restoreItem(index, removed)
		}
		c.logger.Printf("WARN: delete of product %d rejected: %s", productID, status.StatusMessage)
		return domain.NewRemoteError(status)
	}

	// The optimistic removal is already correct; only bookkeeping remains.
	s.forgetExpanded(productID)
	if s.emptyNonFirstPage() {
		prev := s.PageIndex() - 1
		if prev < 0 {
			prev = 0
		}
		s.Invalidate()
		c.logger.Printf("INFO: page %d drained by delete, stepping back to %d", s.PageIndex(), prev)
		if err := s.SetPage(ctx, prev); err != nil {
			return err
		}
	}
	return nil
}

// ApplyCreateOrEdit marks the store stale so the next read re-fetches.
// Correctness over optimism: the new or edited item's position is
// server-determined and not safely predictable here.
func (c *Coordinator) ApplyCreateOrEdit(s *PageStore) {
	s.Invalidate()
}
