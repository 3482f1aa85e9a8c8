package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/trace"

	"github.com/Alturino/bookstore/internal/cart/otel"
	"github.com/Alturino/bookstore/internal/common/constants"
	commonErrors "github.com/Alturino/bookstore/internal/common/errors"
	"github.com/Alturino/bookstore/internal/log"
	"github.com/Alturino/bookstore/internal/storage"
)

// Book is what AddItem needs from the catalog. Title, author and price are
// copied onto the line item at add time; the price is never re-read.
type Book struct {
	Id       string          `json:"id"`
	Title    string          `json:"title"`
	Author   string          `json:"author"`
	ImageUrl string          `json:"image_url"`
	Isbn     string          `json:"isbn"`
	Price    decimal.Decimal `json:"price"`
}

type LineItem struct {
	BookId        string          `json:"book_id"`
	Title         string          `json:"title"`
	Author        string          `json:"author"`
	ImageUrl      string          `json:"image_url,omitempty"`
	Isbn          string          `json:"isbn,omitempty"`
	PriceSnapshot decimal.Decimal `json:"price_snapshot"`
	Quantity      int32           `json:"quantity"`
}

// Snapshot is a read-only view of the cart. Totals are derived from the items
// on every read, so subtotal always equals the sum over price_snapshot times
// quantity of the current lines.
type Snapshot struct {
	Items      []LineItem      `json:"items"`
	TotalItems int32           `json:"total_items"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

// CartStore is the single source of truth for the session's cart and the only
// mutator of its line items. Every mutation persists the full cart before
// returning. At most one line exists per book id; insertion order is kept for
// display stability.
type CartStore struct {
	mu      sync.Mutex
	storage storage.Store
	items   []LineItem
}

func New(c context.Context, store storage.Store) *CartStore {
	s := &CartStore{storage: store}
	s.load(c)
	return s
}

// load reads the persisted cart. A missing record means an empty cart; a
// corrupt record is discarded and the cart resets to empty. Never fails.
func (s *CartStore) load(c context.Context) {
	c, span := otel.Tracer.Start(c, "CartStore load")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartStore load").
		Str(log.KeyStorageKey, constants.STORAGE_KEY_CART).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "reading persisted cart").Logger()
	logger.Info().Msg("reading persisted cart")
	raw, err := s.storage.Get(c, constants.STORAGE_KEY_CART)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			logger.Info().Msg("no persisted cart found, starting empty")
			return
		}
		err = fmt.Errorf("failed reading persisted cart with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	logger.Info().Msg("read persisted cart")

	logger = logger.With().Str(log.KeyProcess, "unmarshaling persisted cart").Logger()
	logger.Info().Msg("unmarshaling persisted cart")
	items := []LineItem{}
	err = json.Unmarshal([]byte(raw), &items)
	if err != nil {
		err = fmt.Errorf("failed unmarshaling persisted cart with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())

		logger = logger.With().Str(log.KeyProcess, "discarding corrupt cart").Logger()
		logger.Info().Msg("discarding corrupt cart record")
		if err := s.storage.Remove(c, constants.STORAGE_KEY_CART); err != nil {
			err = fmt.Errorf("failed discarding corrupt cart record with error=%w", err)
			commonErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
		}
		logger.Info().Msg("discarded corrupt cart record, starting empty")
		return
	}
	s.items = items
	logger = logger.With().Int(log.KeyCartItems, len(items)).Logger()
	logger.Info().Msg("unmarshaled persisted cart")
}

// AddItem merges the book into the cart: an already present book id gets its
// quantity incremented on the one existing line, otherwise a new line is
// appended with the catalog price frozen as price_snapshot. A nil book is a
// no-op; quantity below 1 defaults to 1.
func (s *CartStore) AddItem(c context.Context, book *Book, quantity int32) {
	c, span := otel.Tracer.Start(c, "CartStore AddItem")
	defer span.End()

	if book == nil {
		return
	}
	if quantity < 1 {
		quantity = 1
	}

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartStore AddItem").
		Str(log.KeyBookID, book.Id).
		Int32(log.KeyQuantity, quantity).
		Logger()

	s.mu.Lock()
	defer s.mu.Unlock()

	logger = logger.With().Str(log.KeyProcess, "merging item into cart").Logger()
	logger.Info().Msg("merging item into cart")
	merged := false
	for i := range s.items {
		if s.items[i].BookId != book.Id {
			continue
		}
		s.items[i].Quantity += quantity
		merged = true
		logger.Info().
			Int32(log.KeyQuantity, s.items[i].Quantity).
			Msg("merged quantity into existing line")
		break
	}
	if !merged {
		s.items = append(s.items, LineItem{
			BookId:        book.Id,
			Title:         book.Title,
			Author:        book.Author,
			ImageUrl:      book.ImageUrl,
			Isbn:          book.Isbn,
			PriceSnapshot: book.Price,
			Quantity:      quantity,
		})
		logger.Info().Msg("appended new line")
	}

	s.persist(c)
}

// RemoveItem deletes the matching line. An unknown book id is a silent no-op.
func (s *CartStore) RemoveItem(c context.Context, bookId string) {
	c, span := otel.Tracer.Start(c, "CartStore RemoveItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartStore RemoveItem").
		Str(log.KeyBookID, bookId).
		Logger()

	s.mu.Lock()
	defer s.mu.Unlock()

	logger = logger.With().Str(log.KeyProcess, "removing line").Logger()
	for i := range s.items {
		if s.items[i].BookId != bookId {
			continue
		}
		s.items = append(s.items[:i], s.items[i+1:]...)
		logger.Info().Msg("removed line")
		s.persist(c)
		return
	}
	logger.Info().Msg("line not found, nothing to remove")
}

// UpdateQuantity sets the line's quantity to an absolute value. Quantity
// below 1 is rejected as a no-op; a line is only ever deleted via RemoveItem.
func (s *CartStore) UpdateQuantity(c context.Context, bookId string, quantity int32) {
	c, span := otel.Tracer.Start(c, "CartStore UpdateQuantity")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartStore UpdateQuantity").
		Str(log.KeyBookID, bookId).
		Int32(log.KeyQuantity, quantity).
		Logger()

	if quantity < 1 {
		logger.Info().Msg("quantity below 1 rejected, use RemoveItem to delete a line")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	logger = logger.With().Str(log.KeyProcess, "updating quantity").Logger()
	for i := range s.items {
		if s.items[i].BookId != bookId {
			continue
		}
		s.items[i].Quantity = quantity
		logger.Info().Msg("updated quantity")
		s.persist(c)
		return
	}
	logger.Info().Msg("line not found, nothing to update")
}

// Clear empties the cart and removes the persisted record entirely so the
// next load fast-paths to "no cart found".
func (s *CartStore) Clear(c context.Context) {
	c, span := otel.Tracer.Start(c, "CartStore Clear")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartStore Clear").
		Str(log.KeyProcess, "clearing cart").
		Logger()

	s.mu.Lock()
	defer s.mu.Unlock()

	logger.Info().Msg("clearing cart")
	s.items = nil
	err := s.storage.Remove(c, constants.STORAGE_KEY_CART)
	if err != nil {
		err = fmt.Errorf("failed removing persisted cart with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	logger.Info().Msg("cleared cart")
}

// Snapshot returns a copy of the items with derived totals. Callers must not
// mutate the returned items.
func (s *CartStore) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]LineItem, len(s.items))
	copy(items, s.items)

	totalItems := int32(0)
	subtotal := decimal.Zero
	for _, item := range items {
		totalItems += item.Quantity
		subtotal = subtotal.Add(
			item.PriceSnapshot.Mul(decimal.NewFromInt32(item.Quantity)),
		)
	}
	return Snapshot{Items: items, TotalItems: totalItems, Subtotal: subtotal}
}

// persist writes the full cart. Callers hold the lock. A failed write leaves
// the in-memory cart authoritative and is only logged; cart operations never
// surface storage errors.
func (s *CartStore) persist(c context.Context) {
	span := trace.SpanFromContext(c)

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartStore persist").
		Str(log.KeyStorageKey, constants.STORAGE_KEY_CART).
		Logger()

	raw, err := json.Marshal(s.items)
	if err != nil {
		err = fmt.Errorf("failed marshaling cart with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	err = s.storage.Set(c, constants.STORAGE_KEY_CART, string(raw))
	if err != nil {
		err = fmt.Errorf("failed persisting cart with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
	}
}
