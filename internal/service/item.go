package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/stashkeep/stashkeep/internal/model"
	"github.com/stashkeep/stashkeep/internal/repository"
	"github.com/stashkeep/stashkeep/internal/storage"
)

// Item service errors.
var (
	ErrMissingItemFields = errors.New("name and amount are required")
	ErrInvalidItemID     = errors.New("invalid item ID")
	ErrInvalidDate       = errors.New("invalid date format")
	ErrItemNotFound      = errors.New("item not found")
	ErrForbidden         = errors.New("item belongs to another user")
)

// ItemStore is the slice of the repository the item service needs.
type ItemStore interface {
	CreateItem(ctx context.Context, item *model.Item) error
	GetItemByID(ctx context.Context, id string) (*model.Item, error)
	ListItemsByOwner(ctx context.Context, ownerID string) ([]*model.Item, error)
	UpdateItem(ctx context.Context, item *model.Item) error
	DeleteItem(ctx context.Context, id string) error
}

// ItemCache caches owner-scoped item lists. May be nil to disable caching.
type ItemCache interface {
	GetItems(ctx context.Context, ownerID string) ([]*model.Item, error)
	SetItems(ctx context.Context, ownerID string, items []*model.Item) error
	InvalidateItems(ctx context.Context, ownerID string) error
}

// Attachment is an uploaded file to be stored alongside an item.
type Attachment struct {
	Filename string
	Reader   io.Reader
}

// ItemInput carries client-supplied item fields. There is deliberately no
// owner field: ownership always comes from the authenticated identity.
type ItemInput struct {
	Name       string
	Amount     string
	Product    string
	Date       string
	Time       string
	Attachment *Attachment
}

// ItemService handles item CRUD. Every operation passes through the
// ownership guard: creates bind the caller as owner, lists are filtered to
// the caller, and mutations re-fetch the target and compare owners before
// touching it.
type ItemService struct {
	store ItemStore
	cache ItemCache
	files storage.Store
}

// NewItemService creates a new ItemService. cache may be nil.
func NewItemService(store ItemStore, cache ItemCache, files storage.Store) *ItemService {
	return &ItemService{store: store, cache: cache, files: files}
}

// Create stores a new item owned by the authenticated identity.
func (s *ItemService) Create(ctx context.Context, identity *model.Identity, input ItemInput) (*model.Item, error) {
	if input.Name == "" || input.Amount == "" {
		return nil, ErrMissingItemFields
	}

	date := time.Now().UTC()
	if input.Date != "" {
		parsed, ok := model.ParseItemDate(input.Date)
		if !ok {
			return nil, ErrInvalidDate
		}
		date = parsed
	}

	image, err := s.storeAttachment(ctx, input.Attachment)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	item := &model.Item{
		ID:        ulid.Make().String(),
		Name:      input.Name,
		Amount:    input.Amount,
		Product:   input.Product,
		Image:     image,
		Date:      date,
		Time:      input.Time,
		OwnerID:   identity.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}

	s.invalidate(ctx, identity.UserID)

	return item, nil
}

// List returns all items owned by the authenticated identity, consulting
// the cache first. Cache failures fall through to the store.
func (s *ItemService) List(ctx context.Context, identity *model.Identity) ([]*model.Item, error) {
	if s.cache != nil {
		if items, err := s.cache.GetItems(ctx, identity.UserID); err == nil {
			return items, nil
		}
	}

	items, err := s.store.ListItemsByOwner(ctx, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	if s.cache != nil {
		// Best effort; a failed cache write never fails the request.
		_ = s.cache.SetItems(ctx, identity.UserID, items)
	}

	return items, nil
}

// Update replaces the fields of an item owned by the authenticated identity.
// A new attachment replaces the stored image reference; without one the
// existing reference is kept.
func (s *ItemService) Update(ctx context.Context, identity *model.Identity, id string, input ItemInput) (*model.Item, error) {
	item, err := s.authorize(ctx, identity, id)
	if err != nil {
		return nil, err
	}

	if input.Name == "" || input.Amount == "" {
		return nil, ErrMissingItemFields
	}

	if input.Date != "" {
		parsed, ok := model.ParseItemDate(input.Date)
		if !ok {
			return nil, ErrInvalidDate
		}
		item.Date = parsed
	}

	if input.Attachment != nil {
		image, err := s.storeAttachment(ctx, input.Attachment)
		if err != nil {
			return nil, err
		}
		item.Image = image
	}

	item.Name = input.Name
	item.Amount = input.Amount
	item.Product = input.Product
	item.Time = input.Time
	item.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateItem(ctx, item); err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("update item: %w", err)
	}

	s.invalidate(ctx, identity.UserID)

	return item, nil
}

// Delete removes an item owned by the authenticated identity.
func (s *ItemService) Delete(ctx context.Context, identity *model.Identity, id string) error {
	if _, err := s.authorize(ctx, identity, id); err != nil {
		return err
	}

	if err := s.store.DeleteItem(ctx, id); err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return ErrItemNotFound
		}
		return fmt.Errorf("delete item: %w", err)
	}

	s.invalidate(ctx, identity.UserID)

	return nil
}

// authorize is the ownership guard for mutations: it re-fetches the target
// and fails with ErrItemNotFound for a missing item or ErrForbidden for a
// foreign one.
func (s *ItemService) authorize(ctx context.Context, identity *model.Identity, id string) (*model.Item, error) {
	if _, err := ulid.Parse(id); err != nil {
		return nil, ErrInvalidItemID
	}

	item, err := s.store.GetItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("fetch item: %w", err)
	}

	if !item.OwnedBy(identity.UserID) {
		return nil, ErrForbidden
	}

	return item, nil
}

func (s *ItemService) storeAttachment(ctx context.Context, att *Attachment) (string, error) {
	if att == nil {
		return "", nil
	}
	if s.files == nil {
		return "", errors.New("no file storage configured")
	}

	ref, err := s.files.Store(ctx, att.Filename, att.Reader)
	if err != nil {
		return "", fmt.Errorf("store attachment: %w", err)
	}

	return ref, nil
}

func (s *ItemService) invalidate(ctx context.Context, ownerID string) {
	if s.cache == nil {
		return
	}
	// Best effort; stale entries expire via TTL anyway.
	_ = s.cache.InvalidateItems(ctx, ownerID)
}
