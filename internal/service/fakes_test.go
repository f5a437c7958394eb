package service

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/stashkeep/stashkeep/internal/model"
	"github.com/stashkeep/stashkeep/internal/repository"
)

// fakeUserStore is an in-memory UserStore for unit tests.
type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]*model.User // keyed by username
	err   error                  // forced failure, when set
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*model.User)}
}

func (f *fakeUserStore) CreateUser(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}
	if _, exists := f.users[user.Username]; exists {
		return repository.ErrUsernameExists
	}

	clone := *user
	f.users[user.Username] = &clone
	return nil
}

func (f *fakeUserStore) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	user, ok := f.users[username]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	clone := *user
	return &clone, nil
}

// fakeItemStore is an in-memory ItemStore for unit tests.
type fakeItemStore struct {
	mu    sync.Mutex
	items map[string]*model.Item
}

func newFakeItemStore() *fakeItemStore {
	return &fakeItemStore{items: make(map[string]*model.Item)}
}

func (f *fakeItemStore) CreateItem(_ context.Context, item *model.Item) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	clone := *item
	f.items[item.ID] = &clone
	return nil
}

func (f *fakeItemStore) GetItemByID(_ context.Context, id string) (*model.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	item, ok := f.items[id]
	if !ok {
		return nil, repository.ErrItemNotFound
	}

	clone := *item
	return &clone, nil
}

func (f *fakeItemStore) ListItemsByOwner(_ context.Context, ownerID string) ([]*model.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	items := make([]*model.Item, 0)
	for _, item := range f.items {
		if item.OwnerID == ownerID {
			clone := *item
			items = append(items, &clone)
		}
	}
	return items, nil
}

func (f *fakeItemStore) UpdateItem(_ context.Context, item *model.Item) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.items[item.ID]; !ok {
		return repository.ErrItemNotFound
	}

	clone := *item
	f.items[item.ID] = &clone
	return nil
}

func (f *fakeItemStore) DeleteItem(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.items[id]; !ok {
		return repository.ErrItemNotFound
	}

	delete(f.items, id)
	return nil
}

// fakeItemCache records cache traffic for unit tests.
type fakeItemCache struct {
	mu            sync.Mutex
	data          map[string][]*model.Item
	sets          int
	invalidations int
}

func newFakeItemCache() *fakeItemCache {
	return &fakeItemCache{data: make(map[string][]*model.Item)}
}

func (f *fakeItemCache) GetItems(_ context.Context, ownerID string) ([]*model.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	items, ok := f.data[ownerID]
	if !ok {
		return nil, fmt.Errorf("cache miss")
	}
	return items, nil
}

func (f *fakeItemCache) SetItems(_ context.Context, ownerID string, items []*model.Item) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.data[ownerID] = items
	f.sets++
	return nil
}

func (f *fakeItemCache) InvalidateItems(_ context.Context, ownerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.data, ownerID)
	f.invalidations++
	return nil
}

// fakeFileStore records stored filenames and returns predictable references.
type fakeFileStore struct {
	mu     sync.Mutex
	stored []string
	err    error
}

func (f *fakeFileStore) Store(_ context.Context, filename string, r io.Reader) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return "", f.err
	}
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}

	f.stored = append(f.stored, filename)
	return "uploads/fake_" + filename, nil
}
