package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/stashkeep/stashkeep/internal/auth"
	"github.com/stashkeep/stashkeep/internal/handler"
	"github.com/stashkeep/stashkeep/internal/middleware"
	"github.com/stashkeep/stashkeep/internal/model"
	"github.com/stashkeep/stashkeep/internal/repository"
	"github.com/stashkeep/stashkeep/internal/service"
	"github.com/stashkeep/stashkeep/internal/storage"
)

// memUserStore is an in-memory service.UserStore.
type memUserStore struct {
	mu    sync.Mutex
	users map[string]*model.User // keyed by username
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[string]*model.User)}
}

func (s *memUserStore) CreateUser(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.Username]; ok {
		return repository.ErrUsernameExists
	}
	cp := *user
	s.users[user.Username] = &cp
	return nil
}

func (s *memUserStore) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[username]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *user
	return &cp, nil
}

// memItemStore is an in-memory service.ItemStore.
type memItemStore struct {
	mu    sync.Mutex
	items map[string]*model.Item
}

func newMemItemStore() *memItemStore {
	return &memItemStore{items: make(map[string]*model.Item)}
}

func (s *memItemStore) CreateItem(_ context.Context, item *model.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *item
	s.items[item.ID] = &cp
	return nil
}

func (s *memItemStore) GetItemByID(_ context.Context, id string) (*model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return nil, repository.ErrItemNotFound
	}
	cp := *item
	return &cp, nil
}

func (s *memItemStore) ListItemsByOwner(_ context.Context, ownerID string) ([]*model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]*model.Item, 0)
	for _, item := range s.items {
		if item.OwnerID == ownerID {
			cp := *item
			items = append(items, &cp)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *memItemStore) UpdateItem(_ context.Context, item *model.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[item.ID]; !ok {
		return repository.ErrItemNotFound
	}
	cp := *item
	s.items[item.ID] = &cp
	return nil
}

func (s *memItemStore) DeleteItem(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return repository.ErrItemNotFound
	}
	delete(s.items, id)
	return nil
}

// testServer bundles a router over in-memory stores with real services.
type testServer struct {
	router *chi.Mux
	issuer *auth.Issuer
	users  *memUserStore
	items  *memItemStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	issuer, err := auth.NewIssuer("handler-test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}

	users := newMemUserStore()
	items := newMemItemStore()

	files, err := storage.NewDisk(t.TempDir())
	if err != nil {
		t.Fatalf("NewDisk: %v", err)
	}

	accountService := service.NewAccountService(users, issuer)
	itemService := service.NewItemService(items, nil, files)

	h := handler.New()
	authHandler := handler.NewAuthHandler(accountService, logger)
	itemHandler := handler.NewItemHandler(itemService, logger, 1<<20)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer(logger))

	r.Post("/register", authHandler.Register)
	r.Post("/login", authHandler.Login)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(middleware.AuthConfig{Logger: logger, Issuer: issuer}))
		r.Get("/protected", authHandler.Protected)
		r.Route("/items", func(r chi.Router) {
			r.Get("/", itemHandler.List)
			r.Post("/", itemHandler.Create)
			r.Put("/{id}", itemHandler.Update)
			r.Delete("/{id}", itemHandler.Delete)
		})
	})

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return &testServer{router: r, issuer: issuer, users: users, items: items}
}

// do executes a JSON request against the router and returns the recorder.
func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

// register creates an account and returns a login token for it.
func (ts *testServer) register(t *testing.T, username, password string) string {
	t.Helper()

	rec := ts.do(t, http.MethodPost, "/register", "", map[string]string{
		"username": username,
		"password": password,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: status = %d, body %s", username, rec.Code, rec.Body.String())
	}

	rec = ts.do(t, http.MethodPost, "/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: status = %d, body %s", username, rec.Code, rec.Body.String())
	}

	var resp struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
	}
	decodeBody(t, rec, &resp)
	if resp.Token == "" {
		t.Fatalf("login %s: empty token", username)
	}
	return resp.Token
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}
