package service_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/OdenLounge/odenLounge-backend/internal/assets"
	"github.com/OdenLounge/odenLounge-backend/internal/errs"
	"github.com/OdenLounge/odenLounge-backend/internal/events"
	"github.com/OdenLounge/odenLounge-backend/internal/notify"
	"github.com/OdenLounge/odenLounge-backend/internal/storage"
)

// memStore is an in-memory ObjectStore recording deletes so tests can assert
// compensating cleanup.
type memStore struct {
	objects map[string][]byte
	deleted []string
}

func newMemStore() *memStore {
	return &memStore{objects: make(map[string][]byte)}
}

func (s *memStore) Put(ctx context.Context, key string, data []byte) (string, error) {
	s.objects[key] = data
	return "http://cdn.test/" + key, nil
}

func (s *memStore) Delete(ctx context.Context, key string) error {
	if _, ok := s.objects[key]; !ok {
		return errs.ErrNotFound
	}
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return nil
}

// failMailer simulates a broken email provider.
type failMailer struct{}

func (failMailer) Send(msg notify.Email) error { return errors.New("smtp unreachable") }

// env bundles the collaborators a service test needs.
type env struct {
	db         *storage.DB
	store      *memStore
	pipeline   *assets.Pipeline
	hub        *events.Hub
	dispatcher *notify.Dispatcher
}

func setup(t *testing.T) *env {
	t.Helper()
	db, err := storage.InitDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("could not open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	log := zap.NewNop()
	store := newMemStore()
	dispatcher := notify.NewDispatcher(failMailer{}, 1, log)
	t.Cleanup(dispatcher.Shutdown)

	return &env{
		db:         db,
		store:      store,
		pipeline:   assets.NewPipeline(store, log),
		hub:        events.NewHub(log),
		dispatcher: dispatcher,
	}
}

func testImage(t *testing.T) assets.Upload {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding test image: %v", err)
	}
	return assets.Upload{Data: buf.Bytes(), Filename: "photo.png", ContentType: "image/png"}
}

func floatPtr(f float64) *float64 { return &f }

func strPtr(s string) *string { return &s }
