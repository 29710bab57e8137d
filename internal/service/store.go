// Package service implements the store façade: the sole access path to the
// metadata snapshot and the blob store. Every domain mutation is a
// load-state, compute-new-state, persist-state cycle.
package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/smartquiz/smartquiz-server/internal/logger"
	"github.com/smartquiz/smartquiz-server/internal/model"
)

// Store composes the snapshot store and the blob store into domain
// operations. A single mutex serializes every read-modify-write cycle, so
// concurrent mutations cannot silently drop each other's whole-state writes.
type Store struct {
	snapshots model.SnapshotStore
	blobs     model.BlobStore
	logger    *logger.Logger

	mu  sync.Mutex
	now func() time.Time
}

// NewStore creates a store façade over the given backends.
func NewStore(snapshots model.SnapshotStore, blobs model.BlobStore, logger *logger.Logger) *Store {
	return &Store{
		snapshots: snapshots,
		blobs:     blobs,
		logger:    logger,
		now:       time.Now,
	}
}

// Login looks up a user by phone number and persists it as the current user.
// Returns model.ErrNotFound when no user matches and model.ErrExpired when a
// learner's access window has elapsed. Admins never expire; a learner without
// an expiry date is treated as non-expired.
func (s *Store) Login(ctx context.Context, phoneNumber string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.snapshots.Load(ctx)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to load state: %w", err)
	}

	var user model.User
	found := false
	for _, u := range state.Users {
		if u.PhoneNumber == phoneNumber {
			user = u
			found = true
			break
		}
	}
	if !found {
		return model.User{}, fmt.Errorf("user %q: %w", phoneNumber, model.ErrNotFound)
	}

	if user.Expired(s.now()) {
		return model.User{}, fmt.Errorf("user %q: %w", phoneNumber, model.ErrExpired)
	}

	next := state.Clone()
	u := user
	next.CurrentUser = &u
	if err := s.snapshots.Save(ctx, next); err != nil {
		return model.User{}, fmt.Errorf("failed to persist session: %w", err)
	}

	return user, nil
}

// Logout clears the current user from the persisted snapshot.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.snapshots.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}

	next := state.Clone()
	next.CurrentUser = nil
	if err := s.snapshots.Save(ctx, next); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}

// CurrentUser returns the persisted session user, if any.
func (s *Store) CurrentUser(ctx context.Context) (model.User, bool, error) {
	state, err := s.snapshots.Load(ctx)
	if err != nil {
		return model.User{}, false, fmt.Errorf("failed to load state: %w", err)
	}
	if state.CurrentUser == nil {
		return model.User{}, false, nil
	}
	return *state.CurrentUser, true, nil
}

// AddUser appends a user to the user set. Returns model.ErrDuplicateIdentity
// when the phone number is already present. No format validation happens at
// this layer.
func (s *Store) AddUser(ctx context.Context, user model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.snapshots.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}

	for _, u := range state.Users {
		if u.PhoneNumber == user.PhoneNumber {
			return fmt.Errorf("user %q: %w", user.PhoneNumber, model.ErrDuplicateIdentity)
		}
	}

	next := state.Clone()
	next.Users = append(next.Users, user)
	if err := s.snapshots.Save(ctx, next); err != nil {
		return fmt.Errorf("failed to persist state: %w", err)
	}
	return nil
}

// AddDocument stores the binary payload in the blob store and appends the
// document metadata to the snapshot. The blob write happens first: a failure
// there leaves no metadata behind, so the snapshot never references an
// unreachable payload. If the metadata write fails after a successful blob
// write, the blob is deleted again.
func (s *Store) AddDocument(ctx context.Context, doc model.Document, content []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.blobs.Upload(ctx, doc.ID, bytes.NewReader(content)); err != nil {
		return fmt.Errorf("failed to store document payload: %w", err)
	}

	// State is read after the blob write completes. A snapshot captured
	// before the asynchronous gap could be stale by now.
	state, err := s.snapshots.Load(ctx)
	if err != nil {
		s.deleteBlob(ctx, doc.ID)
		return fmt.Errorf("failed to load state: %w", err)
	}

	next := state.Clone()
	next.Documents = append(next.Documents, doc)
	if err := s.snapshots.Save(ctx, next); err != nil {
		s.deleteBlob(ctx, doc.ID)
		return fmt.Errorf("failed to persist document metadata: %w", err)
	}

	return nil
}

// AddQuiz appends a quiz. Id uniqueness is guaranteed by the caller's id
// generation; quizzes are immutable once stored.
func (s *Store) AddQuiz(ctx context.Context, quiz model.Quiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.snapshots.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}

	next := state.Clone()
	next.Quizzes = append(next.Quizzes, quiz)
	if err := s.snapshots.Save(ctx, next); err != nil {
		return fmt.Errorf("failed to persist quiz: %w", err)
	}
	return nil
}

// Users returns the full user set of the current snapshot.
func (s *Store) Users(ctx context.Context) ([]model.User, error) {
	state, err := s.snapshots.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}
	return state.Users, nil
}

// Documents returns all document metadata. Binary payloads are never part of
// the snapshot.
func (s *Store) Documents(ctx context.Context) ([]model.Document, error) {
	state, err := s.snapshots.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}
	return state.Documents, nil
}

// Document returns the document metadata with the given id, or
// model.ErrNotFound.
func (s *Store) Document(ctx context.Context, id string) (model.Document, error) {
	docs, err := s.Documents(ctx)
	if err != nil {
		return model.Document{}, err
	}
	for _, d := range docs {
		if d.ID == id {
			return d, nil
		}
	}
	return model.Document{}, fmt.Errorf("document %q: %w", id, model.ErrNotFound)
}

// Quizzes returns all stored quizzes.
func (s *Store) Quizzes(ctx context.Context) ([]model.Quiz, error) {
	state, err := s.snapshots.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}
	return state.Quizzes, nil
}

// Quiz returns the quiz with the given id, or model.ErrNotFound.
func (s *Store) Quiz(ctx context.Context, id string) (model.Quiz, error) {
	quizzes, err := s.Quizzes(ctx)
	if err != nil {
		return model.Quiz{}, err
	}
	for _, q := range quizzes {
		if q.ID == id {
			return q, nil
		}
	}
	return model.Quiz{}, fmt.Errorf("quiz %q: %w", id, model.ErrNotFound)
}

// DocumentContent returns the stored payload of a document, or
// model.ErrNotFound when no blob exists under the id.
func (s *Store) DocumentContent(ctx context.Context, id string) ([]byte, error) {
	rc, err := s.blobs.Download(ctx, id)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read document payload: %w", err)
	}
	return data, nil
}

func (s *Store) deleteBlob(ctx context.Context, key string) {
	if err := s.blobs.Delete(ctx, key); err != nil {
		s.logger.Error("failed to delete orphaned blob", "key", key, "error", err)
	}
}
