// Package catalog holds the in-memory list of the current user's videos. The
// list is only populated while a session is active; the composition root
// drives that through SetActive.
package catalog

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/streambuddy/cli/internal/logging"
	"github.com/streambuddy/cli/internal/models"
)

// VideoAPI captures the backend operations the catalog store depends on.
type VideoAPI interface {
	ListVideos(ctx context.Context) ([]models.Video, error)
	UploadVideo(ctx context.Context, title, filename string, r io.Reader) error
	DeleteVideo(ctx context.Context, title string) error
}

// Store manages the video catalog.
type Store struct {
	api VideoAPI

	mu       sync.RWMutex
	videos   []models.Video
	active   bool
	inFlight int
}

// NewStore constructs a catalog store over the provided API client.
func NewStore(api VideoAPI) *Store {
	if api == nil {
		panic("catalog: api must not be nil")
	}
	return &Store{api: api}
}

// Videos returns a copy of the current list.
func (s *Store) Videos() []models.Video {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Video, len(s.videos))
	copy(out, s.videos)
	return out
}

// Get is a pure lookup against the in-memory list. It performs no network
// access; an unknown id yields an absent result, not an error.
func (s *Store) Get(id string) (models.Video, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, v := range s.videos {
		if v.ID == id {
			return v, true
		}
	}
	return models.Video{}, false
}

// Loading reports whether any refresh, upload, or delete is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inFlight > 0
}

// Refresh fetches the full video list and replaces the in-memory list
// atomically. Failures are absorbed: on any error, including a response body
// that is not a list, the list is reset to empty rather than left stale.
func (s *Store) Refresh(ctx context.Context) {
	ctx, span := logging.StartSpan(ctx, "catalog.refresh")
	defer span.End()

	s.begin()
	defer s.end()

	videos, err := s.api.ListVideos(ctx)
	if err != nil {
		logging.FromContext(ctx).Warn("refresh catalog", "error", err)
		videos = nil
	}

	s.mu.Lock()
	s.videos = videos
	s.mu.Unlock()
}

// Upload sends the raw file with a title derived by stripping the filename's
// extension, then refreshes to pick up the server-assigned entry. On failure
// the existing list is untouched.
func (s *Store) Upload(ctx context.Context, filename string, r io.Reader) error {
	ctx, span := logging.StartSpan(ctx, "catalog.upload")
	defer span.End()

	s.begin()
	defer s.end()

	base := filepath.Base(filename)
	title := strings.TrimSuffix(base, filepath.Ext(base))

	if err := s.api.UploadVideo(ctx, title, base, r); err != nil {
		return err
	}

	s.Refresh(ctx)
	return nil
}

// Delete resolves the id to its current title and issues the title-keyed
// backend delete, then refreshes. An id not present in the catalog completes
// as a no-op without contacting the backend. On backend failure the list is
// untouched until the next successful refresh.
func (s *Store) Delete(ctx context.Context, id string) error {
	ctx, span := logging.StartSpan(ctx, "catalog.delete")
	defer span.End()

	s.begin()
	defer s.end()

	video, ok := s.Get(id)
	if !ok {
		return nil
	}

	if err := s.api.DeleteVideo(ctx, video.Title); err != nil {
		return err
	}

	s.Refresh(ctx)
	return nil
}

// SetActive is called by the composition root on every session-presence
// transition. An absent-to-present transition triggers exactly one refresh;
// a present-to-absent transition empties the list. The store never refreshes
// on its own initiative otherwise.
func (s *Store) SetActive(ctx context.Context, active bool) {
	s.mu.Lock()
	was := s.active
	s.active = active
	if !active {
		s.videos = nil
	}
	s.mu.Unlock()

	if active && !was {
		s.Refresh(ctx)
	}
}

// begin and end track in-flight operations for the loading flag. Operations
// nest (an upload triggers a refresh), so a counter is used rather than a
// boolean.
func (s *Store) begin() {
	s.mu.Lock()
	s.inFlight++
	s.mu.Unlock()
}

func (s *Store) end() {
	s.mu.Lock()
	s.inFlight--
	s.mu.Unlock()
}
