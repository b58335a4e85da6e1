package service

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"

	"movie-explorer/internal/models"
)

const favoritesKey = "favorites"

// FavoritesService holds the favorited movies, keyed by movie id.
// Every mutation rewrites the whole persisted collection; when the write
// fails the in-memory set stays authoritative for the session.
// The service has no authorization check of its own - gating happens at
// the call site.
type FavoritesService struct {
	mu     sync.Mutex
	store  KV
	movies []models.Movie
}

// NewFavoritesService creates a FavoritesService, loading any persisted
// collection. A missing or unreadable record starts the set empty.
func NewFavoritesService(store KV) *FavoritesService {
	s := &FavoritesService{store: store}

	raw, ok, err := store.Get(favoritesKey)
	if err != nil {
		log.Warn().Err(err).Msg("failed to load favorites")
		return s
	}
	if !ok {
		return s
	}
	if err := json.Unmarshal([]byte(raw), &s.movies); err != nil {
		log.Warn().Err(err).Msg("failed to decode stored favorites")
		s.movies = nil
	}
	return s
}

// Add inserts a movie into the set. Adding an id already present is a no-op.
func (s *FavoritesService) Add(movie models.Movie) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range s.movies {
		if m.ID == movie.ID {
			return
		}
	}
	s.movies = append(s.movies, movie)
	s.persistLocked()
}

// Remove deletes the movie with the given id from the set.
func (s *FavoritesService) Remove(movieID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.movies[:0]
	for _, m := range s.movies {
		if m.ID != movieID {
			kept = append(kept, m)
		}
	}
	if len(kept) == len(s.movies) {
		return
	}
	s.movies = kept
	s.persistLocked()
}

// IsFavorite reports whether the movie id is in the set.
func (s *FavoritesService) IsFavorite(movieID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range s.movies {
		if m.ID == movieID {
			return true
		}
	}
	return false
}

// All returns the favorited movies in insertion order.
func (s *FavoritesService) All() []models.Movie {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Movie, len(s.movies))
	copy(out, s.movies)
	return out
}

// persistLocked writes the whole collection. Callers must hold s.mu.
func (s *FavoritesService) persistLocked() {
	raw, err := json.Marshal(s.movies)
	if err != nil {
		log.Warn().Err(err).Msg("failed to encode favorites")
		return
	}
	if err := s.store.Set(favoritesKey, string(raw)); err != nil {
		log.Warn().Err(err).Msg("failed to persist favorites")
	}
}
