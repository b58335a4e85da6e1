package service

import (
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"movie-explorer/internal/models"
	"movie-explorer/internal/tmdb"
)

const lastSearchedKey = "last_searched"

// CatalogClient is the contract the session depends on for fetching
// listing pages. *tmdb.Client satisfies it.
type CatalogClient interface {
	FetchTrending(page int) (*models.PageResult, error)
	FetchTopRated(page int) (*models.PageResult, error)
	FetchNowPlaying(page int) (*models.PageResult, error)
	FetchUpcoming(page int) (*models.PageResult, error)
	Discover(params url.Values, page int) (*models.PageResult, error)
	Search(query string, page int) (*models.PageResult, error)
}

// CatalogState is a point-in-time snapshot of the browsing session.
type CatalogState struct {
	Mode       models.BrowseMode `json:"mode"`
	Filters    models.FilterSet  `json:"filters"`
	Query      string            `json:"query,omitempty"`
	Page       int               `json:"page"`
	TotalPages int               `json:"total_pages"`
	Movies     []models.Movie    `json:"movies"`
	Loading    bool              `json:"loading"`
	Error      string            `json:"error,omitempty"`
}

// CatalogService owns the browsing session: the active mode, the filter
// selection, the accumulated result pages and the pagination cursor.
// Every user action maps to one named transition that decides whether to
// fetch and whether the response replaces or extends the result list.
//
// Each fetch carries a monotonic token; a response whose token is no
// longer the latest issued is discarded, so overlapping fetches cannot
// overwrite newer state with older results.
type CatalogService struct {
	mu     sync.Mutex
	client CatalogClient
	store  KV

	mode       models.BrowseMode
	filters    models.FilterSet
	query      string
	page       int
	totalPages int
	movies     []models.Movie
	loading    bool
	lastErr    string

	lastSearched string
	fetchToken   uint64
}

// NewCatalogService creates a catalog session in the initial state:
// mode "all", default filters, first page. The last-searched term is
// restored from storage when present.
func NewCatalogService(client CatalogClient, store KV) *CatalogService {
	s := &CatalogService{
		client:     client,
		store:      store,
		mode:       models.ModeAll,
		filters:    models.DefaultFilters(),
		page:       1,
		totalPages: 1,
	}

	if term, ok, err := store.Get(lastSearchedKey); err != nil {
		log.Warn().Err(err).Msg("failed to load last searched term")
	} else if ok {
		s.lastSearched = term
	}

	return s
}

// State returns a snapshot of the current session.
func (s *CatalogService) State() CatalogState {
	s.mu.Lock()
	defer s.mu.Unlock()

	movies := make([]models.Movie, len(s.movies))
	copy(movies, s.movies)

	return CatalogState{
		Mode:       s.mode,
		Filters:    s.filters,
		Query:      s.query,
		Page:       s.page,
		TotalPages: s.totalPages,
		Movies:     movies,
		Loading:    s.loading,
		Error:      s.lastErr,
	}
}

// LastSearched returns the persisted last search term.
func (s *CatalogService) LastSearched() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSearched
}

// SelectMode switches the session to a new browsing mode, resets the
// pagination cursor, clears the result list and issues the
// mode-appropriate first-page fetch.
func (s *CatalogService) SelectMode(mode models.BrowseMode) error {
	if !models.ValidBrowseMode(mode) {
		return fmt.Errorf("unknown browse mode: %q", mode)
	}

	s.mu.Lock()
	s.mode = mode
	s.page = 1
	s.movies = nil
	token := s.beginFetchLocked()
	filters, query := s.filters, s.query
	s.mu.Unlock()

	result, err := s.fetch(mode, filters, query, 1)
	return s.finishFetch(token, result, err, 1, true)
}

// ApplyFilters replaces the filter selection wholesale and re-issues the
// discover fetch. Filter changes always force the session back onto the
// "all" listing, whatever mode it was in.
func (s *CatalogService) ApplyFilters(filters models.FilterSet) error {
	if filters.SortBy == "" {
		filters.SortBy = models.SortPopularityDesc
	}

	s.mu.Lock()
	s.filters = filters
	s.mode = models.ModeAll
	s.page = 1
	token := s.beginFetchLocked()
	s.mu.Unlock()

	result, err := s.fetch(models.ModeAll, filters, "", 1)
	return s.finishFetch(token, result, err, 1, true)
}

// LoadMore fetches the next page with the current mode, filters and
// query, appending the results to the list. It is a no-op on the last
// page or while a fetch is in flight.
func (s *CatalogService) LoadMore() error {
	s.mu.Lock()
	if s.loading || s.page >= s.totalPages {
		s.mu.Unlock()
		return nil
	}
	next := s.page + 1
	token := s.beginFetchLocked()
	mode, filters, query := s.mode, s.filters, s.query
	s.mu.Unlock()

	result, err := s.fetch(mode, filters, query, next)
	return s.finishFetch(token, result, err, next, false)
}

// Search switches the session to search mode for the given term and
// issues a first-page search fetch. A whitespace-only term is a no-op.
// The trimmed term is persisted so the search box can be pre-filled on
// the next visit.
func (s *CatalogService) Search(query string) error {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil
	}

	s.mu.Lock()
	s.mode = models.ModeSearch
	s.query = trimmed
	s.page = 1
	s.lastSearched = trimmed
	token := s.beginFetchLocked()
	filters := s.filters
	s.mu.Unlock()

	if err := s.store.Set(lastSearchedKey, trimmed); err != nil {
		log.Warn().Err(err).Msg("failed to persist last searched term")
	}

	result, err := s.fetch(models.ModeSearch, filters, trimmed, 1)
	return s.finishFetch(token, result, err, 1, true)
}

// fetch issues the request matching the mode. Search mode without a term
// falls back to the filtered discover listing.
func (s *CatalogService) fetch(mode models.BrowseMode, filters models.FilterSet, query string, page int) (*models.PageResult, error) {
	switch mode {
	case models.ModeTrending:
		return s.client.FetchTrending(page)
	case models.ModeTopRated:
		return s.client.FetchTopRated(page)
	case models.ModeNowPlaying:
		return s.client.FetchNowPlaying(page)
	case models.ModeUpcoming:
		return s.client.FetchUpcoming(page)
	case models.ModeSearch:
		if query != "" {
			return s.client.Search(query, page)
		}
		return s.client.Discover(tmdb.BuildDiscoverQuery(filters), page)
	default:
		return s.client.Discover(tmdb.BuildDiscoverQuery(filters), page)
	}
}

// beginFetchLocked marks the session loading and issues a new fetch
// token. Callers must hold s.mu.
func (s *CatalogService) beginFetchLocked() uint64 {
	s.loading = true
	s.lastErr = ""
	s.fetchToken++
	return s.fetchToken
}

// finishFetch folds a resolved fetch into the session. Responses whose
// token is stale are dropped without touching state.
func (s *CatalogService) finishFetch(token uint64, result *models.PageResult, err error, page int, replace bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.fetchToken {
		// A newer fetch was issued while this one was in flight.
		return nil
	}

	s.loading = false
	if err != nil {
		s.lastErr = err.Error()
		return err
	}

	if replace {
		s.movies = result.Results
	} else {
		// Pages are concatenated as delivered; an overlapping movie on
		// two pages appears twice.
		s.movies = append(s.movies, result.Results...)
	}
	s.page = page
	s.totalPages = result.TotalPages
	return nil
}
