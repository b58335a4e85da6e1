package tmdb

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-explorer/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient("test-api-key")
	client.SetBaseURL(server.URL)
	return client
}

func TestFetchTrending_DecodesPage(t *testing.T) {
	var gotPath string
	var gotQuery url.Values
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		json.NewEncoder(w).Encode(models.PageResult{
			Page:       2,
			Results:    []models.Movie{{ID: 1, Title: "Heat", VoteAverage: 8.3}},
			TotalPages: 5,
		})
	})

	result, err := client.FetchTrending(2)
	require.NoError(t, err)

	assert.Equal(t, "/trending/movie/day", gotPath)
	assert.Equal(t, "2", gotQuery.Get("page"))
	assert.Equal(t, "test-api-key", gotQuery.Get("api_key"))
	assert.Equal(t, "en-US", gotQuery.Get("language"))
	assert.Equal(t, 5, result.TotalPages)
	require.Len(t, result.Results, 1)
	assert.Equal(t, "Heat", result.Results[0].Title)
}

func TestDiscover_ForwardsFilterParams(t *testing.T) {
	var gotQuery url.Values
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		json.NewEncoder(w).Encode(models.PageResult{Page: 1, TotalPages: 1})
	})

	params := BuildDiscoverQuery(models.FilterSet{
		Genres: []int{18, 53},
		Year:   2010,
		SortBy: models.SortRatingDesc,
	})
	_, err := client.Discover(params, 1)
	require.NoError(t, err)

	assert.Equal(t, "18,53", gotQuery.Get("with_genres"))
	assert.Equal(t, "2010", gotQuery.Get("primary_release_year"))
	assert.Equal(t, "vote_average.desc", gotQuery.Get("sort_by"))
	assert.Equal(t, "1", gotQuery.Get("page"))
}

func TestSearch_EmptyQuerySkipsRequest(t *testing.T) {
	requests := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		json.NewEncoder(w).Encode(models.PageResult{})
	})

	result, err := client.Search("", 1)
	require.NoError(t, err)

	assert.Zero(t, requests)
	assert.Empty(t, result.Results)
	assert.Equal(t, 1, result.TotalPages)
}

func TestSearch_EscapesQuery(t *testing.T) {
	var gotQuery url.Values
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		json.NewEncoder(w).Encode(models.PageResult{Page: 1, TotalPages: 1})
	})

	_, err := client.Search("blade runner & co", 1)
	require.NoError(t, err)

	assert.Equal(t, "blade runner & co", gotQuery.Get("query"))
}

func TestGetMovieDetails_AppendsCreditsAndVideos(t *testing.T) {
	var gotQuery url.Values
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		json.NewEncoder(w).Encode(models.MovieDetails{
			ID:     603,
			Title:  "The Matrix",
			Genres: []models.Genre{{ID: 28, Name: "Action"}},
			Credits: models.Credits{
				Cast: []models.CastMember{{ID: 6384, Name: "Keanu Reeves", Character: "Neo"}},
			},
			Videos: models.Videos{
				Results: []models.Video{{Key: "abc", Site: "YouTube", Type: "Trailer"}},
			},
		})
	})

	details, err := client.GetMovieDetails(603)
	require.NoError(t, err)

	assert.Equal(t, "credits,videos", gotQuery.Get("append_to_response"))
	assert.Equal(t, "The Matrix", details.Title)
	require.Len(t, details.Credits.Cast, 1)
	assert.Equal(t, "Neo", details.Credits.Cast[0].Character)
	require.Len(t, details.Videos.Results, 1)
}

func TestGetMovieDetails_InvalidID(t *testing.T) {
	client := NewClient("test-api-key")

	_, err := client.GetMovieDetails(0)
	assert.Error(t, err)
}

func TestAPIError_Decoded(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{
			"status_code":    34,
			"status_message": "The resource you requested could not be found.",
		})
	})

	_, err := client.GetMovieDetails(99999999)
	require.Error(t, err)

	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "could not be found")
}

func TestAPIError_NonJSONBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream broke"))
	})

	_, err := client.FetchTopRated(1)
	require.Error(t, err)
	assert.False(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "upstream broke")
}

func TestListRequest_NilResultsBecomeEmptySlice(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"page":1,"total_pages":0}`))
	})

	result, err := client.FetchNowPlaying(1)
	require.NoError(t, err)

	assert.NotNil(t, result.Results)
	assert.Equal(t, 1, result.TotalPages)
}

func TestConcurrentFetches_ShareOneClient(t *testing.T) {
	var requests atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		json.NewEncoder(w).Encode(models.PageResult{Page: 1, TotalPages: 1})
	})

	// One client serves every handler goroutine, so parallel fetches
	// must be safe through the rate limiter.
	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = client.FetchTrending(1)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, int32(4), requests.Load())
}

func TestImageURL(t *testing.T) {
	client := NewClient("test-api-key")

	assert.Equal(t, "https://image.tmdb.org/t/p/w500/poster.jpg", client.ImageURL("/poster.jpg", "w500"))
	assert.Equal(t, "https://image.tmdb.org/t/p/original/poster.jpg", client.ImageURL("/poster.jpg", ""))
	assert.Equal(t, "", client.ImageURL("", "w500"))
}
