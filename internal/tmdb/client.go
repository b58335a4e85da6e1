package tmdb

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"movie-explorer/internal/models"
)

const (
	defaultBaseURL  = "https://api.themoviedb.org/3"
	defaultImageURL = "https://image.tmdb.org/t/p"
	defaultLanguage = "en-US"
	defaultTimeout  = 10 * time.Second
	requestInterval = 100 * time.Millisecond // 请求间隔，避免触发限流
)

// Client handles all interactions with the TMDB API
type Client struct {
	apiKey       string
	baseURL      string
	imageBaseURL string
	httpClient   *http.Client

	mu          sync.Mutex
	lastRequest time.Time
}

// APIError represents an error returned by the TMDB API
type APIError struct {
	HTTPStatus    int
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("TMDB API error (code %d): %s", e.StatusCode, e.StatusMessage)
}

// NotFound reports whether the API rejected the request because the
// resource does not exist. TMDB uses status_code 34 for missing resources.
func (e *APIError) NotFound() bool {
	return e.HTTPStatus == http.StatusNotFound || e.StatusCode == 34
}

// IsNotFound reports whether err is or wraps a TMDB not-found error.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.NotFound()
}

// NewClient creates a new TMDB API client
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:       apiKey,
		baseURL:      defaultBaseURL,
		imageBaseURL: defaultImageURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// NewClientWithHTTP creates a new TMDB API client with a custom HTTP client
func NewClientWithHTTP(apiKey string, httpClient *http.Client) *Client {
	return &Client{
		apiKey:       apiKey,
		baseURL:      defaultBaseURL,
		imageBaseURL: defaultImageURL,
		httpClient:   httpClient,
	}
}

// SetBaseURL allows overriding the base URL (useful for testing)
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

// FetchTrending fetches the daily trending movie listing.
// Calls TMDB /trending/movie/day.
func (c *Client) FetchTrending(page int) (*models.PageResult, error) {
	return c.listRequest("/trending/movie/day", url.Values{}, page)
}

// FetchTopRated fetches the top-rated movie listing.
// Calls TMDB /movie/top_rated.
func (c *Client) FetchTopRated(page int) (*models.PageResult, error) {
	return c.listRequest("/movie/top_rated", url.Values{}, page)
}

// FetchNowPlaying fetches the now-playing movie listing.
// Calls TMDB /movie/now_playing.
func (c *Client) FetchNowPlaying(page int) (*models.PageResult, error) {
	return c.listRequest("/movie/now_playing", url.Values{}, page)
}

// FetchUpcoming fetches the upcoming movie listing.
// Calls TMDB /movie/upcoming.
func (c *Client) FetchUpcoming(page int) (*models.PageResult, error) {
	return c.listRequest("/movie/upcoming", url.Values{}, page)
}

// Discover fetches a filtered and sorted movie listing.
// Calls TMDB /discover/movie with the given query parameters,
// normally produced by BuildDiscoverQuery.
func (c *Client) Discover(params url.Values, page int) (*models.PageResult, error) {
	merged := url.Values{}
	for key, vals := range params {
		for _, v := range vals {
			merged.Add(key, v)
		}
	}
	return c.listRequest("/discover/movie", merged, page)
}

// Search searches movies by query string.
// Calls TMDB /search/movie. An empty query returns an empty page
// without issuing a request.
func (c *Client) Search(query string, page int) (*models.PageResult, error) {
	if query == "" {
		return &models.PageResult{Page: 1, Results: []models.Movie{}, TotalPages: 1}, nil
	}
	params := url.Values{}
	params.Set("query", query)
	return c.listRequest("/search/movie", params, page)
}

// genreResponse wraps the TMDB genre list response
type genreResponse struct {
	Genres []models.Genre `json:"genres"`
}

// GetGenres fetches the movie genre list.
// Calls TMDB /genre/movie/list.
func (c *Client) GetGenres() ([]models.Genre, error) {
	var result genreResponse
	if err := c.get("/genre/movie/list", url.Values{}, &result); err != nil {
		return nil, fmt.Errorf("failed to get genres: %w", err)
	}
	if result.Genres == nil {
		result.Genres = []models.Genre{}
	}
	return result.Genres, nil
}

// GetMovieDetails fetches the extended record for a single movie,
// with credits and videos appended.
// Calls TMDB /movie/{id}?append_to_response=credits,videos.
func (c *Client) GetMovieDetails(movieID int) (*models.MovieDetails, error) {
	if movieID <= 0 {
		return nil, fmt.Errorf("invalid movie ID: %d", movieID)
	}

	params := url.Values{}
	params.Set("append_to_response", "credits,videos")

	var details models.MovieDetails
	if err := c.get(fmt.Sprintf("/movie/%d", movieID), params, &details); err != nil {
		return nil, fmt.Errorf("failed to get movie details: %w", err)
	}
	return &details, nil
}

// ImageURL builds the full URL for a poster or backdrop path.
// Returns the empty string when path is absent.
func (c *Client) ImageURL(path, size string) string {
	if path == "" {
		return ""
	}
	if size == "" {
		size = "original"
	}
	return fmt.Sprintf("%s/%s%s", c.imageBaseURL, size, path)
}

// listRequest performs a paginated listing call and decodes one result page.
func (c *Client) listRequest(path string, params url.Values, page int) (*models.PageResult, error) {
	if page < 1 {
		page = 1
	}
	params.Set("page", strconv.Itoa(page))

	var result models.PageResult
	if err := c.get(path, params, &result); err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", path, err)
	}
	if result.Results == nil {
		result.Results = []models.Movie{}
	}
	if result.TotalPages < 1 {
		result.TotalPages = 1
	}
	return &result, nil
}

// get performs an authenticated GET against the API and decodes the body into out.
func (c *Client) get(path string, params url.Values, out any) error {
	c.rateLimit() // 限流

	params.Set("api_key", c.apiKey)
	params.Set("language", defaultLanguage)
	endpoint := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	resp, err := c.httpClient.Get(endpoint)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkResponse(resp); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// checkResponse checks the HTTP response for errors
func (c *Client) checkResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{
			HTTPStatus:    resp.StatusCode,
			StatusCode:    resp.StatusCode,
			StatusMessage: fmt.Sprintf("HTTP %d: failed to read error response", resp.StatusCode),
		}
	}

	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err != nil {
		return &APIError{
			HTTPStatus:    resp.StatusCode,
			StatusCode:    resp.StatusCode,
			StatusMessage: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, string(body)),
		}
	}

	apiErr.HTTPStatus = resp.StatusCode
	if apiErr.StatusCode == 0 {
		apiErr.StatusCode = resp.StatusCode
	}
	if apiErr.StatusMessage == "" {
		apiErr.StatusMessage = fmt.Sprintf("HTTP %d error", resp.StatusCode)
	}

	return &apiErr
}

// rateLimit ensures requests are spaced out to avoid hitting API limits.
// The client is shared across handler goroutines, so the read and update
// of lastRequest happen under the lock.
func (c *Client) rateLimit() {
	c.mu.Lock()
	defer c.mu.Unlock()

	elapsed := time.Since(c.lastRequest)
	if elapsed < requestInterval {
		time.Sleep(requestInterval - elapsed)
	}
	c.lastRequest = time.Now()
}
