package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"movie-explorer/internal/models"
	"movie-explorer/internal/service"
	"movie-explorer/internal/tmdb"
)

// Handler handles all HTTP requests
type Handler struct {
	tmdbClient *tmdb.Client
	catalog    *service.CatalogService
	favorites  *service.FavoritesService
	auth       *service.AuthService
	theme      *service.ThemeService
	backupSvc  *service.BackupService
	jwtSecret  []byte
}

// NewHandler creates a new Handler
func NewHandler(
	tmdbClient *tmdb.Client,
	catalog *service.CatalogService,
	favorites *service.FavoritesService,
	auth *service.AuthService,
	theme *service.ThemeService,
	backupSvc *service.BackupService,
	jwtSecret string,
) *Handler {
	return &Handler{
		tmdbClient: tmdbClient,
		catalog:    catalog,
		favorites:  favorites,
		auth:       auth,
		theme:      theme,
		backupSvc:  backupSvc,
		jwtSecret:  []byte(jwtSecret),
	}
}

// RegisterRoutes registers all API routes
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")

	api.GET("/health", h.Health)

	// Catalog browsing
	api.GET("/movies", h.BrowseMovies)
	api.POST("/movies/load-more", h.LoadMore)
	api.PUT("/filters", h.ApplyFilters)
	api.GET("/search", h.SearchMovies)
	api.GET("/movies/:id", h.GetMovieDetails)
	api.GET("/genres", h.GetGenres)

	// Accounts
	auth := api.Group("/auth")
	auth.POST("/signup", h.Signup)
	auth.POST("/login", h.Login)
	auth.POST("/logout", h.authRequired, h.Logout)
	auth.GET("/me", h.authRequired, h.CurrentUser)

	// Favorites mutation requires a logged-in user; the store itself
	// does not check.
	fav := api.Group("/favorites")
	fav.Use(h.authRequired)
	fav.GET("", h.GetFavorites)
	fav.POST("", h.AddFavorite)
	fav.DELETE("/:id", h.RemoveFavorite)

	// Theme
	api.GET("/theme", h.GetTheme)
	api.POST("/theme/toggle", h.ToggleTheme)

	// Backups
	api.POST("/backup", h.Backup)
}

// Health returns health status
// GET /api/health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// BrowseMovies switches the session to the requested mode and returns
// the resulting state.
// GET /api/movies?mode=<mode>
func (h *Handler) BrowseMovies(c *gin.Context) {
	mode := models.BrowseMode(c.DefaultQuery("mode", string(models.ModeAll)))
	if !models.ValidBrowseMode(mode) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown browse mode"})
		return
	}

	if err := h.catalog.SelectMode(mode); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to load movies: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.catalog.State())
}

// LoadMore appends the next result page to the current listing. On the
// last page it returns the unchanged state.
// POST /api/movies/load-more
func (h *Handler) LoadMore(c *gin.Context) {
	if err := h.catalog.LoadMore(); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to load more movies: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.catalog.State())
}

// ApplyFilters replaces the filter selection and reloads the "all" listing.
// PUT /api/filters
func (h *Handler) ApplyFilters(c *gin.Context) {
	var filters models.FilterSet
	if err := c.ShouldBindJSON(&filters); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filter payload"})
		return
	}
	if filters.SortBy != "" && !models.ValidSortOrder(filters.SortBy) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown sort order"})
		return
	}
	if filters.Rating < 0 || filters.Rating > 10 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rating must be between 0 and 10"})
		return
	}

	if err := h.catalog.ApplyFilters(filters); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to load movies: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.catalog.State())
}

// SearchMovies runs a catalog search. Without an explicit query it falls
// back to the persisted last-searched term, matching the search view's
// auto-redirect behavior.
// GET /api/search?q=<query>
func (h *Handler) SearchMovies(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		query = h.catalog.LastSearched()
	}
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "search query is required"})
		return
	}

	if err := h.catalog.Search(query); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to search movies: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.catalog.State())
}

// GetMovieDetails returns the extended record for a single movie.
// GET /api/movies/:id
func (h *Handler) GetMovieDetails(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid movie id"})
		return
	}

	details, err := h.tmdbClient.GetMovieDetails(id)
	if err != nil {
		if tmdb.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "movie not found"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to get movie details: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, details)
}

// GetGenres returns the genre list used by the filter panel.
// GET /api/genres
func (h *Handler) GetGenres(c *gin.Context) {
	genres, err := h.tmdbClient.GetGenres()
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to get genres: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"genres": genres})
}

// GetFavorites returns the favorited movies.
// GET /api/favorites
func (h *Handler) GetFavorites(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"favorites": h.favorites.All()})
}

// AddFavorite inserts a movie into the favorites set.
// POST /api/favorites
func (h *Handler) AddFavorite(c *gin.Context) {
	var movie models.Movie
	if err := c.ShouldBindJSON(&movie); err != nil || movie.ID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid movie payload"})
		return
	}

	h.favorites.Add(movie)
	c.JSON(http.StatusCreated, gin.H{"favorites": h.favorites.All()})
}

// RemoveFavorite deletes a movie from the favorites set.
// DELETE /api/favorites/:id
func (h *Handler) RemoveFavorite(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid movie id"})
		return
	}

	h.favorites.Remove(id)
	c.JSON(http.StatusOK, gin.H{"favorites": h.favorites.All()})
}

// GetTheme returns the current theme mode.
// GET /api/theme
func (h *Handler) GetTheme(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"mode": h.theme.Mode()})
}

// ToggleTheme flips the theme mode and returns the new one.
// POST /api/theme/toggle
func (h *Handler) ToggleTheme(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"mode": h.theme.Toggle()})
}

// Backup creates a database backup on demand.
// POST /api/backup
func (h *Handler) Backup(c *gin.Context) {
	backupPath, err := h.backupSvc.Backup()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"backup_path": backupPath})
}
