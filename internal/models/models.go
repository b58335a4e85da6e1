package models

// BrowseMode identifies which catalog listing is active
type BrowseMode string

const (
	ModeAll        BrowseMode = "all"
	ModeTrending   BrowseMode = "trending"
	ModeTopRated   BrowseMode = "topRated"
	ModeNowPlaying BrowseMode = "nowPlaying"
	ModeUpcoming   BrowseMode = "upcoming"
	ModeSearch     BrowseMode = "search"
)

// ValidBrowseMode reports whether m is one of the known browse modes.
func ValidBrowseMode(m BrowseMode) bool {
	switch m {
	case ModeAll, ModeTrending, ModeTopRated, ModeNowPlaying, ModeUpcoming, ModeSearch:
		return true
	}
	return false
}

// SortOrder is a TMDB discover sort key
type SortOrder string

const (
	SortPopularityDesc SortOrder = "popularity.desc"
	SortRatingDesc     SortOrder = "vote_average.desc"
	SortReleaseDesc    SortOrder = "release_date.desc"
	SortReleaseAsc     SortOrder = "release_date.asc"
	SortTitleAsc       SortOrder = "title.asc"
	SortTitleDesc      SortOrder = "title.desc"
)

// ValidSortOrder reports whether s is one of the known sort keys.
func ValidSortOrder(s SortOrder) bool {
	switch s {
	case SortPopularityDesc, SortRatingDesc, SortReleaseDesc, SortReleaseAsc, SortTitleAsc, SortTitleDesc:
		return true
	}
	return false
}

// Movie represents a movie as returned by TMDB list endpoints
type Movie struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	ReleaseDate  string  `json:"release_date"` // YYYY-MM-DD format, may be empty
	VoteAverage  float64 `json:"vote_average"`
	VoteCount    int     `json:"vote_count"`
	GenreIDs     []int   `json:"genre_ids"`
	Popularity   float64 `json:"popularity"`
}

// Genre represents a TMDB genre entry
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CastMember represents a cast credit from the detail endpoint
type CastMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path"`
}

// Credits wraps the cast list appended to movie details
type Credits struct {
	Cast []CastMember `json:"cast"`
}

// Video represents a trailer or clip appended to movie details
type Video struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Site string `json:"site"`
	Type string `json:"type"`
}

// Videos wraps the video list appended to movie details
type Videos struct {
	Results []Video `json:"results"`
}

// MovieDetails represents the extended record from the detail endpoint.
// Unlike list results it carries named genres plus credits and videos.
type MovieDetails struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	Tagline      string  `json:"tagline"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	ReleaseDate  string  `json:"release_date"`
	Runtime      int     `json:"runtime"`
	VoteAverage  float64 `json:"vote_average"`
	VoteCount    int     `json:"vote_count"`
	Genres       []Genre `json:"genres"`
	Credits      Credits `json:"credits"`
	Videos       Videos  `json:"videos"`
}

// PageResult is one page of a paginated listing response
type PageResult struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// FilterSet holds the user-selected discover criteria.
// Zero values mean "not set": empty genres, year 0, rating 0.
type FilterSet struct {
	Genres []int     `json:"genres"`
	Year   int       `json:"year"`
	Rating float64   `json:"rating"`
	SortBy SortOrder `json:"sort_by"`
}

// DefaultFilters returns the filter selection used before the user touches anything.
func DefaultFilters() FilterSet {
	return FilterSet{SortBy: SortPopularityDesc}
}

// User is the public view of an account, safe to return to callers
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// StoredUser is a user directory record. The password hash never leaves
// the auth service.
type StoredUser struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
}

// ThemeMode is the UI color scheme preference
type ThemeMode string

const (
	ThemeLight ThemeMode = "light"
	ThemeDark  ThemeMode = "dark"
)
