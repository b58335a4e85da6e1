package tmdb

import (
	"net/url"
	"strconv"
	"strings"

	"movie-explorer/internal/models"
)

// BuildDiscoverQuery translates a filter selection into the parameter set
// expected by the discover endpoint. Pure function: sort_by is always
// present, the remaining parameters only when their filter is set.
func BuildDiscoverQuery(filters models.FilterSet) url.Values {
	params := url.Values{}

	sortBy := filters.SortBy
	if sortBy == "" {
		sortBy = models.SortPopularityDesc
	}
	params.Set("sort_by", string(sortBy))

	if len(filters.Genres) > 0 {
		ids := make([]string, len(filters.Genres))
		for i, id := range filters.Genres {
			ids[i] = strconv.Itoa(id)
		}
		// comma-joined in the order given, not re-sorted
		params.Set("with_genres", strings.Join(ids, ","))
	}

	if filters.Year > 0 {
		params.Set("primary_release_year", strconv.Itoa(filters.Year))
	}

	if filters.Rating > 0 {
		params.Set("vote_average.gte", strconv.FormatFloat(filters.Rating, 'f', -1, 64))
	}

	return params
}
