package property

import (
	"net/url"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"movie-explorer/internal/models"
	"movie-explorer/internal/service"
)

// memKV is an in-memory stand-in for the persistence adapter
type memKV struct {
	m map[string]string
}

func newMemKV() *memKV {
	return &memKV{m: map[string]string{}}
}

func (s *memKV) Get(key string) (string, bool, error) {
	v, ok := s.m[key]
	return v, ok, nil
}

func (s *memKV) Set(key, value string) error {
	s.m[key] = value
	return nil
}

func (s *memKV) Remove(key string) error {
	delete(s.m, key)
	return nil
}

// pagedClient serves a fixed sequence of trending pages. Every listing
// endpoint answers from the same page table, which is enough for
// session-level properties.
type pagedClient struct {
	pages [][]models.Movie
}

func (c *pagedClient) result(page int) (*models.PageResult, error) {
	if page < 1 || page > len(c.pages) {
		return &models.PageResult{Page: page, Results: []models.Movie{}, TotalPages: len(c.pages)}, nil
	}
	return &models.PageResult{
		Page:       page,
		Results:    c.pages[page-1],
		TotalPages: len(c.pages),
	}, nil
}

func (c *pagedClient) FetchTrending(page int) (*models.PageResult, error)   { return c.result(page) }
func (c *pagedClient) FetchTopRated(page int) (*models.PageResult, error)   { return c.result(page) }
func (c *pagedClient) FetchNowPlaying(page int) (*models.PageResult, error) { return c.result(page) }
func (c *pagedClient) FetchUpcoming(page int) (*models.PageResult, error)   { return c.result(page) }
func (c *pagedClient) Search(query string, page int) (*models.PageResult, error) {
	return c.result(page)
}
func (c *pagedClient) Discover(params url.Values, page int) (*models.PageResult, error) {
	return c.result(page)
}

// makePages builds pages with the given sizes and globally sequential ids
func makePages(sizes []int) [][]models.Movie {
	pages := make([][]models.Movie, len(sizes))
	id := 0
	for i, size := range sizes {
		page := make([]models.Movie, size)
		for j := range page {
			id++
			page[j] = models.Movie{ID: id}
		}
		pages[i] = page
	}
	return pages
}

// Paging through an entire listing accumulates exactly the concatenation
// of all pages, and a further load-more at the end changes nothing.
func TestLoadMoreAccumulatesAllPages(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("load-more accumulates every page once", prop.ForAll(
		func(sizes []int) bool {
			client := &pagedClient{pages: makePages(sizes)}
			svc := service.NewCatalogService(client, newMemKV())

			if err := svc.SelectMode(models.ModeTrending); err != nil {
				return false
			}

			for i := 1; i < len(sizes); i++ {
				if err := svc.LoadMore(); err != nil {
					return false
				}
			}

			total := 0
			for _, size := range sizes {
				total += size
			}

			state := svc.State()
			if len(state.Movies) != total {
				return false
			}
			if state.Page != len(sizes) || state.TotalPages != len(sizes) {
				return false
			}

			// ids must be the concatenation in page order
			for i, m := range state.Movies {
				if m.ID != i+1 {
					return false
				}
			}

			// boundary: one more load-more is a no-op
			if err := svc.LoadMore(); err != nil {
				return false
			}
			return len(svc.State().Movies) == total && svc.State().Page == len(sizes)
		},
		gen.SliceOfN(3, gen.IntRange(0, 20)).SuchThat(func(sizes []int) bool {
			return len(sizes) > 0
		}),
	))

	properties.TestingRun(t)
}

// Re-selecting a mode always replaces the accumulated list with the
// first page, regardless of how much was loaded before.
func TestSelectModeReplacesAccumulation(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("mode selection resets to the first page", prop.ForAll(
		func(sizes []int, loadMores int) bool {
			client := &pagedClient{pages: makePages(sizes)}
			svc := service.NewCatalogService(client, newMemKV())

			if err := svc.SelectMode(models.ModeTrending); err != nil {
				return false
			}
			for i := 0; i < loadMores; i++ {
				if err := svc.LoadMore(); err != nil {
					return false
				}
			}

			if err := svc.SelectMode(models.ModeTrending); err != nil {
				return false
			}

			state := svc.State()
			return len(state.Movies) == sizes[0] && state.Page == 1
		},
		gen.SliceOfN(4, gen.IntRange(1, 10)),
		gen.IntRange(0, 6),
	))

	properties.TestingRun(t)
}
