package property

import (
	"os"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"movie-explorer/internal/models"
	"movie-explorer/internal/repository"
	"movie-explorer/internal/service"
)

// For any set of movie ids, adding them all and reloading the store from
// the database preserves membership exactly; removing an id removes it
// from both the live set and the reloaded one.
func TestFavoritesPersistenceRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("favorites round-trip preserves membership", prop.ForAll(
		func(ids []int, removeIdx int) bool {
			dbPath := "test_favorites_roundtrip.db"
			defer os.Remove(dbPath)

			db, err := repository.NewSQLiteDB(dbPath)
			if err != nil {
				t.Logf("Failed to create database: %v", err)
				return false
			}
			defer db.Close()

			if err := db.InitSchema(); err != nil {
				t.Logf("Failed to init schema: %v", err)
				return false
			}

			kv := repository.NewKVRepository(db)
			favorites := service.NewFavoritesService(kv)

			seen := map[int]bool{}
			for _, id := range ids {
				favorites.Add(models.Movie{ID: id, Title: "m"})
				seen[id] = true
			}

			// duplicate ids collapse to one entry each
			if len(favorites.All()) != len(seen) {
				return false
			}
			for id := range seen {
				if !favorites.IsFavorite(id) {
					return false
				}
			}

			// remove one of the ids, if any were added
			if len(ids) > 0 {
				victim := ids[removeIdx%len(ids)]
				favorites.Remove(victim)
				delete(seen, victim)
				if favorites.IsFavorite(victim) {
					return false
				}
			}

			// a fresh service over the same storage sees the same set
			reloaded := service.NewFavoritesService(kv)
			if len(reloaded.All()) != len(seen) {
				return false
			}
			for id := range seen {
				if !reloaded.IsFavorite(id) {
					return false
				}
			}

			return true
		},
		gen.SliceOf(gen.IntRange(1, 50)),
		gen.IntRange(0, 1000),
	))

	properties.TestingRun(t)
}
