package repositories

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/dfaust/spotify-playlist-importer/internal/services"
	"github.com/dfaust/spotify-playlist-importer/internal/shared"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func TestMappingRepository(t *testing.T) {
	t.Run("Load Empty", func(t *testing.T) {
		repo := NewMappingRepository(testDB(t))
		mapping, err := repo.Load()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(mapping) != 0 {
			t.Errorf("expected empty mapping, got %v", mapping)
		}
	})

	t.Run("Set And Load", func(t *testing.T) {
		repo := NewMappingRepository(testDB(t))

		if err := repo.Set("in1", "spotify:track:a"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if err := repo.Set("in2", "spotify:track:b"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		mapping, err := repo.Load()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if mapping["in1"] != "spotify:track:a" || mapping["in2"] != "spotify:track:b" {
			t.Errorf("unexpected mapping: %v", mapping)
		}
	})

	t.Run("Set Upserts", func(t *testing.T) {
		repo := NewMappingRepository(testDB(t))

		repo.Set("in1", "spotify:track:a")
		if err := repo.Set("in1", "spotify:track:z"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		mapping, _ := repo.Load()
		if mapping["in1"] != "spotify:track:z" {
			t.Errorf("expected upsert to replace value, got %q", mapping["in1"])
		}
		if len(mapping) != 1 {
			t.Errorf("expected single entry, got %v", mapping)
		}
	})

	t.Run("Remove", func(t *testing.T) {
		repo := NewMappingRepository(testDB(t))

		repo.Set("in1", "spotify:track:a")
		if err := repo.Remove("in1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if err := repo.Remove("missing"); err != nil {
			t.Fatalf("expected removing a missing entry to be a no-op, got %v", err)
		}

		mapping, _ := repo.Load()
		if len(mapping) != 0 {
			t.Errorf("expected empty mapping after remove, got %v", mapping)
		}
	})
}

func TestSessionRepository(t *testing.T) {
	t.Run("Load Without Session", func(t *testing.T) {
		repo := NewSessionRepository(testDB(t))
		_, err := repo.Load()
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("Save And Load", func(t *testing.T) {
		repo := NewSessionRepository(testDB(t))

		expires := time.Now().Add(time.Hour).Truncate(time.Second)
		session := &services.Session{UserID: "user1", AccessToken: "token", ExpiresAt: expires}
		if err := repo.Save(session); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		loaded, err := repo.Load()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if loaded.UserID != "user1" || loaded.AccessToken != "token" {
			t.Errorf("unexpected session: %+v", loaded)
		}
		if !loaded.ExpiresAt.Equal(expires) {
			t.Errorf("expected expiry %v, got %v", expires, loaded.ExpiresAt)
		}
	})

	t.Run("Save Replaces", func(t *testing.T) {
		repo := NewSessionRepository(testDB(t))

		repo.Save(&services.Session{UserID: "old", AccessToken: "t1", ExpiresAt: time.Now()})
		repo.Save(&services.Session{UserID: "new", AccessToken: "t2", ExpiresAt: time.Now()})

		loaded, err := repo.Load()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if loaded.UserID != "new" {
			t.Errorf("expected replacement session, got %+v", loaded)
		}
	})
}
