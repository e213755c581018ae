package database_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fallacyfinder/internal/database"
	"fallacyfinder/internal/database/dbtest"
)

func TestMigrationsCreateTables(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()

	tables := []string{
		"fallacies", "topics", "narrative_phrases", "text_blocks",
		"game_texts", "game_text_fallacies", "game_sessions", "game_answers", "bad_words",
	}
	for _, table := range tables {
		var name string
		err := db.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		assert.NoError(t, err, "table %s not found", table)
	}
}

func TestMigrationsAreRecordedOnce(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()

	require.NoError(t, db.RunMigrations(ctx, dbtest.MigrationsPath()))

	var count int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM migrations").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestInTxRollsBackOnError(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()

	err := db.InTx(ctx, func(tx *database.Tx) error {
		if _, err := tx.ExecContext(ctx, "INSERT INTO bad_words (word) VALUES (?)", "kept"); err != nil {
			return err
		}
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	var count int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM bad_words").Scan(&count))
	assert.Zero(t, count)

	id, err := db.ExecReturningID(ctx, "INSERT INTO bad_words (word) VALUES (?)", "committed")
	require.NoError(t, err)
	assert.Positive(t, id)
}

func TestSeedBadWords(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()

	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte("Darn\n\nheck\ndarn\n  blast  \n"))
	}))
	defer srv.Close()

	require.NoError(t, db.SeedBadWords(ctx, srv.URL))
	require.NoError(t, db.SeedBadWords(ctx, srv.URL))
	assert.Equal(t, 1, requests, "seeding a populated table must not download again")

	var count int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM bad_words").Scan(&count))
	assert.Equal(t, 3, count)

	bad, err := db.IsBadWord(ctx, " HECK ")
	require.NoError(t, err)
	assert.True(t, bad)

	bad, err = db.ContainsBadWord(ctx, "Player-darn99")
	require.NoError(t, err)
	assert.False(t, bad, "darn99 is a different token")

	bad, err = db.ContainsBadWord(ctx, "Big blast!")
	require.NoError(t, err)
	assert.True(t, bad)

	bad, err = db.ContainsBadWord(ctx, "Socrates")
	require.NoError(t, err)
	assert.False(t, bad)
}

func TestSeedBadWordsBadStatus(t *testing.T) {
	db := dbtest.Open(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	assert.Error(t, db.SeedBadWords(context.Background(), srv.URL))
}

func TestConcurrentReads(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()

	_, err := db.ExecContext(ctx, "INSERT INTO bad_words (word) VALUES (?)", "concurrent")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bad, err := db.IsBadWord(ctx, "concurrent")
			assert.NoError(t, err)
			assert.True(t, bad)
		}()
	}
	wg.Wait()
}
