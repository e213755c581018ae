package service

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fallacyfinder/internal/content"
	"fallacyfinder/internal/database/dbtest"
	"fallacyfinder/internal/repository"
)

func TestContentServiceSeedIfEmpty(t *testing.T) {
	db := dbtest.Open(t)
	repo := repository.NewContentRepository(db)
	svc := NewContentService(repo, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, svc.SeedIfEmpty(ctx, ""))
	require.NoError(t, svc.SeedIfEmpty(ctx, ""))

	embedded, err := content.Embedded()
	require.NoError(t, err)
	count, err := repo.CountFallacies(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(embedded.Fallacies), count)
}

func TestContentServiceExportImport(t *testing.T) {
	db := dbtest.Open(t)
	svc := NewContentService(repository.NewContentRepository(db), zap.NewNop())
	ctx := context.Background()
	require.NoError(t, svc.SeedIfEmpty(ctx, ""))

	path := filepath.Join(t.TempDir(), "bank.yaml")
	require.NoError(t, svc.Export(ctx, path))

	exported, err := content.Load(path)
	require.NoError(t, err)
	embedded, err := content.Embedded()
	require.NoError(t, err)
	assert.Equal(t, embedded.Stats(), exported.Stats())

	require.NoError(t, svc.Import(ctx, path))

	var buf bytes.Buffer
	require.NoError(t, svc.ExportToWriter(ctx, &buf))
	again, err := content.Parse(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, exported, again)
}

func TestContentServiceImportRejectsInvalidBank(t *testing.T) {
	db := dbtest.Open(t)
	repo := repository.NewContentRepository(db)
	svc := NewContentService(repo, zap.NewNop())
	ctx := context.Background()

	err := svc.ImportFromReader(ctx, strings.NewReader("fallacies: [oops"), "inline")
	assert.Error(t, err)

	err = svc.Import(ctx, filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	count, err := repo.CountFallacies(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
