package storage

import (
	"context"
	"path/filepath"
	"testing"

	"lusogate/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStorage(t *testing.T) {
	s, err := NewSQLiteStorage(Config{
		Type:             models.StorageTypeSQLite,
		ConnectionString: filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	defer s.Close()

	testStorage(t, s)
}

func TestSQLiteStorage_Reopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	s, err := NewSQLiteStorage(Config{ConnectionString: dbPath})
	require.NoError(t, err)
	require.NoError(t, s.SaveSubmission(ctx, newSubmission("biz-1", models.KindBusiness, baseTime)))
	require.NoError(t, s.Close())

	s, err = NewSQLiteStorage(Config{ConnectionString: dbPath})
	require.NoError(t, err)
	defer s.Close()

	got, err := s.GetSubmission(ctx, "biz-1")
	require.NoError(t, err)
	assert.Equal(t, models.KindBusiness, got.Kind)
	assert.True(t, baseTime.Equal(got.CreatedAt))
}

func TestSQLiteStorage_RequiresConnectionString(t *testing.T) {
	_, err := NewSQLiteStorage(Config{})
	assert.Error(t, err)
}
