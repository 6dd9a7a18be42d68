package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_EmptyDSN(t *testing.T) {
	t.Parallel()

	db, err := Open(context.Background(), "")
	require.Error(t, err)
	assert.Nil(t, db)
}

func TestOpen_SQLiteMemory(t *testing.T) {
	t.Parallel()

	db, err := Open(context.Background(), "sqlite::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	var one int
	require.NoError(t, db.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
}

func TestDialector(t *testing.T) {
	t.Parallel()

	tests := []struct {
		dsn      string
		embedded bool
		name     string
	}{
		{dsn: "sqlite://dev.db", embedded: true, name: "sqlite"},
		{dsn: "file:dev.db?cache=shared", embedded: true, name: "sqlite"},
		{dsn: "postgres://u:p@localhost:5432/shop", embedded: false, name: "postgres"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.dsn, func(t *testing.T) {
			t.Parallel()

			d, embedded := dialector(tt.dsn)
			assert.Equal(t, tt.embedded, embedded)
			assert.Equal(t, tt.name, d.Name())
		})
	}
}
