package db

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLiteCreatesSchema(t *testing.T) {
	ctx := context.Background()
	dsn := fmt.Sprintf("file:schema_%d?mode=memory&cache=shared", time.Now().UnixNano())
	conn, err := Open(ctx, DriverSQLite, dsn)
	require.NoError(t, err)
	defer conn.Close()

	for _, table := range []string{"attempts", "event_log"} {
		var name string
		err := conn.QueryRowContext(ctx, `SELECT name FROM sqlite_master WHERE type='table' AND name=$1`, table).Scan(&name)
		require.NoError(t, err, table)
		assert.Equal(t, table, name)
	}

	// idempotent
	require.NoError(t, ensureSchema(ctx, conn, DriverSQLite))
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Driver("mysql"), "")
	assert.ErrorIs(t, err, ErrUnsupportedDriver)
}
