// Package dbtest provides a migrated Postgres pool for repository tests.
//
// TEST_DATABASE_URL selects an existing database. Without it a throwaway
// Postgres container is started once per test binary. Tests are skipped when
// neither is available.
package dbtest

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/daap14/roleassign/internal/database"
)

var (
	containerOnce sync.Once
	containerURL  string
	containerErr  error
)

func startContainer(ctx context.Context) (string, error) {
	containerOnce.Do(func() {
		container, err := postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("roleassign_test"),
			postgres.WithUsername("roleassign"),
			postgres.WithPassword("roleassign"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(30*time.Second)),
		)
		if err != nil {
			containerErr = err
			return
		}
		containerURL, containerErr = container.ConnectionString(ctx, "sslmode=disable")
	})
	return containerURL, containerErr
}

// URL returns the connection string of the test database, skipping the test
// when no database can be provided.
func URL(t *testing.T) string {
	t.Helper()

	if url := os.Getenv("TEST_DATABASE_URL"); url != "" {
		return url
	}

	testcontainers.SkipIfProviderIsNotHealthy(t)

	url, err := startContainer(context.Background())
	if err != nil {
		t.Skipf("skipping: cannot start postgres container: %v", err)
	}
	return url
}

// Pool returns a pool on a freshly migrated and truncated schema. The pool is
// closed when the test finishes.
func Pool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	url := URL(t)
	require.NoError(t, database.MigrateUp(url))

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		t.Skipf("skipping: cannot connect to test database: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		t.Skipf("skipping: cannot ping test database: %v", err)
	}

	_, err = pool.Exec(ctx, "TRUNCATE TABLE role_assignments, roles, users CASCADE")
	require.NoError(t, err)

	t.Cleanup(pool.Close)
	return pool
}
