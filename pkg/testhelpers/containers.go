package testhelpers

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// PostgresTestImage is the stock PostgreSQL image used for integration tests.
const PostgresTestImage = "postgres:16-alpine"

// Connection settings for the shared test container.
const (
	TestDBName     = "profiler_test"
	TestDBUser     = "profiler"
	TestDBPassword = "test_password"
)

// TestDB holds a shared test database container and connection pool.
type TestDB struct {
	Container testcontainers.Container
	Pool      *pgxpool.Pool
	ConnStr   string
	Host      string
	Port      int
}

var (
	sharedTestDB     *TestDB
	sharedTestDBOnce sync.Once
	sharedTestDBErr  error
)

// GetTestDB returns a shared PostgreSQL container seeded with the profiling
// fixture schema. The container is created once and reused across all tests
// in the run.
func GetTestDB(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode (requires Docker)")
	}

	sharedTestDBOnce.Do(func() {
		sharedTestDB, sharedTestDBErr = setupTestDB()
	})

	if sharedTestDBErr != nil {
		t.Fatalf("Failed to setup test database: %v", sharedTestDBErr)
	}

	return sharedTestDB
}

func setupTestDB() (*TestDB, error) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        PostgresTestImage,
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       TestDBName,
			"POSTGRES_USER":     TestDBUser,
			"POSTGRES_PASSWORD": TestDBPassword,
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start test container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}

	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}

	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		TestDBUser, TestDBPassword, host, port.Port(), TestDBName)

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Verify connection with retry
	for i := 0; i < 10; i++ {
		if err := pool.Ping(ctx); err == nil {
			break
		}
		time.Sleep(500 * time.Millisecond)
	}

	if err := seedFixture(ctx, pool); err != nil {
		return nil, fmt.Errorf("failed to seed fixture schema: %w", err)
	}

	return &TestDB{
		Container: container,
		Pool:      pool,
		ConnStr:   connStr,
		Host:      host,
		Port:      port.Int(),
	}, nil
}

// seedFixture loads the standard profiling fixture: a customers table and an
// orders table with a foreign key, known null counts, and known numeric
// distributions so metric assertions are exact.
func seedFixture(ctx context.Context, pool *pgxpool.Pool) error {
	const schema = `
		CREATE TABLE customers (
			id SERIAL PRIMARY KEY,
			email TEXT,
			created_at TIMESTAMPTZ
		);

		CREATE TABLE orders (
			id SERIAL PRIMARY KEY,
			customer_id INTEGER REFERENCES customers(id),
			status TEXT,
			amount NUMERIC(10,2),
			created_at TIMESTAMPTZ
		);

		INSERT INTO customers (email, created_at) VALUES
			('ana@example.com', NOW() - INTERVAL '1 hour'),
			('bob@example.com', NOW() - INTERVAL '2 days'),
			(NULL,              NOW() - INTERVAL '3 days');

		INSERT INTO orders (customer_id, status, amount, created_at) VALUES
			(1, 'shipped',  10.00, NOW() - INTERVAL '30 minutes'),
			(1, 'pending',  20.00, NOW() - INTERVAL '1 day'),
			(2, 'shipped',  30.00, NOW() - INTERVAL '2 days'),
			(2, NULL,       40.00, NOW() - INTERVAL '3 days'),
			(3, 'returned', NULL,  NOW() - INTERVAL '4 days');
	`

	_, err := pool.Exec(ctx, schema)
	return err
}
