package testdb

import (
	"context"
	"database/sql"
	"net/url"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
)

// EnvDatabaseURL names the variable holding the integration test database URL.
const EnvDatabaseURL = "GEO_TEST_DATABASE_URL"

// GetTestDatabaseURL returns the integration test database URL, or "".
func GetTestDatabaseURL() string {
	return os.Getenv(EnvDatabaseURL)
}

// ShouldSkipDatabaseTest reports whether no test database is configured.
func ShouldSkipDatabaseTest() bool {
	return GetTestDatabaseURL() == ""
}

// Open connects to the test database or skips the test when none is
// configured. A configured but unreachable database fails the test.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := GetTestDatabaseURL()
	if dbURL == "" {
		t.Skipf("%s not set - skipping integration test", EnvDatabaseURL)
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		t.Fatalf("failed to open test database %s: %v", MaskDatabaseURL(dbURL), err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Warning: failed to close test database: %v", err)
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("test database %s unreachable: %v", MaskDatabaseURL(dbURL), err)
	}
	return db
}

// Cleanup deletes the given product rows now and again when the test ends.
func Cleanup(t *testing.T, db *sql.DB, productIDs ...string) {
	t.Helper()

	purge := func() {
		for _, id := range productIDs {
			if _, err := db.ExecContext(context.Background(), `DELETE FROM products WHERE id = $1`, id); err != nil {
				t.Logf("Warning: failed to delete product %s: %v", id, err)
			}
		}
	}
	purge()
	t.Cleanup(purge)
}

// MaskDatabaseURL hides the password in a connection URL.
func MaskDatabaseURL(dbURL string) string {
	if dbURL == "" {
		return ""
	}
	parsed, err := url.Parse(dbURL)
	if err != nil {
		return "invalid-url"
	}
	if parsed.User != nil {
		if _, hasPassword := parsed.User.Password(); hasPassword {
			parsed.User = url.UserPassword(parsed.User.Username(), "****")
		}
	}
	return parsed.String()
}
