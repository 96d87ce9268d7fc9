// Package testdb provides helpers for tests that need a real Postgres
// database.
//
// Integration tests are opt-in: they run only when GEO_TEST_DATABASE_URL
// points at a disposable database, and are skipped otherwise.
//
//	func TestSomething(t *testing.T) {
//	    db := testdb.Open(t)
//	    ...
//	}
//
// Open registers a cleanup that closes the connection. Tests remove the
// rows they create through Cleanup so repeated runs stay independent.
package testdb
