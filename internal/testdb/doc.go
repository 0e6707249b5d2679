//go:build integration

// Package testdb provides utilities for integration tests that need a real
// PostgreSQL database.
//
// Tests obtain a connection with GetTestDBWithT, which skips the test when no
// database URL is configured, apply the schema with SetupTestDatabaseSchema,
// and isolate their writes with WithTx:
//
//	db := testdb.GetTestDBWithT(t)
//	testdb.SetupTestDatabaseSchema(t, db)
//	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	    productStore := postgres.NewPostgresProductStore(tx, nil)
//	    // ...
//	})
package testdb
