// Package migrations contains the database migration files. Each file
// registers itself with pkg/migration in init(); the package is imported
// for side effects by cmd/gebeya and internal/server.
package migrations
