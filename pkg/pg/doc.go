// Package pg connects to PostgreSQL with pgx/v5 and applies goose
// migrations.
//
// Connect opens a pgxpool.Pool from Config, retrying while the database comes
// up. Migrate runs the embedded migrations of the db package (or a directory
// on disk) through goose, bridging the pool to database/sql with
// stdlib.OpenDBFromPool. Healthcheck returns a ping closure for readiness
// endpoints, and the Is*Error helpers classify pgx errors so stores can map
// them to domain errors.
package pg
