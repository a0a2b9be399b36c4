package db

import (
	"context"
	"database/sql"
	"io/fs"

	"takeout_backend/platform/config"

	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// RunMigrations applies all pending migrations from the embedded filesystem.
// The goose version table lives in the shared store alongside the leads
// schema, so Kitchen-side operators can see what this service has applied.
func RunMigrations(ctx context.Context, cfg config.DatabaseConfig, fsys fs.FS, dir string) error {
	sqldb, err := sql.Open("pgx", cfg.GetDatabaseURL())
	if err != nil {
		return err
	}
	defer sqldb.Close()

	goose.SetBaseFS(fsys)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	return goose.UpContext(ctx, sqldb, dir)
}
