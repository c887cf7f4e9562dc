package pg

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Migrate applies embedded goose migrations (e.g. invite.Migrations) against
// the pool. dir is the path of the SQL files inside fsys, usually
// "migrations".
func Migrate(ctx context.Context, pool *pgxpool.Pool, cfg Config, fsys fs.FS, dir string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	// goose speaks database/sql; bridge the pgx pool without opening a
	// second connection set.
	db := stdlib.OpenDBFromPool(pool)
	defer func() {
		if err := db.Close(); err != nil {
			logger.ErrorContext(ctx, "failed to close migration db handle",
				slog.String("error", err.Error()))
		}
	}()

	goose.SetBaseFS(fsys)
	defer goose.SetBaseFS(nil)
	goose.SetLogger(gooseSlogAdapter{ctx: ctx, logger: logger})
	goose.SetTableName(cfg.MigrationsTable)

	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Join(ErrMigrationsFailed, err)
	}
	if err := goose.UpContext(ctx, db, dir); err != nil {
		return errors.Join(ErrMigrationsFailed, err)
	}
	return nil
}

// gooseSlogAdapter routes goose's printf logging through slog.
type gooseSlogAdapter struct {
	ctx    context.Context
	logger *slog.Logger
}

func (a gooseSlogAdapter) Fatalf(format string, v ...any) {
	a.logger.ErrorContext(a.ctx, fmt.Sprintf(format, v...))
}

func (a gooseSlogAdapter) Printf(format string, v ...any) {
	a.logger.InfoContext(a.ctx, fmt.Sprintf(format, v...))
}
