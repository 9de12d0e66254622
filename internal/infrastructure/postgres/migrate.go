package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// embeddedDir directorio dentro de embeddedMigrations.
const embeddedDir = "migrations"

// Migrate ejecuta un comando goose (up, down, status, version, ...) sobre el pool.
// Con dir vacío usa las migraciones embebidas en el binario.
func Migrate(ctx context.Context, pool *pgxpool.Pool, dir, command string, args ...string) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()
	return runGoose(ctx, db, dir, command, args...)
}

// MigrateToVersion sube o baja hasta la versión indicada según la versión actual de la BD.
func MigrateToVersion(ctx context.Context, pool *pgxpool.Pool, dir, targetVersion string) error {
	target, err := strconv.ParseInt(targetVersion, 10, 64)
	if err != nil {
		return fmt.Errorf("versión inválida %q: %w", targetVersion, err)
	}
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	dir, err = prepareGoose(dir)
	if err != nil {
		return err
	}
	current, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return fmt.Errorf("get db version: %w", err)
	}
	switch {
	case current == target:
		return nil
	case current < target:
		if err := goose.UpToContext(ctx, db, dir, target); err != nil {
			return fmt.Errorf("goose up-to %d: %w", target, err)
		}
	default:
		if err := goose.DownToContext(ctx, db, dir, target); err != nil {
			return fmt.Errorf("goose down-to %d: %w", target, err)
		}
	}
	return nil
}

func runGoose(ctx context.Context, db *sql.DB, dir, command string, args ...string) error {
	dir, err := prepareGoose(dir)
	if err != nil {
		return err
	}
	if err := goose.RunContext(ctx, command, db, dir, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

func prepareGoose(dir string) (string, error) {
	if err := goose.SetDialect("postgres"); err != nil {
		return "", fmt.Errorf("set goose dialect: %w", err)
	}
	if dir == "" {
		goose.SetBaseFS(embeddedMigrations)
		return embeddedDir, nil
	}
	goose.SetBaseFS(nil)
	return dir, nil
}
