// migrate aplica las migraciones goose del esquema de inventario.
//
// Uso:
//
//	go run ./cmd/migrate -cmd up
//	go run ./cmd/migrate -cmd down
//	go run ./cmd/migrate -cmd status
//	go run ./cmd/migrate -version 1
//
// Sin -dir usa las migraciones embebidas en el binario.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/jhoicas/inventario-stock/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-stock/pkg/config"
	"github.com/jhoicas/inventario-stock/pkg/logger"
)

func main() {
	command := flag.String("cmd", "up", "comando goose: up, down, status, version, redo, reset")
	dir := flag.String("dir", "", "directorio de migraciones (vacío = embebidas)")
	version := flag.String("version", "", "migrar hasta esta versión (sube o baja según la actual)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Named("migrate")

	if *dir == "" {
		*dir = cfg.Storage.MigrationsPath
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if *version != "" {
		err = postgres.MigrateToVersion(ctx, pool, *dir, *version)
	} else {
		err = postgres.Migrate(ctx, pool, *dir, *command, flag.Args()...)
	}
	if err != nil {
		log.Error().Err(err).Str("cmd", *command).Str("version", *version).Msg("migración fallida")
		pool.Close()
		os.Exit(1)
	}
	log.Info().Str("cmd", *command).Str("version", *version).Msg("migración completada")
}
