package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // registra el driver "pgx" en database/sql
	"github.com/pressly/goose/v3"
	"github.com/tu-usuario/stockflow-pro/pkg/config"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate ejecuta las migraciones goose embebidas contra la base configurada.
// Se invoca al arrancar cuando DB_AUTO_MIGRATE está activo; goose lleva su
// propia tabla de versiones, así que es idempotente.
func Migrate(ctx context.Context, cfg config.DBConfig) error {
	db, err := sql.Open("pgx", cfg.ConnectionString())
	if err != nil {
		return fmt.Errorf("abrir conexión de migración: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("dialecto goose: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}
