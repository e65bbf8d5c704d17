package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"trip-planner/internal/api/dto"
	"trip-planner/internal/domain"
)

// Initialize the route point schema. The DDL is valid on SQLite and PostgreSQL.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createRoutePointsQuery := `
	CREATE TABLE IF NOT EXISTS route_points (
		id TEXT PRIMARY KEY,
		seq BIGINT NOT NULL,
		type TEXT NOT NULL,
		destination TEXT NOT NULL,
		date_from TEXT NOT NULL,
		date_to TEXT NOT NULL,
		base_price INTEGER NOT NULL,
		offers TEXT NOT NULL,
		is_favorite BOOLEAN NOT NULL DEFAULT FALSE
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_route_points_seq
	ON route_points(seq);
	`

	statements := []string{
		createRoutePointsQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// Populate the database with route points from a JSON file in wire format.
// Existing ids are overwritten in place and keep their position.
func SeedFromJSON(ctx context.Context, db *sql.DB, dialect Dialect, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed route points: read %q: %w", jsonPath, err)
	}

	var data []dto.RoutePoint
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed route points: parse json: %w", err)
	}

	rows := make([]domain.RoutePoint, 0, len(data))
	seen := make(map[string]struct{}, len(data))
	for i, item := range data {
		point := dto.AdaptRoutePointToModel(item)
		point.ID = strings.TrimSpace(point.ID)
		if point.ID == "" {
			return fmt.Errorf("seed route points: item at index %d: id cannot be empty", i+1)
		}

		if _, ok := seen[point.ID]; ok {
			return fmt.Errorf("seed route points: item at index %d: duplicate id %q", i+1, point.ID)
		}
		seen[point.ID] = struct{}{}

		if err := point.Validate(); err != nil {
			return fmt.Errorf("seed route points: item at index %d: %w", i+1, err)
		}
		rows = append(rows, point)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed route points: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := dialect.rebind(`
	INSERT INTO route_points (
		id, type, destination, date_from, date_to, base_price, offers, is_favorite, seq
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM route_points))
	ON CONFLICT (id) DO UPDATE
	SET type = EXCLUDED.type,
		destination = EXCLUDED.destination,
		date_from = EXCLUDED.date_from,
		date_to = EXCLUDED.date_to,
		base_price = EXCLUDED.base_price,
		offers = EXCLUDED.offers,
		is_favorite = EXCLUDED.is_favorite;
	`)
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("seed route points: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range rows {
		args, err := pointArgs(p)
		if err != nil {
			return fmt.Errorf("seed route points: id=%q: %w", p.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("seed route points: insert id=%q: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed route points: commit tx: %w", err)
	}

	return nil
}
