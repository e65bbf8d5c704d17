package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"trip-planner/internal/domain"
	"trip-planner/internal/platform/obs"
)

var (
	ErrNotFound      = errors.New("route point not found")
	ErrAlreadyExists = errors.New("route point already exists")
)

// Dialect selects the placeholder syntax for the driver in use.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// DialectFor maps a database/sql driver name to its dialect.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "sqlite":
		return DialectSQLite, nil
	case "pgx", "postgres":
		return DialectPostgres, nil
	}
	return "", fmt.Errorf("unsupported database driver %q", driver)
}

// rebind rewrites ? placeholders to $n for PostgreSQL.
// Queries in this package never contain a literal question mark.
func (d Dialect) rebind(q string) string {
	if d != DialectPostgres {
		return q
	}

	var b strings.Builder
	b.Grow(len(q) + 8)
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SQL-backed implementation of the RoutePointRepository port.
// Points are listed in insertion order, kept in the seq column.
type SQLRoutePointRepository struct {
	DB      *sql.DB
	Dialect Dialect
}

func NewSQLRoutePointRepository(db *sql.DB, dialect Dialect) *SQLRoutePointRepository {
	return &SQLRoutePointRepository{DB: db, Dialect: dialect}
}

const selectColumns = `id, type, destination, date_from, date_to, base_price, offers, is_favorite`

func (s *SQLRoutePointRepository) ListRoutePoints(ctx context.Context) (_ []domain.RoutePoint, err error) {
	defer obs.Time(ctx, "repo.ListRoutePoints")(&err)

	if s.DB == nil {
		return nil, errors.New("route point repository: db is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT `+selectColumns+` FROM route_points ORDER BY seq, id;`)
	if err != nil {
		return nil, fmt.Errorf("list route points: query route_points table: %w", err)
	}
	defer rows.Close()

	points := make([]domain.RoutePoint, 0, 64)
	for rows.Next() {
		p, err := scanRoutePoint(rows)
		if err != nil {
			return nil, fmt.Errorf("list route points: %w", err)
		}
		points = append(points, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list route points: row iteration: %w", err)
	}

	return points, nil
}

func (s *SQLRoutePointRepository) CreateRoutePoint(ctx context.Context, point domain.RoutePoint) (_ domain.RoutePoint, err error) {
	defer obs.Time(ctx, "repo.CreateRoutePoint")(&err)

	if s.DB == nil {
		return domain.RoutePoint{}, errors.New("route point repository: db is nil")
	}

	if point.ID == "" {
		return domain.RoutePoint{}, errors.New("create route point: id must not be empty")
	}

	args, err := pointArgs(point)
	if err != nil {
		return domain.RoutePoint{}, fmt.Errorf("create route point %q: %w", point.ID, err)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.RoutePoint{}, fmt.Errorf("create route point: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	err = tx.QueryRowContext(ctx, s.Dialect.rebind(`SELECT 1 FROM route_points WHERE id = ?;`), point.ID).Scan(&exists)
	switch {
	case err == nil:
		return domain.RoutePoint{}, fmt.Errorf("create route point %q: %w", point.ID, ErrAlreadyExists)
	case !errors.Is(err, sql.ErrNoRows):
		return domain.RoutePoint{}, fmt.Errorf("create route point %q: lookup: %w", point.ID, err)
	}

	q := s.Dialect.rebind(`
	INSERT INTO route_points (
		id, type, destination, date_from, date_to, base_price, offers, is_favorite, seq
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM route_points));
	`)
	if _, err := tx.ExecContext(ctx, q, args...); err != nil {
		return domain.RoutePoint{}, fmt.Errorf("create route point %q: insert: %w", point.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return domain.RoutePoint{}, fmt.Errorf("create route point: commit: %w", err)
	}

	return point, nil
}

func (s *SQLRoutePointRepository) UpdateRoutePoint(ctx context.Context, point domain.RoutePoint) (_ domain.RoutePoint, err error) {
	defer obs.Time(ctx, "repo.UpdateRoutePoint")(&err)

	if s.DB == nil {
		return domain.RoutePoint{}, errors.New("route point repository: db is nil")
	}

	args, err := pointArgs(point)
	if err != nil {
		return domain.RoutePoint{}, fmt.Errorf("update route point %q: %w", point.ID, err)
	}

	// id moves from the first to the last placeholder.
	args = append(args[1:], args[0])

	q := s.Dialect.rebind(`
	UPDATE route_points
	SET type = ?,
		destination = ?,
		date_from = ?,
		date_to = ?,
		base_price = ?,
		offers = ?,
		is_favorite = ?
	WHERE id = ?;
	`)
	res, err := s.DB.ExecContext(ctx, q, args...)
	if err != nil {
		return domain.RoutePoint{}, fmt.Errorf("update route point %q: %w", point.ID, err)
	}

	if err := expectOneRow(res); err != nil {
		return domain.RoutePoint{}, fmt.Errorf("update route point %q: %w", point.ID, err)
	}

	return point, nil
}

func (s *SQLRoutePointRepository) DeleteRoutePoint(ctx context.Context, id string) (err error) {
	defer obs.Time(ctx, "repo.DeleteRoutePoint")(&err)

	if s.DB == nil {
		return errors.New("route point repository: db is nil")
	}

	res, err := s.DB.ExecContext(ctx, s.Dialect.rebind(`DELETE FROM route_points WHERE id = ?;`), id)
	if err != nil {
		return fmt.Errorf("delete route point %q: %w", id, err)
	}

	if err := expectOneRow(res); err != nil {
		return fmt.Errorf("delete route point %q: %w", id, err)
	}

	return nil
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// pointArgs returns the column values in the order of selectColumns.
func pointArgs(p domain.RoutePoint) ([]any, error) {
	offers := p.Offers
	if offers == nil {
		offers = []string{}
	}

	encoded, err := json.Marshal(offers)
	if err != nil {
		return nil, fmt.Errorf("encode offers: %w", err)
	}

	return []any{
		p.ID,
		string(p.Type),
		p.Destination,
		p.DateFrom.UTC().Format(time.RFC3339Nano),
		p.DateTo.UTC().Format(time.RFC3339Nano),
		p.BasePrice,
		string(encoded),
		p.IsFavorite,
	}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoutePoint(row rowScanner) (domain.RoutePoint, error) {
	var (
		p                domain.RoutePoint
		pointType        string
		dateFrom, dateTo string
		offers           string
	)

	if err := row.Scan(&p.ID, &pointType, &p.Destination, &dateFrom, &dateTo, &p.BasePrice, &offers, &p.IsFavorite); err != nil {
		return domain.RoutePoint{}, fmt.Errorf("scan row: %w", err)
	}
	p.Type = domain.PointType(pointType)

	var err error
	if p.DateFrom, err = time.Parse(time.RFC3339Nano, dateFrom); err != nil {
		return domain.RoutePoint{}, fmt.Errorf("parse date_from of %q: %w", p.ID, err)
	}
	if p.DateTo, err = time.Parse(time.RFC3339Nano, dateTo); err != nil {
		return domain.RoutePoint{}, fmt.Errorf("parse date_to of %q: %w", p.ID, err)
	}

	if err := json.Unmarshal([]byte(offers), &p.Offers); err != nil {
		return domain.RoutePoint{}, fmt.Errorf("decode offers of %q: %w", p.ID, err)
	}
	if p.Offers == nil {
		p.Offers = []string{}
	}

	return p, nil
}
