package refdata

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/housing-cli/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses. pgxmock satisfies
// it for tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    Pool
	closeFn func()
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresFromPool wraps an existing pool; used by tests.
func NewPostgresFromPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool, closeFn: func() {}}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS counties (
	name                     TEXT NOT NULL,
	longitude                DOUBLE PRECISION NOT NULL,
	latitude                 DOUBLE PRECISION NOT NULL,
	total_rooms              DOUBLE PRECISION NOT NULL,
	total_bedrooms           DOUBLE PRECISION NOT NULL,
	population               DOUBLE PRECISION NOT NULL,
	households               DOUBLE PRECISION NOT NULL,
	ocean_proximity          TEXT NOT NULL,
	rooms_per_household      DOUBLE PRECISION NOT NULL,
	bedrooms_per_rooms       DOUBLE PRECISION NOT NULL,
	population_per_household DOUBLE PRECISION NOT NULL,
	geometry                 BYTEA
);

CREATE INDEX IF NOT EXISTS idx_counties_name ON counties(name);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.closeFn()
	return nil
}

const postgresCountyColumns = `name, longitude, latitude, total_rooms, total_bedrooms,
	population, households, ocean_proximity, rooms_per_household,
	bedrooms_per_rooms, population_per_household, geometry`

func (s *PostgresStore) UpsertCounty(ctx context.Context, c *model.CountySummary) error {
	if _, err := s.pool.Exec(ctx,
		`DELETE FROM counties WHERE name = $1`, c.Name,
	); err != nil {
		return eris.Wrapf(err, "postgres: delete county %s", c.Name)
	}

	if _, err := s.pool.Exec(ctx,
		`INSERT INTO counties (`+postgresCountyColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		c.Name, c.Longitude, c.Latitude, c.TotalRooms, c.TotalBedrooms,
		c.Population, c.Households, c.OceanProximity, c.RoomsPerHousehold,
		c.BedroomsPerRooms, c.PopulationPerHousehold, c.Geometry,
	); err != nil {
		return eris.Wrapf(err, "postgres: insert county %s", c.Name)
	}
	return nil
}

func (s *PostgresStore) BulkUpsertCounties(ctx context.Context, counties []model.CountySummary) (int64, error) {
	var n int64
	for i := range counties {
		if err := s.UpsertCounty(ctx, &counties[i]); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func (s *PostgresStore) GetCounty(ctx context.Context, name string) (*model.CountySummary, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+postgresCountyColumns+` FROM counties WHERE name = $1 LIMIT 2`,
		name,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: query county %s", name)
	}
	defer rows.Close()

	var found []model.CountySummary
	for rows.Next() {
		c, err := scanCountyPgx(rows)
		if err != nil {
			return nil, err
		}
		found = append(found, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate county rows")
	}

	switch len(found) {
	case 0:
		return nil, eris.Wrapf(ErrCountyNotFound, "postgres: county %q", name)
	case 1:
		return &found[0], nil
	default:
		return nil, eris.Wrapf(ErrAmbiguousCounty, "postgres: county %q", name)
	}
}

func (s *PostgresStore) ListCounties(ctx context.Context) ([]model.CountySummary, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+postgresCountyColumns+` FROM counties ORDER BY name`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list counties")
	}
	defer rows.Close()

	var counties []model.CountySummary
	for rows.Next() {
		c, err := scanCountyPgx(rows)
		if err != nil {
			return nil, err
		}
		counties = append(counties, *c)
	}
	return counties, eris.Wrap(rows.Err(), "postgres: iterate counties")
}

func (s *PostgresStore) CountyNames(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT name FROM counties ORDER BY name`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list county names")
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, eris.Wrap(err, "postgres: scan county name")
		}
		names = append(names, name)
	}
	return names, eris.Wrap(rows.Err(), "postgres: iterate county names")
}

func scanCountyPgx(rows pgx.Rows) (*model.CountySummary, error) {
	var c model.CountySummary
	var geom []byte
	if err := rows.Scan(
		&c.Name, &c.Longitude, &c.Latitude, &c.TotalRooms, &c.TotalBedrooms,
		&c.Population, &c.Households, &c.OceanProximity, &c.RoomsPerHousehold,
		&c.BedroomsPerRooms, &c.PopulationPerHousehold, &geom,
	); err != nil {
		return nil, eris.Wrap(err, "postgres: scan county")
	}
	c.Geometry = geom
	return &c, nil
}
