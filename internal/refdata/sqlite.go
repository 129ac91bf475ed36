package refdata

import (
	"context"
	"database/sql"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/housing-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

// Name is intentionally not UNIQUE: the lookup contract must be able to
// detect duplicate injection and fail with ErrAmbiguousCounty instead
// of masking it at insert time.
const sqliteMigration = `
CREATE TABLE IF NOT EXISTS counties (
	name                     TEXT NOT NULL,
	longitude                REAL NOT NULL,
	latitude                 REAL NOT NULL,
	total_rooms              REAL NOT NULL,
	total_bedrooms           REAL NOT NULL,
	population               REAL NOT NULL,
	households               REAL NOT NULL,
	ocean_proximity          TEXT NOT NULL,
	rooms_per_household      REAL NOT NULL,
	bedrooms_per_rooms       REAL NOT NULL,
	population_per_household REAL NOT NULL,
	geometry                 BLOB
);

CREATE INDEX IF NOT EXISTS idx_counties_name ON counties(name);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const sqliteCountyColumns = `name, longitude, latitude, total_rooms, total_bedrooms,
	population, households, ocean_proximity, rooms_per_household,
	bedrooms_per_rooms, population_per_household, geometry`

func (s *SQLiteStore) UpsertCounty(ctx context.Context, c *model.CountySummary) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin upsert")
	}
	defer func() { _ = tx.Rollback() }()

	if err := upsertCountyTx(ctx, tx, c); err != nil {
		return err
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit upsert")
}

func (s *SQLiteStore) BulkUpsertCounties(ctx context.Context, counties []model.CountySummary) (int64, error) {
	if len(counties) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin bulk upsert")
	}
	defer func() { _ = tx.Rollback() }()

	for i := range counties {
		if err := upsertCountyTx(ctx, tx, &counties[i]); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit bulk upsert")
	}
	return int64(len(counties)), nil
}

func upsertCountyTx(ctx context.Context, tx *sql.Tx, c *model.CountySummary) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM counties WHERE name = ?`, c.Name,
	); err != nil {
		return eris.Wrapf(err, "sqlite: delete county %s", c.Name)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO counties (`+sqliteCountyColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.Name, c.Longitude, c.Latitude, c.TotalRooms, c.TotalBedrooms,
		c.Population, c.Households, c.OceanProximity, c.RoomsPerHousehold,
		c.BedroomsPerRooms, c.PopulationPerHousehold, c.Geometry,
	); err != nil {
		return eris.Wrapf(err, "sqlite: insert county %s", c.Name)
	}
	return nil
}

func (s *SQLiteStore) GetCounty(ctx context.Context, name string) (*model.CountySummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+sqliteCountyColumns+` FROM counties WHERE name = ? LIMIT 2`,
		name,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: query county %s", name)
	}
	defer rows.Close()

	var found []model.CountySummary
	for rows.Next() {
		c, err := scanCountySQL(rows)
		if err != nil {
			return nil, err
		}
		found = append(found, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate county rows")
	}

	switch len(found) {
	case 0:
		return nil, eris.Wrapf(ErrCountyNotFound, "sqlite: county %q", name)
	case 1:
		return &found[0], nil
	default:
		return nil, eris.Wrapf(ErrAmbiguousCounty, "sqlite: county %q", name)
	}
}

func (s *SQLiteStore) ListCounties(ctx context.Context) ([]model.CountySummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+sqliteCountyColumns+` FROM counties ORDER BY name`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list counties")
	}
	defer rows.Close()

	var counties []model.CountySummary
	for rows.Next() {
		c, err := scanCountySQL(rows)
		if err != nil {
			return nil, err
		}
		counties = append(counties, *c)
	}
	return counties, eris.Wrap(rows.Err(), "sqlite: iterate counties")
}

func (s *SQLiteStore) CountyNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM counties ORDER BY name`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list county names")
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan county name")
		}
		names = append(names, name)
	}
	return names, eris.Wrap(rows.Err(), "sqlite: iterate county names")
}

func scanCountySQL(rows *sql.Rows) (*model.CountySummary, error) {
	var c model.CountySummary
	var geom []byte
	if err := rows.Scan(
		&c.Name, &c.Longitude, &c.Latitude, &c.TotalRooms, &c.TotalBedrooms,
		&c.Population, &c.Households, &c.OceanProximity, &c.RoomsPerHousehold,
		&c.BedroomsPerRooms, &c.PopulationPerHousehold, &geom,
	); err != nil {
		return nil, eris.Wrap(err, "sqlite: scan county")
	}
	c.Geometry = geom
	return &c, nil
}
