// Package store persists tracked aircraft and their position fixes in a
// SQLite database, one session per run of the decoder.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"squitterator/internal/aircraft"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id TEXT PRIMARY KEY,
	source TEXT NOT NULL,
	started_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS aircraft (
	session_id TEXT NOT NULL,
	icao TEXT NOT NULL,
	country TEXT,
	ident TEXT,
	category TEXT,
	squawk TEXT,
	altitude INTEGER,
	latitude REAL,
	longitude REAL,
	ground_speed INTEGER,
	track INTEGER,
	vertical_rate INTEGER,
	messages INTEGER NOT NULL,
	last_seen TIMESTAMP NOT NULL,
	PRIMARY KEY (session_id, icao)
);

CREATE TABLE IF NOT EXISTS positions (
	session_id TEXT NOT NULL,
	icao TEXT NOT NULL,
	timestamp TIMESTAMP NOT NULL,
	latitude REAL NOT NULL,
	longitude REAL NOT NULL,
	altitude INTEGER
);

CREATE INDEX IF NOT EXISTS idx_positions_icao ON positions(icao);
CREATE INDEX IF NOT EXISTS idx_aircraft_last_seen ON aircraft(last_seen);
`

// ErrNoSession is returned when writing before Begin
var ErrNoSession = errors.New("no session started")

// Record is a stored aircraft
type Record struct {
	SessionID    string
	ICAO         string
	Country      string
	Ident        string
	Category     string
	Squawk       string
	Altitude     *int
	Lat          *float64
	Lon          *float64
	GroundSpeed  *int
	Track        *int
	VerticalRate *int
	Messages     uint64
	LastSeen     time.Time
}

// Store wraps the SQLite connection
type Store struct {
	db        *sql.DB
	logger    *logrus.Logger
	sessionID string

	upsert   *sql.Stmt
	position *sql.Stmt
}

// Open opens or creates the database at path. An empty path keeps the
// database in memory.
func Open(path string, logger *logrus.Logger) (*Store, error) {
	if path == "" {
		path = ":memory:"
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// a single connection keeps an in-memory database alive and serialises writers
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	s := &Store{db: db, logger: logger}
	if err := s.prepare(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) prepare() error {
	var err error
	s.upsert, err = s.db.Prepare(`
		INSERT INTO aircraft (session_id, icao, country, ident, category, squawk, altitude,
		                      latitude, longitude, ground_speed, track, vertical_rate, messages, last_seen)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id, icao) DO UPDATE SET
			country = excluded.country,
			ident = excluded.ident,
			category = excluded.category,
			squawk = excluded.squawk,
			altitude = excluded.altitude,
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			ground_speed = excluded.ground_speed,
			track = excluded.track,
			vertical_rate = excluded.vertical_rate,
			messages = excluded.messages,
			last_seen = excluded.last_seen
	`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}

	s.position, err = s.db.Prepare(`
		INSERT INTO positions (session_id, icao, timestamp, latitude, longitude, altitude)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare position insert: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.upsert != nil {
		_ = s.upsert.Close()
	}
	if s.position != nil {
		_ = s.position.Close()
	}
	return s.db.Close()
}

// Begin starts a new session for the given input source and returns its id
func (s *Store) Begin(ctx context.Context, source string, now time.Time) (string, error) {
	id := uuid.NewString()
	if _, err := s.db.ExecContext(ctx,
		"INSERT INTO sessions (id, source, started_at) VALUES (?, ?, ?)", id, source, now.UTC()); err != nil {
		return "", fmt.Errorf("insert session: %w", err)
	}
	s.sessionID = id

	s.logger.WithFields(logrus.Fields{
		"session": id,
		"source":  source,
	}).Info("Started recording session")
	return id, nil
}

// SessionID returns the current session, empty before Begin
func (s *Store) SessionID() string {
	return s.sessionID
}

// SaveAircraft upserts the given aircraft in one transaction
func (s *Store) SaveAircraft(ctx context.Context, planes []aircraft.Plane) error {
	if s.sessionID == "" {
		return ErrNoSession
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt := tx.StmtContext(ctx, s.upsert)
	for i := range planes {
		p := &planes[i]
		sum := p.Summary()
		_, err := stmt.ExecContext(ctx,
			s.sessionID, sum.ICAO, sum.Country, nullString(sum.Identification), nullString(sum.Category),
			nullString(sum.Squawk), nullInt(sum.Altitude), nullFloat(sum.Lat), nullFloat(sum.Lon),
			nullInt(sum.GroundSpeed), nullInt(sum.Track), nullInt(sum.VerticalRate),
			int64(sum.Messages), p.Timestamp.UTC(),
		)
		if err != nil {
			return fmt.Errorf("upsert %s: %w", sum.ICAO, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.logger.WithField("aircraft", len(planes)).Debug("Saved aircraft")
	return nil
}

// SavePosition appends the current fix of an aircraft to its track
func (s *Store) SavePosition(ctx context.Context, plane aircraft.Plane) error {
	if s.sessionID == "" {
		return ErrNoSession
	}
	if !plane.HasPosition() {
		return nil
	}

	sum := plane.Summary()
	_, err := s.position.ExecContext(ctx,
		s.sessionID, sum.ICAO, plane.PositionTime.UTC(), plane.Lat, plane.Lon, nullInt(plane.Altitude))
	if err != nil {
		return fmt.Errorf("insert position: %w", err)
	}
	return nil
}

// LoadAircraft returns the aircraft stored for a session, most recently
// seen first
func (s *Store) LoadAircraft(ctx context.Context, sessionID string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, icao, country, ident, category, squawk, altitude, latitude, longitude,
		       ground_speed, track, vertical_rate, messages, last_seen
		FROM aircraft
		WHERE session_id = ?
		ORDER BY last_seen DESC, icao
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query aircraft: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			r                           Record
			country, ident, cat, squawk sql.NullString
			alt, gs, track, vrate       sql.NullInt64
			lat, lon                    sql.NullFloat64
			messages                    int64
		)
		if err := rows.Scan(&r.SessionID, &r.ICAO, &country, &ident, &cat, &squawk, &alt, &lat, &lon,
			&gs, &track, &vrate, &messages, &r.LastSeen); err != nil {
			return nil, fmt.Errorf("scan aircraft: %w", err)
		}
		r.Country = country.String
		r.Ident = ident.String
		r.Category = cat.String
		r.Squawk = squawk.String
		r.Altitude = intPtr(alt)
		r.GroundSpeed = intPtr(gs)
		r.Track = intPtr(track)
		r.VerticalRate = intPtr(vrate)
		r.Lat = floatPtr(lat)
		r.Lon = floatPtr(lon)
		r.Messages = uint64(messages)
		records = append(records, r)
	}
	return records, rows.Err()
}

// CountPositions returns the number of fixes recorded for an aircraft in
// a session
func (s *Store) CountPositions(ctx context.Context, sessionID, icao string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM positions WHERE session_id = ? AND icao = ?", sessionID, icao).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count positions: %w", err)
	}
	return n, nil
}

// Purge deletes sessions started before cutoff along with their rows
func (s *Store) Purge(ctx context.Context, cutoff time.Time) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	old := "SELECT id FROM sessions WHERE started_at < ?"
	for _, table := range []string{"positions", "aircraft"} {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM "+table+" WHERE session_id IN ("+old+")", cutoff.UTC()); err != nil {
			return 0, fmt.Errorf("purge %s: %w", table, err)
		}
	}
	result, err := tx.ExecContext(ctx, "DELETE FROM sessions WHERE started_at < ?", cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.WithField("sessions", n).Info("Purged old sessions")
	}
	return n, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
