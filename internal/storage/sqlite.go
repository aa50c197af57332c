package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

var db *sql.DB

// ErrNotFound means no bet record exists for the given key. A settlement
// call hitting this is a programming bug, not a retryable condition.
var ErrNotFound = errors.New("bet record not found")

// ErrAlreadySettled means the record's result was already set. Settlement is
// idempotent at this gate; the first result is never overwritten.
var ErrAlreadySettled = errors.New("bet record already settled")

// InitDB initializes the SQLite database connection with WAL mode
func InitDB(dbPath string) error {
	var err error

	path := dbPath
	if dbPath != ":memory:" {
		path, err = filepath.Abs(dbPath)
		if err != nil {
			return err
		}
	}

	db, err = sql.Open("sqlite", path)
	if err != nil {
		return err
	}

	// Enable WAL mode for better concurrency
	_, err = db.Exec("PRAGMA journal_mode=WAL")
	if err != nil {
		return err
	}

	// Run migrations
	if err := runMigrations(); err != nil {
		return err
	}

	return nil
}

// DB returns the database connection
func DB() *sql.DB {
	return db
}

// runMigrations creates the necessary tables. Schema changes are additive
// only; the bets table is the single versioned shape for every record.
func runMigrations() error {
	betsTable := `
		CREATE TABLE IF NOT EXISTS bets (
			bet_id TEXT PRIMARY KEY,
			event_id TEXT NOT NULL,
			sport TEXT NOT NULL,
			event TEXT NOT NULL,
			commence_time DATETIME NOT NULL,
			market TEXT NOT NULL,
			pick TEXT NOT NULL,
			point REAL,
			odds REAL NOT NULL,
			book TEXT NOT NULL,
			stake REAL NOT NULL,
			ev REAL NOT NULL,
			result TEXT NOT NULL DEFAULT 'unset',
			placed_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			settled_at DATETIME
		)
	`

	createIndexes := `
		CREATE INDEX IF NOT EXISTS idx_bets_result ON bets(result);
		CREATE INDEX IF NOT EXISTS idx_bets_event_id ON bets(event_id);
		CREATE INDEX IF NOT EXISTS idx_bets_settled_at ON bets(settled_at);
	`

	_, err := db.Exec(betsTable)
	if err != nil {
		return err
	}

	_, err = db.Exec(createIndexes)
	if err != nil {
		return err
	}

	return nil
}

// CloseDB closes the database connection
func CloseDB() error {
	if db != nil {
		return db.Close()
	}
	return nil
}

// CreateBetIfAbsent persists a record unless one with the same bet_id
// already exists. It reports whether a row was inserted, which doubles as
// the dedup gate: INSERT OR IGNORE is atomic, so concurrent cycles cannot
// both create the same record.
func CreateBetIfAbsent(rec *BetRecord) (bool, error) {
	// Timestamps are always bound from Go so every row uses the driver's
	// format and window comparisons stay consistent.
	result, err := db.Exec(`
		INSERT OR IGNORE INTO bets
			(bet_id, event_id, sport, event, commence_time, market, pick, point, odds, book, stake, ev, result, placed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 'unset', ?)
	`, rec.BetID, rec.EventID, rec.Sport, rec.Event, rec.CommenceTime.UTC(), rec.Market,
		rec.Pick, rec.Point, rec.Odds, rec.Book, rec.Stake, rec.EV, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("failed to insert bet: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows == 1, nil
}

// GetOpenBets returns unsettled records, optionally filtered by sport.
func GetOpenBets(sport string) ([]*BetRecord, error) {
	query := `
		SELECT bet_id, event_id, sport, event, commence_time, market, pick, point, odds, book, stake, ev, result, placed_at, settled_at
		FROM bets
		WHERE result = 'unset'
	`
	args := []interface{}{}
	if sport != "" {
		query += " AND sport = ?"
		args = append(args, sport)
	}
	query += " ORDER BY placed_at"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query open bets: %w", err)
	}
	defer rows.Close()

	return scanBets(rows)
}

// OpenSports returns the distinct sports that still have open records, so
// the reconciler only fetches scores for sports it needs.
func OpenSports() ([]string, error) {
	rows, err := db.Query(`SELECT DISTINCT sport FROM bets WHERE result = 'unset'`)
	if err != nil {
		return nil, fmt.Errorf("failed to query open sports: %w", err)
	}
	defer rows.Close()

	var sports []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		sports = append(sports, s)
	}
	return sports, rows.Err()
}

// SetResult transitions a record from unset to a terminal result. The
// guarded UPDATE makes the transition atomic: a second call for the same
// bet_id returns ErrAlreadySettled, never a silent overwrite.
func SetResult(betID string, result Result) error {
	res, err := db.Exec(`
		UPDATE bets
		SET result = ?, settled_at = ?
		WHERE bet_id = ? AND result = 'unset'
	`, result, time.Now().UTC(), betID)
	if err != nil {
		return fmt.Errorf("failed to update bet result: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 1 {
		return nil
	}

	var existing Result
	err = db.QueryRow(`SELECT result FROM bets WHERE bet_id = ?`, betID).Scan(&existing)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to check bet result: %w", err)
	}
	return ErrAlreadySettled
}

// GetSettledSince returns records settled at or after the window start.
func GetSettledSince(since time.Time) ([]*BetRecord, error) {
	rows, err := db.Query(`
		SELECT bet_id, event_id, sport, event, commence_time, market, pick, point, odds, book, stake, ev, result, placed_at, settled_at
		FROM bets
		WHERE result != 'unset' AND settled_at >= ?
		ORDER BY settled_at
	`, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query settled bets: %w", err)
	}
	defer rows.Close()

	return scanBets(rows)
}

// LoadBetIDs returns every persisted bet_id. The dedup ledger warms its
// in-memory projection from this on startup so dedup survives restarts.
func LoadBetIDs() (map[string]bool, error) {
	rows, err := db.Query(`SELECT bet_id FROM bets`)
	if err != nil {
		return nil, fmt.Errorf("failed to load bet ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = true
	}
	return ids, rows.Err()
}

func scanBets(rows *sql.Rows) ([]*BetRecord, error) {
	var bets []*BetRecord
	for rows.Next() {
		var rec BetRecord
		var point sql.NullFloat64
		var settledAt sql.NullTime

		err := rows.Scan(
			&rec.BetID,
			&rec.EventID,
			&rec.Sport,
			&rec.Event,
			&rec.CommenceTime,
			&rec.Market,
			&rec.Pick,
			&point,
			&rec.Odds,
			&rec.Book,
			&rec.Stake,
			&rec.EV,
			&rec.Result,
			&rec.PlacedAt,
			&settledAt,
		)
		if err != nil {
			return nil, err
		}

		if point.Valid {
			p := point.Float64
			rec.Point = &p
		}
		if settledAt.Valid {
			t := settledAt.Time
			rec.SettledAt = &t
		}

		bets = append(bets, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return bets, nil
}
