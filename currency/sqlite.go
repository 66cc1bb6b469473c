package currency

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// dateLayout is how dates are keyed in the rates table.
const dateLayout = "20060102"

// SQLiteRateDB is a RateStore backed by an embedded SQLite database.
type SQLiteRateDB struct {
	db *sql.DB
}

// OpenRateDB opens (or creates) a rate database at path. Use ":memory:" for
// a throwaway database.
func OpenRateDB(path string) (*SQLiteRateDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open rate db %q: %w", path, err)
	}
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS rates (
			date     TEXT NOT NULL,
			currency TEXT NOT NULL,
			rate     REAL NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_rate ON rates (date, currency)`,
	}
	for _, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate rate db: %w", err)
		}
	}
	return &SQLiteRateDB{db: db}, nil
}

// Close closes the underlying database.
func (s *SQLiteRateDB) Close() error {
	return s.db.Close()
}

func (s *SQLiteRateDB) GetRate(code string, date time.Time) (float64, error) {
	var rate float64
	err := s.db.QueryRow(`
		SELECT rate FROM rates
		WHERE date <= ? AND currency = ?
		ORDER BY date DESC LIMIT 1
	`, date.Format(dateLayout), code).Scan(&rate)
	if err == sql.ErrNoRows {
		err = s.db.QueryRow(`
			SELECT rate FROM rates
			WHERE date >= ? AND currency = ?
			ORDER BY date LIMIT 1
		`, date.Format(dateLayout), code).Scan(&rate)
	}
	if err == sql.ErrNoRows {
		return 0, ErrNoRate
	}
	if err != nil {
		return 0, fmt.Errorf("get rate for %s: %w", code, err)
	}
	return rate, nil
}

func (s *SQLiteRateDB) PutRate(code string, date time.Time, rate float64) error {
	_, err := s.db.Exec(`
		REPLACE INTO rates (date, currency, rate) VALUES (?, ?, ?)
	`, date.Format(dateLayout), code, rate)
	if err != nil {
		return fmt.Errorf("put rate for %s: %w", code, err)
	}
	return nil
}

func (s *SQLiteRateDB) DateRange(code string) (time.Time, time.Time, error) {
	var minDate, maxDate sql.NullString
	err := s.db.QueryRow(`
		SELECT min(date), max(date) FROM rates WHERE currency = ?
	`, code).Scan(&minDate, &maxDate)
	if err != nil && err != sql.ErrNoRows {
		return time.Time{}, time.Time{}, fmt.Errorf("date range for %s: %w", code, err)
	}
	if !minDate.Valid || !maxDate.Valid {
		return time.Time{}, time.Time{}, ErrNoRate
	}
	first, err := time.ParseInLocation(dateLayout, minDate.String, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("date range for %s: %w", code, err)
	}
	last, err := time.ParseInLocation(dateLayout, maxDate.String, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("date range for %s: %w", code, err)
	}
	return first, last, nil
}
