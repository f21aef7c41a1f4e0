// Package state persists interactive session state between launches: the
// last selected system, the last filter selection, and panel layout. The
// display layer writes on teardown and reads on first screen.
package state

import (
	"database/sql"
	"fmt"

	internal "github.com/arcadeforge/system-catalog/syscat"
	"github.com/arcadeforge/system-catalog/syscat/filters"

	"github.com/rs/zerolog"
	_ "github.com/tursodatabase/go-libsql"
)

const (
	keyLastSystem       = "last_system"
	keyLastManufacturer = "last_filter_manufacturer"
	keyLastYear         = "last_filter_year"
	keyPanelLayout      = "panel_layout"
)

// Store is the libsql-backed key-value session state store.
type Store struct {
	db           *sql.DB
	log          zerolog.Logger
	rememberLast bool

	// firstScreen stays true for the process lifetime: the stored selection
	// is restored on every first screen after a relaunch. There is
	// deliberately no clear path.
	firstScreen bool
}

// NewStore opens or initializes the session state database at the given
// DSN. An empty DSN uses the in-memory default.
func NewStore(dsn string, rememberLast bool) (*Store, error) {
	if dsn == "" {
		dsn = internal.DefaultDatabaseDSN
	}

	db, err := sql.Open("libsql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open session state database: %w", err)
	}

	s := &Store{
		db:           db,
		log:          internal.GetLogger(),
		rememberLast: rememberLast,
		firstScreen:  true,
	}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}

	s.log.Debug().Str("dsn", dsn).Msg("session state store opened")
	return s, nil
}

// init sets up the session state table.
func (s *Store) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS ui_state (
		key TEXT PRIMARY KEY,
		value TEXT,
		time_stamp DATETIME DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		return fmt.Errorf("failed to create ui_state table: %w", err)
	}
	return nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// FirstScreen reports whether the stored selection should be restored.
func (s *Store) FirstScreen() bool {
	return s.firstScreen && s.rememberLast
}

// SetLastSystem records the short identifier of the selected system.
func (s *Store) SetLastSystem(name string) error {
	return s.set(keyLastSystem, name)
}

// LastSystem returns the previously selected system identifier, or empty
// when remember-last is disabled or nothing was stored.
func (s *Store) LastSystem() (string, error) {
	if !s.rememberLast {
		return "", nil
	}
	return s.get(keyLastSystem)
}

// SetLastFilter records the filter selection.
func (s *Store) SetLastFilter(sel filters.Selection) error {
	if err := s.set(keyLastManufacturer, sel.Manufacturer); err != nil {
		return err
	}
	return s.set(keyLastYear, sel.Year)
}

// LastFilter returns the previously active filter selection.
func (s *Store) LastFilter() (filters.Selection, error) {
	manufacturer, err := s.get(keyLastManufacturer)
	if err != nil {
		return filters.Selection{}, err
	}
	year, err := s.get(keyLastYear)
	if err != nil {
		return filters.Selection{}, err
	}
	return filters.Selection{Manufacturer: manufacturer, Year: year}, nil
}

// SetPanelLayout records the display layer's panel layout token.
func (s *Store) SetPanelLayout(layout string) error {
	return s.set(keyPanelLayout, layout)
}

// PanelLayout returns the stored panel layout token.
func (s *Store) PanelLayout() (string, error) {
	return s.get(keyPanelLayout)
}

func (s *Store) set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO ui_state (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, time_stamp = CURRENT_TIMESTAMP`,
		key, value)
	if err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	return nil
}

func (s *Store) get(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM ui_state WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load %s: %w", key, err)
	}
	return value, nil
}
