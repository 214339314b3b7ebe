// Package lookup answers the checklist's read-only questions about the
// reference tables: dropdown options, help text, active circulars and policy
// thresholds. A snapshot of the tables is loaded into an in-memory SQLite
// database and every answer is a query over it.
package lookup

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cast"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/tenderlist/internal/logging"
	"github.com/mesh-intelligence/tenderlist/pkg/types"
)

// Service runs lookups over one snapshot of the tables. It is safe for
// concurrent use; Close releases the database.
type Service struct {
	db  *sql.DB
	log *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used to report query failures.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.log = l }
}

// Open loads tables into a fresh in-memory database.
func Open(tables types.Tables, opts ...Option) (*Service, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening lookup database: %w", err)
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating table: %w", err)
		}
	}
	for _, ddl := range indexDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating index: %w", err)
		}
	}
	if err := loadTables(db, tables); err != nil {
		db.Close()
		return nil, err
	}

	s := &Service{db: db}
	for _, opt := range opts {
		opt(s)
	}
	s.log = logging.OrNop(s.log)
	return s, nil
}

// Close releases the database.
func (s *Service) Close() error {
	return s.db.Close()
}

// OptionsFor returns the values of the named list in table order, or an
// empty slice when the list has no rows.
func (s *Service) OptionsFor(list string) []string {
	options := []string{}
	rows, err := s.db.Query("SELECT value FROM lists WHERE list_name = ? ORDER BY ordinal", list)
	if err != nil {
		s.queryFailed("options", err)
		return options
	}
	defer rows.Close()

	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			s.queryFailed("options", err)
			return options
		}
		options = append(options, v)
	}
	if err := rows.Err(); err != nil {
		s.queryFailed("options", err)
	}
	return options
}

// ListNames returns the distinct list names in order of first appearance.
func (s *Service) ListNames() []string {
	names := []string{}
	rows, err := s.db.Query("SELECT list_name FROM lists GROUP BY list_name ORDER BY MIN(ordinal)")
	if err != nil {
		s.queryFailed("list names", err)
		return names
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			s.queryFailed("list names", err)
			return names
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		s.queryFailed("list names", err)
	}
	return names
}

// ActiveCircularFor returns the first circular in table order whose
// Parameter equals parameter and whose Active marker is "yes" in any case.
func (s *Service) ActiveCircularFor(parameter string) (types.Circular, bool) {
	rows, err := s.db.Query(
		`SELECT parameter, title, link, effective_from, active
		 FROM circulars WHERE parameter = ? ORDER BY ordinal`, parameter)
	if err != nil {
		s.queryFailed("circular", err)
		return types.Circular{}, false
	}
	defer rows.Close()

	for rows.Next() {
		var c types.Circular
		if err := rows.Scan(&c.Parameter, &c.Title, &c.Link, &c.EffectiveFrom, &c.Active); err != nil {
			s.queryFailed("circular", err)
			return types.Circular{}, false
		}
		if c.IsActive() {
			return c, true
		}
	}
	if err := rows.Err(); err != nil {
		s.queryFailed("circular", err)
	}
	return types.Circular{}, false
}

// HelpTextFor returns the Help of the first parameter row named parameter,
// or "" when there is none.
func (s *Service) HelpTextFor(parameter string) string {
	var help string
	err := s.db.QueryRow(
		"SELECT help FROM parameters WHERE name = ? ORDER BY ordinal LIMIT 1", parameter,
	).Scan(&help)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.queryFailed("help text", err)
		}
		return ""
	}
	return help
}

// ThresholdFor returns the numeric threshold of the first rule named key.
// def is returned when the rule is absent, empty or not a number.
func (s *Service) ThresholdFor(key string, def float64) float64 {
	var raw string
	err := s.db.QueryRow(
		"SELECT threshold FROM policy WHERE rule_key = ? ORDER BY ordinal LIMIT 1", key,
	).Scan(&raw)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.queryFailed("threshold", err)
		}
		return def
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	v, err := cast.ToFloat64E(raw)
	if err != nil {
		s.log.Debug("threshold is not a number, using default",
			zap.String("rule_key", key), zap.String("threshold", raw), zap.Float64("default", def))
		return def
	}
	return v
}

func (s *Service) queryFailed(what string, err error) {
	s.log.Warn("lookup query failed", zap.String("query", what), zap.Error(err))
}
