// Package log provides the package-level zerolog logger. Events go to the
// console or, after Init, as JSON rows into an SQLite database that can be
// queried back.
package log

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"aes256-go/pkg/appdir"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// fixed-width so stored timestamps order lexically
const timeFieldFormat = "2006-01-02T15:04:05.000000000Z07:00"

var (
	writesSinceInit atomic.Int64
	pkgLogger       = zerolog.Nop()
	level           = zerolog.InfoLevel
	sink            *sqliteSink
	mu              sync.RWMutex
)

var (
	ErrNotInitialized     = errors.New("log: logger not initialized, call log.Init() first")
	ErrAlreadyInitialized = errors.New("log: logger already initialized")
)

func init() {
	zerolog.TimeFieldFormat = timeFieldFormat
	zerolog.TimestampFunc = func() time.Time { return time.Now().UTC() }
}

type sqliteSink struct {
	db   *sql.DB
	stmt *sql.Stmt
	mu   sync.Mutex
}

func openSink(dbPath string) (*sqliteSink, error) {
	dsn := fmt.Sprintf("%s?_pragma=journal_mode=wal&_pragma=busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db %s: %w", dbPath, err)
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite db %s: %w", dbPath, err)
	}

	if _, err = db.Exec(`
    CREATE TABLE IF NOT EXISTS logs (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        inserted_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP NOT NULL,
        log_data TEXT NOT NULL
    );`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create logs table: %w", err)
	}
	if _, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_logs_json_time ON logs (json_extract(log_data, '$.time'));`); err != nil {
		stdlog.Printf("Warning: failed to create JSON time index: %v", err)
	}

	stmt, err := db.Prepare(`INSERT INTO logs (log_data) VALUES (?)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	return &sqliteSink{db: db, stmt: stmt}, nil
}

func (s *sqliteSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.stmt.Exec(string(p)); err != nil {
		stdlog.Printf("ERROR writing log to SQLite: %v", err)
		return 0, err
	}
	writesSinceInit.Add(1)
	return len(p), nil
}

func (s *sqliteSink) close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return errors.Join(s.stmt.Close(), s.db.Close())
}

// SetStd switches the logger to a human-readable console writer on stderr.
func SetStd() {
	SetOutput(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}

// SetOutput routes events to w. It does not close an active SQLite sink.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	pkgLogger = zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// SetLevel parses and applies a level name such as "debug" or "warn".
func SetLevel(name string) error {
	lvl, err := zerolog.ParseLevel(name)
	if err != nil {
		return fmt.Errorf("log: %w", err)
	}
	mu.Lock()
	defer mu.Unlock()
	level = lvl
	pkgLogger = pkgLogger.Level(lvl)
	return nil
}

// Init opens dbFile (relative names live under the app directory) and makes
// it the destination of every event.
func Init(dbFile string) error {
	if dbFile == "" {
		return errors.New("log: Init needs an explicit dbFile")
	}
	dbPath := appdir.Path(dbFile)

	mu.Lock()
	defer mu.Unlock()
	if sink != nil {
		return ErrAlreadyInitialized
	}
	s, err := openSink(dbPath)
	if err != nil {
		return fmt.Errorf("failed to create SQLite writer: %w", err)
	}
	sink = s
	writesSinceInit.Store(0)
	pkgLogger = zerolog.New(sink).Level(level).With().Timestamp().Logger()
	return nil
}

// Close flushes a closing event and releases the SQLite sink.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if sink == nil {
		return nil
	}
	s := sink
	sink = nil
	pkgLogger = zerolog.Nop()

	cl := zerolog.New(s).With().Timestamp().Logger()
	cl.Log().Msg("closing SQLite logger")
	if err := s.close(); err != nil {
		return fmt.Errorf("error closing SQLite logger: %w", err)
	}
	return nil
}

// Logger returns a copy of the current logger for injection.
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return pkgLogger
}

func current() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := pkgLogger
	return &l
}

func Debug() *zerolog.Event { return current().Debug() }
func Info() *zerolog.Event  { return current().Info() }
func Warn() *zerolog.Event  { return current().Warn() }
func Error() *zerolog.Event { return current().Error() }
func Fatal() *zerolog.Event { return current().Fatal() }

// Printf sends an info event. Arguments are handled in the manner of fmt.Printf.
func Printf(format string, v ...any) {
	current().Info().CallerSkipFrame(1).Msgf(format, v...)
}

func Fatalf(format string, v ...any) {
	current().Fatal().Msgf(format, v...)
}
