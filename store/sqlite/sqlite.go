/*
Package sqlite provides the SQLite-backed implementation of the ledger store.

PURPOSE:
  Implements ledger.Store and ledger.TxStore on a single SQLite file. This
  is the durable ledger behind the point-of-sale: one table, append and
  delete-by-id only, no UPDATE path at all.

LAZY INITIALIZATION:
  Open creates the database file (and its parent directory) on first use,
  so an absent store reads as an empty ledger. A file that exists but is
  not a SQLite database surfaces ledger.ErrStoreCorrupt instead of being
  silently treated as empty; a zero-length file is indistinguishable from
  "never written" and SQLite initializes it as fresh.

BILL NUMBER UNIQUENESS:
  A partial unique index on bill_number backs the ledger-wide uniqueness
  invariant. Rows imported from the earliest schema variant carry an empty
  bill number and are exempt.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety; WithTx holds the write lock for the
  whole read-then-append numbering cycle. SQLite is opened with WAL for
  better crash recovery.

USAGE:
  store, err := sqlite.Open("./data/transactions.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - ledger/store.go: Interface definitions
  - ledger/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hinode/billing-engine/ledger"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

// Store implements ledger.TxStore using SQLite.
type Store struct {
	db   *sql.DB
	path string
	mu   sync.RWMutex
}

// Open creates a SQLite store at the given path, initializing the schema
// if the file has never been written. Use ":memory:" for an in-memory
// database.
func Open(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if dir := filepath.Dir(dbPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating data directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if dbPath == ":memory:" {
		// Each pooled connection to :memory: would see its own database.
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db, path: dbPath}
	if err := store.migrate(); err != nil {
		db.Close()
		if isNotADatabase(err) {
			return nil, &ledger.CorruptStoreError{Path: dbPath, Err: err}
		}
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Ledger of paid line items (append-only in normal operation)
	CREATE TABLE IF NOT EXISTS transactions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		bill_number TEXT NOT NULL DEFAULT '',
		student_name TEXT NOT NULL,
		class_name TEXT NOT NULL,
		amount TEXT NOT NULL,
		date TEXT NOT NULL,
		timestamp INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_transactions_timestamp
		ON transactions(timestamp);

	-- Bill numbers are unique across the whole ledger. Rows from the
	-- earliest schema variant predate numbering and carry ''.
	CREATE UNIQUE INDEX IF NOT EXISTS idx_transactions_bill_number
		ON transactions(bill_number) WHERE bill_number <> '';
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// LEDGER STORE (ledger.Store interface)
// =============================================================================

// ReadAll returns every record in storage order.
func (s *Store) ReadAll(ctx context.Context) ([]ledger.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.readAll(ctx, s.db)
}

func (s *Store) readAll(ctx context.Context, db queryer) ([]ledger.Record, error) {
	query := `
		SELECT id, bill_number, student_name, class_name, amount, date, timestamp
		FROM transactions
		ORDER BY id ASC
	`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		if isNotADatabase(err) {
			return nil, &ledger.CorruptStoreError{Path: s.path, Err: err}
		}
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}
	defer rows.Close()

	records := []ledger.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Append durably adds one record and returns its assigned id.
func (s *Store) Append(ctx context.Context, rec ledger.Record) (ledger.RecordID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.append(ctx, s.db, rec)
}

func (s *Store) append(ctx context.Context, db execer, rec ledger.Record) (ledger.RecordID, error) {
	query := `
		INSERT INTO transactions (bill_number, student_name, class_name, amount, date, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	res, err := db.ExecContext(ctx, query,
		rec.BillNumber,
		rec.StudentName,
		rec.ClassName,
		rec.Amount.String(),
		rec.Date,
		rec.Timestamp,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to append record: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted id: %w", err)
	}
	return ledger.RecordID(id), nil
}

// DeleteByID removes one record by id, reporting whether it existed.
func (s *Store) DeleteByID(ctx context.Context, id ledger.RecordID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", int64(id))
	if err != nil {
		return false, fmt.Errorf("failed to delete record: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// =============================================================================
// TRANSACTIONAL STORE (ledger.TxStore interface)
// =============================================================================

// WithTx executes fn within a database transaction. The store write lock is
// held for the duration, so the bill-numbering read-then-append cycle runs
// as a single critical section.
func (s *Store) WithTx(ctx context.Context, fn func(ledger.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&txStore{tx: sqlTx, parent: s}); err != nil {
		return err
	}

	return sqlTx.Commit()
}

type txStore struct {
	tx     *sql.Tx
	parent *Store
}

func (ts *txStore) ReadAll(ctx context.Context) ([]ledger.Record, error) {
	return ts.parent.readAll(ctx, ts.tx)
}

func (ts *txStore) Append(ctx context.Context, rec ledger.Record) (ledger.RecordID, error) {
	return ts.parent.append(ctx, ts.tx, rec)
}

func (ts *txStore) DeleteByID(ctx context.Context, id ledger.RecordID) (bool, error) {
	res, err := ts.tx.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", int64(id))
	if err != nil {
		return false, fmt.Errorf("failed to delete record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// =============================================================================
// HELPERS
// =============================================================================

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func scanRecord(rows *sql.Rows) (ledger.Record, error) {
	var (
		rec    ledger.Record
		id     int64
		amount string
	)

	if err := rows.Scan(&id, &rec.BillNumber, &rec.StudentName, &rec.ClassName, &amount, &rec.Date, &rec.Timestamp); err != nil {
		return rec, fmt.Errorf("failed to scan record: %w", err)
	}

	rec.ID = ledger.RecordID(id)

	amt, err := decimal.NewFromString(amount)
	if err != nil {
		return rec, fmt.Errorf("record %d has malformed amount %q: %w", id, amount, err)
	}
	rec.Amount = amt

	return rec, nil
}

func isNotADatabase(err error) bool {
	return err != nil && strings.Contains(err.Error(), "not a database")
}
