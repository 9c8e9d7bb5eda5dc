/*
store.go - Persistence interface for the payment ledger

PURPOSE:
  Defines the interface between the domain logic and the database. The
  ledger is append-only in normal operation; deletion exists only as a
  distinct administrative operation that never renumbers survivors.

KEY INTERFACES:
  Store:   Whole-ledger read, single-record append, delete-by-id
  TxStore: Store plus WithTx for the read-then-append critical section

LAZY INITIALIZATION:
  ReadAll must never fail on a store that was simply never written. An
  absent store is equivalent to an empty one. A store that is present but
  unreadable surfaces ErrStoreCorrupt instead of an empty result, so data
  loss is never masked.

SERIALIZED ACCESS:
  Bill numbering reads the max existing sequence and then appends. If
  another append interleaves, two sales can receive the same bill number.
  Implementations must serialize this cycle; WithTx is the hook the
  Recorder uses to hold it as one critical section.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: Production SQLite store
  - ledger/store/memory.go: In-memory store for tests

SEE ALSO:
  - recorder.go: The only writer
  - billnumber.go: The read side of the critical section
*/
package ledger

import "context"

// =============================================================================
// STORE - Ledger persistence
// =============================================================================

// Store handles persistence of ledger records.
//
// Records are never updated. The only mutations are Append and the
// administrative DeleteByID.
type Store interface {
	// ReadAll returns every persisted record in storage order. Order is not
	// guaranteed sorted; callers sort. A never-initialized store returns an
	// empty slice, not an error.
	ReadAll(ctx context.Context) ([]Record, error)

	// Append durably adds one record and returns its assigned id.
	// The record's ID field is ignored on input.
	Append(ctx context.Context, rec Record) (RecordID, error)

	// DeleteByID removes the record with the given id and reports whether a
	// record was found. Non-existence is a boolean result, not an error.
	// Surviving records keep their ids and bill numbers unchanged.
	DeleteByID(ctx context.Context, id RecordID) (bool, error)
}

// =============================================================================
// TRANSACTIONAL STORE - For the numbering critical section
// =============================================================================

// TxStore wraps Store with transaction support. The Recorder runs each
// sale's read-max-then-append cycle inside WithTx so no other append can
// interleave and duplicate a sequence number.
type TxStore interface {
	Store

	// WithTx executes fn against a transactional view of the store.
	// If fn returns an error, all writes made through the view are rolled
	// back; otherwise they are committed together.
	WithTx(ctx context.Context, fn func(Store) error) error
}
