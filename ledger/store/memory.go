// Package store provides ledger.Store implementations.
package store

import (
	"context"
	"sync"

	"github.com/hinode/billing-engine/ledger"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu      sync.RWMutex
	records []ledger.Record
	nextID  ledger.RecordID
}

func NewMemory() *Memory {
	return &Memory{nextID: 1}
}

// ReadAll returns the records in append order. The slice is a copy.
func (m *Memory) ReadAll(_ context.Context) ([]ledger.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]ledger.Record, len(m.records))
	copy(result, m.records)
	return result, nil
}

// Append adds a single record and assigns its id.
func (m *Memory) Append(_ context.Context, rec ledger.Record) (ledger.RecordID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.appendLocked(rec)
}

func (m *Memory) appendLocked(rec ledger.Record) (ledger.RecordID, error) {
	rec.ID = m.nextID
	m.nextID++
	m.records = append(m.records, rec)
	return rec.ID, nil
}

// DeleteByID removes one record. Survivors keep their ids and bill numbers.
func (m *Memory) DeleteByID(_ context.Context, id ledger.RecordID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deleteLocked(id), nil
}

func (m *Memory) deleteLocked(id ledger.RecordID) bool {
	for i, rec := range m.records {
		if rec.ID == id {
			m.records = append(m.records[:i], m.records[i+1:]...)
			return true
		}
	}
	return false
}

// =============================================================================
// TRANSACTIONAL MEMORY STORE
// =============================================================================

// TxMemory wraps Memory with transaction support.
type TxMemory struct {
	*Memory
}

func NewTxMemory() *TxMemory {
	return &TxMemory{Memory: NewMemory()}
}

// WithTx executes fn within a transaction, simulated with a snapshot that
// is restored if fn fails. The store mutex is held for the whole of fn, so
// the read-then-append numbering cycle cannot interleave.
func (tm *TxMemory) WithTx(ctx context.Context, fn func(ledger.Store) error) error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	snapshot := tm.snapshot()

	if err := fn(&txMemoryView{parent: tm}); err != nil {
		tm.restore(snapshot)
		return err
	}
	return nil
}

func (tm *TxMemory) snapshot() memorySnapshot {
	records := make([]ledger.Record, len(tm.records))
	copy(records, tm.records)
	return memorySnapshot{records: records, nextID: tm.nextID}
}

func (tm *TxMemory) restore(s memorySnapshot) {
	tm.records = s.records
	tm.nextID = s.nextID
}

type memorySnapshot struct {
	records []ledger.Record
	nextID  ledger.RecordID
}

// txMemoryView accesses the parent directly: the parent's mutex is already
// held by WithTx.
type txMemoryView struct {
	parent *TxMemory
}

func (tv *txMemoryView) ReadAll(_ context.Context) ([]ledger.Record, error) {
	result := make([]ledger.Record, len(tv.parent.records))
	copy(result, tv.parent.records)
	return result, nil
}

func (tv *txMemoryView) Append(_ context.Context, rec ledger.Record) (ledger.RecordID, error) {
	return tv.parent.appendLocked(rec)
}

func (tv *txMemoryView) DeleteByID(_ context.Context, id ledger.RecordID) (bool, error) {
	return tv.parent.deleteLocked(id), nil
}
