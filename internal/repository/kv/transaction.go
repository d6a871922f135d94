package kv

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"quill/internal/domain"
	"quill/internal/domain/repositories"
)

type txKey struct{}

// txState buffers the writes of one ExecTx call. A nil value marks a delete.
type txState struct {
	writes map[string][]byte
}

func getTx(ctx context.Context) *txState {
	if tx, ok := ctx.Value(txKey{}).(*txState); ok {
		return tx
	}
	return nil
}

// TransactionManager serializes read-modify-write cycles over the store and
// commits every write made inside ExecTx with a single SetMany call.
type TransactionManager struct {
	store repositories.KeyValueStore
	mu    sync.Mutex
}

// NewTransactionManager creates a new transaction manager
func NewTransactionManager(store repositories.KeyValueStore) *TransactionManager {
	return &TransactionManager{store: store}
}

var _ repositories.TransactionManager = (*TransactionManager)(nil)

// ExecTx runs fn with a transaction in ctx. Nested calls join the outer
// transaction. Nothing is written if fn fails.
func (tm *TransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	if getTx(ctx) != nil {
		return fn(ctx)
	}

	tm.mu.Lock()
	defer tm.mu.Unlock()

	tx := &txState{writes: make(map[string][]byte)}
	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	if len(tx.writes) == 0 {
		return nil
	}
	return tm.store.SetMany(ctx, tx.writes)
}

// read returns the value at key, seeing writes pending in the transaction
func (tm *TransactionManager) read(ctx context.Context, key string) ([]byte, error) {
	if tx := getTx(ctx); tx != nil {
		if value, ok := tx.writes[key]; ok {
			if value == nil {
				return nil, domain.ErrNotFound
			}
			return value, nil
		}
	}
	return tm.store.Get(ctx, key)
}

// readOptional is read with a missing key reported as nil, nil
func (tm *TransactionManager) readOptional(ctx context.Context, key string) ([]byte, error) {
	value, err := tm.read(ctx, key)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	return value, err
}

func (tm *TransactionManager) write(ctx context.Context, key string, value []byte) error {
	if tx := getTx(ctx); tx != nil {
		tx.writes[key] = value
		return nil
	}
	if value == nil {
		return tm.store.Delete(ctx, key)
	}
	return tm.store.Set(ctx, key, value)
}

// keys lists stored keys under prefix merged with pending transaction writes
func (tm *TransactionManager) keys(ctx context.Context, prefix string) ([]string, error) {
	stored, err := tm.store.Keys(ctx, prefix)
	if err != nil {
		return nil, err
	}

	tx := getTx(ctx)
	if tx == nil {
		return stored, nil
	}

	set := make(map[string]bool, len(stored))
	for _, key := range stored {
		set[key] = true
	}
	for key, value := range tx.writes {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		set[key] = value != nil
	}

	keys := make([]string, 0, len(set))
	for key, present := range set {
		if present {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}
