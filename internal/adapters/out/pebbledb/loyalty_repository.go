// Package pebbledb stores the loyalty ledger in an embedded Pebble database.
//
// Layout:
//
//	account/<customerId>  JSON account: balance and last update
//	accrual/<orderId>     JSON accrual entry, present once an order was credited
//	program               JSON loyalty program
//
// Every read-modify-write runs under a per-customer mutex and lands in one
// synced batch, so a balance and its accrual entry are written together or not
// at all.
package pebbledb

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"cafe/internal/core/domain/model/loyalty"
	"cafe/internal/pkg/errs"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
)

type LoyaltyRepository struct {
	db    *pebble.DB
	locks sync.Map
}

// Open opens or creates the database in dir. fs may be nil for the real
// filesystem; tests pass vfs.NewMem().
func Open(dir string, fs vfs.FS) (*LoyaltyRepository, error) {
	opts := &pebble.Options{}
	if fs != nil {
		opts.FS = fs
	}
	db, err := pebble.Open(filepath.Clean(dir), opts)
	if err != nil {
		return nil, fmt.Errorf("pebble open: %w", err)
	}
	return &LoyaltyRepository{db: db}, nil
}

func (r *LoyaltyRepository) Close() error {
	return r.db.Close()
}

func (r *LoyaltyRepository) GetAccount(_ context.Context, customerID string) (*loyalty.Account, error) {
	id, err := loyalty.NormalizeCustomerID(customerID)
	if err != nil {
		return nil, err
	}

	account, found, err := r.readAccount(id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errs.NewObjectNotFoundError("customerId", id)
	}
	return account, nil
}

func (r *LoyaltyRepository) Accrue(_ context.Context, customerID string, points int64, at time.Time) (*loyalty.Account, error) {
	id, err := loyalty.NormalizeCustomerID(customerID)
	if err != nil {
		return nil, err
	}
	unlock := r.lock(id)
	defer unlock()

	account, err := r.readOrOpen(id, at)
	if err != nil {
		return nil, err
	}
	if err = account.Accrue(points, at); err != nil {
		return nil, err
	}
	if err = r.commit(func(b *pebble.Batch) error { return setAccount(b, account) }); err != nil {
		return nil, err
	}
	return account, nil
}

// AccrueOnce credits entry unless an entry for the same order exists. Entries
// with zero points are recorded without touching the balance.
func (r *LoyaltyRepository) AccrueOnce(_ context.Context, entry loyalty.AccrualEntry) (*loyalty.Account, bool, error) {
	unlock := r.lock(entry.CustomerID())
	defer unlock()

	exists, err := r.has(accrualKey(entry.OrderID().String()))
	if err != nil {
		return nil, false, err
	}
	account, err := r.readOrOpen(entry.CustomerID(), entry.CreatedAt())
	if err != nil {
		return nil, false, err
	}
	if exists {
		return account, false, nil
	}

	if entry.Points() > 0 {
		if err = account.Accrue(entry.Points(), entry.CreatedAt()); err != nil {
			return nil, false, err
		}
	}

	err = r.commit(func(b *pebble.Batch) error {
		raw, err := encodeAccrual(entry)
		if err != nil {
			return err
		}
		if err = b.Set(accrualKey(entry.OrderID().String()), raw, nil); err != nil {
			return err
		}
		if entry.Points() == 0 {
			return nil
		}
		return setAccount(b, account)
	})
	if err != nil {
		return nil, false, err
	}
	return account, true, nil
}

func (r *LoyaltyRepository) Redeem(_ context.Context, customerID string, points int64, at time.Time) (*loyalty.Account, error) {
	id, err := loyalty.NormalizeCustomerID(customerID)
	if err != nil {
		return nil, err
	}
	if err = loyalty.ValidatePoints(points); err != nil {
		return nil, err
	}
	unlock := r.lock(id)
	defer unlock()

	account, found, err := r.readAccount(id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errs.NewInsufficientBalanceError(id, 0, points)
	}
	if err = account.Redeem(points, at); err != nil {
		return nil, err
	}
	if err = r.commit(func(b *pebble.Batch) error { return setAccount(b, account) }); err != nil {
		return nil, err
	}
	return account, nil
}

// GetProgram returns the stored program, or the default program when none was
// saved yet.
func (r *LoyaltyRepository) GetProgram(_ context.Context) (loyalty.Program, error) {
	raw, closer, err := r.db.Get([]byte(programKey))
	if errors.Is(err, pebble.ErrNotFound) {
		return loyalty.DefaultProgram(), nil
	}
	if err != nil {
		return loyalty.Program{}, err
	}
	defer closer.Close()
	return decodeProgram(raw)
}

func (r *LoyaltyRepository) SaveProgram(_ context.Context, program loyalty.Program) error {
	if err := program.Validate(); err != nil {
		return err
	}
	raw, err := encodeProgram(program)
	if err != nil {
		return err
	}
	return r.db.Set([]byte(programKey), raw, pebble.Sync)
}

func (r *LoyaltyRepository) lock(customerID string) func() {
	m, _ := r.locks.LoadOrStore(customerID, &sync.Mutex{})
	mu := m.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (r *LoyaltyRepository) readAccount(customerID string) (*loyalty.Account, bool, error) {
	raw, closer, err := r.db.Get(accountKey(customerID))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	defer closer.Close()

	account, err := decodeAccount(raw)
	if err != nil {
		return nil, false, err
	}
	return account, true, nil
}

func (r *LoyaltyRepository) readOrOpen(customerID string, at time.Time) (*loyalty.Account, error) {
	account, found, err := r.readAccount(customerID)
	if err != nil || found {
		return account, err
	}
	return loyalty.NewAccount(customerID, at)
}

func (r *LoyaltyRepository) has(key []byte) (bool, error) {
	_, closer, err := r.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, closer.Close()
}

func (r *LoyaltyRepository) commit(fill func(b *pebble.Batch) error) error {
	b := r.db.NewBatch()
	defer b.Close()

	if err := fill(b); err != nil {
		return err
	}
	return b.Commit(pebble.Sync)
}

func setAccount(b *pebble.Batch, account *loyalty.Account) error {
	raw, err := encodeAccount(account)
	if err != nil {
		return err
	}
	return b.Set(accountKey(account.CustomerID()), raw, nil)
}
