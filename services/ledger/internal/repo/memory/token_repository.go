package memory

import (
	"context"
	"sync"
)

// TokenRepository is a map-backed stablecoin store for tests and local
// runs, with the same rollback discipline as the ledger repository.
type TokenRepository struct {
	mu         sync.Mutex
	balances   map[string]int64
	allowances map[string]int64
}

func NewTokenRepository() *TokenRepository {
	return &TokenRepository{
		balances:   make(map[string]int64),
		allowances: make(map[string]int64),
	}
}

func (r *TokenRepository) GetBalance(ctx context.Context, address string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.balances[address], nil
}

func (r *TokenRepository) SetBalance(ctx context.Context, address string, balance int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.balances[address] = balance
	return nil
}

func (r *TokenRepository) GetAllowance(ctx context.Context, owner, spender string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.allowances[pairKey(owner, spender)], nil
}

func (r *TokenRepository) SetAllowance(ctx context.Context, owner, spender string, amount int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.allowances[pairKey(owner, spender)] = amount
	return nil
}

func (r *TokenRepository) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	r.mu.Lock()
	balancesSnapshot := make(map[string]int64, len(r.balances))
	for k, v := range r.balances {
		balancesSnapshot[k] = v
	}
	allowancesSnapshot := make(map[string]int64, len(r.allowances))
	for k, v := range r.allowances {
		allowancesSnapshot[k] = v
	}
	r.mu.Unlock()

	if err := fn(ctx); err != nil {
		r.mu.Lock()
		r.balances = balancesSnapshot
		r.allowances = allowancesSnapshot
		r.mu.Unlock()
		return err
	}
	return nil
}
