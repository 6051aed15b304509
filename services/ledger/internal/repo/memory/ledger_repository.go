package memory

import (
	"context"
	"sync"

	"pulse/services/ledger/internal/entity"
)

// LedgerRepository is a map-backed store used by tests and local runs.
// WithinTransaction snapshots the maps and restores them when fn fails,
// mirroring the all-or-nothing semantics of the postgres repository.
type LedgerRepository struct {
	mu           sync.Mutex
	creators     map[string]entity.Creator
	entitlements map[string]entity.Entitlement
	events       []entity.LedgerEvent
}

func NewLedgerRepository() *LedgerRepository {
	return &LedgerRepository{
		creators:     make(map[string]entity.Creator),
		entitlements: make(map[string]entity.Entitlement),
	}
}

func pairKey(subscriber, creator string) string {
	return subscriber + "/" + creator
}

func (r *LedgerRepository) GetCreator(ctx context.Context, address string) (*entity.Creator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	creator, exists := r.creators[address]
	if !exists {
		return nil, nil
	}
	return &creator, nil
}

func (r *LedgerRepository) ListCreators(ctx context.Context, limit, offset int) ([]*entity.Creator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var creators []*entity.Creator
	for _, creator := range r.creators {
		if creator.Registered {
			creatorCopy := creator
			creators = append(creators, &creatorCopy)
		}
	}
	return creators, nil
}

func (r *LedgerRepository) SaveCreator(ctx context.Context, creator *entity.Creator) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.creators[creator.Address] = *creator
	return nil
}

func (r *LedgerRepository) GetEntitlement(ctx context.Context, subscriber, creator string) (*entity.Entitlement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entitlement, exists := r.entitlements[pairKey(subscriber, creator)]
	if !exists {
		return nil, nil
	}
	return &entitlement, nil
}

func (r *LedgerRepository) SaveEntitlement(ctx context.Context, entitlement *entity.Entitlement) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entitlements[pairKey(entitlement.SubscriberAddress, entitlement.CreatorAddress)] = *entitlement
	return nil
}

func (r *LedgerRepository) AppendEvent(ctx context.Context, event *entity.LedgerEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, *event)
	return nil
}

// Events returns a copy of all appended outbox events.
func (r *LedgerRepository) Events() []entity.LedgerEvent {
	r.mu.Lock()
	defer r.mu.Unlock()

	events := make([]entity.LedgerEvent, len(r.events))
	copy(events, r.events)
	return events
}

func (r *LedgerRepository) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	r.mu.Lock()
	creatorsSnapshot := make(map[string]entity.Creator, len(r.creators))
	for k, v := range r.creators {
		creatorsSnapshot[k] = v
	}
	entitlementsSnapshot := make(map[string]entity.Entitlement, len(r.entitlements))
	for k, v := range r.entitlements {
		entitlementsSnapshot[k] = v
	}
	eventsSnapshot := len(r.events)
	r.mu.Unlock()

	if err := fn(ctx); err != nil {
		r.mu.Lock()
		r.creators = creatorsSnapshot
		r.entitlements = entitlementsSnapshot
		r.events = r.events[:eventsSnapshot]
		r.mu.Unlock()
		return err
	}
	return nil
}
