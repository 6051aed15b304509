package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"pulse/pkg/logger"
	"pulse/services/ledger/internal/entity"
	"pulse/services/ledger/internal/repo/persistent"

	"github.com/redis/go-redis/v9"
)

// SubscriptionPeriod is the fixed entitlement extension granted per
// successful subscribe call.
const SubscriptionPeriod = 30 * 24 * time.Hour

const subscriptionPeriodSeconds = int64(SubscriptionPeriod / time.Second)

// TokenGateway is the ledger's view of the settlement token: Pull moves
// funds from a subscriber into the vault (allowance-gated), Push pays
// the vault out to a recipient. Both must fail hard so the surrounding
// transaction aborts without partial state.
type TokenGateway interface {
	Pull(ctx context.Context, from string, amount int64) error
	Push(ctx context.Context, to string, amount int64) error
}

// EventPublisher fans committed ledger events out to off-chain
// reconcilers (the outbox row is the durable record; publishing is
// best-effort).
type EventPublisher interface {
	Publish(eventType string, payload interface{}) error
}

type LedgerUseCase interface {
	RegisterCreator(ctx context.Context, creator string, initialFee int64) (*entity.Creator, error)
	Subscribe(ctx context.Context, subscriber, creator string, amount int64) (*entity.Entitlement, error)
	WithdrawEarnings(ctx context.Context, creator string, amount int64) (*entity.Creator, error)
	UpdateSubscriptionFee(ctx context.Context, creator string, newFee int64) (*entity.Creator, error)
	IsActiveSubscriber(ctx context.Context, subscriber, creator string) (bool, error)
	GetCreator(ctx context.Context, creator string) (*entity.Creator, error)
	GetSubscriptionExpiry(ctx context.Context, subscriber, creator string) (int64, error)
	ListCreators(ctx context.Context, limit, offset int) ([]*entity.Creator, error)
}

type ledgerUseCase struct {
	ledgerRepo  persistent.LedgerRepository
	token       TokenGateway
	publisher   EventPublisher
	redisClient *redis.Client
	logger      *logger.Logger
	now         func() time.Time
	mu          sync.Mutex
}

func NewLedgerUseCase(ledgerRepo persistent.LedgerRepository, token TokenGateway, publisher EventPublisher, redisClient *redis.Client, logger *logger.Logger) LedgerUseCase {
	return NewLedgerUseCaseWithClock(ledgerRepo, token, publisher, redisClient, logger, time.Now)
}

// NewLedgerUseCaseWithClock injects the time source. The clock is the
// only timestamp authority; caller-supplied times are never accepted.
func NewLedgerUseCaseWithClock(ledgerRepo persistent.LedgerRepository, token TokenGateway, publisher EventPublisher, redisClient *redis.Client, logger *logger.Logger, now func() time.Time) LedgerUseCase {
	return &ledgerUseCase{
		ledgerRepo:  ledgerRepo,
		token:       token,
		publisher:   publisher,
		redisClient: redisClient,
		logger:      logger,
		now:         now,
	}
}

func (uc *ledgerUseCase) RegisterCreator(ctx context.Context, creator string, initialFee int64) (*entity.Creator, error) {
	if initialFee <= 0 {
		return nil, entity.ErrInvalidAmount
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	account := &entity.Creator{
		Address:         creator,
		SubscriptionFee: initialFee,
		Registered:      true,
	}

	err := uc.ledgerRepo.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := uc.ledgerRepo.GetCreator(ctx, creator)
		if err != nil {
			return err
		}
		if existing != nil && existing.Registered {
			return entity.ErrAlreadyRegistered
		}

		if err := uc.ledgerRepo.SaveCreator(ctx, account); err != nil {
			return err
		}

		return uc.appendEvent(ctx, entity.EventCreatorRegistered, entity.CreatorRegisteredEvent{
			Creator:    creator,
			InitialFee: initialFee,
		})
	})
	if err != nil {
		return nil, err
	}

	uc.publish(entity.EventCreatorRegistered, entity.CreatorRegisteredEvent{
		Creator:    creator,
		InitialFee: initialFee,
	})
	uc.mirrorFee(ctx, creator, initialFee)

	return account, nil
}

func (uc *ledgerUseCase) Subscribe(ctx context.Context, subscriber, creator string, amount int64) (*entity.Entitlement, error) {
	if amount <= 0 {
		return nil, entity.ErrInvalidAmount
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	var entitlement *entity.Entitlement

	err := uc.ledgerRepo.WithinTransaction(ctx, func(ctx context.Context) error {
		account, err := uc.ledgerRepo.GetCreator(ctx, creator)
		if err != nil {
			return err
		}
		if account == nil || !account.Registered {
			return entity.ErrCreatorNotRegistered
		}

		// The advertised fee is advisory pricing; the pulled amount is
		// whatever the subscriber authorized.
		if err := uc.token.Pull(ctx, subscriber, amount); err != nil {
			return err
		}

		account.Earnings += amount
		account.TotalEarnings += amount
		if err := uc.ledgerRepo.SaveCreator(ctx, account); err != nil {
			return err
		}

		entitlement, err = uc.ledgerRepo.GetEntitlement(ctx, subscriber, creator)
		if err != nil {
			return err
		}
		if entitlement == nil {
			entitlement = &entity.Entitlement{
				SubscriberAddress: subscriber,
				CreatorAddress:    creator,
			}
		}

		// Stack unexpired time; a lapsed expiry never anchors the
		// extension.
		now := uc.now().Unix()
		anchor := now
		if entitlement.ExpiresAt > now {
			anchor = entitlement.ExpiresAt
		}
		entitlement.ExpiresAt = anchor + subscriptionPeriodSeconds

		if err := uc.ledgerRepo.SaveEntitlement(ctx, entitlement); err != nil {
			return err
		}

		return uc.appendEvent(ctx, entity.EventSubscribed, entity.SubscribedEvent{
			Subscriber: subscriber,
			Creator:    creator,
			Amount:     amount,
			ExpiresAt:  entitlement.ExpiresAt,
		})
	})
	if err != nil {
		return nil, err
	}

	uc.publish(entity.EventSubscribed, entity.SubscribedEvent{
		Subscriber: subscriber,
		Creator:    creator,
		Amount:     amount,
		ExpiresAt:  entitlement.ExpiresAt,
	})

	return entitlement, nil
}

func (uc *ledgerUseCase) WithdrawEarnings(ctx context.Context, creator string, amount int64) (*entity.Creator, error) {
	if amount <= 0 {
		return nil, entity.ErrInvalidAmount
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	var account *entity.Creator

	err := uc.ledgerRepo.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		account, err = uc.ledgerRepo.GetCreator(ctx, creator)
		if err != nil {
			return err
		}
		if account == nil || !account.Registered {
			return entity.ErrCreatorNotRegistered
		}
		if account.Earnings < amount {
			return entity.ErrInsufficientEarnings
		}

		// TotalEarnings stays put: it is the historical figure.
		account.Earnings -= amount
		if err := uc.ledgerRepo.SaveCreator(ctx, account); err != nil {
			return err
		}

		if err := uc.token.Push(ctx, creator, amount); err != nil {
			return err
		}

		return uc.appendEvent(ctx, entity.EventCreatorEarningsWithdrawn, entity.CreatorEarningsWithdrawnEvent{
			Creator: creator,
			Amount:  amount,
		})
	})
	if err != nil {
		return nil, err
	}

	uc.publish(entity.EventCreatorEarningsWithdrawn, entity.CreatorEarningsWithdrawnEvent{
		Creator: creator,
		Amount:  amount,
	})

	return account, nil
}

func (uc *ledgerUseCase) UpdateSubscriptionFee(ctx context.Context, creator string, newFee int64) (*entity.Creator, error) {
	if newFee <= 0 {
		return nil, entity.ErrInvalidAmount
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	var account *entity.Creator

	err := uc.ledgerRepo.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		account, err = uc.ledgerRepo.GetCreator(ctx, creator)
		if err != nil {
			return err
		}
		if account == nil || !account.Registered {
			return entity.ErrCreatorNotRegistered
		}

		account.SubscriptionFee = newFee
		if err := uc.ledgerRepo.SaveCreator(ctx, account); err != nil {
			return err
		}

		return uc.appendEvent(ctx, entity.EventSubscriptionFeeUpdated, entity.SubscriptionFeeUpdatedEvent{
			Creator: creator,
			NewFee:  newFee,
		})
	})
	if err != nil {
		return nil, err
	}

	uc.publish(entity.EventSubscriptionFeeUpdated, entity.SubscriptionFeeUpdatedEvent{
		Creator: creator,
		NewFee:  newFee,
	})
	uc.mirrorFee(ctx, creator, newFee)

	return account, nil
}

func (uc *ledgerUseCase) IsActiveSubscriber(ctx context.Context, subscriber, creator string) (bool, error) {
	entitlement, err := uc.ledgerRepo.GetEntitlement(ctx, subscriber, creator)
	if err != nil {
		return false, fmt.Errorf("failed to get entitlement: %w", err)
	}
	return entitlement.ActiveAt(uc.now().Unix()), nil
}

func (uc *ledgerUseCase) GetCreator(ctx context.Context, creator string) (*entity.Creator, error) {
	account, err := uc.ledgerRepo.GetCreator(ctx, creator)
	if err != nil {
		return nil, fmt.Errorf("failed to get creator: %w", err)
	}
	if account == nil {
		// Never-registered addresses read as the zero record.
		return &entity.Creator{Address: creator}, nil
	}
	return account, nil
}

func (uc *ledgerUseCase) GetSubscriptionExpiry(ctx context.Context, subscriber, creator string) (int64, error) {
	entitlement, err := uc.ledgerRepo.GetEntitlement(ctx, subscriber, creator)
	if err != nil {
		return 0, fmt.Errorf("failed to get entitlement: %w", err)
	}
	if entitlement == nil {
		return 0, nil
	}
	return entitlement.ExpiresAt, nil
}

func (uc *ledgerUseCase) ListCreators(ctx context.Context, limit, offset int) ([]*entity.Creator, error) {
	creators, err := uc.ledgerRepo.ListCreators(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list creators: %w", err)
	}
	return creators, nil
}

func (uc *ledgerUseCase) appendEvent(ctx context.Context, eventType string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", eventType, err)
	}
	return uc.ledgerRepo.AppendEvent(ctx, &entity.LedgerEvent{
		Type:    eventType,
		Payload: string(body),
	})
}

func (uc *ledgerUseCase) publish(eventType string, payload interface{}) {
	if uc.publisher == nil {
		return
	}
	if err := uc.publisher.Publish(eventType, payload); err != nil {
		uc.logger.Error("Failed to publish %s event: %v", eventType, err)
	}
}

// mirrorFee keeps the creator's advertised fee readable by sibling
// services without a database hop.
func (uc *ledgerUseCase) mirrorFee(ctx context.Context, creator string, fee int64) {
	if uc.redisClient == nil {
		return
	}
	key := fmt.Sprintf("creator:%s", creator)
	if err := uc.redisClient.HSet(ctx, key, "subscription_fee", fee).Err(); err != nil {
		uc.logger.Error("Failed to mirror fee for %s: %v", creator, err)
	}
}
