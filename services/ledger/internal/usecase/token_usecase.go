package usecase

import (
	"context"
	"fmt"
	"sync"

	"pulse/pkg/logger"
	"pulse/services/ledger/internal/entity"
	"pulse/services/ledger/internal/repo/persistent"
)

// TokenUseCase is the stablecoin balance/allowance ledger. It stands in
// for the external fungible token the subscription ledger settles in:
// Approve grants the vault a pull budget, TransferFrom consumes it.
type TokenUseCase interface {
	BalanceOf(ctx context.Context, address string) (int64, error)
	Allowance(ctx context.Context, owner, spender string) (int64, error)
	Mint(ctx context.Context, to string, amount int64) error
	Approve(ctx context.Context, owner, spender string, amount int64) error
	Transfer(ctx context.Context, from, to string, amount int64) error
	TransferFrom(ctx context.Context, spender, from, to string, amount int64) error
}

type tokenUseCase struct {
	tokenRepo persistent.TokenRepository
	logger    *logger.Logger
	mu        sync.Mutex
}

func NewTokenUseCase(tokenRepo persistent.TokenRepository, logger *logger.Logger) TokenUseCase {
	return &tokenUseCase{
		tokenRepo: tokenRepo,
		logger:    logger,
	}
}

func (uc *tokenUseCase) BalanceOf(ctx context.Context, address string) (int64, error) {
	balance, err := uc.tokenRepo.GetBalance(ctx, address)
	if err != nil {
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}
	return balance, nil
}

func (uc *tokenUseCase) Allowance(ctx context.Context, owner, spender string) (int64, error) {
	allowance, err := uc.tokenRepo.GetAllowance(ctx, owner, spender)
	if err != nil {
		return 0, fmt.Errorf("failed to get allowance: %w", err)
	}
	return allowance, nil
}

func (uc *tokenUseCase) Mint(ctx context.Context, to string, amount int64) error {
	if amount <= 0 {
		return entity.ErrInvalidAmount
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	return uc.tokenRepo.WithinTransaction(ctx, func(ctx context.Context) error {
		balance, err := uc.tokenRepo.GetBalance(ctx, to)
		if err != nil {
			return err
		}
		return uc.tokenRepo.SetBalance(ctx, to, balance+amount)
	})
}

// Approve sets the spender's pull budget; it overwrites rather than
// accumulates, matching standard allowance semantics.
func (uc *tokenUseCase) Approve(ctx context.Context, owner, spender string, amount int64) error {
	if amount < 0 {
		return entity.ErrInvalidAmount
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	return uc.tokenRepo.SetAllowance(ctx, owner, spender, amount)
}

func (uc *tokenUseCase) Transfer(ctx context.Context, from, to string, amount int64) error {
	if amount <= 0 {
		return entity.ErrInvalidAmount
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	return uc.tokenRepo.WithinTransaction(ctx, func(ctx context.Context) error {
		return uc.move(ctx, from, to, amount)
	})
}

func (uc *tokenUseCase) TransferFrom(ctx context.Context, spender, from, to string, amount int64) error {
	if amount <= 0 {
		return entity.ErrInvalidAmount
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	return uc.tokenRepo.WithinTransaction(ctx, func(ctx context.Context) error {
		allowance, err := uc.tokenRepo.GetAllowance(ctx, from, spender)
		if err != nil {
			return err
		}
		if allowance < amount {
			return entity.ErrInsufficientAllowance
		}

		if err := uc.move(ctx, from, to, amount); err != nil {
			return err
		}

		return uc.tokenRepo.SetAllowance(ctx, from, spender, allowance-amount)
	})
}

func (uc *tokenUseCase) move(ctx context.Context, from, to string, amount int64) error {
	fromBalance, err := uc.tokenRepo.GetBalance(ctx, from)
	if err != nil {
		return err
	}
	if fromBalance < amount {
		return entity.ErrInsufficientBalance
	}

	if err := uc.tokenRepo.SetBalance(ctx, from, fromBalance-amount); err != nil {
		return err
	}

	toBalance, err := uc.tokenRepo.GetBalance(ctx, to)
	if err != nil {
		return err
	}
	return uc.tokenRepo.SetBalance(ctx, to, toBalance+amount)
}
