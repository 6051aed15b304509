package persistent

import (
	"context"
	"errors"

	"pulse/pkg/database"
	"pulse/services/ledger/internal/model"

	"gorm.io/gorm"
)

type TokenRepository interface {
	GetBalance(ctx context.Context, address string) (int64, error)
	SetBalance(ctx context.Context, address string, balance int64) error
	GetAllowance(ctx context.Context, owner, spender string) (int64, error)
	SetAllowance(ctx context.Context, owner, spender string, amount int64) error
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type tokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) GetBalance(ctx context.Context, address string) (int64, error) {
	db := database.FromContext(ctx, r.db)

	var balanceModel model.TokenBalanceModel
	if err := db.Where("address = ?", address).First(&balanceModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return balanceModel.Balance, nil
}

func (r *tokenRepository) SetBalance(ctx context.Context, address string, balance int64) error {
	db := database.FromContext(ctx, r.db)

	var balanceModel model.TokenBalanceModel
	err := db.Where("address = ?", address).First(&balanceModel).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return db.Create(&model.TokenBalanceModel{
			Address: address,
			Balance: balance,
		}).Error
	}

	balanceModel.Balance = balance
	return db.Save(&balanceModel).Error
}

func (r *tokenRepository) GetAllowance(ctx context.Context, owner, spender string) (int64, error) {
	db := database.FromContext(ctx, r.db)

	var allowanceModel model.TokenAllowanceModel
	err := db.Where("owner_address = ? AND spender_address = ?", owner, spender).
		First(&allowanceModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return allowanceModel.Amount, nil
}

func (r *tokenRepository) SetAllowance(ctx context.Context, owner, spender string, amount int64) error {
	db := database.FromContext(ctx, r.db)

	var allowanceModel model.TokenAllowanceModel
	err := db.Where("owner_address = ? AND spender_address = ?", owner, spender).
		First(&allowanceModel).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return db.Create(&model.TokenAllowanceModel{
			OwnerAddress:   owner,
			SpenderAddress: spender,
			Amount:         amount,
		}).Error
	}

	allowanceModel.Amount = amount
	return db.Save(&allowanceModel).Error
}

func (r *tokenRepository) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return database.WithinTransaction(ctx, r.db, fn)
}
