package persistent

import (
	"context"
	"errors"

	"pulse/pkg/database"
	"pulse/services/ledger/internal/entity"
	"pulse/services/ledger/internal/model"

	"gorm.io/gorm"
)

type LedgerRepository interface {
	GetCreator(ctx context.Context, address string) (*entity.Creator, error)
	ListCreators(ctx context.Context, limit, offset int) ([]*entity.Creator, error)
	SaveCreator(ctx context.Context, creator *entity.Creator) error
	GetEntitlement(ctx context.Context, subscriber, creator string) (*entity.Entitlement, error)
	SaveEntitlement(ctx context.Context, entitlement *entity.Entitlement) error
	AppendEvent(ctx context.Context, event *entity.LedgerEvent) error
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type ledgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) GetCreator(ctx context.Context, address string) (*entity.Creator, error) {
	db := database.FromContext(ctx, r.db)

	var creatorModel model.CreatorModel
	if err := db.Where("address = ?", address).First(&creatorModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return ToCreatorEntity(&creatorModel), nil
}

func (r *ledgerRepository) ListCreators(ctx context.Context, limit, offset int) ([]*entity.Creator, error) {
	db := database.FromContext(ctx, r.db)

	var creatorModels []model.CreatorModel
	query := db.Where("registered = ?", true).Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&creatorModels).Error; err != nil {
		return nil, err
	}

	creators := make([]*entity.Creator, len(creatorModels))
	for i := range creatorModels {
		creators[i] = ToCreatorEntity(&creatorModels[i])
	}
	return creators, nil
}

func (r *ledgerRepository) SaveCreator(ctx context.Context, creator *entity.Creator) error {
	db := database.FromContext(ctx, r.db)

	var creatorModel model.CreatorModel
	err := db.Where("address = ?", creator.Address).First(&creatorModel).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return db.Create(ToCreatorModel(creator)).Error
	}

	creatorModel.SubscriptionFee = creator.SubscriptionFee
	creatorModel.Earnings = creator.Earnings
	creatorModel.TotalEarnings = creator.TotalEarnings
	creatorModel.Registered = creator.Registered
	return db.Save(&creatorModel).Error
}

func (r *ledgerRepository) GetEntitlement(ctx context.Context, subscriber, creator string) (*entity.Entitlement, error) {
	db := database.FromContext(ctx, r.db)

	var entitlementModel model.EntitlementModel
	err := db.Where("subscriber_address = ? AND creator_address = ?", subscriber, creator).
		First(&entitlementModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return ToEntitlementEntity(&entitlementModel), nil
}

func (r *ledgerRepository) SaveEntitlement(ctx context.Context, entitlement *entity.Entitlement) error {
	db := database.FromContext(ctx, r.db)

	var entitlementModel model.EntitlementModel
	err := db.Where("subscriber_address = ? AND creator_address = ?",
		entitlement.SubscriberAddress, entitlement.CreatorAddress).
		First(&entitlementModel).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return db.Create(ToEntitlementModel(entitlement)).Error
	}

	entitlementModel.ExpiresAt = entitlement.ExpiresAt
	return db.Save(&entitlementModel).Error
}

func (r *ledgerRepository) AppendEvent(ctx context.Context, event *entity.LedgerEvent) error {
	db := database.FromContext(ctx, r.db)
	return db.Create(&model.LedgerEventModel{
		Type:    event.Type,
		Payload: event.Payload,
	}).Error
}

func (r *ledgerRepository) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return database.WithinTransaction(ctx, r.db, fn)
}
