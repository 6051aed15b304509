package persistent

import (
	"pulse/services/ledger/internal/entity"
	"pulse/services/ledger/internal/model"
)

func ToCreatorEntity(m *model.CreatorModel) *entity.Creator {
	if m == nil {
		return nil
	}

	return &entity.Creator{
		Address:         m.Address,
		SubscriptionFee: m.SubscriptionFee,
		Earnings:        m.Earnings,
		TotalEarnings:   m.TotalEarnings,
		Registered:      m.Registered,
	}
}

func ToCreatorModel(e *entity.Creator) *model.CreatorModel {
	if e == nil {
		return nil
	}

	return &model.CreatorModel{
		Address:         e.Address,
		SubscriptionFee: e.SubscriptionFee,
		Earnings:        e.Earnings,
		TotalEarnings:   e.TotalEarnings,
		Registered:      e.Registered,
	}
}

func ToEntitlementEntity(m *model.EntitlementModel) *entity.Entitlement {
	if m == nil {
		return nil
	}

	return &entity.Entitlement{
		SubscriberAddress: m.SubscriberAddress,
		CreatorAddress:    m.CreatorAddress,
		ExpiresAt:         m.ExpiresAt,
	}
}

func ToEntitlementModel(e *entity.Entitlement) *model.EntitlementModel {
	if e == nil {
		return nil
	}

	return &model.EntitlementModel{
		SubscriberAddress: e.SubscriberAddress,
		CreatorAddress:    e.CreatorAddress,
		ExpiresAt:         e.ExpiresAt,
	}
}
