package usecase

import "context"

// tokenVault adapts the token ledger to the narrow gateway the
// subscription ledger needs. The vault address is the ledger's own
// account: subscribers pre-approve it, Pull draws on that allowance,
// Push pays withdrawals out of it.
type tokenVault struct {
	token        TokenUseCase
	vaultAddress string
}

func NewTokenVault(token TokenUseCase, vaultAddress string) TokenGateway {
	return &tokenVault{
		token:        token,
		vaultAddress: vaultAddress,
	}
}

func (v *tokenVault) Pull(ctx context.Context, from string, amount int64) error {
	return v.token.TransferFrom(ctx, v.vaultAddress, from, v.vaultAddress, amount)
}

func (v *tokenVault) Push(ctx context.Context, to string, amount int64) error {
	return v.token.Transfer(ctx, v.vaultAddress, to, amount)
}
