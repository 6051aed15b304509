package entity

import "errors"

var (
	ErrAlreadyRegistered     = errors.New("creator already registered")
	ErrCreatorNotRegistered  = errors.New("creator not registered")
	ErrInsufficientEarnings  = errors.New("insufficient earnings")
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	ErrInvalidAmount         = errors.New("amount must be positive")
)
