package usecase

import "context"

// OwnerLoginOutput is the session of the store owner.
type OwnerLoginOutput struct {
	AccessToken string
	Name        string
	Email       string
}

// OwnerUsecase authenticates the single store owner.
type OwnerUsecase interface {
	Login(ctx context.Context, input LoginInput) (*OwnerLoginOutput, error)
	// VerifyPIN checks the PIN guarding destructive owner actions.
	VerifyPIN(ctx context.Context, pin string) error
}
