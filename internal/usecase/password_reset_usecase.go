package usecase

import "context"

// ConfirmPasswordResetInput completes a reset.
type ConfirmPasswordResetInput struct {
	Email       string
	Code        string
	NewPassword string
}

// PasswordResetUsecase issues and redeems emailed reset codes.
type PasswordResetUsecase interface {
	// RequestReset emails a six digit code to the account. Unknown emails succeed without sending anything.
	RequestReset(ctx context.Context, email string) error
	ConfirmReset(ctx context.Context, input ConfirmPasswordResetInput) error
}
