package dto

// RegisterRequest creates an account.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"senha" validate:"required,min=6"`
}

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"senha" validate:"required"`
}

// UpdateUserRequest is a partial update of the caller's own account.
type UpdateUserRequest struct {
	Email    *string `json:"email" validate:"omitempty,email,max=100"`
	Password *string `json:"senha" validate:"omitempty,min=6"`
}
