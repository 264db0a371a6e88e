package data

import "errors"

// Shared sentinel errors for data-layer repositories.
var (
	// User repository sentinels.
	ErrUserNotFound    = errors.New("user not found")
	ErrUserEmailExists = errors.New("email already registered")

	// Client repository sentinels.
	ErrClientNotFound    = errors.New("client not found")
	ErrClientEmailExists = errors.New("client email already exists")

	// Project repository sentinels.
	ErrProjectNotFound   = errors.New("project not found")
	ErrProjectCodeExists = errors.New("project code already exists")

	// Quote repository sentinels.
	ErrQuoteNotFound     = errors.New("quote not found")
	ErrQuoteNumberExists = errors.New("quote number already exists")

	// Material repository sentinels.
	ErrMaterialNotFound   = errors.New("material not found")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrMaterialNameExists = errors.New("material name already exists")
)
