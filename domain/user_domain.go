package domain

import "errors"

var (
	MessageSuccessRegister = "staff registered successfully"
	MessageSuccessLogin    = "login success"
	MessageSuccessVerify   = "email verified successfully"
	MessageSuccessMe       = "success get profile"

	MessageFailedRegister = "failed to register staff"
	MessageFailedLogin    = "failed to login"
	MessageFailedVerify   = "failed to verify email"

	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrCredentialsInvalid = errors.New("invalid email or password")
	ErrUserNotVerified    = errors.New("email not verified")
	ErrUserNotFound       = errors.New("user not found")
)

type (
	RegisterStaffRequest struct {
		Name         string `json:"name" validate:"required"`
		Email        string `json:"email" validate:"required,email"`
		Password     string `json:"password" validate:"required,min=8"`
		Role         string `json:"role" validate:"required,oneof=admin staff"`
		RestaurantID string `json:"restaurant_id" validate:"required,uuid"`
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}

	StaffResponse struct {
		ID           string `json:"id"`
		Name         string `json:"name"`
		Email        string `json:"email"`
		Role         string `json:"role"`
		RestaurantID string `json:"restaurant_id"`
		IsVerified   bool   `json:"is_verified"`
	}
)
