package services

import "errors"

// 账户
var (
	ErrEmailRequired      = errors.New("users must have an email address")
	ErrPhoneRequired      = errors.New("users must have a phone number")
	ErrEmailExists        = errors.New("an account with this email already exists")
	ErrPhoneExists        = errors.New("an account with this phone already exists")
	ErrUsernameExists     = errors.New("an account with this username already exists")
	ErrAccountExists      = errors.New("account violates a uniqueness constraint")
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidCredentials = errors.New("unable to log in with provided credentials")
	ErrAccountInactive    = errors.New("account is disabled")
)

// 认证
var (
	ErrTokenInvalid    = errors.New("invalid token")
	ErrSessionNotFound = errors.New("session not found or expired")
)

// 服务项目与维修请求
var (
	ErrServiceNotFound  = errors.New("service not found")
	ErrServiceExists    = errors.New("a service with this name already exists")
	ErrRequestNotFound  = errors.New("request not found")
	ErrMechanicNotFound = errors.New("mechanic not found")
)
