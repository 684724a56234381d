package service

import "errors"

// 业务错误，handler 层用 errors.Is 映射为 HTTP 状态
var (
	ErrNotFound          = errors.New("record not found")
	ErrValidation        = errors.New("validation failed")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrItemNotTracked    = errors.New("item not in inventory")
	ErrForbidden         = errors.New("forbidden")
	ErrConflict          = errors.New("conflict")
)
