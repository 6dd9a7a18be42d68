package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrValidation         = errors.New("validation")             // 400
	ErrLineItem           = errors.New("line item")              // 400
	ErrNotCancellable     = errors.New("not cancellable")        // 400
	ErrUnauthorized       = errors.New("unauthorized")           // 401
	ErrForbidden          = errors.New("forbidden")              // 403
	ErrNotFound           = errors.New("not found")              // 404
	ErrConflict           = errors.New("conflict")               // 409
	ErrInvalidCredentials = errors.New("invalid credentials")    // 401
	ErrInactiveAccount    = errors.New("account is deactivated") // 401
)

type ProductNotFoundError struct {
	ProductID uuid.UUID
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

func (e *ProductNotFoundError) Unwrap() error { return ErrLineItem }

type ProductInactiveError struct {
	ProductID uuid.UUID
	Name      string
}

func (e *ProductInactiveError) Error() string {
	return fmt.Sprintf("product %s is no longer available", e.Name)
}

func (e *ProductInactiveError) Unwrap() error { return ErrLineItem }

type InsufficientStockError struct {
	ProductID uuid.UUID
	Name      string
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: only %d available", e.Name, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return ErrLineItem }
