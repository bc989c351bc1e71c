package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidSort  = errors.New("invalid sort")
	ErrDuplicate    = errors.New("duplicate resource")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict with current state")
	ErrExport       = errors.New("export failed")
)

// NotFoundError identifica la entidad y el id ausentes. errors.Is(err, ErrNotFound) es true.
type NotFoundError struct {
	Entity string // "Product", "Sale"
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found with id: %d", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NotFound construye un NotFoundError.
func NotFound(entity string, id int64) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ValidationError describe uno o más campos inválidos. errors.Is(err, ErrInvalidInput) es true.
// Message es el primer mensaje; Fields mapea campo -> mensaje.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Invalid construye un ValidationError de un solo campo.
func Invalid(field, message string) error {
	return &ValidationError{Message: message, Fields: map[string]string{field: message}}
}
