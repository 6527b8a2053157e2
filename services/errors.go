package services

import (
	"errors"
	"fmt"
	"time"
)

// ErrOrderNotFound dipakai lintas operasi; controller memetakan ke 404.
var ErrOrderNotFound = errors.New("order not found")

// ValidationError: input salah/kurang. Tidak pernah di-retry.
type ValidationError struct {
	Code    string // missing_items, payment_required, invalid_status, invalid_input
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// AuthorizationError: pemanggil bukan pemilik order.
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string {
	return e.Message
}

// StateConflictError: order tidak berada di status yang disyaratkan transisi.
// Termasuk kasus kalah race lawan conditional update.
type StateConflictError struct {
	Current  string
	Expected string
}

func (e *StateConflictError) Error() string {
	return fmt.Sprintf("order is %s, expected %s", e.Current, e.Expected)
}

// WindowExpiredError: deadline sudah lewat. Terminal, tidak bisa di-retry.
type WindowExpiredError struct {
	Deadline time.Time
}

func (e *WindowExpiredError) Error() string {
	return fmt.Sprintf("window expired at %s", e.Deadline.Format(time.RFC3339))
}

// DependencyError: store/collaborator tidak tersedia. Aman di-retry dengan
// backoff karena operasi baca tidak meninggalkan mutasi parsial.
type DependencyError struct {
	Op  string
	Err error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DependencyError) Unwrap() error {
	return e.Err
}
