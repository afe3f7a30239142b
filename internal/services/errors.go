package services

import (
	"errors"
	"fmt"

	"picks-site-backend-go/internal/store"
)

type ServiceError struct {
	Status  int
	Message string
}

func (e ServiceError) Error() string {
	return e.Message
}

func ErrNotFound(msg string) error {
	return ServiceError{Status: 404, Message: msg}
}

func ErrBadRequest(msg string) error {
	return ServiceError{Status: 400, Message: msg}
}

func ErrUnauthorized(msg string) error {
	return ServiceError{Status: 401, Message: msg}
}

func ErrConflict(msg string) error {
	return ServiceError{Status: 409, Message: msg}
}

func ErrInternal(msg string) error {
	return ServiceError{Status: 500, Message: msg}
}

func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// notFoundOr maps store.ErrNotFound to a 404 and passes other errors through.
func notFoundOr(err error, msg string) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound(msg)
	}
	return err
}
