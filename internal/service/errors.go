package service

import (
	"errors"

	"github.com/Freeeeeet/clinic_scheduler/internal/repository"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrProtected          = errors.New("record is referenced by active consultations")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// notFoundOr переводит repository.ErrNotFound в ErrNotFound сервиса
func notFoundOr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
