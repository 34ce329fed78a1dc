package app

import (
	"errors"

	"team_chat_service/internal/chat/repository"
	errprocess "team_chat_service/pkg/err"
)

// wrap typed errors pass through, everything else becomes internal
func wrap(op string, err error) error {
	var e *errprocess.Error
	if errors.As(err, &e) {
		return err
	}
	return errprocess.Internal(op, err)
}

func notFoundOr(msg, op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return errprocess.NotFound(msg)
	}
	return wrap(op, err)
}
