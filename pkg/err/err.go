package errprocess

import (
	"errors"
	"net/http"

	"team_chat_service/pkg/logger"
)

// Kind definition error category, each kind maps to one http status
type Kind int

const (
	// KindInternal unexpected failure (storage, collaborator), surfaced as a generic 500
	KindInternal Kind = iota
	// KindValidation missing content / target / name
	KindValidation
	// KindPermission non-member access, non-sender global delete, no tenant
	KindPermission
	// KindNotFound message / group / user id unknown
	KindNotFound
	// KindAuthentication token missing or unresolvable
	KindAuthentication
	// KindRateLimited caller exceeded the send budget
	KindRateLimited
)

// Error definition typed error
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Msg == "" {
		return e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation create validation error
func Validation(msg string) error {
	return &Error{Kind: KindValidation, Msg: msg}
}

// Permission create permission error
func Permission(msg string) error {
	return &Error{Kind: KindPermission, Msg: msg}
}

// NotFound create not found error
func NotFound(msg string) error {
	return &Error{Kind: KindNotFound, Msg: msg}
}

// Authentication create authentication error
func Authentication(msg string) error {
	return &Error{Kind: KindAuthentication, Msg: msg}
}

// RateLimited create rate limited error
func RateLimited(msg string) error {
	return &Error{Kind: KindRateLimited, Msg: msg}
}

// Internal wrap an unexpected error, logs it once
func Internal(msg string, err error) error {
	if err != nil {
		logger.Log.Error(msg + ": " + err.Error())
	} else {
		logger.Log.Error(msg)
	}
	return &Error{Kind: KindInternal, Msg: msg, Err: err}
}

// KindOf returns the kind carried by err; untyped errors are internal
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is report whether err carries kind
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// StatusCode maps err to its http status
func StatusCode(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindPermission:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage message safe to show to clients; internal details are hidden
func PublicMessage(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Msg
	}
	return fallback
}
