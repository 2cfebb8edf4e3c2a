package usecase

import (
	"errors"
	"fmt"
	"net/http"

	"eshop/internal/domain/model"
	repo "eshop/internal/repository"
)

var (
	ErrInvalidPage   = errors.New("invalid page")
	ErrUnknownAction = errors.New("unknown action")
)

type HTTPError struct {
	Status  int
	Message string
	Err     error
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// ドメインのエラーをHTTPのステータスに寄せる
func toHTTPError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := AsHTTPError(err); ok {
		return err
	}

	wrap := func(status int, msg string) error {
		return &HTTPError{Status: status, Message: msg, Err: err}
	}

	switch {
	case errors.Is(err, repo.ErrNotFound):
		return wrap(http.StatusUnauthorized, "session not found")
	case errors.Is(err, model.ErrIndexOutOfRange):
		return wrap(http.StatusBadRequest, "index out of range")
	case errors.Is(err, ErrInvalidPage):
		return wrap(http.StatusBadRequest, "invalid page")
	case errors.Is(err, ErrUnknownAction):
		return wrap(http.StatusBadRequest, "unknown action")
	case errors.Is(err, model.ErrNetworkFailure):
		return wrap(http.StatusBadGateway, "Error loading product")
	default:
		return wrap(http.StatusInternalServerError, "session store error")
	}
}
