package client

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	ErrUnavailable     = errors.New("server unavailable")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrNotFound        = errors.New("not found")
	ErrAlreadyExists   = errors.New("already exists")
	ErrInvalidArgument = errors.New("invalid argument")
)

// StatusError keeps the server's message for display while matching one of
// the sentinels above with errors.Is.
type StatusError struct {
	Kind    error
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Message
}

func (e *StatusError) Unwrap() error { return e.Kind }

// IsTransient reports whether err is worth retrying on the next focus:
// the server was unreachable, too slow, or the caller gave up.
func IsTransient(err error) bool {
	return errors.Is(err, ErrUnavailable) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("rpc error: %w", err)
	}
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return &StatusError{Kind: ErrUnauthorized, Message: st.Message()}
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted, codes.Aborted:
		return &StatusError{Kind: ErrUnavailable, Message: st.Message()}
	case codes.Canceled:
		return context.Canceled
	case codes.NotFound:
		return &StatusError{Kind: ErrNotFound, Message: st.Message()}
	case codes.AlreadyExists:
		return &StatusError{Kind: ErrAlreadyExists, Message: st.Message()}
	case codes.InvalidArgument:
		return &StatusError{Kind: ErrInvalidArgument, Message: st.Message()}
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
