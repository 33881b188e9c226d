package transport

import (
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-looker/core"
)

// Every transport failure carries the transport text code; the category tells
// bad input, internal and upstream failures apart.
func transportError(
	message string,
	category goerrors.Category,
	code int,
	metadata map[string]any,
) error {
	err := goerrors.New(message, category).
		WithCode(code).
		WithTextCode(core.ErrorTransportFailed)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func transportWrapError(
	source error,
	category goerrors.Category,
	message string,
	code int,
	metadata map[string]any,
) error {
	if source == nil {
		return transportError(message, category, code, metadata)
	}
	err := goerrors.Wrap(source, category, message).
		WithCode(code).
		WithTextCode(core.ErrorTransportFailed)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}
