package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

const (
	ValidationFailedCode = "MESSAGEML_COMMAND_VALIDATION_FAILED"
	CanceledCode         = "MESSAGEML_COMMAND_CANCELED"
	TimeoutCode          = "MESSAGEML_COMMAND_TIMEOUT"
	ContextErrorCode     = "MESSAGEML_COMMAND_CONTEXT_ERROR"
	ExecutionFailedCode  = "MESSAGEML_COMMAND_EXECUTION_FAILED"
)

// Errors that already carry a category, such as compiler faults, are
// returned as they are by every wrapper below.

func wrapValidationError(err error) error {
	if keep(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid command message").
		WithTextCode(ValidationFailedCode)
}

func wrapContextError(err error) error {
	if keep(err) {
		return err
	}
	switch {
	case errors.Is(err, context.Canceled):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command cancelled").WithTextCode(CanceledCode)
	case errors.Is(err, context.DeadlineExceeded):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command deadline exceeded").WithTextCode(TimeoutCode)
	default:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command context error").WithTextCode(ContextErrorCode)
	}
}

func wrapExecuteError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return wrapContextError(err)
	}
	if keep(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "command failed").WithTextCode(ExecutionFailedCode)
}

func keep(err error) bool {
	return err == nil || goerrors.IsWrapped(err)
}
