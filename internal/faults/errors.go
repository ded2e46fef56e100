// Package faults defines the error taxonomy shared by every compiler stage.
package faults

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

const (
	SyntaxCode         = "MESSAGEML_SYNTAX_ERROR"
	TemplatingCode     = "MESSAGEML_TEMPLATING_ERROR"
	StructureCode      = "MESSAGEML_INVALID_STRUCTURE"
	ResolutionMissCode = "MESSAGEML_ENTITY_RESOLUTION_MISS"
	InvariantCode      = "MESSAGEML_INTERNAL_INVARIANT"
)

const (
	categorySyntax     = goerrors.CategoryBadInput
	categoryTemplating = goerrors.CategoryOperation
	categoryStructure  = goerrors.CategoryValidation
	categoryResolution = goerrors.CategoryNotFound
	categoryInvariant  = goerrors.CategoryInternal
)

// Syntax reports malformed markup detected before tree construction.
func Syntax(source error, message string) error {
	if source == nil {
		return goerrors.New(message, categorySyntax).WithTextCode(SyntaxCode)
	}
	return goerrors.Wrap(source, categorySyntax, message).WithTextCode(SyntaxCode)
}

// Templating reports a failure of the template preprocessor.
func Templating(source error) error {
	if source == nil {
		return nil
	}
	return goerrors.Wrap(source, categoryTemplating, "Error parsing template: "+source.Error()).
		WithTextCode(TemplatingCode)
}

// Structure reports a violated structural rule. The message is the
// human-readable rule and is surfaced unchanged by Message.
func Structure(message string) error {
	return goerrors.New(message, categoryStructure).WithTextCode(StructureCode)
}

// Structuref is Structure with formatting.
func Structuref(format string, args ...any) error {
	return Structure(fmt.Sprintf(format, args...))
}

// ResolutionMiss describes a lookup that found nothing. It is never returned
// from a parse call; callers log it and continue with an absent payload.
func ResolutionMiss(kind, key string, source error) error {
	msg := fmt.Sprintf("%s %q could not be resolved", kind, key)
	if source == nil {
		return goerrors.New(msg, categoryResolution).WithTextCode(ResolutionMissCode)
	}
	return goerrors.Wrap(source, categoryResolution, msg).WithTextCode(ResolutionMissCode)
}

// Invariant reports a defect inside the compiler rather than bad input.
func Invariant(format string, args ...any) error {
	return goerrors.New(fmt.Sprintf(format, args...), categoryInvariant).WithTextCode(InvariantCode)
}

func IsSyntax(err error) bool { return goerrors.IsCategory(err, categorySyntax) }

func IsTemplating(err error) bool { return goerrors.IsCategory(err, categoryTemplating) }

func IsInvalidStructure(err error) bool { return goerrors.IsCategory(err, categoryStructure) }

func IsResolutionMiss(err error) bool { return goerrors.IsCategory(err, categoryResolution) }

func IsInvariant(err error) bool { return goerrors.IsCategory(err, categoryInvariant) }

// Message returns the bare rule message without the category prefix that
// go-errors adds to Error(). The innermost compiler error wins over any
// wrapper added on the way out, such as a command bus.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var compiler, outer *goerrors.Error
	for e := err; e != nil; e = errors.Unwrap(e) {
		typed, ok := e.(*goerrors.Error)
		if !ok || typed == nil {
			continue
		}
		if outer == nil {
			outer = typed
		}
		if compilerCode(typed.TextCode) {
			compiler = typed
		}
	}
	switch {
	case compiler != nil:
		return compiler.Message
	case outer != nil:
		return outer.Message
	}
	return err.Error()
}

func compilerCode(code string) bool {
	switch code {
	case SyntaxCode, TemplatingCode, StructureCode, ResolutionMissCode, InvariantCode:
		return true
	}
	return false
}
