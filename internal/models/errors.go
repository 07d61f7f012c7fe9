package models

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorType represents different categories of errors
type ErrorType int

const (
	ErrExtraction ErrorType = iota
	ErrDownload
	ErrMetadataGen
	ErrSigning
	ErrFileOp
	ErrInvalidConfig
	ErrQuery
)

// String returns the string representation of ErrorType
func (e ErrorType) String() string {
	switch e {
	case ErrExtraction:
		return "Extraction"
	case ErrDownload:
		return "Download"
	case ErrMetadataGen:
		return "MetadataGen"
	case ErrSigning:
		return "Signing"
	case ErrFileOp:
		return "FileOp"
	case ErrInvalidConfig:
		return "InvalidConfig"
	case ErrQuery:
		return "Query"
	default:
		return "Unknown"
	}
}

// MirrorError represents an error while building or maintaining the mirror.
// Package holds the artifact path, package name or requirements file the
// error is about, when there is one.
type MirrorError struct {
	Type    ErrorType
	Package string
	Err     error
}

// Error implements the error interface
func (e *MirrorError) Error() string {
	if e.Package != "" {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Package, e.Err)
	}
	return fmt.Sprintf("[%s] %v", e.Type, e.Err)
}

// Unwrap returns the wrapped error
func (e *MirrorError) Unwrap() error {
	return e.Err
}

// NewError builds a MirrorError carrying the stack of the caller, printed
// with %+v when tracebacks are requested.
func NewError(t ErrorType, pkg string, err error) error {
	return errors.WithStack(&MirrorError{Type: t, Package: pkg, Err: err})
}

// IsType reports whether err wraps a MirrorError of the given type.
func IsType(err error, t ErrorType) bool {
	var me *MirrorError
	if errors.As(err, &me) {
		return me.Type == t
	}
	return false
}
