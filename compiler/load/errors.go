package load

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the loader and the scanner.
var (
	// ErrInvalidElement indicates a classpath element that is not a valid path or file URL.
	ErrInvalidElement = errors.New("load: invalid classpath element")
	// ErrInvalidNamespace indicates an empty or malformed namespace.
	ErrInvalidNamespace = errors.New("load: invalid namespace")
	// ErrNoEntities indicates that no type under the namespace carries a mapping marker.
	ErrNoEntities = errors.New("load: no annotated types found")
	// ErrInvalidMarker indicates a malformed or misplaced mapping marker.
	ErrInvalidMarker = errors.New("load: invalid mapping marker")
)

// PackageError wraps a failure reported while loading the packages of a classpath element.
type PackageError struct {
	Element Element
	Package string
	Err     error
}

// Error implements the error interface.
func (e *PackageError) Error() string {
	if e.Package != "" {
		return fmt.Sprintf("load: package %s (%s): %v", e.Package, e.Element, e.Err)
	}
	return fmt.Sprintf("load: %s: %v", e.Element, e.Err)
}

// Unwrap returns the underlying error.
func (e *PackageError) Unwrap() error {
	return e.Err
}

// MarkerError describes a mapping marker placed on a type it cannot apply to.
type MarkerError struct {
	Type    string
	Pos     string
	Message string
}

// Error implements the error interface.
func (e *MarkerError) Error() string {
	return fmt.Sprintf("load: %s: type %s: %s", e.Pos, e.Type, e.Message)
}

// Is reports whether the target matches ErrInvalidMarker.
func (e *MarkerError) Is(target error) bool {
	return target == ErrInvalidMarker
}
