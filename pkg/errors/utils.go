package errors

import (
	"fmt"
	"sort"
	"strings"

	goerrors "github.com/go-faster/errors"
)

// IsHivebridgeError reports whether err is our Error type
func IsHivebridgeError(err error) bool {
	_, ok := err.(*Error)
	return ok
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return goerrors.Is(err, target)
}

// GetContext returns the context of the outermost Error in the chain
func GetContext(err error) map[string]string {
	var e *Error
	if goerrors.As(err, &e) {
		return e.Context
	}
	return nil
}

// GetCode returns the code of the outermost Error in the chain, or ""
func GetCode(err error) string {
	var e *Error
	if goerrors.As(err, &e) {
		return e.Code.String()
	}
	return ""
}

// HasCode reports whether any Error in the wrap chain carries code.
func HasCode(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !goerrors.As(err, &e) {
			return false
		}
		if e.Code.Equals(code) {
			return true
		}
		err = e.Cause
	}
	return false
}

// FormatError renders err for logging, including code and sorted context
func FormatError(err error) string {
	e, ok := err.(*Error)
	if !ok {
		return err.Error()
	}

	var parts []string
	parts = append(parts, fmt.Sprintf("Code: %s", e.Code))
	parts = append(parts, fmt.Sprintf("Message: %s", e.Message))

	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		parts = append(parts, "Context:")
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("  %s: %v", k, e.Context[k]))
		}
	}

	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("Cause: %v", e.Cause))
	}

	return strings.Join(parts, "\n")
}

// AsError converts any error to *Error, wrapping foreign errors as CommonInternal
func AsError(err error) *Error {
	if err == nil {
		return nil
	}

	if e, ok := err.(*Error); ok {
		return e
	}

	return New(CommonInternal, err.Error(), err)
}
