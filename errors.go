package weft

import (
	"errors"
	"fmt"
	"strings"
)

type ErrorCode uint16

const (
	ErrCodeUnknown ErrorCode = iota
	ErrCodeComponentNotFound
	ErrCodeAmbiguousComponent
	ErrCodeDuplicateComponent
	ErrCodeInvalidComponent
	ErrCodeInvalidConstructor
	ErrCodeMultipleConstructors
	ErrCodeConstructionFailed
	ErrCodeResolutionFailed
	ErrCodeCircularDependency
	ErrCodeMissingNamingQualifier
	ErrCodeUnassignableType
	ErrCodeContainerStarted
	ErrCodeValidationFailed
	ErrCodeStartupFailed
	ErrCodeShutdownFailed
	ErrCodeHealthCheckFailed
	ErrCodeReplaceFailed
	ErrCodeAssemblyFailed
)

var codeNames = map[ErrorCode]string{
	ErrCodeUnknown:                "UNKNOWN",
	ErrCodeComponentNotFound:      "COMPONENT_NOT_FOUND",
	ErrCodeAmbiguousComponent:     "AMBIGUOUS_COMPONENT",
	ErrCodeDuplicateComponent:     "DUPLICATE_COMPONENT",
	ErrCodeInvalidComponent:       "INVALID_COMPONENT",
	ErrCodeInvalidConstructor:     "INVALID_CONSTRUCTOR",
	ErrCodeMultipleConstructors:   "MULTIPLE_CONSTRUCTORS",
	ErrCodeConstructionFailed:     "CONSTRUCTION_FAILED",
	ErrCodeResolutionFailed:       "RESOLUTION_FAILED",
	ErrCodeCircularDependency:     "CIRCULAR_DEPENDENCY",
	ErrCodeMissingNamingQualifier: "MISSING_NAMING_QUALIFIER",
	ErrCodeUnassignableType:       "UNASSIGNABLE_TYPE",
	ErrCodeContainerStarted:       "CONTAINER_STARTED",
	ErrCodeValidationFailed:       "VALIDATION_FAILED",
	ErrCodeStartupFailed:          "STARTUP_FAILED",
	ErrCodeShutdownFailed:         "SHUTDOWN_FAILED",
	ErrCodeHealthCheckFailed:      "HEALTH_CHECK_FAILED",
	ErrCodeReplaceFailed:          "REPLACE_FAILED",
	ErrCodeAssemblyFailed:         "ASSEMBLY_FAILED",
}

func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", c)
}

type Error struct {
	Code      ErrorCode
	Message   string
	Component string
	Cause     error
	Chain     []string
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s]", e.Code))

	if e.Component != "" {
		b.WriteString(fmt.Sprintf(" component=%q:", e.Component))
	}

	b.WriteString(" ")
	b.WriteString(e.Message)

	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}

	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

func (e *Error) WithComponent(component string) *Error {
	e.Component = component
	return e
}

func (e *Error) WithChain(chain []string) *Error {
	e.Chain = chain
	return e
}

func newError(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func errComponentNotFound(component string) *Error {
	return newError(
		ErrCodeComponentNotFound,
		fmt.Sprintf("no component registered for %s", component),
		nil,
	).WithComponent(component)
}

func errAmbiguousComponent(required string, names []string) *Error {
	return newError(
		ErrCodeAmbiguousComponent,
		fmt.Sprintf("multiple components match %s: %s", required, strings.Join(names, ", ")),
		nil,
	).WithComponent(required)
}

func errDuplicateComponent(component string) *Error {
	return newError(
		ErrCodeDuplicateComponent,
		fmt.Sprintf("component already registered: %s", component),
		nil,
	).WithComponent(component)
}

func errInvalidComponent(component, message string) *Error {
	return newError(ErrCodeInvalidComponent, message, nil).WithComponent(component)
}

func errInvalidConstructor(component, message string) *Error {
	return newError(ErrCodeInvalidConstructor, message, nil).WithComponent(component)
}

func errMultipleConstructors(component string) *Error {
	return newError(
		ErrCodeMultipleConstructors,
		"component declares more than one constructor",
		nil,
	).WithComponent(component)
}

func errConstructionFailed(component string, cause error) *Error {
	return newError(
		ErrCodeConstructionFailed,
		fmt.Sprintf("failed to construct %s", component),
		cause,
	).WithComponent(component)
}

func errResolutionFailed(component string, cause error) *Error {
	return newError(
		ErrCodeResolutionFailed,
		fmt.Sprintf("failed to resolve %s", component),
		cause,
	).WithComponent(component)
}

func errCircularDependency(chain []string) *Error {
	return newError(
		ErrCodeCircularDependency,
		fmt.Sprintf("circular dependency detected: %s", strings.Join(chain, " -> ")),
		nil,
	).WithChain(chain)
}

func errMissingNamingQualifier(component string) *Error {
	return newError(
		ErrCodeMissingNamingQualifier,
		"component carries no naming qualifier",
		nil,
	).WithComponent(component)
}

func errUnassignableType(message string) *Error {
	return newError(ErrCodeUnassignableType, message, nil)
}

func errContainerStarted(op string) *Error {
	return newError(
		ErrCodeContainerStarted,
		fmt.Sprintf("%s is only permitted before the container starts", op),
		nil,
	)
}

func errValidationFailed(cause error) *Error {
	return newError(ErrCodeValidationFailed, "container validation failed", cause)
}

func errStartupFailed(component string, cause error) *Error {
	return newError(
		ErrCodeStartupFailed,
		fmt.Sprintf("failed to start %s", component),
		cause,
	).WithComponent(component)
}

func errShutdownFailed(component string, cause error) *Error {
	return newError(
		ErrCodeShutdownFailed,
		fmt.Sprintf("failed to stop %s", component),
		cause,
	).WithComponent(component)
}

func errHealthCheckFailed(component string, cause error) *Error {
	return newError(
		ErrCodeHealthCheckFailed,
		fmt.Sprintf("health check failed for %s", component),
		cause,
	).WithComponent(component)
}

func errReplaceFailed(component string, cause error) *Error {
	return newError(
		ErrCodeReplaceFailed,
		fmt.Sprintf("failed to replace %s", component),
		cause,
	).WithComponent(component)
}

func errAssemblyFailed(name string, cause error) *Error {
	return newError(
		ErrCodeAssemblyFailed,
		"failed to apply assembly "+name,
		cause,
	)
}

// The predicates match by code anywhere in the error chain, so a
// wrapped cause still answers the question the caller is asking.

func IsNotFound(err error) bool {
	return errors.Is(err, &Error{Code: ErrCodeComponentNotFound})
}

func IsAmbiguous(err error) bool {
	return errors.Is(err, &Error{Code: ErrCodeAmbiguousComponent})
}

func IsDuplicate(err error) bool {
	return errors.Is(err, &Error{Code: ErrCodeDuplicateComponent})
}

func IsCircularDependency(err error) bool {
	return errors.Is(err, &Error{Code: ErrCodeCircularDependency})
}

func IsConstructionFailed(err error) bool {
	return errors.Is(err, &Error{Code: ErrCodeConstructionFailed})
}

func IsResolutionFailed(err error) bool {
	return errors.Is(err, &Error{Code: ErrCodeResolutionFailed})
}

func IsMissingNamingQualifier(err error) bool {
	return errors.Is(err, &Error{Code: ErrCodeMissingNamingQualifier})
}

func IsContainerStarted(err error) bool {
	return errors.Is(err, &Error{Code: ErrCodeContainerStarted})
}

func IsValidationFailed(err error) bool {
	return errors.Is(err, &Error{Code: ErrCodeValidationFailed})
}

func IsStartupFailed(err error) bool {
	return errors.Is(err, &Error{Code: ErrCodeStartupFailed})
}

func IsShutdownFailed(err error) bool {
	return errors.Is(err, &Error{Code: ErrCodeShutdownFailed})
}
