// Package errors provides centralized error definitions and error handling utilities
// for triage. It defines sentinel errors, semantic error types, error constructors
// with context wrapping, and error classification helpers.
//
// # Error Types
//
// Local input and state errors:
//   - ValidationError: bad local input (empty title, out-of-range importance, bad hours)
//   - IndexError: a queue position that does not exist
//   - PreconditionError: an operation invoked in a state that does not allow it
//   - MalformedInputError: a bulk import payload that is not a list or cannot be parsed
//   - NotFoundError: a task id that is not in the queue
//
// Scoring service errors:
//   - TransportError: the scoring service could not be reached
//   - ServiceError: the scoring service answered with a non-success status or a
//     body that could not be decoded
//
// # Usage
//
//	err := errors.NewPreconditionError("analyze", errors.ErrEmptyQueue)
//
//	if errors.Is(err, errors.ErrEmptyQueue) { ... }
//
//	var svcErr *errors.ServiceError
//	if errors.As(err, &svcErr) { fmt.Println(svcErr.Body) }
//
// # Error Classification
//
// None of these errors are fatal. Every error is user facing and is shown as a
// transient notification; the queue and the last good analysis stay usable.
//   - Retryable: TransportError (the service may come up)
//   - UserFacing: all semantic errors
//   - Severity: Debug, Info, Warning, Error, Critical
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
	// SeverityCritical is for errors that require immediate attention.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Queue-related sentinel errors
var (
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
	// ErrIndexOutOfRange indicates a queue position outside the queue.
	ErrIndexOutOfRange = New("index out of range")
	// ErrTaskNotFound indicates that a task id is not in the queue.
	ErrTaskNotFound = New("task not found")
	// ErrEmptyQueue indicates an operation that needs at least one queued task.
	ErrEmptyQueue = New("task queue is empty")
	// ErrMalformedInput indicates a bulk import payload that could not be used.
	ErrMalformedInput = New("malformed input")
)

// Analysis-related sentinel errors
var (
	// ErrPrecondition indicates an operation invoked in an invalid state.
	ErrPrecondition = New("precondition failed")
	// ErrNoAnalysis indicates that no successful analysis is stored.
	ErrNoAnalysis = New("no analysis result available")
	// ErrAnalysisInFlight indicates that an analysis request is already running.
	ErrAnalysisInFlight = New("analysis already in progress")
	// ErrQueueChanged indicates the queue was cleared while a request was running.
	ErrQueueChanged = New("task queue was cleared during analysis")
	// ErrServiceUnreachable indicates the scoring service could not be reached.
	ErrServiceUnreachable = New("scoring service unreachable")
	// ErrServiceRejected indicates the scoring service returned a failure.
	ErrServiceRejected = New("scoring service request failed")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// TriageError is the base interface for all triage errors.
// It extends the standard error interface with additional methods for
// error handling and classification.
type TriageError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Is reports whether this error matches the target error.
	// This is used by errors.Is() for error comparison.
	Is(target error) bool

	// Severity returns the severity level of this error.
	Severity() Severity

	// IsRetryable returns true if the error is transient and the operation
	// may succeed on retry.
	IsRetryable() bool

	// IsUserFacing returns true if the error message is safe to display
	// to end users.
	IsUserFacing() bool
}

// -----------------------------------------------------------------------------
// Base Error Implementation
// -----------------------------------------------------------------------------

// baseError provides common functionality for all error types.
type baseError struct {
	message    string
	cause      error
	severity   Severity
	retryable  bool
	userFacing bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Is checks if this error matches the target.
func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// IsRetryable returns whether the error is retryable.
func (e *baseError) IsRetryable() bool {
	return e.retryable
}

// IsUserFacing returns whether the error is safe to show users.
func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// -----------------------------------------------------------------------------
// Local Input Errors
// -----------------------------------------------------------------------------

// ValidationError represents invalid local input. The queue is left unchanged.
//
// Example:
//
//	err := errors.NewValidationError("importance must be between 1 and 10")
//	err = err.WithField("importance").WithValue(12)
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:    message,
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: true,
		},
	}
}

// WithField adds a field name to the error context.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue adds the invalid value to the error context.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// WithCause adds a cause to the error.
func (e *ValidationError) WithCause(cause error) *ValidationError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}

	prefix := "validation error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("validation error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	if errors.Is(target, ErrInvalidInput) {
		return true
	}
	return e.baseError.Is(target)
}

// IndexError represents a queue position that does not exist.
//
// Example:
//
//	err := errors.NewIndexError(5, 3)
//	fmt.Println(err) // "index error: index 5 out of range [0, 3)"
type IndexError struct {
	baseError
	Index  int
	Length int
}

// NewIndexError creates a new IndexError for the given index and queue length.
func NewIndexError(index, length int) *IndexError {
	return &IndexError{
		baseError: baseError{
			message:    fmt.Sprintf("index %d out of range [0, %d)", index, length),
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: true,
		},
		Index:  index,
		Length: length,
	}
}

// Error returns the formatted error message.
func (e *IndexError) Error() string {
	return "index error: " + e.message
}

// Is checks if this error matches the target.
func (e *IndexError) Is(target error) bool {
	if _, ok := target.(*IndexError); ok {
		return true
	}
	if errors.Is(target, ErrIndexOutOfRange) {
		return true
	}
	return e.baseError.Is(target)
}

// NotFoundError represents a resource that could not be found.
//
// Example:
//
//	err := errors.NewNotFoundError("task", "t7")
//	fmt.Println(err) // "task 't7' not found"
type NotFoundError struct {
	baseError
	ResourceType string
	ResourceID   string
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resourceType, resourceID string) *NotFoundError {
	return &NotFoundError{
		baseError: baseError{
			message:    fmt.Sprintf("%s '%s' not found", resourceType, resourceID),
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: true,
		},
		ResourceType: resourceType,
		ResourceID:   resourceID,
	}
}

// WithCause adds a cause to the error.
func (e *NotFoundError) WithCause(cause error) *NotFoundError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *NotFoundError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s '%s' not found: %v", e.ResourceType, e.ResourceID, e.cause)
	}
	return fmt.Sprintf("%s '%s' not found", e.ResourceType, e.ResourceID)
}

// Is checks if this error matches the target.
func (e *NotFoundError) Is(target error) bool {
	if _, ok := target.(*NotFoundError); ok {
		return true
	}
	if errors.Is(target, ErrTaskNotFound) && e.ResourceType == "task" {
		return true
	}
	return e.baseError.Is(target)
}

// PreconditionError represents an operation invoked in a state that does not
// allow it: analyzing an empty queue, reading the top N before any analysis,
// clearing an empty queue. No state is changed.
//
// Example:
//
//	err := errors.NewPreconditionError("top", errors.ErrNoAnalysis)
//	fmt.Println(err) // "cannot top: no analysis result available"
type PreconditionError struct {
	baseError
	Operation string
}

// NewPreconditionError creates a PreconditionError for the named operation.
// The cause is normally one of the sentinel errors of this package.
func NewPreconditionError(operation string, cause error) *PreconditionError {
	return &PreconditionError{
		baseError: baseError{
			message:    "cannot " + operation,
			cause:      cause,
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: true,
		},
		Operation: operation,
	}
}

// Is checks if this error matches the target.
func (e *PreconditionError) Is(target error) bool {
	if _, ok := target.(*PreconditionError); ok {
		return true
	}
	if errors.Is(target, ErrPrecondition) {
		return true
	}
	return e.baseError.Is(target)
}

// MalformedInputError represents a bulk import payload that is not a list or
// cannot be parsed. The whole import is rejected; nothing is applied.
//
// Example:
//
//	err := errors.NewMalformedInputError("tasks.json", "expected a list of tasks")
type MalformedInputError struct {
	baseError
	Source string
	Entry  int // zero-based position of the offending entry, -1 for the whole payload
}

// NewMalformedInputError creates a new MalformedInputError.
func NewMalformedInputError(source, message string) *MalformedInputError {
	return &MalformedInputError{
		baseError: baseError{
			message:    message,
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: true,
		},
		Source: source,
		Entry:  -1,
	}
}

// WithEntry records which entry of the payload was rejected.
func (e *MalformedInputError) WithEntry(idx int) *MalformedInputError {
	e.Entry = idx
	return e
}

// WithCause adds a cause to the error.
func (e *MalformedInputError) WithCause(cause error) *MalformedInputError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *MalformedInputError) Error() string {
	var parts []string
	if e.Source != "" {
		parts = append(parts, fmt.Sprintf("source=%s", e.Source))
	}
	if e.Entry >= 0 {
		parts = append(parts, fmt.Sprintf("entry=%d", e.Entry))
	}

	prefix := "malformed input"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("malformed input [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *MalformedInputError) Is(target error) bool {
	if _, ok := target.(*MalformedInputError); ok {
		return true
	}
	if errors.Is(target, ErrMalformedInput) {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Scoring Service Errors
// -----------------------------------------------------------------------------

// TransportError represents a failure to reach the scoring service at all.
// Its message tells the user which endpoint was expected to be running.
//
// Example:
//
//	err := errors.NewTransportError("http://localhost:8000/api/tasks", cause)
type TransportError struct {
	baseError
	Endpoint string
}

// NewTransportError creates a new TransportError for the given endpoint.
func NewTransportError(endpoint string, cause error) *TransportError {
	return &TransportError{
		baseError: baseError{
			message:    fmt.Sprintf("failed to reach scoring service; make sure it is running on %s", endpoint),
			cause:      cause,
			severity:   SeverityError,
			retryable:  true,
			userFacing: true,
		},
		Endpoint: endpoint,
	}
}

// Is checks if this error matches the target.
func (e *TransportError) Is(target error) bool {
	if _, ok := target.(*TransportError); ok {
		return true
	}
	if errors.Is(target, ErrServiceUnreachable) {
		return true
	}
	return e.baseError.Is(target)
}

// ServiceError represents a non-success answer from the scoring service, or a
// success status whose body could not be decoded. Body holds the raw response
// text, which is the detail shown to the user.
//
// Example:
//
//	err := errors.NewServiceError(400, `{"tasks":["This field is required."]}`)
type ServiceError struct {
	baseError
	StatusCode int
	Body       string
}

// NewServiceError creates a new ServiceError from a response status and body.
func NewServiceError(statusCode int, body string) *ServiceError {
	msg := strings.TrimSpace(body)
	if msg == "" {
		msg = "analysis failed"
	}
	return &ServiceError{
		baseError: baseError{
			message:    msg,
			severity:   SeverityError,
			retryable:  false,
			userFacing: true,
		},
		StatusCode: statusCode,
		Body:       body,
	}
}

// WithCause adds a cause to the error.
func (e *ServiceError) WithCause(cause error) *ServiceError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *ServiceError) Error() string {
	base := fmt.Sprintf("scoring service error (status %d): %s", e.StatusCode, e.message)
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", base, e.cause)
	}
	return base
}

// Is checks if this error matches the target.
func (e *ServiceError) Is(target error) bool {
	if _, ok := target.(*ServiceError); ok {
		return true
	}
	if errors.Is(target, ErrServiceRejected) {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Error Classification Helpers
// -----------------------------------------------------------------------------

// IsRetryable returns true if the error represents a transient condition
// that may succeed on retry.
//
// Example:
//
//	if errors.IsRetryable(err) {
//	    notify("scoring service is down, try again")
//	}
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var triageErr TriageError
	if As(err, &triageErr) {
		return triageErr.IsRetryable()
	}

	return Is(err, ErrServiceUnreachable)
}

// IsUserFacing returns true if the error message is safe to display to end users.
//
// Example:
//
//	if errors.IsUserFacing(err) {
//	    notify(err.Error())
//	} else {
//	    notify("An internal error occurred")
//	    log.Error("internal error", "err", err)
//	}
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}

	var triageErr TriageError
	if As(err, &triageErr) {
		return triageErr.IsUserFacing()
	}
	return false
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't implement TriageError.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}

	var triageErr TriageError
	if As(err, &triageErr) {
		return triageErr.Severity()
	}

	return SeverityError
}

// IsServiceError returns true if the error came from talking to the scoring
// service (TransportError or ServiceError).
func IsServiceError(err error) bool {
	if err == nil {
		return false
	}

	var transport *TransportError
	var service *ServiceError
	return As(err, &transport) || As(err, &service)
}

// UserMessage returns the text to show in a notification for err. Scoring
// service failures show only their detail; everything else shows Error().
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var transport *TransportError
	if As(err, &transport) {
		return transport.message
	}
	var service *ServiceError
	if As(err, &service) {
		return service.message
	}
	var precondition *PreconditionError
	if As(err, &precondition) && precondition.cause != nil {
		return precondition.cause.Error()
	}
	if IsUserFacing(err) {
		return err.Error()
	}
	return "unexpected error"
}

// -----------------------------------------------------------------------------
// Convenience Constructors
// -----------------------------------------------------------------------------

// Wrap wraps an error with additional context message.
// Unlike fmt.Errorf with %w, this preserves the TriageError interface.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
