package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrExternalProvider = errors.New("external provider error")
	ErrValidation       = errors.New("validation error")
	ErrConfiguration    = errors.New("configuration error")
	ErrNotFound         = errors.New("not found")
	ErrTimeout          = errors.New("timeout")
	ErrTransient        = errors.New("transient failure")
)

// ErrorKind labels the failure class derived from the sentinel markers.
type ErrorKind string

const (
	KindExternalProvider ErrorKind = "external_provider"
	KindValidation       ErrorKind = "validation"
	KindConfiguration    ErrorKind = "configuration"
	KindNotFound         ErrorKind = "not_found"
	KindTimeout          ErrorKind = "timeout"
	KindTransient        ErrorKind = "transient"
	KindUnknown          ErrorKind = "unknown"
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// ErrorDetails carries the classified view of a service error.
type ErrorDetails struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

// Details classifies an error produced by Wrap and strips the marker prefix
// from the message so callers can surface it directly.
func Details(err error) ErrorDetails {
	if err == nil {
		return ErrorDetails{Kind: KindUnknown}
	}
	kind := KindUnknown
	var marker error
	switch {
	case errors.Is(err, ErrValidation):
		kind, marker = KindValidation, ErrValidation
	case errors.Is(err, ErrConfiguration):
		kind, marker = KindConfiguration, ErrConfiguration
	case errors.Is(err, ErrNotFound):
		kind, marker = KindNotFound, ErrNotFound
	case errors.Is(err, ErrTimeout):
		kind, marker = KindTimeout, ErrTimeout
	case errors.Is(err, ErrExternalProvider):
		kind, marker = KindExternalProvider, ErrExternalProvider
	case errors.Is(err, ErrTransient):
		kind, marker = KindTransient, ErrTransient
	}
	message := strings.TrimSpace(err.Error())
	if marker != nil {
		message = strings.TrimSpace(strings.TrimPrefix(message, marker.Error()+":"))
	}
	return ErrorDetails{Kind: kind, Message: message, Cause: err}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
