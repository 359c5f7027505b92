package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the machine-readable failure classification carried across
// component boundaries instead of string matching on messages.
type Kind string

const (
	KindUnsupportedMediaType     Kind = "unsupported_media_type"
	KindMediaTooShort            Kind = "media_too_short"
	KindMediaOpenError           Kind = "media_open_error"
	KindAudioExtractionFailed    Kind = "audio_extraction_failed"
	KindUnintelligibleAudio      Kind = "unintelligible_audio"
	KindSpeechServiceUnavailable Kind = "speech_service_unavailable"
	KindFrameClassification      Kind = "frame_classification_error"
	KindInvalidIdentifier        Kind = "invalid_identifier"
	KindNotFound                 Kind = "not_found"
	KindPersistence              Kind = "persistence_error"
	KindInternal                 Kind = "internal"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// E builds a classified error. err may be nil.
func E(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the classification from an error chain. Unclassified
// errors report KindInternal.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// MessageOf returns the client-facing message for an error chain.
// Unclassified errors get a generic message so internal detail never leaks.
func MessageOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return "internal error"
}

// HTTPStatus maps a failure kind to the status code the API boundary
// responds with.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindUnsupportedMediaType:
		return http.StatusUnsupportedMediaType
	case KindMediaTooShort, KindInvalidIdentifier:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindMediaOpenError, KindUnintelligibleAudio:
		return http.StatusUnprocessableEntity
	case KindSpeechServiceUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
