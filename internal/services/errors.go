package services

import "fmt"

// ValidationError reports malformed caller input.
type ValidationError struct{ Message string }

func (e *ValidationError) Error() string { return e.Message }

// ConfigurationError reports a server missing required configuration.
type ConfigurationError struct{ Message string }

func (e *ConfigurationError) Error() string { return e.Message }

// FailureKind classifies why an upstream attempt failed.
type FailureKind string

const (
	FailureStatus     FailureKind = "status"     // non-200 HTTP status
	FailureTimeout    FailureKind = "timeout"    // per-attempt deadline or network timeout
	FailureConnection FailureKind = "connection" // refused, unreachable, DNS
	FailureTransport  FailureKind = "transport"  // other transport faults, e.g. reset or EOF
	FailureMalformed  FailureKind = "malformed"  // 200 with an unexpected body
	FailureRequest    FailureKind = "request"    // request could not be built
	FailureCanceled   FailureKind = "canceled"   // caller context done
)

// UpstreamError is returned once the retry policy gives up, or straight away
// for a failure that is not worth retrying.
type UpstreamError struct {
	Kind       FailureKind
	StatusCode int    // set for FailureStatus
	Body       string // upstream response body, set for FailureStatus
	Attempts   int
	Message    string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return fmt.Sprintf("DeepSeek API %s error: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("DeepSeek API %s error", e.Kind)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
