package analysis

import "fmt"

// TransportError reports an HTTP-level failure. StatusCode is 0 when no
// response was received at all.
type TransportError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("analysis request failed: %v", e.Err)
	}
	if e.Message != "" {
		return fmt.Sprintf("analysis service returned HTTP %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("analysis service returned HTTP %d", e.StatusCode)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ProtocolError reports a success response whose body has an unexpected shape.
type ProtocolError struct {
	Reason string
	Err    error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unexpected analysis response: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("unexpected analysis response: %s", e.Reason)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// ServiceError reports that the service received the file and rejected it.
type ServiceError struct {
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}
