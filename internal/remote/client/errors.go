package client

import "fmt"

type Kind int

const (
	// KindConfiguration: the endpoint is not set
	KindConfiguration Kind = iota + 1
	// KindNetwork: the request failed or the status was not 2xx
	KindNetwork
	// KindApplication: the endpoint answered {"result": "error"}
	KindApplication
	// KindParse: the body was not JSON
	KindParse
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindNetwork:
		return "network"
	case KindApplication:
		return "application"
	case KindParse:
		return "parse"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is the only error type Submit returns. Message is short and meant
// for the user; Err keeps the cause for the logs.
type Error struct {
	Kind    Kind
	Message string
	// HTTP status, zero when no response was read
	Code int
	Err  error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Detail is the full description used for logging.
func (e *Error) Detail() string {
	s := fmt.Sprintf("%s error: %s", e.Kind, e.Message)
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}
