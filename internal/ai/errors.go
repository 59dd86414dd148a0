package ai

import "fmt"

// TransportError reports a model stream broken mid-response. The whole round
// fails; partially accumulated text and tool-call data are discarded.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("model transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RoundLimitError reports that the model kept requesting tools past the
// configured maximum number of model round trips.
type RoundLimitError struct {
	Rounds int
}

func (e *RoundLimitError) Error() string {
	return fmt.Sprintf("tool dispatch exceeded %d rounds without a final answer", e.Rounds)
}
