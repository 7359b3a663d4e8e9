package spectrum

import "fmt"

// InvalidParameterError reports a filter misconfiguration, such as an
// even smoothing window or a polynomial order too large for the window.
type InvalidParameterError struct {
	Param   string
	Value   int
	Message string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid %s %d: %s", e.Param, e.Value, e.Message)
}
