package calibration

// Error codes
const (
	CodeLoadFailed = "LOAD_FAILED"
	CodeValidation = "VALIDATION"
	CodeWrite      = "WRITE_FAILED"
)

// Error represents a calibration storage or validation error
type Error struct {
	Code    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// newError creates a new calibration error
func newError(code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}
