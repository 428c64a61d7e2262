package edgevox

// General errors.
const (
	ErrInternal = Error("internal error")
)

// Error represents an edgevox error.
type Error string

// Error returns the error as a string.
func (e Error) Error() string { return string(e) }
