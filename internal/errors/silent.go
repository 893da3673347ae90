package errors

// Silent is an error that should not be printed.
// Useful when an error has already been presented during command execution,
// like a formatted operation failure, and printing it again after the
// command returns would duplicate it.
type Silent struct {
	error
}

// NewSilent returns a new Silent.
func NewSilent(err error) error {
	return Silent{
		error: err,
	}
}

// IsSilent checks if an error is Silent.
func IsSilent(err error) bool {
	_, ok := err.(Silent)
	return ok
}
