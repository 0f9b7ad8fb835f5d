package scheduling

import "errors"

var (
	// ErrNotPatient rejects appointment creation by anyone whose current
	// role is not patient.
	ErrNotPatient = errors.New("only patients can book appointments")
)
