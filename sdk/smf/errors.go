package smf

import "fmt"

// MalformedFileError reports a structural SMF violation. Offset is the
// absolute byte position in the input buffer where decoding failed.
type MalformedFileError struct {
	Offset   int
	Expected string
	Found    string
}

func (e *MalformedFileError) Error() string {
	if e.Found == "" {
		return fmt.Sprintf("malformed SMF at byte %d: expected %s", e.Offset, e.Expected)
	}
	return fmt.Sprintf("malformed SMF at byte %d: expected %s, found %s",
		e.Offset, e.Expected, e.Found)
}

func malformed(offset int, expected, found string) error {
	return &MalformedFileError{Offset: offset, Expected: expected, Found: found}
}
