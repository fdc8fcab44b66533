package session

import "fmt"

// CorruptUserError reports a stored user record that no longer deserializes.
// The store surfaces corruption loudly instead of returning garbage.
type CorruptUserError struct {
	Raw string
	Err error
}

func (e *CorruptUserError) Error() string {
	return fmt.Sprintf("corrupt stored user record: %v", e.Err)
}

func (e *CorruptUserError) Unwrap() error {
	return e.Err
}
