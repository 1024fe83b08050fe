package viewer

import "fmt"

// FetchError means the artifact bytes could not be retrieved.
type FetchError struct {
	Locator string
	Status  int
	Err     error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.Locator, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.Locator, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError means the import collaborator rejected well-formed-looking bytes.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse artifact: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
