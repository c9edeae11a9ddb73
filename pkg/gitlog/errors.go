package gitlog

import "fmt"

// ErrRefNotFound is returned when a name resolves to no commit
type ErrRefNotFound struct {
	Name string
}

func (e *ErrRefNotFound) Error() string {
	return fmt.Sprintf("ref '%s' not found: not a branch, tag or commit", e.Name)
}

// NewErrRefNotFound creates a new ErrRefNotFound
func NewErrRefNotFound(name string) *ErrRefNotFound {
	return &ErrRefNotFound{
		Name: name,
	}
}
