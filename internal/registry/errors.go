package registry

import "fmt"

// SourceNotFoundError indicates a registered source's location did not
// resolve to a readable document at composite-build time. Fatal to the whole
// build; no partial composite is returned.
type SourceNotFoundError struct {
	Name     string
	Location string
	Err      error
}

func (e *SourceNotFoundError) Error() string {
	return fmt.Sprintf("schema source %q: document %s is not readable: %v", e.Name, e.Location, e.Err)
}

func (e *SourceNotFoundError) Unwrap() error {
	return e.Err
}

// SourceParseError indicates a resolved source document is not well-formed
// schema JSON. Fatal to the whole build, same as SourceNotFoundError.
type SourceParseError struct {
	Name     string
	Location string
	Err      error
}

func (e *SourceParseError) Error() string {
	return fmt.Sprintf("schema source %q: document %s is not well-formed: %v", e.Name, e.Location, e.Err)
}

func (e *SourceParseError) Unwrap() error {
	return e.Err
}
