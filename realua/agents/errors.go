package agents

import "fmt"

type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("file not found: %s", e.Path)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

type EmptySourceError struct {
	Path string
}

func (e *EmptySourceError) Error() string {
	return fmt.Sprintf("%s has no user agents", e.Path)
}

type NoMatchError struct {
	Mode    Mode
	Browser string
}

func (e *NoMatchError) Error() string {
	if e.Browser == "" {
		return fmt.Sprintf("no matching %s user agent found", e.Mode)
	}
	return fmt.Sprintf("no matching %s user agent found for %q", e.Mode, e.Browser)
}

type InvalidModeError struct {
	Value string
}

func (e *InvalidModeError) Error() string {
	return fmt.Sprintf("invalid mode %q, expected desktop or mobile", e.Value)
}
