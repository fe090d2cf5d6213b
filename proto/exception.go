package proto

import "fmt"

// Exception is a server-reported error (§4.F Exception packet), possibly
// chained via Nested when the server itself wraps a lower-level cause.
type Exception struct {
	Code       int32
	Name       string
	Message    string
	StackTrace string
	Nested     *Exception
}

func (e *Exception) Error() string {
	if e == nil {
		return "<nil exception>"
	}
	return fmt.Sprintf("%s (code %d): %s", e.Name, e.Code, e.Message)
}

// Decode reads an Exception, recursing while the "has nested" byte is set.
func (e *Exception) Decode(r *Reader) error {
	code, err := r.Int32()
	if err != nil {
		return err
	}
	e.Code = code

	name, err := r.Str()
	if err != nil {
		return err
	}
	e.Name = name

	message, err := r.Str()
	if err != nil {
		return err
	}
	e.Message = message

	stack, err := r.Str()
	if err != nil {
		return err
	}
	e.StackTrace = stack

	hasNested, err := r.Bool()
	if err != nil {
		return err
	}
	if hasNested {
		nested := new(Exception)
		if err := nested.Decode(r); err != nil {
			return err
		}
		e.Nested = nested
	}
	return nil
}
