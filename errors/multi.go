package errors

import (
	"fmt"
	"strings"
)

const multiErrCode uint32 = 1000000

// MultiErr is the empty multi error. Use it as the starting point for
// collecting errors:
//
//	err := MultiErr.With(errA).With(errB)
var MultiErr = multiErr{}

// multiErr clubs together a list of errors. Nil errors are never stored and
// adding a multi error flattens it.
type multiErr []error

// With returns a new multi error extended by given error.
func (e multiErr) With(err error) multiErr {
	if errIsNil(err) {
		return e
	}
	res := make(multiErr, 0, len(e)+1)
	res = append(res, e...)
	if other, ok := err.(multiErr); ok {
		return append(res, other...)
	}
	return append(res, err)
}

// IsEmpty returns true if no error was collected.
func (e multiErr) IsEmpty() bool {
	return len(e) == 0
}

// Unpack returns all collected errors.
func (e multiErr) Unpack() []error {
	return e
}

// Code returns the code reserved for multi errors.
func (e multiErr) Code() uint32 {
	return multiErrCode
}

func (e multiErr) Error() string {
	if len(e) == 1 {
		return fmt.Sprintf("1 error occurred:\n\t* %s\n\n", e[0])
	}

	points := make([]string, len(e))
	for i, err := range e {
		points[i] = fmt.Sprintf("* %s", err)
	}

	return fmt.Sprintf(
		"%d errors occurred:\n\t%s\n\n",
		len(e), strings.Join(points, "\n\t"))
}

// Append clubs together all non nil errors. It returns nil if there is no
// error to return and the only error if exactly one was given.
func Append(errs ...error) error {
	me := MultiErr
	for _, err := range errs {
		me = me.With(err)
	}
	switch len(me) {
	case 0:
		return nil
	case 1:
		return me[0]
	default:
		return me
	}
}
