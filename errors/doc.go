/*
Package errors implements registered root errors and error wrapping.

The idea is to reuse as many errors from this package as possible. Every root
error carries a unique numeric code assigned with Register. Codes allow the
caller to distinguish types of errors and act accordingly, for example to
tell a user decline apart from a network failure.

For reusing errors - use ErrXxx.New and ErrXxx.Newf, or Wrap and Wrapf.
Testing for an error kind is done with ErrXxx.Is(err), which unwraps the
error chain and looks into multi errors as well.

There is also support for stacktraces. Please ensure you create the custom
error using ErrXyz.New("...") or errors.Wrap(err, "...") at the point of
creation to ensure we attach a stacktrace. If you wrap multiple times, we only
record the first wrap with the stacktrace.

Once you have an error, you can use `fmt.Printf/Sprintf` to get more context
for the error

	%s is just the error message
	%+v is the full stack trace
	%v appends a compressed [filename:line] where the error was created
*/
package errors
