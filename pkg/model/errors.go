package model

import "github.com/m-mizutani/goerr/v2"

// Error classes surfaced at the service boundary. Downstream detail is
// logged server-side and never echoed to the caller.
var (
	ErrUnauthenticated = goerr.New("unauthenticated")
	ErrInvalidArgument = goerr.New("invalid argument")
	ErrNotFound        = goerr.New("not found")
	ErrInternal        = goerr.New("internal error")
)
