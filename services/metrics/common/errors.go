package common

import "errors"

// ErrBrokerUnavailable signals a broker connection or delivery failure. It is reported and handled, it does not
// terminate the tools.
var ErrBrokerUnavailable = errors.New("broker unavailable")
