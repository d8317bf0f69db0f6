package consumer

import "errors"

// ErrMalformedRecord signals a record that could not be parsed as an anomaly result
var ErrMalformedRecord = errors.New("malformed anomaly record")

var errNilBrokerClient = errors.New("nil broker client")
var errNilProgressHandler = errors.New("nil progress handler")
var errInvalidIdleTimeout = errors.New("invalid idle timeout")
