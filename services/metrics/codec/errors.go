package codec

import "errors"

// ErrUnknownCodec signals that the requested codec is not supported
var ErrUnknownCodec = errors.New("unknown codec")
