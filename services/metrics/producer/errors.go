package producer

import "errors"

var errNilBrokerClient = errors.New("nil broker client")
var errNilGenerator = errors.New("nil sample generator")
var errNilCodec = errors.New("nil codec")
var errEmptyTopic = errors.New("empty topic")
