package config

import "errors"

// ErrUnknownPreset signals that the requested preset does not exist
var ErrUnknownPreset = errors.New("unknown preset")

// ErrNoBrokerAddresses signals that no broker address was configured
var ErrNoBrokerAddresses = errors.New("no broker addresses")

// ErrEmptyTopic signals that a topic name is empty
var ErrEmptyTopic = errors.New("empty topic")

// ErrInvalidNumSamples signals a negative number of samples
var ErrInvalidNumSamples = errors.New("invalid number of samples")

// ErrInvalidOffsetPolicy signals an offset policy other than latest or earliest
var ErrInvalidOffsetPolicy = errors.New("invalid offset policy")

// ErrInvalidIdleTimeout signals a zero consumer idle timeout
var ErrInvalidIdleTimeout = errors.New("invalid consumer idle timeout")
