package codec

import (
	"fmt"
	"strings"

	"github.com/iulianpascalau/aa-samples/services/metrics/common"
	"github.com/ugorji/go/codec"
)

const (
	// MsgpackName is the name of the default, binary map codec
	MsgpackName = "msgpack"
	// JSONName is the name of the JSON metric data codec
	JSONName = "json"

	tagSeparator = "="
)

// NewCodec returns the codec registered under the provided name
func NewCodec(name string) (*sampleCodec, error) {
	switch name {
	case MsgpackName:
		return newMsgpackCodec(), nil
	case JSONName:
		return newJSONCodec(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCodec, name)
	}
}

// sampleCodec serializes samples using one ugorji handle. The handle is configured once and is safe for
// concurrent use afterward.
type sampleCodec struct {
	name      string
	handle    codec.Handle
	transform func(sample common.SampleMetric) interface{}
}

func newMsgpackCodec() *sampleCodec {
	handle := &codec.MsgpackHandle{}
	handle.WriteExt = true

	return &sampleCodec{
		name:   MsgpackName,
		handle: handle,
		transform: func(sample common.SampleMetric) interface{} {
			return sample
		},
	}
}

func newJSONCodec() *sampleCodec {
	return &sampleCodec{
		name:   JSONName,
		handle: &codec.JsonHandle{},
		transform: func(sample common.SampleMetric) interface{} {
			return ToMetricData(sample)
		},
	}
}

// Encode serializes the provided sample
func (c *sampleCodec) Encode(sample common.SampleMetric) ([]byte, error) {
	var buff []byte
	enc := codec.NewEncoderBytes(&buff, c.handle)
	err := enc.Encode(c.transform(sample))
	if err != nil {
		return nil, fmt.Errorf("%w with codec %s", err, c.name)
	}

	return buff, nil
}

// Name returns the codec name
func (c *sampleCodec) Name() string {
	return c.name
}

// IsInterfaceNil returns true if the value under the interface is nil
func (c *sampleCodec) IsInterfaceNil() bool {
	return c == nil
}

// ToMetricData converts a sample into the JSON metric data shape, splitting the key=value tags
func ToMetricData(sample common.SampleMetric) common.MetricData {
	kv := make(map[string]string, len(sample.Tags))
	for _, tag := range sample.Tags {
		key, value, found := strings.Cut(tag, tagSeparator)
		if !found {
			continue
		}

		kv[key] = value
	}

	return common.MetricData{
		MetricDefinition: common.MetricDefinition{
			Key: sample.Name,
			Tags: common.TagSet{
				KV: kv,
				V:  make([]string, 0),
			},
			Meta: common.TagSet{
				KV: make(map[string]string),
				V:  make([]string, 0),
			},
		},
		Value:     sample.Value,
		Timestamp: sample.Time,
	}
}
