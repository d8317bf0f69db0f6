package testsCommon

import "github.com/iulianpascalau/aa-samples/services/metrics/common"

// CodecStub -
type CodecStub struct {
	EncodeHandler func(sample common.SampleMetric) ([]byte, error)
	NameValue     string
}

// Encode -
func (stub *CodecStub) Encode(sample common.SampleMetric) ([]byte, error) {
	if stub.EncodeHandler != nil {
		return stub.EncodeHandler(sample)
	}

	return []byte(sample.Name), nil
}

// Name -
func (stub *CodecStub) Name() string {
	return stub.NameValue
}

// IsInterfaceNil -
func (stub *CodecStub) IsInterfaceNil() bool {
	return stub == nil
}

// SampleGeneratorStub -
type SampleGeneratorStub struct {
	GenerateHandler func() common.SampleMetric
}

// Generate -
func (stub *SampleGeneratorStub) Generate() common.SampleMetric {
	if stub.GenerateHandler != nil {
		return stub.GenerateHandler()
	}

	return common.SampleMetric{Name: "samplemetric"}
}

// IsInterfaceNil -
func (stub *SampleGeneratorStub) IsInterfaceNil() bool {
	return stub == nil
}
