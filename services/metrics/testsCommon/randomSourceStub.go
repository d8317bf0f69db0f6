package testsCommon

// RandomSourceStub -
type RandomSourceStub struct {
	Float64Handler func() float64
	IntNHandler    func(n int) int
}

// Float64 -
func (stub *RandomSourceStub) Float64() float64 {
	if stub.Float64Handler != nil {
		return stub.Float64Handler()
	}

	return 0
}

// IntN -
func (stub *RandomSourceStub) IntN(n int) int {
	if stub.IntNHandler != nil {
		return stub.IntNHandler(n)
	}

	return 0
}
