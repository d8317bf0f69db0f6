package testsCommon

// ProgressHandlerStub -
type ProgressHandlerStub struct {
	UpdateHandler func(anomalies int, total int)
}

// Update -
func (stub *ProgressHandlerStub) Update(anomalies int, total int) {
	if stub.UpdateHandler != nil {
		stub.UpdateHandler(anomalies, total)
	}
}

// IsInterfaceNil -
func (stub *ProgressHandlerStub) IsInterfaceNil() bool {
	return stub == nil
}
