package bus

// InstrRequest is the master side of the instruction-fetch port: an address
// in instruction slots and a read-request line. The master holds the whole
// bundle steady, re-presenting it every cycle, until the slave answers with
// Busy deasserted.
type InstrRequest struct {
	Addr uint32 // Instruction slot index.
	Read bool   // Read-request line.
}

// InstrResponse is the slave side of the instruction-fetch port. Data is
// valid to sample only on a cycle where Busy is false and the request is
// asserted.
type InstrResponse struct {
	Data uint64 // 64-bit instruction word.
	Busy bool   // Wait-request: slave is not ready yet.
}

// DataRequest is the master side of the data port. Exactly one of Read and
// Write is asserted per transaction; Data carries the word to store on a
// write.
type DataRequest struct {
	Addr  uint32 // Data word address.
	Read  bool   // Read-request line.
	Write bool   // Write-request line.
	Data  uint32 // Write data, valid while Write is asserted.
}

// DataResponse is the slave side of the data port.
type DataResponse struct {
	Data uint32 // Read data.
	Busy bool   // Wait-request: slave is not ready yet.
}

// InstrSlave services the instruction-fetch port. InstrCycle is called once
// per clock cycle while the master asserts a request; the slave may answer
// Busy for zero or more cycles before completing the transaction. A slave
// that never deasserts Busy stalls the master indefinitely.
type InstrSlave interface {
	InstrCycle(req InstrRequest) InstrResponse
}

// DataSlave services the data port under the same wait-request handshake.
type DataSlave interface {
	DataCycle(req DataRequest) DataResponse
}
