package memory

import (
	"encoding/binary"
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/Backseating-Committee-2k/BackseatSafeSystem2k/bus"
)

// Memory is a bus slave backing both ports: a 64-bit-wide instruction
// store addressed by instruction slot, and a 32-bit-wide data store
// addressed by word. Each port can be configured to stall transactions
// with a fixed number of busy cycles, which exercises the wait-state
// handshake of the core.
type Memory struct {
	Verbose bool // Set to enable verbose logging.

	CodeWait int // Busy cycles inserted per instruction fetch.
	DataWait int // Busy cycles inserted per data access.

	Code []uint64
	Data []uint32

	codeLeft int
	dataLeft int
}

// NewMemory creates a memory with the given number of 32-bit data words
// and no wait states.
func NewMemory(dataWords int) (mem *Memory) {
	mem = &Memory{
		Data: make([]uint32, dataWords),
	}
	mem.Reset()

	return
}

// Defines for the memory.
func (mem *Memory) Defines() iter.Seq2[string, string] {
	return maps.All(map[string]string{
		"DATA_WORDS": fmt.Sprintf("%v", len(mem.Data)),
	})
}

// Reset arms the wait-state counters. Call after changing CodeWait or
// DataWait.
func (mem *Memory) Reset() {
	mem.codeLeft = mem.CodeWait
	mem.dataLeft = mem.DataWait
}

// LoadImage replaces the instruction store with a raw memory image: a
// sequence of big-endian 64-bit words, no header. Execution starts at
// slot 0.
func (mem *Memory) LoadImage(image []byte) (err error) {
	if len(image)%8 != 0 {
		err = ErrImageTruncated
		return
	}

	mem.Code = make([]uint64, len(image)/8)
	for n := range mem.Code {
		mem.Code[n] = binary.BigEndian.Uint64(image[n*8:])
	}

	return
}

// InstrCycle samples the instruction-fetch port for one clock cycle.
// Fetches beyond the loaded image return zero, which decodes as a 'li r0'
// instruction.
func (mem *Memory) InstrCycle(req bus.InstrRequest) (resp bus.InstrResponse) {
	if !req.Read {
		mem.codeLeft = mem.CodeWait
		return
	}

	if mem.codeLeft > 0 {
		mem.codeLeft--
		resp.Busy = true
		return
	}
	mem.codeLeft = mem.CodeWait

	if int(req.Addr) < len(mem.Code) {
		resp.Data = mem.Code[req.Addr]
	} else if mem.Verbose {
		log.Printf("memory: fetch beyond image: %#x", req.Addr)
	}

	return
}

// DataCycle samples the data port for one clock cycle. Reads beyond the
// data store return zero; writes beyond it are dropped.
func (mem *Memory) DataCycle(req bus.DataRequest) (resp bus.DataResponse) {
	if !req.Read && !req.Write {
		mem.dataLeft = mem.DataWait
		return
	}

	if mem.dataLeft > 0 {
		mem.dataLeft--
		resp.Busy = true
		return
	}
	mem.dataLeft = mem.DataWait

	if int(req.Addr) >= len(mem.Data) {
		if mem.Verbose {
			log.Printf("memory: access beyond data store: %#x", req.Addr)
		}
		return
	}

	if req.Write {
		mem.Data[req.Addr] = req.Data
	} else {
		resp.Data = mem.Data[req.Addr]
	}

	return
}
