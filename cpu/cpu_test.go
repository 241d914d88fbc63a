package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Backseating-Committee-2k/BackseatSafeSystem2k/memory"
)

// testMachine builds a CPU wired to a small memory preloaded with the
// given instruction words.
func testMachine(codeWait, dataWait int, prog ...Instruction) (cp *Cpu, mem *memory.Memory) {
	mem = memory.NewMemory(256)
	mem.CodeWait = codeWait
	mem.DataWait = dataWait
	mem.Reset()

	for _, in := range prog {
		mem.Code = append(mem.Code, uint64(in))
	}

	cp = NewCpu(mem, mem)

	return
}

// runMachine steps until the machine halts, errors, or the step limit
// trips.
func runMachine(t *testing.T, cp *Cpu, limit int) (err error) {
	for range limit {
		err = cp.Step()
		if err != nil || cp.Halted() {
			return
		}
	}
	t.Fatalf("no halt within %v steps:\n%v", limit, cp)

	return
}

func TestCpuAdd(t *testing.T) {
	assert := assert.New(t)

	cp, _ := testMachine(0, 0,
		MakeImmInstruction(OP_LI, 5, 0),
		MakeImmInstruction(OP_LI, 3, 1),
		MakeRegInstruction(OP_ADD, 2, 0, 1),
		MakeRegInstruction(OP_HCF),
	)

	err := runMachine(t, cp, 100)
	assert.NoError(err)

	assert.Equal(uint32(5), cp.Registers[0])
	assert.Equal(uint32(3), cp.Registers[1])
	assert.Equal(uint32(8), cp.Registers[2])
	assert.False(cp.Carry)
	assert.False(cp.Zero)
	assert.True(cp.Halted())
	assert.NoError(cp.Fault)

	// Two cycles per instruction with a zero-wait memory.
	assert.Equal(8, cp.Ticks)
}

func TestCpuFlags(t *testing.T) {
	assert := assert.New(t)

	cp, _ := testMachine(0, 0,
		MakeImmInstruction(OP_LI, 0xffffffff, 0),
		MakeImmInstruction(OP_ADDI, 1, 1, 0),
		MakeRegInstruction(OP_HCF),
	)

	err := runMachine(t, cp, 100)
	assert.NoError(err)

	assert.Equal(uint32(0), cp.Registers[1])
	assert.True(cp.Carry)
	assert.True(cp.Zero)
}

func TestCpuLiKeepsFlags(t *testing.T) {
	assert := assert.New(t)

	// cmp sets carry and zero; li and mov must not disturb them.
	cp, _ := testMachine(0, 0,
		MakeRegInstruction(OP_CMP, 2, 0, 1),
		MakeImmInstruction(OP_LI, 7, 3),
		MakeRegInstruction(OP_MOV, 4, 3),
		MakeRegInstruction(OP_HCF),
	)

	err := runMachine(t, cp, 100)
	assert.NoError(err)

	assert.True(cp.Zero)
	assert.Equal(uint32(7), cp.Registers[3])
	assert.Equal(uint32(7), cp.Registers[4])
}

func TestCpuDivmodByZero(t *testing.T) {
	assert := assert.New(t)

	cp, _ := testMachine(0, 0,
		MakeImmInstruction(OP_LI, 7, 0),
		MakeRegInstruction(OP_DIVMOD, 2, 3, 0, 1),
		MakeRegInstruction(OP_HCF),
	)

	err := runMachine(t, cp, 100)
	assert.NoError(err)

	assert.Equal(uint32(0), cp.Registers[2])
	assert.Equal(uint32(7), cp.Registers[3])
	assert.True(cp.Carry)
	assert.True(cp.Zero)
}

func TestCpuMul64(t *testing.T) {
	assert := assert.New(t)

	cp, _ := testMachine(0, 0,
		MakeImmInstruction(OP_LI, 0xffffffff, 0),
		MakeImmInstruction(OP_LI, 0xffffffff, 1),
		MakeRegInstruction(OP_MUL, 2, 3, 0, 1),
		MakeRegInstruction(OP_HCF),
	)

	err := runMachine(t, cp, 100)
	assert.NoError(err)

	assert.Equal(uint32(0xfffffffe), cp.Registers[2])
	assert.Equal(uint32(0x00000001), cp.Registers[3])
	assert.False(cp.Carry)
	assert.False(cp.Zero)
}

func TestCpuLoadStore(t *testing.T) {
	assert := assert.New(t)

	cp, mem := testMachine(0, 0,
		MakeImmInstruction(OP_LI, 0xabcd, 0),
		MakeImmInstruction(OP_ST, 0x10, 0),
		MakeImmInstruction(OP_LD, 0x10, 1),
		MakeRegInstruction(OP_HCF),
	)

	err := runMachine(t, cp, 100)
	assert.NoError(err)

	assert.Equal(uint32(0xabcd), mem.Data[0x10])
	assert.Equal(uint32(0xabcd), cp.Registers[1])

	// li+hcf at two cycles, st+ld at four.
	assert.Equal(2+4+4+2, cp.Ticks)
}

func TestCpuLoadStoreIndirect(t *testing.T) {
	assert := assert.New(t)

	cp, mem := testMachine(0, 0,
		MakeImmInstruction(OP_LI, 0x20, 0),
		MakeImmInstruction(OP_LI, 0x1111, 1),
		MakeRegInstruction(OP_STR, 0, 1),
		MakeRegInstruction(OP_LDR, 2, 0),
		MakeRegInstruction(OP_HCF),
	)

	err := runMachine(t, cp, 100)
	assert.NoError(err)

	assert.Equal(uint32(0x1111), mem.Data[0x20])
	assert.Equal(uint32(0x1111), cp.Registers[2])
}

func TestCpuJump(t *testing.T) {
	assert := assert.New(t)

	// Writing register 255 is a control transfer: the write wins over
	// the implicit advance, so execution resumes at exactly the written
	// slot.
	cp, _ := testMachine(0, 0,
		MakeImmInstruction(OP_LI, 3, REG_INSTRUCTION_POINTER), // 0: jump 3
		MakeRegInstruction(OP_HCF),                            // 1: skipped
		MakeImmInstruction(OP_LI, 0xbad, 0),                   // 2: skipped
		MakeImmInstruction(OP_LI, 0x600d, 1),                  // 3:
		MakeRegInstruction(OP_HCF),                            // 4:
	)

	err := runMachine(t, cp, 100)
	assert.NoError(err)

	assert.Equal(uint32(0), cp.Registers[0])
	assert.Equal(uint32(0x600d), cp.Registers[1])
	assert.Equal(uint32(4), cp.Ip())
}

func TestCpuWaitStates(t *testing.T) {
	assert := assert.New(t)

	// The same program with and without wait states differs only in
	// cycle count, never in architectural result.
	prog := []Instruction{
		MakeImmInstruction(OP_LI, 0xabcd, 0),
		MakeImmInstruction(OP_ST, 0x10, 0),
		MakeImmInstruction(OP_LD, 0x10, 1),
		MakeRegInstruction(OP_ADD, 2, 0, 1),
		MakeRegInstruction(OP_HCF),
	}

	fast, _ := testMachine(0, 0, prog...)
	err := runMachine(t, fast, 1000)
	assert.NoError(err)

	slow, _ := testMachine(3, 2, prog...)
	err = runMachine(t, slow, 1000)
	assert.NoError(err)

	assert.Equal(fast.Registers, slow.Registers)
	assert.Equal(fast.Carry, slow.Carry)
	assert.Equal(fast.Zero, slow.Zero)

	// Each of the 5 fetches stretches by CodeWait cycles, each of the
	// 2 data accesses by DataWait cycles.
	assert.Equal(2+4+4+2+2, fast.Ticks)
	assert.Equal(fast.Ticks+5*3+2*2, slow.Ticks)
}

func TestCpuBadOpcode(t *testing.T) {
	assert := assert.New(t)

	cp, _ := testMachine(0, 0,
		Instruction(0x1234)<<48,
	)

	err := cp.Step()
	assert.NoError(err)
	err = cp.Step()
	assert.ErrorIs(err, ErrOpcode(0))
	assert.True(cp.Halted())
	assert.ErrorIs(cp.Fault, ErrOpcode(0))

	// The halt is permanent: further steps do nothing and do not
	// re-report the error.
	for range 10 {
		err = cp.Step()
		assert.NoError(err)
		assert.True(cp.Halted())
	}

	// Only reset leaves the halted state.
	cp.Reset()
	assert.False(cp.Halted())
	assert.NoError(cp.Fault)
	assert.Equal(uint32(0), cp.Ip())
}

func TestCpuHcfKeepsIp(t *testing.T) {
	assert := assert.New(t)

	cp, _ := testMachine(0, 0,
		MakeImmInstruction(OP_LI, 1, 0),
		MakeRegInstruction(OP_HCF),
	)

	err := runMachine(t, cp, 100)
	assert.NoError(err)

	// hcf halts without advancing: the IP still names the halt site.
	assert.Equal(uint32(1), cp.Ip())
}
