package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Backseating-Committee-2k/BackseatSafeSystem2k/memory"
)

func FuzzCpu(f *testing.F) {
	f.Add(uint64(MakeRegInstruction(OP_HCF)))
	f.Add(uint64(MakeImmInstruction(OP_LI, 0xffffffff, REG_INSTRUCTION_POINTER)))
	f.Add(uint64(MakeImmInstruction(OP_LD, 0xffffffff, 0)))
	f.Add(uint64(MakeRegInstruction(OP_DIVMOD, 0, 1, 2, 3)))
	f.Add(uint64(0xffff) << 48)

	f.Fuzz(func(t *testing.T, word uint64) {
		assert := assert.New(t)

		mem := memory.NewMemory(64)
		mem.Code = []uint64{word, uint64(MakeRegInstruction(OP_HCF))}
		cp := NewCpu(mem, mem)

		var err error
		for range 16 {
			err = cp.Step()
			if err != nil || cp.Halted() {
				break
			}
		}

		if op := Instruction(word).Op(); !op.Valid() {
			assert.ErrorIs(err, ErrOpcode(0))
			assert.True(cp.Halted())
			assert.NotNil(cp.Fault)
		} else {
			assert.NoError(err)
		}
	})
}
