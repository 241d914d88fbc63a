package cpu

// AluResult is the combinational output of the ALU: a primary result, a
// secondary result for the two-target operations (MUL high/low, DIVMOD
// quotient/remainder), and the carry/zero flag pair.
type AluResult struct {
	Value uint32 // Primary result: target register / product high / quotient.
	Extra uint32 // Secondary result: product low / remainder.
	Carry bool
	Zero  bool
}

// Alu evaluates a data-processing operation. It is a pure function of the
// operation, the two operand words, and the carry-in; carry-out is computed
// through a wider intermediate (33-bit for add/sub/shift, 64-bit for MUL)
// so no precision is lost. The flags are always written as a pair.
//
// For OP_NOT only lhs is used. For OP_ADDI/OP_SUBI the caller passes the
// immediate as rhs.
func Alu(op Op, lhs, rhs uint32, carry bool) (out AluResult) {
	switch op {
	case OP_ADD, OP_ADDI:
		wide := uint64(lhs) + uint64(rhs)
		out.Value = uint32(wide)
		out.Carry = (wide>>32)&1 != 0
	case OP_SUB, OP_SUBI:
		out.Value = lhs - rhs
		out.Carry = lhs < rhs // borrow
	case OP_SBC:
		sub := uint64(rhs)
		if carry {
			sub++
		}
		out.Value = uint32(uint64(lhs) - sub)
		out.Carry = uint64(lhs) < sub
	case OP_MUL:
		product := uint64(lhs) * uint64(rhs)
		out.Value = uint32(product >> 32)
		out.Extra = uint32(product)
		out.Zero = product == 0
		return // zero covers the full 64-bit product
	case OP_DIVMOD:
		if rhs == 0 {
			// Division by zero is signaled via carry, not a fault:
			// quotient 0, remainder passes the dividend through.
			out.Extra = lhs
			out.Carry = true
			out.Zero = true
			return
		}
		out.Value = lhs / rhs
		out.Extra = lhs % rhs
		out.Zero = out.Value == 0
		return // zero tracks the quotient only
	case OP_AND:
		out.Value = lhs & rhs
	case OP_OR:
		out.Value = lhs | rhs
	case OP_XOR:
		out.Value = lhs ^ rhs
	case OP_NOT:
		out.Value = ^lhs
	case OP_SHL:
		// 33-bit shifter: carry is the bit landing in position 32.
		wide := uint64(lhs) << rhs
		out.Value = uint32(wide)
		out.Carry = (wide>>32)&1 != 0
	case OP_SHR:
		// 33-bit shifter: carry is the last bit shifted out the bottom.
		wide := (uint64(lhs) << 1) >> rhs
		out.Value = uint32(wide >> 1)
		out.Carry = wide&1 != 0
	case OP_CMP:
		switch {
		case lhs < rhs:
			out.Value = 0xffffffff
			out.Carry = true
		case lhs == rhs:
			out.Value = 0
		default:
			out.Value = 1
		}
	}

	out.Zero = out.Value == 0

	return
}
