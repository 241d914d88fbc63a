package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// Assembler is a single pass assembler for the .bsm assembly dialect.
type Assembler struct {
	Verbose    bool        // If set, verbosely logs the assembler actions.
	Statements []Statement // List of generated statements.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of jump labels to instruction slots.
	Equate    map[string]string // Map of equates.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value uint32, err error) {
	invert := false
	if word[0] == '~' {
		invert = true
		word = word[1:]
	}
	v64, err := strconv.ParseInt(word, 0, 33)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	if v64 <= 0xffffffff && v64 >= -int64(0x80000000) {
		if v64 < 0 {
			value = uint32(0xffffffff + (v64 + 1))
		} else {
			value = uint32(v64)
		}
	}

	if invert {
		value = ^value
	}

	return
}

// regOf returns the register index of a word: 'r0' through 'r255', or the
// 'sp' and 'ip' aliases for the reserved slots.
func (asm *Assembler) regOf(word string) (reg Reg, err error) {
	switch word {
	case "sp":
		reg = REG_STACK_POINTER
		return
	case "ip":
		reg = REG_INSTRUCTION_POINTER
		return
	}

	if len(word) < 2 || word[0] != 'r' {
		err = ErrRegisterInvalid(word)
		return
	}
	v64, err := strconv.ParseUint(word[1:], 10, 8)
	if err != nil {
		err = ErrRegisterInvalid(word)
		return
	}
	reg = Reg(v64)

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value uint32, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var value32 uint32
		value32, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt(int(value32))
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = uint32(st_int64)
	return
}

// parseLine parses a single line into opcode words.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do $() evaluations
	re := regexp.MustCompile(`\$\([^\$]*\)`)
	line = re.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%#v", value)
	})
	if err != nil {
		return
	}

	words = slices.DeleteFunc(strings.Split(line, " "), func(a string) bool { return len(a) == 0 })

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]int, 16)
		}
		asm.Label[label] = asm.currentIp()
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	return
}

// currentIp gets the current instruction slot.
func (asm *Assembler) currentIp() int {
	return len(asm.Statements)
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {

	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Statements = asm.Statements[:0]
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	// Final linking of jump labels.
	for n := range asm.Statements {
		st := &asm.Statements[n]

		if len(st.LinkLabel) == 0 {
			continue
		}
		ip, ok := asm.Label[st.LinkLabel]
		if !ok {
			err = ErrLabelMissing(st.LinkLabel)
			return
		}
		st.Instr = (st.Instr &^ Instruction(0xffffffff)) | Instruction(uint32(ip))
	}

	prog = &Program{
		Statements: slices.Clone(asm.Statements),
	}

	return
}

// opMap maps mnemonics to opcodes.
var opMap = map[string]Op{
	"li":     OP_LI,
	"ld":     OP_LD,
	"mov":    OP_MOV,
	"st":     OP_ST,
	"ldr":    OP_LDR,
	"str":    OP_STR,
	"hcf":    OP_HCF,
	"add":    OP_ADD,
	"sub":    OP_SUB,
	"sbc":    OP_SBC,
	"mul":    OP_MUL,
	"divmod": OP_DIVMOD,
	"and":    OP_AND,
	"or":     OP_OR,
	"xor":    OP_XOR,
	"not":    OP_NOT,
	"shl":    OP_SHL,
	"shr":    OP_SHR,
	"addi":   OP_ADDI,
	"subi":   OP_SUBI,
	"cmp":    OP_CMP,
}

// isLabelWord reports whether a word can only be a label reference.
func isLabelWord(word string) bool {
	c := word[0]
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var instr Instruction
	var label string
	emit := false

	// no-op
	if len(words) == 0 {
		return
	}

	initial_words := words

	defer func() {
		if !emit {
			return
		}
		st := Statement{LineNo: lineno, Ip: asm.currentIp(), Words: initial_words, Instr: instr, LinkLabel: label}
		asm.Statements = append(asm.Statements, st)
	}()

	// Alternate syntax substitutions
	switch {
	case len(words) == 2 && words[0] == "jump":
		// jump TARGET => li ip TARGET
		words = []string{"li", "ip", words[1]}
	default:
		// unchanged
	}

	op, ok := opMap[words[0]]
	if !ok {
		err = ErrOpcodeInvalid
		return
	}

	args := words[1:]
	want := op.NumRegs()
	if op.HasImmediate() {
		want += 1
	}
	if len(args) < want {
		err = ErrOperandMissing
		return
	}
	if len(args) > want {
		err = ErrOpcodeExtraArgs
		return
	}

	regs := make([]Reg, op.NumRegs())
	for n := range regs {
		regs[n], err = asm.regOf(args[n])
		if err != nil {
			return
		}
	}

	if op.HasImmediate() {
		word := args[len(args)-1]
		var imm uint32
		if isLabelWord(word) {
			// Resolved in the final linking pass.
			label = word
		} else {
			imm, err = asm.valueOf(word)
			if err != nil {
				return
			}
		}
		instr = MakeImmInstruction(op, imm, regs...)
	} else {
		instr = MakeRegInstruction(op, regs...)
	}
	emit = true

	return
}
