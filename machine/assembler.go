// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package machine

import (
	"bufio"
	"fmt"
	"io"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// Assembler is a single pass macro assembler for the rr machine.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string   // Predefines
	Label     map[string]int      // Map of labels to memory addresses.
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros.

	origin    int // Address of the next generated byte.
	expansion int // Count of macro expansions, for unique local labels.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// regMap is a map of register names to register indexes.
var regMap = map[string]uint8{
	"sp": REGISTER_SP,
}

// opMap is a map of mnemonics to opcodes.
var opMap = map[string]Op{}

func init() {
	for r := range uint8(REGISTER_COUNT) {
		regMap[registerName(r)] = r
	}
	for op := OP_HLT; op <= OP_MDF; op++ {
		opMap[strings.ToLower(op.String())] = op
	}
}

// labelPattern matches words that may name a label.
var labelPattern = regexp.MustCompile(`^[A-Za-z_.][A-Za-z0-9_.]*$`)

// splitWords splits a line on white space and commas.
func splitWords(line string) []string {
	return strings.Fields(strings.ReplaceAll(line, ",", " "))
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value int64, err error) {
	invert := false
	if len(word) > 0 && word[0] == '~' {
		invert = true
		word = word[1:]
	}
	if len(word) == 0 {
		err = ErrParseNumber(word)
		return
	}
	if word[0] == '\'' && len(word) > 1 {
		// Character quotes should have been expanded into
		// values in parseLine()
		err = ErrParseCharacter(word[1 : len(word)-1])
		return
	}

	value, err = strconv.ParseInt(word, 0, 64)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	if invert {
		value = ^value & 0xff
	}

	return
}

// byteOf returns the value of a word that fits in a byte.
// Negative values down to -128 are stored as two's complement.
func (asm *Assembler) byteOf(word string) (value uint8, err error) {
	v64, err := asm.valueOf(word)
	if err != nil {
		return
	}

	if v64 < -0x80 || v64 > 0xff {
		err = ErrValueRange
		return
	}

	value = uint8(v64)
	return
}

// registerOf returns the register index named by a word.
func (asm *Assembler) registerOf(word string) (r uint8, err error) {
	r, ok := regMap[strings.ToLower(word)]
	if !ok {
		err = ErrRegisterInvalid
	}
	return
}

// flagsOf returns the two bit flag field value of a word.
func (asm *Assembler) flagsOf(word string) (bits uint8, err error) {
	v64, err := asm.valueOf(word)
	if err != nil {
		return
	}

	if v64 < 0 || v64 > 0b11 {
		err = ErrFlagsInvalid
		return
	}

	bits = uint8(v64)
	return
}

// targetOf returns the byte value of a word, or the label to link once
// all labels are known.
func (asm *Assembler) targetOf(word string) (value uint8, label string, err error) {
	value, err = asm.byteOf(word)
	if err == nil {
		return
	}

	if _, is_reg := regMap[strings.ToLower(word)]; is_reg || !labelPattern.MatchString(word) {
		return
	}

	err = nil
	label = word
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var v64 int64
		v64, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}
	for key, addr := range asm.Label {
		pred[key] = starlark.MakeInt(addr)
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
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// parseLine parses a single line as an opcode.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' evaluations
	re := regexp.MustCompile(`'\\?[^']'`)
	line = re.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "0":
				str = "\000"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	re = regexp.MustCompile(`\$\([^\$]*\)`)
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

	words = splitWords(line)

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if strings.ToLower(words[0]) == ".equ" {
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

		asm.Label[label] = asm.origin
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	// .macro processing
	macro, ok := asm.Macro[words[0]]
	if ok {
		name := words[0]

		args := words[1:]
		if len(args) != len(macro.Args) {
			err = ErrMacroSyntax
			return
		}
		// Turn args into equs
		old_equate := maps.Clone(asm.Equate)
		for n, arg := range macro.Args {
			asm.Equate[arg] = words[1+n]
		}
		defer func() { asm.Equate = old_equate }()

		asm.expansion++
		local := fmt.Sprintf("%v_%v_", name, asm.expansion)

		for n, line := range macro.Lines {
			lineno := macro.LineNo + n

			line = strings.ReplaceAll(line, "@", local)
			words, err = asm.parseLine(line, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				return
			}

			err = asm.parseWords(words, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				return
			}
		}

		words = nil
		return
	}

	return
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {

	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Label = make(map[string]int, 16)
	asm.Opcode = asm.Opcode[:0]
	asm.Macro = make(map[string](*Macro))
	asm.Equate = maps.Clone(sysEquate)
	maps.Copy(asm.Equate, _machine_defines)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}
	asm.origin = 0
	asm.expansion = 0

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			logrus.Debugf("asm: %v: %v", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])
		words := splitWords(line)
		directive := ""
		if len(words) > 0 {
			directive = strings.ToLower(words[0])
		}

		// .macro NAME arg...
		if directive == ".macro" {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(words) < 2 {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[words[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
			}
			if len(words) > 2 {
				macro.Args = words[2:]
			}
			asm.Macro[words[1]] = macro
			continue
		}

		if directive == ".endm" {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	// Final linking of labels.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]

		if len(op.LinkLabel) == 0 {
			continue
		}
		lineno = op.LineNo
		line = strings.Join(op.Words, " ")

		addr, ok := asm.Label[op.LinkLabel]
		if !ok {
			err = ErrLabelMissing(op.LinkLabel)
			return
		}
		if addr >= MEMORY_SIZE {
			err = ErrTargetInvalid
			return
		}
		op.Bytes[len(op.Bytes)-1] = uint8(addr)
	}

	// Every byte must land in memory exactly once.
	var used [MEMORY_SIZE]bool
	for _, op := range asm.Opcode {
		lineno = op.LineNo
		line = strings.Join(op.Words, " ")
		for n := range op.Bytes {
			pc := op.Pc + n
			if pc >= MEMORY_SIZE {
				err = ErrProgramOverflow
				return
			}
			if used[pc] {
				err = ErrProgramOverlap
				return
			}
			used[pc] = true
		}
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
	}

	return
}

// pseudoMap maps pseudo-instructions to their opcode and leading operands.
var pseudoMap = map[string][]string{
	"jmp": {"bra", "0b00", "0b00"},
	"bz":  {"bra", "0b10", "0b10"},
	"bnz": {"bra", "0b10", "0b00"},
	"bc":  {"bra", "0b01", "0b01"},
	"bnc": {"bra", "0b01", "0b00"},
	"sez": {"mdf", "0b10", "0b10"},
	"clz": {"mdf", "0b10", "0b00"},
	"sec": {"mdf", "0b01", "0b01"},
	"clc": {"mdf", "0b01", "0b00"},
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var bytes []uint8
	var label string
	var data bool

	// no-op
	if len(words) == 0 {
		return
	}

	initial_words := words

	defer func() {
		if err != nil || len(bytes) == 0 {
			return
		}
		opcode := Opcode{LineNo: lineno, Pc: asm.origin, Words: initial_words, Bytes: bytes, LinkLabel: label, Data: data}
		asm.Opcode = append(asm.Opcode, opcode)
		asm.origin += len(bytes)
	}()

	mnemonic := strings.ToLower(words[0])
	args := words[1:]

	// Alternate syntax substitutions
	pseudo, ok := pseudoMap[mnemonic]
	if ok {
		mnemonic = pseudo[0]
		args = append(slices.Clone(pseudo[1:]), args...)
	}

	switch mnemonic {
	case ".org":
		if len(args) != 1 {
			err = ErrOriginSyntax
			return
		}
		var v64 int64
		v64, err = asm.valueOf(args[0])
		if err != nil {
			return
		}
		if v64 < 0 || v64 >= MEMORY_SIZE {
			err = ErrValueRange
			return
		}
		asm.origin = int(v64)
		return
	case ".byte":
		if len(args) == 0 {
			err = ErrOpcodeValueMissing
			return
		}
		for _, arg := range args {
			var value uint8
			value, err = asm.byteOf(arg)
			if err != nil {
				return
			}
			bytes = append(bytes, value)
		}
		data = true
		return
	}

	op, ok := opMap[mnemonic]
	if !ok {
		err = ErrInstructionInvalid
		return
	}

	shape := op.Shape()
	if len(args) < shape.Arity() {
		err = ErrOpcodeValueMissing
		return
	}
	if len(args) > shape.Arity() {
		err = ErrOpcodeExtraArgs
		return
	}

	var field [3]uint8
	switch shape {
	case SHAPE_NONE:
		// no operands
	case SHAPE_RST, SHAPE_RS, SHAPE_R:
		for n, arg := range args {
			field[n], err = asm.registerOf(arg)
			if err != nil {
				return
			}
		}
	case SHAPE_R_BYTE:
		field[0], err = asm.registerOf(args[0])
		if err != nil {
			return
		}
		field[1], label, err = asm.targetOf(args[1])
	case SHAPE_TARGET:
		field[0], label, err = asm.targetOf(args[0])
	case SHAPE_FLAGS_TARGET, SHAPE_FLAGS:
		for n, arg := range args[:2] {
			field[n], err = asm.flagsOf(arg)
			if err != nil {
				return
			}
		}
		if shape == SHAPE_FLAGS_TARGET {
			field[2], label, err = asm.targetOf(args[2])
		}
	}
	if err != nil {
		return
	}

	code := MakeCode(op, field[:]...).Bytes()
	bytes = code[:]

	return
}
