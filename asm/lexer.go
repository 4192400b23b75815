package asm

import (
	"strconv"
	"strings"

	"github.com/go-asc/asc2000/isa"
)

const (
	maxLineLength  = 80
	maxLabelLength = 31
)

// splitLabel separates a leading "label:" from the rest of the line, if
// present. A label must start with an alphabetic character and contain
// only letters and digits.
func splitLabel(file string, line fstring) (label string, rest fstring, labelErr *AssemblerError) {
	if !line.startsWith(labelStartChar) {
		return "", line, nil
	}
	word, remain := line.consumeWhile(labelChar)
	if !remain.startsWithChar(':') {
		return "", line, nil
	}
	remain = remain.consume(1)

	if len(word.str) > maxLabelLength {
		return "", remain.consumeWhitespace(), newError(file, line, CodeOverflowLabel,
			"label '%s' exceeds %d characters", word.str, maxLabelLength)
	}
	return word.str, remain.consumeWhitespace(), nil
}

// splitFields splits a comma-separated operand list into its individual
// fields, validating comma placement the way the original implementation's
// checkCommas routine did.
func splitFields(file string, line fstring) ([]fstring, *AssemblerError) {
	trimmed := strings.TrimSpace(line.str)
	if trimmed == "" {
		return nil, nil
	}
	if strings.HasPrefix(trimmed, ",") {
		return nil, newError(file, line, CodeCommaAtStart, "operand list starts with a comma")
	}
	if strings.HasSuffix(trimmed, ",") {
		return nil, newError(file, line, CodeCommaAtEnd, "operand list ends with a comma")
	}

	var fields []fstring
	remain := line.consumeWhitespace()
	for {
		var field fstring
		field, remain = remain.consumeUntilChar(',')
		field = field.trunc(len(strings.TrimRight(field.str, " \t")))
		fields = append(fields, field)
		if remain.isEmpty() {
			break
		}
		remain = remain.consume(1) // the comma
		if remain.startsWithChar(',') {
			return nil, newError(file, remain, CodeConsecutiveCommas, "consecutive commas")
		}
		remain = remain.consumeWhitespace()
		if remain.isEmpty() {
			return nil, newError(file, remain, CodeCommaAtEnd, "operand list ends with a comma")
		}
	}
	return fields, nil
}

// parseOperand classifies a single operand token as register-direct
// (@r0..@r7), immediate (an optionally-signed integer), or direct (a
// label reference) -- in that order, matching the original
// implementation's getRegister/isNumeric/fallthrough classification.
func parseOperand(file string, tok fstring) (*operandRef, *AssemblerError) {
	s := strings.TrimSpace(tok.str)
	switch {
	case isRegisterOperand(s):
		return &operandRef{mode: isa.Register, text: tok, reg: int(s[2] - '0')}, nil

	case isImmediateOperand(s):
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, newError(file, tok, CodeInvalidAddressingMode,
				"invalid immediate operand '%s'", s)
		}
		return &operandRef{mode: isa.Immediate, text: tok, value: n}, nil

	default:
		if s == "" || !labelStartChar(s[0]) {
			return nil, newError(file, tok, CodeInvalidAddressingMode,
				"invalid operand '%s'", s)
		}
		return &operandRef{mode: isa.Direct, text: tok}, nil
	}
}

// isRegisterOperand reports whether s is a register reference, "@rN"
// for N in 0..7.
func isRegisterOperand(s string) bool {
	return len(s) == 3 && s[0] == '@' && s[1] == 'r' && s[2] >= '0' && s[2] <= '7'
}

// isImmediateOperand reports whether s is an optionally-signed decimal
// integer: [+-]?[0-9]+.
func isImmediateOperand(s string) bool {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	if i == len(s) {
		return false
	}
	for ; i < len(s); i++ {
		if !decimal(s[i]) {
			return false
		}
	}
	return true
}

func isDirective(word string) bool {
	switch word {
	case ".data", ".string", ".entry", ".extern":
		return true
	}
	return false
}
