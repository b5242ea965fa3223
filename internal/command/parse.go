package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/vk/mdrun/internal/value"
)

// Parse reads a command list. An unknown verb or an unreadable value fails
// the whole list; a malformed target path is recorded on its command and
// only fails when that command runs.
func Parse(text string) ([]Command, error) {
	var cmds []Command
	for i, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(strings.TrimSuffix(raw, "\r"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		c, err := ParseLine(line)
		if err != nil {
			return nil, &ParseError{Line: i + 1, Text: raw, Msg: err.Error()}
		}
		c.Line = i + 1
		cmds = append(cmds, c)
	}
	return cmds, nil
}

// ParseLines parses each entry as a single command. Entries may themselves
// span several lines.
func ParseLines(lines []string) ([]Command, error) {
	return Parse(strings.Join(lines, "\n"))
}

// ParseLine parses a single command.
func ParseLine(line string) (Command, error) {
	line = strings.TrimSpace(line)
	verb, rest := cut(line)
	c := Command{Op: Op(verb), Raw: line}

	switch c.Op {
	case OpSet, OpInc, OpDec, OpToggle:
	default:
		return Command{}, fmt.Errorf("unknown command %q", verb)
	}

	if !strings.HasPrefix(rest, "$") {
		return Command{}, fmt.Errorf("%s needs a $variable", verb)
	}
	target, n, err := value.ScanPath(rest)
	if err != nil {
		c.Err = err
		return c, nil
	}
	c.Target = target
	rest = strings.TrimSpace(rest[n:])
	if rest != "" && !unicode.IsSpace(rune(line[len(line)-len(rest)-1])) && rest[0] != '=' {
		c.Err = fmt.Errorf("%w: unexpected %q after %s", value.ErrInvalidPath, rest, target)
		return c, nil
	}

	switch c.Op {
	case OpToggle:
		if rest != "" {
			return Command{}, errors.New("toggle takes no value")
		}
	case OpInc, OpDec:
		if rest == "" {
			c.Arg = Operand{Literal: value.Int(1)}
			break
		}
		arg, err := parseOperand(rest)
		if err != nil {
			return Command{}, err
		}
		if arg.Ref == nil && arg.Literal.Kind() != value.KindNumber {
			return Command{}, fmt.Errorf("%s amount must be a number, got %s", verb, arg.Literal)
		}
		c.Arg = arg
	case OpSet:
		rest = strings.TrimSpace(strings.TrimPrefix(rest, "="))
		if rest == "" {
			return Command{}, errors.New("set needs a value")
		}
		arg, err := parseOperand(rest)
		if err != nil {
			return Command{}, err
		}
		c.Arg = arg
	}
	return c, nil
}

func parseOperand(s string) (Operand, error) {
	switch {
	case strings.HasPrefix(s, "$"):
		p, err := value.ParsePath(s)
		if err != nil {
			return Operand{}, err
		}
		return Operand{Ref: &p}, nil
	case s[0] == '\'':
		str, n, err := value.ScanQuoted(s)
		if err != nil {
			return Operand{}, fmt.Errorf("bad string: %w", err)
		}
		if n != len(s) {
			return Operand{}, fmt.Errorf("unexpected %q after string", s[n:])
		}
		return Operand{Literal: value.String(str)}, nil
	case isBareWord(s):
		if v, ok := keywordLiteral(s); ok {
			return Operand{Literal: v}, nil
		}
		return Operand{Literal: value.String(s)}, nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Operand{Literal: value.Number(f)}, nil
	}
	v, err := value.ParseJSON([]byte(s))
	if err != nil {
		return Operand{}, fmt.Errorf("cannot read value %q", s)
	}
	return Operand{Literal: v}, nil
}

func keywordLiteral(s string) (value.Value, bool) {
	switch s {
	case "true":
		return value.Bool(true), true
	case "false":
		return value.Bool(false), true
	case "null":
		return value.Null(), true
	}
	return value.Value{}, false
}

// isBareWord accepts unquoted single words such as `open` or `north-east`.
func isBareWord(s string) bool {
	for i, r := range s {
		switch {
		case unicode.IsLetter(r) || r == '_':
		case i > 0 && (unicode.IsDigit(r) || r == '-'):
		default:
			return false
		}
	}
	return s != ""
}

func cut(s string) (string, string) {
	s = strings.TrimSpace(s)
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(s[i:])
}
