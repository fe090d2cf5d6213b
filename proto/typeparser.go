package proto

import (
	"strings"

	"github.com/go-faster/errors"
)

// typeExpr is the parsed form of a type expression (§4.B grammar), before
// it is re-rendered as a canonical ColumnType string. Keeping a structured
// intermediate form (rather than re-parsing ColumnType strings everywhere)
// makes Nullable-composition validation and Enum literal-table extraction
// straightforward.
type typeExpr struct {
	name string
	args []typeArg
}

// typeArg is either a nested type or a literal (integer or quoted string),
// per the Arg := Type | Literal production.
type typeArg struct {
	typ     *typeExpr
	literal string // raw literal text, including quotes for strings
}

type typeLexer struct {
	s   string
	pos int
}

func newTypeLexer(s string) *typeLexer { return &typeLexer{s: s} }

func (l *typeLexer) skipSpace() {
	for l.pos < len(l.s) && (l.s[l.pos] == ' ' || l.s[l.pos] == '\t' || l.s[l.pos] == '\n') {
		l.pos++
	}
}

func (l *typeLexer) peek() byte {
	if l.pos >= len(l.s) {
		return 0
	}
	return l.s[l.pos]
}

func (l *typeLexer) eof() bool {
	l.skipSpace()
	return l.pos >= len(l.s)
}

// readIdent reads an identifier: a run of letters, digits and underscores.
// A leading digit is not rejected here; argument positions that start with a
// digit are read by readLiteral instead.
func (l *typeLexer) readIdent() (string, error) {
	l.skipSpace()
	start := l.pos
	for l.pos < len(l.s) {
		c := l.s[l.pos]
		isAlnum := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_'
		if !isAlnum {
			break
		}
		l.pos++
	}
	if start == l.pos {
		return "", errors.Errorf("type parse: expected identifier at %d in %q", start, l.s)
	}
	return l.s[start:l.pos], nil
}

// readQuoted reads a single-quoted literal, honoring \\ and \' escapes, and
// returns the literal including its surrounding quotes (callers that need
// the unescaped value call unquote).
func (l *typeLexer) readQuoted() (string, error) {
	l.skipSpace()
	if l.peek() != '\'' {
		return "", errors.Errorf("type parse: expected quote at %d in %q", l.pos, l.s)
	}
	start := l.pos
	l.pos++
	for l.pos < len(l.s) {
		switch l.s[l.pos] {
		case '\\':
			l.pos += 2
			continue
		case '\'':
			l.pos++
			return l.s[start:l.pos], nil
		}
		l.pos++
	}
	return "", errors.Errorf("type parse: unterminated quote starting at %d in %q", start, l.s)
}

func unquote(lit string) string {
	if len(lit) < 2 || lit[0] != '\'' {
		return lit
	}
	inner := lit[1 : len(lit)-1]
	var b strings.Builder
	b.Grow(len(inner))
	for i := 0; i < len(inner); i++ {
		if inner[i] == '\\' && i+1 < len(inner) {
			i++
			b.WriteByte(inner[i])
			continue
		}
		b.WriteByte(inner[i])
	}
	return b.String()
}

// readLiteral reads an integer literal (a run of digits, optionally signed)
// or a quoted string literal.
func (l *typeLexer) readLiteral() (string, error) {
	l.skipSpace()
	if l.peek() == '\'' {
		return l.readQuoted()
	}
	start := l.pos
	if l.peek() == '-' {
		l.pos++
	}
	digitsStart := l.pos
	for l.pos < len(l.s) && l.s[l.pos] >= '0' && l.s[l.pos] <= '9' {
		l.pos++
	}
	if l.pos == digitsStart {
		return "", errors.Errorf("type parse: expected literal at %d in %q", start, l.s)
	}
	return l.s[start:l.pos], nil
}

func (l *typeLexer) expect(c byte) error {
	l.skipSpace()
	if l.peek() != c {
		return errors.Errorf("type parse: expected %q at %d in %q", c, l.pos, l.s)
	}
	l.pos++
	return nil
}

// parseTypeExpr implements: Type := Name ( '(' ArgList ')' )? .
func parseTypeExpr(l *typeLexer) (*typeExpr, error) {
	name, err := l.readIdent()
	if err != nil {
		return nil, err
	}
	e := &typeExpr{name: name}
	l.skipSpace()
	if l.peek() != '(' {
		return e, nil
	}
	l.pos++ // consume '('
	for {
		l.skipSpace()
		if l.peek() == ')' {
			break
		}
		arg, err := parseArg(l)
		if err != nil {
			return nil, err
		}
		e.args = append(e.args, arg)
		l.skipSpace()
		if l.peek() == ',' {
			l.pos++
			continue
		}
		break
	}
	if err := l.expect(')'); err != nil {
		return nil, err
	}
	return e, nil
}

// Enum literal tables look like 'name' = int, which does not fit the plain
// Type|Literal alternative; parseArg special-cases the "= int" suffix.
func parseArg(l *typeLexer) (typeArg, error) {
	l.skipSpace()
	if l.peek() == '\'' {
		lit, err := l.readQuoted()
		if err != nil {
			return typeArg{}, err
		}
		l.skipSpace()
		if l.peek() == '=' {
			l.pos++
			l.skipSpace()
			n, err := l.readLiteral()
			if err != nil {
				return typeArg{}, err
			}
			return typeArg{literal: lit + " = " + n}, nil
		}
		return typeArg{literal: lit}, nil
	}
	if isDigitOrMinus(l.peek()) {
		n, err := l.readLiteral()
		if err != nil {
			return typeArg{}, err
		}
		return typeArg{literal: n}, nil
	}
	sub, err := parseTypeExpr(l)
	if err != nil {
		return typeArg{}, err
	}
	return typeArg{typ: sub}, nil
}

func isDigitOrMinus(c byte) bool { return c == '-' || (c >= '0' && c <= '9') }

// ParseType parses a ClickHouse type expression into its canonical
// ColumnType form, rejecting Nullable wrapping a composite type per §4.B.
func ParseType(expr string) (ColumnType, error) {
	l := newTypeLexer(expr)
	e, err := parseTypeExpr(l)
	if err != nil {
		return "", err
	}
	if !l.eof() {
		return "", errors.Errorf("type parse: trailing input at %d in %q", l.pos, expr)
	}
	if err := validateComposition(e); err != nil {
		return "", err
	}
	return renderTypeExpr(e), nil
}

func validateComposition(e *typeExpr) error {
	for _, a := range e.args {
		if a.typ != nil {
			if err := validateComposition(a.typ); err != nil {
				return err
			}
		}
	}
	if e.name != "Nullable" || len(e.args) != 1 || e.args[0].typ == nil {
		return nil
	}
	switch e.args[0].typ.name {
	case "Array", "Map", "Tuple", "LowCardinality":
		return errors.Wrapf(ErrUnsupportedComposition, "Nullable(%s)", e.args[0].typ.name)
	}
	return nil
}

func renderTypeExpr(e *typeExpr) ColumnType {
	if len(e.args) == 0 {
		return ColumnType(e.name)
	}
	parts := make([]string, len(e.args))
	for i, a := range e.args {
		if a.typ != nil {
			parts[i] = string(renderTypeExpr(a.typ))
		} else {
			parts[i] = a.literal
		}
	}
	return ColumnType(e.name + "(" + strings.Join(parts, ", ") + ")")
}
