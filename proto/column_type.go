package proto

import "strings"

// ColumnType is a Type Descriptor (§3): a validated type-name string. Two
// descriptors compare equal iff their canonical names are byte-equal, so
// ColumnType intentionally stays a plain string rather than a struct — the
// invariant is then just Go string equality.
type ColumnType string

// Base kind names, usable both as bare ColumnType values and as the
// left-hand side of Sub/Array/With.
const (
	ColumnTypeNone           ColumnType = ""
	ColumnTypeInt8           ColumnType = "Int8"
	ColumnTypeInt16          ColumnType = "Int16"
	ColumnTypeInt32          ColumnType = "Int32"
	ColumnTypeInt64          ColumnType = "Int64"
	ColumnTypeInt128         ColumnType = "Int128"
	ColumnTypeInt256         ColumnType = "Int256"
	ColumnTypeUInt8          ColumnType = "UInt8"
	ColumnTypeUInt16         ColumnType = "UInt16"
	ColumnTypeUInt32         ColumnType = "UInt32"
	ColumnTypeUInt64         ColumnType = "UInt64"
	ColumnTypeUInt128        ColumnType = "UInt128"
	ColumnTypeUInt256        ColumnType = "UInt256"
	ColumnTypeFloat32        ColumnType = "Float32"
	ColumnTypeFloat64        ColumnType = "Float64"
	ColumnTypeString         ColumnType = "String"
	ColumnTypeFixedString    ColumnType = "FixedString"
	ColumnTypeDate           ColumnType = "Date"
	ColumnTypeDateTime       ColumnType = "DateTime"
	ColumnTypeDateTime64     ColumnType = "DateTime64"
	ColumnTypeArray          ColumnType = "Array"
	ColumnTypeNullable       ColumnType = "Nullable"
	ColumnTypeLowCardinality ColumnType = "LowCardinality"
	ColumnTypeMap            ColumnType = "Map"
	ColumnTypeTuple          ColumnType = "Tuple"
	ColumnTypeEnum8          ColumnType = "Enum8"
	ColumnTypeEnum16         ColumnType = "Enum16"
	ColumnTypeDecimal        ColumnType = "Decimal"
	ColumnTypeDecimal32      ColumnType = "Decimal32"
	ColumnTypeDecimal64      ColumnType = "Decimal64"
	ColumnTypeDecimal128     ColumnType = "Decimal128"
	ColumnTypeDecimal256     ColumnType = "Decimal256"
	ColumnTypeUUID           ColumnType = "UUID"
	ColumnTypeIPv4           ColumnType = "IPv4"
	ColumnTypeIPv6           ColumnType = "IPv6"
	ColumnTypeBool           ColumnType = "Bool"
)

// Base returns the type name without its parenthesized argument list.
func (c ColumnType) Base() ColumnType {
	if i := strings.IndexByte(string(c), '('); i >= 0 {
		return ColumnType(c[:i])
	}
	return c
}

// args returns the raw top-level argument strings (unparsed, whitespace
// preserved) inside the outermost parens, or nil if c has none.
func (c ColumnType) args() []string {
	s := string(c)
	i := strings.IndexByte(s, '(')
	if i < 0 || s[len(s)-1] != ')' {
		return nil
	}
	return splitTopLevelArgs(s[i+1 : len(s)-1])
}

// Elem returns the inner type of a single-parameter wrapper kind (Array,
// Nullable, LowCardinality); ColumnTypeNone otherwise.
func (c ColumnType) Elem() ColumnType {
	switch c.Base() {
	case ColumnTypeArray, ColumnTypeNullable, ColumnTypeLowCardinality:
	default:
		return ColumnTypeNone
	}
	a := c.args()
	if len(a) != 1 {
		return ColumnTypeNone
	}
	return ColumnType(strings.TrimSpace(a[0]))
}

// IsArray reports whether c's base kind is Array.
func (c ColumnType) IsArray() bool { return c.Base() == ColumnTypeArray }

// IsNullable reports whether c's base kind is Nullable.
func (c ColumnType) IsNullable() bool { return c.Base() == ColumnTypeNullable }

// IsLowCardinality reports whether c's base kind is LowCardinality.
func (c ColumnType) IsLowCardinality() bool { return c.Base() == ColumnTypeLowCardinality }

// Array wraps c as Array(c).
func (c ColumnType) Array() ColumnType { return ColumnTypeArray.Sub(c) }

// Nullable wraps c as Nullable(c).
func (c ColumnType) Nullable() ColumnType { return ColumnTypeNullable.Sub(c) }

// Sub joins elems as c's parenthesized argument list, e.g.
// ColumnTypeArray.Sub(ColumnTypeInt32) == "Array(Int32)".
func (c ColumnType) Sub(elems ...ColumnType) ColumnType {
	if len(elems) == 0 {
		return c
	}
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = string(e)
	}
	return ColumnType(string(c) + "(" + strings.Join(parts, ", ") + ")")
}

// With joins raw argument strings as c's parenthesized argument list,
// unlike Sub it does not typecheck its arguments: callers format literals
// (quoted timezone/enum names, bare integers) themselves.
func (c ColumnType) With(args ...string) ColumnType {
	if len(args) == 0 {
		return c
	}
	return ColumnType(string(c) + "(" + strings.Join(args, ", ") + ")")
}

// String satisfies fmt.Stringer.
func (c ColumnType) String() string { return string(c) }

// decimalBits maps the fixed-width Decimal aliases to (maxPrecision,
// defaultScale) used only when canonicalizing a bare "DecimalNNN" (no
// explicit precision/scale) against an explicit "Decimal(P,S)" for
// Conflicts. The default scale is maxPrecision/2, matching the only
// combination exercised by callers (Decimal256 <-> Decimal(76,38)).
var decimalBits = map[ColumnType][2]int{
	ColumnTypeDecimal32:  {9, 4},
	ColumnTypeDecimal64:  {18, 9},
	ColumnTypeDecimal128: {38, 19},
	ColumnTypeDecimal256: {76, 38},
}

type canonicalType struct {
	base string
	args []string
}

func canonicalize(c ColumnType) canonicalType {
	raw := stripInsignificantSpace(string(c))
	ct := ColumnType(raw)
	base := string(ct.Base())
	args := ct.args()

	switch base {
	case "Enum8":
		return canonicalType{base: "Int8"}
	case "Enum16":
		return canonicalType{base: "Int16"}
	}
	if len(args) == 0 {
		if bits, ok := decimalBits[ColumnType(base)]; ok {
			return canonicalType{
				base: "Decimal",
				args: []string{itoa(bits[0]), itoa(bits[1])},
			}
		}
	}
	trimmed := make([]string, len(args))
	for i, a := range args {
		trimmed[i] = strings.TrimSpace(a)
	}
	return canonicalType{base: base, args: trimmed}
}

func itoa(v int) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// stripInsignificantSpace removes whitespace that is not inside a
// single-quoted literal, so "Map(String, String)" and "Map(String,String)"
// canonicalize identically while `'Europe/Moscow'`-style literals are left
// untouched.
func stripInsignificantSpace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inQuote := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch == '\'' && (i == 0 || s[i-1] != '\\'):
			inQuote = !inQuote
			b.WriteByte(ch)
		case !inQuote && (ch == ' ' || ch == '\t' || ch == '\n'):
			// skip
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}

// splitTopLevelArgs splits s on commas that are not nested inside parens
// or a quoted literal.
func splitTopLevelArgs(s string) []string {
	if s == "" {
		return nil
	}
	var (
		parts   []string
		depth   int
		inQuote bool
		start   int
	)
	for i := 0; i < len(s); i++ {
		switch ch := s[i]; {
		case ch == '\'' && (i == 0 || s[i-1] != '\\'):
			inQuote = !inQuote
		case inQuote:
		case ch == '(':
			depth++
		case ch == ')':
			depth--
		case ch == ',' && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	parts = append(parts, s[start:])
	return parts
}

// Conflicts reports whether a and b cannot describe the same on-wire
// column: different base kinds always conflict; DateTime ignores its
// timezone argument; a bare (argument-less) side is always compatible with
// a parameterized one of the same base; Enum8/Enum16 are compatible with
// their underlying integer type; otherwise arguments are compared
// pairwise, recursively, after whitespace and Decimal-alias
// canonicalization.
func (a ColumnType) Conflicts(b ColumnType) bool {
	ca, cb := canonicalize(a), canonicalize(b)
	if ca.base != cb.base {
		return true
	}
	if ca.base == "DateTime" || ca.base == "DateTime64" {
		return false
	}
	if len(ca.args) == 0 || len(cb.args) == 0 {
		return false
	}
	if len(ca.args) != len(cb.args) {
		return true
	}
	for i := range ca.args {
		if ColumnType(ca.args[i]).Conflicts(ColumnType(cb.args[i])) {
			return true
		}
	}
	return false
}
