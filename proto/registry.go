package proto

import (
	"strings"

	"github.com/go-faster/errors"
)

// ErrUnknownType is returned by TypeRegistry.NewColumn when no factory is
// registered for a type's base kind.
var ErrUnknownType = errors.New("proto: unknown column type")

// ColumnFactory builds an empty column for a parsed ColumnType. It receives
// the full (possibly parameterized) type so composite kinds (Array,
// Nullable, Tuple, Map, Enum8/16, LowCardinality, FixedString, Decimal,
// DateTime/DateTime64) can build their inner columns recursively.
type ColumnFactory func(t ColumnType, reg *TypeRegistry) (Column, error)

// TypeRegistry maps a type's base kind name to the factory that builds a
// column for it (§4.B: "pluggable ... exact" case-sensitive lookup).
// Mutation happens only at process init via RegisterColumnFactory; lookup
// is safe for concurrent use once registration is done.
type TypeRegistry struct {
	factories map[string]ColumnFactory
}

// NewTypeRegistry returns an empty registry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{factories: make(map[string]ColumnFactory)}
}

// Register installs fn as the factory for base kind name, overwriting any
// existing registration — later registrations win, matching the teacher's
// init-time self-registration convention.
func (r *TypeRegistry) Register(name string, fn ColumnFactory) {
	r.factories[name] = fn
}

// NewColumn builds an empty column for t, dispatching on its base kind.
func (r *TypeRegistry) NewColumn(t ColumnType) (Column, error) {
	base := string(t.Base())
	fn, ok := r.factories[base]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownType, "%q", base)
	}
	return fn(t, r)
}

// defaultRegistry is the package-level registry used by NewColumn.
var defaultRegistry = NewTypeRegistry()

// RegisterColumnFactory installs fn as the default registry's factory for
// base kind name. This file's init() calls it for every built-in kind.
func RegisterColumnFactory(name string, fn ColumnFactory) {
	defaultRegistry.Register(name, fn)
}

// NewColumn builds an empty column for t using the default registry.
func NewColumn(t ColumnType) (Column, error) {
	return defaultRegistry.NewColumn(t)
}

func newInnerColumn(reg *TypeRegistry, t ColumnType) (Columnar0, error) {
	col, err := reg.NewColumn(t)
	if err != nil {
		return nil, err
	}
	c, ok := col.(Columnar0)
	if !ok {
		return nil, errors.Errorf("proto: %q column does not implement ColInput+ColResult", t)
	}
	return c, nil
}

func init() {
	RegisterColumnFactory("UInt8", func(ColumnType, *TypeRegistry) (Column, error) { return new(ColUInt8), nil })
	RegisterColumnFactory("Int8", func(ColumnType, *TypeRegistry) (Column, error) { return new(ColInt8), nil })
	RegisterColumnFactory("UInt16", func(ColumnType, *TypeRegistry) (Column, error) { return new(ColUInt16), nil })
	RegisterColumnFactory("Int16", func(ColumnType, *TypeRegistry) (Column, error) { return new(ColInt16), nil })
	RegisterColumnFactory("UInt32", func(ColumnType, *TypeRegistry) (Column, error) { return new(ColUInt32), nil })
	RegisterColumnFactory("Int32", func(ColumnType, *TypeRegistry) (Column, error) { return new(ColInt32), nil })
	RegisterColumnFactory("UInt64", func(ColumnType, *TypeRegistry) (Column, error) { return new(ColUInt64), nil })
	RegisterColumnFactory("Int64", func(ColumnType, *TypeRegistry) (Column, error) { return new(ColInt64), nil })
	RegisterColumnFactory("Float32", func(ColumnType, *TypeRegistry) (Column, error) { return new(ColFloat32), nil })
	RegisterColumnFactory("Float64", func(ColumnType, *TypeRegistry) (Column, error) { return new(ColFloat64), nil })
	RegisterColumnFactory("Bool", func(ColumnType, *TypeRegistry) (Column, error) { return new(ColBool), nil })
	RegisterColumnFactory("String", func(ColumnType, *TypeRegistry) (Column, error) { return new(ColStr), nil })
	RegisterColumnFactory("UUID", func(ColumnType, *TypeRegistry) (Column, error) { return new(ColUUID), nil })
	RegisterColumnFactory("IPv4", func(ColumnType, *TypeRegistry) (Column, error) { return new(ColIPv4), nil })
	RegisterColumnFactory("IPv6", func(ColumnType, *TypeRegistry) (Column, error) { return new(ColIPv6), nil })
	RegisterColumnFactory("Date", func(ColumnType, *TypeRegistry) (Column, error) { return new(ColDate), nil })

	RegisterColumnFactory("FixedString", func(t ColumnType, _ *TypeRegistry) (Column, error) {
		args := t.args()
		if len(args) != 1 {
			return nil, errors.Errorf("FixedString: expected 1 argument, got %d", len(args))
		}
		n, err := parseSize(strings.TrimSpace(args[0]))
		if err != nil {
			return nil, err
		}
		if n == 128 {
			return new(ColFixedStr128), nil
		}
		return NewFixedStr(n), nil
	})

	RegisterColumnFactory("DateTime", func(t ColumnType, _ *TypeRegistry) (Column, error) {
		c := new(ColDateTime)
		if args := t.args(); len(args) == 1 {
			c.WithTimezone(unquote(strings.TrimSpace(args[0])))
		}
		return c, nil
	})

	RegisterColumnFactory("DateTime64", func(t ColumnType, _ *TypeRegistry) (Column, error) {
		args := t.args()
		if len(args) == 0 {
			return nil, errors.New("DateTime64: missing precision")
		}
		p, err := parseSize(strings.TrimSpace(args[0]))
		if err != nil {
			return nil, err
		}
		c := NewDateTime64(p)
		if len(args) == 2 {
			c.WithTimezone(unquote(strings.TrimSpace(args[1])))
		}
		return c, nil
	})

	decimalFactory := func(t ColumnType, _ *TypeRegistry) (Column, error) {
		args := t.args()
		if len(args) != 2 {
			return nil, errors.Errorf("Decimal: expected 2 arguments, got %d", len(args))
		}
		p, err := parseSize(strings.TrimSpace(args[0]))
		if err != nil {
			return nil, err
		}
		s, err := parseSize(strings.TrimSpace(args[1]))
		if err != nil {
			return nil, err
		}
		switch {
		case p <= 9:
			return &ColDecimal32{Scale: s}, nil
		case p <= 18:
			return &ColDecimal64{Scale: s}, nil
		case p <= 38:
			return NewDecimal128(s), nil
		default:
			return NewDecimal256(s), nil
		}
	}
	RegisterColumnFactory("Decimal", decimalFactory)

	RegisterColumnFactory("Array", func(t ColumnType, reg *TypeRegistry) (Column, error) {
		inner, err := newInnerColumn(reg, t.Elem())
		if err != nil {
			return nil, errors.Wrap(err, "Array")
		}
		return &ColArrGeneric{Data: inner}, nil
	})

	RegisterColumnFactory("Nullable", func(t ColumnType, reg *TypeRegistry) (Column, error) {
		inner, err := newInnerColumn(reg, t.Elem())
		if err != nil {
			return nil, errors.Wrap(err, "Nullable")
		}
		return NewNullable(inner), nil
	})

	RegisterColumnFactory("Map", func(t ColumnType, reg *TypeRegistry) (Column, error) {
		args := t.args()
		if len(args) != 2 {
			return nil, errors.Errorf("Map: expected 2 arguments, got %d", len(args))
		}
		k, err := newInnerColumn(reg, ColumnType(strings.TrimSpace(args[0])))
		if err != nil {
			return nil, errors.Wrap(err, "Map key")
		}
		v, err := newInnerColumn(reg, ColumnType(strings.TrimSpace(args[1])))
		if err != nil {
			return nil, errors.Wrap(err, "Map value")
		}
		return NewMap(k, v), nil
	})

	RegisterColumnFactory("Tuple", func(t ColumnType, reg *TypeRegistry) (Column, error) {
		args := t.args()
		cols := make(ColTuple, len(args))
		for i, a := range args {
			c, err := newInnerColumn(reg, ColumnType(strings.TrimSpace(a)))
			if err != nil {
				return nil, errors.Wrapf(err, "Tuple element %d", i)
			}
			cols[i] = c
		}
		return cols, nil
	})

	RegisterColumnFactory("Enum8", func(t ColumnType, _ *TypeRegistry) (Column, error) {
		return NewEnum8(t.args())
	})
	RegisterColumnFactory("Enum16", func(t ColumnType, _ *TypeRegistry) (Column, error) {
		return NewEnum16(t.args())
	})

	RegisterColumnFactory("LowCardinality", func(t ColumnType, _ *TypeRegistry) (Column, error) {
		// ColLowCardinality[T] is generic over a comparable Go type, which
		// Go cannot instantiate from a type name known only at runtime;
		// registry-driven construction is supported for the element kinds
		// ClickHouse actually dictionary-encodes in practice (String and
		// the fixed-width integer kinds). Anything else needs a
		// compile-time NewLowCardinality[T] call from the caller instead.
		switch t.Elem().Base() {
		case ColumnTypeString:
			return NewLowCardinality[string](new(ColStr)), nil
		case ColumnTypeUInt8:
			return NewLowCardinality[uint8](new(ColUInt8)), nil
		case ColumnTypeUInt16:
			return NewLowCardinality[uint16](new(ColUInt16)), nil
		case ColumnTypeUInt32:
			return NewLowCardinality[uint32](new(ColUInt32)), nil
		case ColumnTypeUInt64:
			return NewLowCardinality[uint64](new(ColUInt64)), nil
		case ColumnTypeInt8:
			return NewLowCardinality[int8](new(ColInt8)), nil
		case ColumnTypeInt16:
			return NewLowCardinality[int16](new(ColInt16)), nil
		case ColumnTypeInt32:
			return NewLowCardinality[int32](new(ColInt32)), nil
		case ColumnTypeInt64:
			return NewLowCardinality[int64](new(ColInt64)), nil
		default:
			return nil, errors.Errorf("LowCardinality(%s): no registry construction for this element kind", t.Elem())
		}
	})
}

func parseSize(s string) (int, error) {
	n := 0
	if s == "" {
		return 0, errors.New("empty size argument")
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, errors.Errorf("not a size: %q", s)
		}
		n = n*10 + int(s[i]-'0')
	}
	return n, nil
}
