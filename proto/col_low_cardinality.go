package proto

import (
	"math"

	"github.com/go-faster/errors"
)

// Compile-time assertions for ColLowCardinality.
var (
	_ ColInput  = (*ColLowCardinality[string])(nil)
	_ ColResult = (*ColLowCardinality[string])(nil)
	_ Column    = (*ColLowCardinality[string])(nil)
)

// CardinalityKey is the integer width of a LowCardinality column's key
// column: the dictionary never holds more entries than the chosen width can
// index.
type CardinalityKey byte

// Possible integer widths for a LowCardinality column's keys.
const (
	KeyUInt8  CardinalityKey = 0
	KeyUInt16 CardinalityKey = 1
	KeyUInt32 CardinalityKey = 2
	KeyUInt64 CardinalityKey = 3
)

// IsACardinalityKey reports whether k is one of the four defined key widths.
func (k CardinalityKey) IsACardinalityKey() bool {
	switch k {
	case KeyUInt8, KeyUInt16, KeyUInt32, KeyUInt64:
		return true
	default:
		return false
	}
}

func (k CardinalityKey) String() string {
	switch k {
	case KeyUInt8:
		return "UInt8"
	case KeyUInt16:
		return "UInt16"
	case KeyUInt32:
		return "UInt32"
	case KeyUInt64:
		return "UInt64"
	default:
		return "Unknown"
	}
}

// chooseCardinalityKey picks the narrowest width able to index a dictionary
// of n entries (§4.C: the key column's width is a function of distinct-value
// count, chosen once at Prepare time).
func chooseCardinalityKey(n int) CardinalityKey {
	switch {
	case n < math.MaxUint8:
		return KeyUInt8
	case n < math.MaxUint16:
		return KeyUInt16
	case uint32(n) < math.MaxUint32:
		return KeyUInt32
	default:
		return KeyUInt64
	}
}

// Constants for the low cardinality metadata value, an int64 consisting of
// bitflags and a key width (§4.C: "version/flags UInt64 prefix"). Shared
// dictionaries and on-the-fly dictionary updates are not supported, matching
// the subset of the wire format this driver's client side ever needs to
// emit or honor from a server.
const (
	cardinalityKeyMask = 0b0000_1111_1111 // last byte

	cardinalityNeedGlobalDictionaryBit = 1 << 8
	cardinalityHasAdditionalKeysBit    = 1 << 9
	cardinalityNeedUpdateDictionary    = 1 << 10

	cardinalityUpdateAll = cardinalityHasAdditionalKeysBit | cardinalityNeedUpdateDictionary
)

type keySerializationVersion byte

// sharedDictionariesWithAdditionalKeys is the only key serialization this
// driver writes or accepts.
const sharedDictionariesWithAdditionalKeys keySerializationVersion = 1

// cardinalityKeys is the width-erased keys column backing ColLowCardinality.
// The wire format picks one of four fixed-width unsigned integer columns
// depending on dictionary size; this type hides that choice behind
// reset/rebuild/decode/encode, which take and return int dictionary indexes,
// so ColLowCardinality's own logic never branches on width itself.
type cardinalityKeys struct {
	width CardinalityKey

	u8  ColUInt8
	u16 ColUInt16
	u32 ColUInt32
	u64 ColUInt64
}

func (k *cardinalityKeys) reset() {
	k.u8 = k.u8[:0]
	k.u16 = k.u16[:0]
	k.u32 = k.u32[:0]
	k.u64 = k.u64[:0]
}

// rebuild replaces the active-width column's contents with idx, converting
// each dictionary index down to that width.
func (k *cardinalityKeys) rebuild(idx []int) {
	switch k.width {
	case KeyUInt8:
		k.u8 = k.u8[:0]
		for _, v := range idx {
			k.u8.Append(uint8(v))
		}
	case KeyUInt16:
		k.u16 = k.u16[:0]
		for _, v := range idx {
			k.u16.Append(uint16(v))
		}
	case KeyUInt32:
		k.u32 = k.u32[:0]
		for _, v := range idx {
			k.u32.Append(uint32(v))
		}
	case KeyUInt64:
		k.u64 = k.u64[:0]
		for _, v := range idx {
			k.u64.Append(uint64(v))
		}
	}
}

// decode reads rows keys at the active width and returns them widened to int
// dictionary indexes.
func (k *cardinalityKeys) decode(r *Reader, rows int) ([]int, error) {
	switch k.width {
	case KeyUInt8:
		if err := k.u8.DecodeColumn(r, rows); err != nil {
			return nil, err
		}
		idx := make([]int, len(k.u8))
		for i, v := range k.u8 {
			idx[i] = int(v)
		}
		return idx, nil
	case KeyUInt16:
		if err := k.u16.DecodeColumn(r, rows); err != nil {
			return nil, err
		}
		idx := make([]int, len(k.u16))
		for i, v := range k.u16 {
			idx[i] = int(v)
		}
		return idx, nil
	case KeyUInt32:
		if err := k.u32.DecodeColumn(r, rows); err != nil {
			return nil, err
		}
		idx := make([]int, len(k.u32))
		for i, v := range k.u32 {
			idx[i] = int(v)
		}
		return idx, nil
	case KeyUInt64:
		if err := k.u64.DecodeColumn(r, rows); err != nil {
			return nil, err
		}
		idx := make([]int, len(k.u64))
		for i, v := range k.u64 {
			idx[i] = int(v)
		}
		return idx, nil
	default:
		return nil, errors.Errorf("invalid key format %s", k.width)
	}
}

func (k *cardinalityKeys) encode(b *Buffer) {
	switch k.width {
	case KeyUInt8:
		k.u8.EncodeColumn(b)
	case KeyUInt16:
		k.u16.EncodeColumn(b)
	case KeyUInt32:
		k.u32.EncodeColumn(b)
	case KeyUInt64:
		k.u64.EncodeColumn(b)
	}
}

// ColLowCardinality is a generic LowCardinality(T) column (§4.C).
//
// It holds a dictionary column of unique values and a keys column of indexes
// into that dictionary. For example
// ["Eko", "Eko", "Amadela", "Amadela", "Amadela", "Amadela"] encodes as:
//
//	dictionary: ["Eko", "Amadela"] (String)
//	keys:       [0, 0, 1, 1, 1, 1] (UInt8)
//
// The key width is chosen from the dictionary size at Prepare time, so it
// can index every dictionary entry.
type ColLowCardinality[T comparable] struct {
	Values []T

	dict Columnar[T]
	keys cardinalityKeys

	dictIndex map[T]int
	rowIndex  []int
}

// DecodeState implements StateDecoder, wiring the dictionary column's own
// state (if any) after the key serialization version.
func (c *ColLowCardinality[T]) DecodeState(r *Reader) error {
	version, err := r.Int64()
	if err != nil {
		return errors.Wrap(err, "version")
	}
	if version != int64(sharedDictionariesWithAdditionalKeys) {
		return errors.Errorf("got version %d, expected %d",
			version, sharedDictionariesWithAdditionalKeys,
		)
	}
	if s, ok := c.dict.(StateDecoder); ok {
		if err := s.DecodeState(r); err != nil {
			return errors.Wrap(err, "dictionary state")
		}
	}
	return nil
}

// EncodeState implements StateEncoder, writing the key serialization
// version ahead of the dictionary column's own state (if any).
func (c ColLowCardinality[T]) EncodeState(b *Buffer) {
	b.PutInt64(int64(sharedDictionariesWithAdditionalKeys))
	if s, ok := c.dict.(StateEncoder); ok {
		s.EncodeState(b)
	}
}

func (c *ColLowCardinality[T]) DecodeColumn(r *Reader, rows int) error {
	if rows == 0 {
		return nil
	}
	meta, err := r.Int64()
	if err != nil {
		return errors.Wrap(err, "meta")
	}
	if (meta & cardinalityNeedGlobalDictionaryBit) != 0 {
		return errors.New("global dictionary is not supported")
	}
	if (meta & cardinalityHasAdditionalKeysBit) == 0 {
		return errors.New("additional keys bit is missing")
	}

	width := CardinalityKey(meta & cardinalityKeyMask)
	if !width.IsACardinalityKey() {
		return errors.Errorf("invalid low cardinality keys type %d", width)
	}
	c.keys.width = width

	dictRows, err := r.Int64()
	if err != nil {
		return errors.Wrap(err, "dictionary size")
	}
	if err := checkRows(int(dictRows)); err != nil {
		return errors.Wrap(err, "dictionary size")
	}
	if err := c.dict.DecodeColumn(r, int(dictRows)); err != nil {
		return errors.Wrap(err, "dictionary column")
	}

	keyRows, err := r.Int64()
	if err != nil {
		return errors.Wrap(err, "keys size")
	}
	if err := checkRows(int(keyRows)); err != nil {
		return errors.Wrap(err, "keys size")
	}
	idx, err := c.keys.decode(r, rows)
	if err != nil {
		return errors.Wrap(err, "keys")
	}
	c.rowIndex = idx

	c.Values = c.Values[:0]
	for _, i := range idx {
		if int64(i) >= dictRows || i < 0 {
			return errors.Errorf("key index out of range [%d] with length %d", i, dictRows)
		}
		c.Values = append(c.Values, c.dict.Row(i))
	}

	return nil
}

func (c ColLowCardinality[T]) Type() ColumnType {
	return ColumnTypeLowCardinality.Sub(c.dict.Type())
}

// EncodeColumn uses a pointer receiver: Prepare() is expected to run before
// encoding populates the keys column it reads here.
func (c *ColLowCardinality[T]) EncodeColumn(b *Buffer) {
	if c.Rows() == 0 {
		return
	}

	meta := cardinalityUpdateAll | int64(c.keys.width)
	b.PutInt64(meta)

	b.PutInt64(int64(c.dict.Rows()))
	c.dict.EncodeColumn(b)

	b.PutInt64(int64(c.Rows()))
	c.keys.encode(b)
}

// WriteColumn uses a pointer receiver for the same reason as EncodeColumn:
// Prepare() must have populated the keys column it chains from.
func (c *ColLowCardinality[T]) WriteColumn(w *Writer) { w.ChainBuffer(c.EncodeColumn) }

func (c *ColLowCardinality[T]) Reset() {
	for v := range c.dictIndex {
		delete(c.dictIndex, v)
	}
	c.rowIndex = c.rowIndex[:0]
	c.keys.reset()
	c.Values = c.Values[:0]

	if r, ok := c.dict.(Resettable); ok {
		r.Reset()
	}
}

// Append pushes v as the next row.
func (c *ColLowCardinality[T]) Append(v T) {
	c.Values = append(c.Values, v)
}

// AppendArr appends every element of v as its own row.
func (c *ColLowCardinality[T]) AppendArr(v []T) {
	c.Values = append(c.Values, v...)
}

// Row returns the i-th row's logical value.
func (c ColLowCardinality[T]) Row(i int) T {
	return c.Values[i]
}

// Rows returns the number of logical rows currently held.
func (c ColLowCardinality[T]) Rows() int {
	return len(c.Values)
}

// Prepare builds the dictionary and keys column from Values; it must run
// before EncodeColumn (§4.D: Preparable hook).
func (c *ColLowCardinality[T]) Prepare() error {
	c.rowIndex = append(c.rowIndex[:0], make([]int, len(c.Values))...)
	if c.dictIndex == nil {
		c.dictIndex = map[T]int{}
		if r, ok := c.dict.(Resettable); ok {
			r.Reset()
		}
	}

	var next int
	for i, v := range c.Values {
		idx, ok := c.dictIndex[v]
		if !ok {
			c.dict.Append(v)
			c.dictIndex[v] = next
			idx = next
			next++
		}
		c.rowIndex[i] = idx
	}

	c.keys.width = chooseCardinalityKey(c.dict.Rows())
	c.keys.rebuild(c.rowIndex)

	return nil
}

// Array wraps c as Array(LowCardinality(T)).
func (c *ColLowCardinality[T]) Array() *ColArr[T] {
	return &ColArr[T]{Data: c}
}

// NewLowCardinality wraps dict as LowCardinality(T), starting empty.
func NewLowCardinality[T comparable](dict Columnar[T]) *ColLowCardinality[T] {
	return &ColLowCardinality[T]{dict: dict}
}
