package formatter

import (
	"encoding/base64"
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"

	"ndef-formatter/ndef"
)

var (
	errMissingSeparator = errors.New("missing ':' separator")
	errEmptyPayload     = errors.New("empty payload")
	errShortPayload     = errors.New("payload shorter than the declared bit length")
)

// Bytes formats whole byte buffers as standard base64. A nil buffer is null; an empty
// non-nil buffer is the empty scalar.
type Bytes struct {
	scalar[[]byte]
}

func NewBytes() *Bytes {
	return &Bytes{scalar: newScalar[[]byte]("bytes")}
}

func (f *Bytes) Format(v []byte) (string, error) {
	return base64.StdEncoding.EncodeToString(v), nil
}

func (f *Bytes) Parse(text string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		return nil, ndef.FormatErrorf(f.name, text, err)
	}

	return data, nil
}

func (f *Bytes) ToNdefValue(_ reflect.Type, v []byte) (ndef.Value, error) {
	if v == nil {
		return ndef.Null(), nil
	}

	return ndef.Scalar(base64.StdEncoding.EncodeToString(v), true), nil
}

func (f *Bytes) FromNdefValue(_ reflect.Type, v ndef.Value) ([]byte, error) {
	text, missing, err := f.scalarText(v)
	if err != nil || missing {
		return nil, err
	}

	return f.Parse(text)
}

func (f *Bytes) Boxed() ndef.Formatter { return Box[[]byte](f) }

// Segment is a view of Count bytes of Array starting at Offset.
// The zero Segment (nil Array) is the null segment.
type Segment struct {
	Array  []byte
	Offset int
	Count  int
}

// NewSegmentOf returns a segment spanning all of data.
func NewSegmentOf(data []byte) Segment {
	return Segment{Array: data, Count: len(data)}
}

func (s Segment) IsNull() bool { return s.Array == nil }

// Bytes returns the viewed bytes without copying.
func (s Segment) Bytes() []byte {
	if s.Array == nil {
		return nil
	}

	return s.Array[s.Offset : s.Offset+s.Count]
}

// SegmentFormatter formats binary segments as standard base64 of the viewed range.
// Decoding yields a segment spanning a fresh buffer.
type SegmentFormatter struct {
	scalar[Segment]
}

func NewSegment() *SegmentFormatter {
	return &SegmentFormatter{scalar: newScalar[Segment]("segment")}
}

func (f *SegmentFormatter) Format(v Segment) (string, error) {
	return base64.StdEncoding.EncodeToString(v.Bytes()), nil
}

func (f *SegmentFormatter) Parse(text string) (Segment, error) {
	data, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		return Segment{}, ndef.FormatErrorf(f.name, text, err)
	}

	if data == nil {
		data = []byte{}
	}

	return NewSegmentOf(data), nil
}

func (f *SegmentFormatter) ToNdefValue(_ reflect.Type, v Segment) (ndef.Value, error) {
	if v.IsNull() {
		return ndef.Null(), nil
	}

	return ndef.Scalar(base64.StdEncoding.EncodeToString(v.Bytes()), true), nil
}

func (f *SegmentFormatter) FromNdefValue(_ reflect.Type, v ndef.Value) (Segment, error) {
	text, missing, err := f.scalarText(v)
	if err != nil || missing {
		return Segment{}, err
	}

	return f.Parse(text)
}

func (f *SegmentFormatter) Boxed() ndef.Formatter { return Box[Segment](f) }

// Bits formats bit arrays as "<bitLength>:<base64>". The explicit length comes first
// because the decoded byte count alone is short of the bit count by up to 7 bits.
// Bit i is stored in byte i/8 at position i%8. A zero length array has an empty payload.
type Bits struct {
	scalar[*bitset.BitSet]
}

func NewBits() *Bits {
	return &Bits{scalar: newScalar[*bitset.BitSet]("bits")}
}

func (f *Bits) Format(v *bitset.BitSet) (string, error) {
	n := v.Len()
	data := make([]byte, (n+7)/8)
	for i := uint(0); i < n; i++ {
		if v.Test(i) {
			data[i/8] |= 1 << (i % 8)
		}
	}

	return strconv.FormatUint(uint64(n), 10) + ":" + base64.StdEncoding.EncodeToString(data), nil
}

func (f *Bits) Parse(text string) (*bitset.BitSet, error) {
	head, payload, ok := strings.Cut(text, ":")
	if !ok {
		return nil, ndef.FormatErrorf(f.name, text, errMissingSeparator)
	}

	n, err := strconv.ParseUint(head, 10, 32)
	if err != nil {
		return nil, ndef.FormatErrorf(f.name, text, err)
	}

	if payload == "" && n > 0 {
		return nil, ndef.FormatErrorf(f.name, text, errEmptyPayload)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, ndef.FormatErrorf(f.name, text, err)
	}

	length := uint(n)
	if uint(len(data)) < (length+7)/8 {
		return nil, ndef.FormatErrorf(f.name, text, errShortPayload)
	}

	bits := bitset.New(length)
	for i := uint(0); i < length; i++ {
		if data[i/8]&(1<<(i%8)) != 0 {
			bits.Set(i)
		}
	}

	return bits, nil
}

func (f *Bits) ToNdefValue(_ reflect.Type, v *bitset.BitSet) (ndef.Value, error) {
	if v == nil {
		return ndef.Null(), nil
	}

	text, err := f.Format(v)
	if err != nil {
		return ndef.Value{}, err
	}

	return ndef.Scalar(text, true), nil
}

func (f *Bits) FromNdefValue(_ reflect.Type, v ndef.Value) (*bitset.BitSet, error) {
	text, missing, err := f.sentinelText(v)
	if err != nil || missing {
		return nil, err
	}

	return f.Parse(text)
}

func (f *Bits) Boxed() ndef.Formatter { return Box[*bitset.BitSet](f) }
