// Package codec defines which Go values may be stored in ledger accounts and
// converts them to and from their on-ledger byte image.
//
// A storable type has a fully defined, fixed-size little-endian image: it is
// built only from fixed-width integers, floats, bools, arrays and structs of
// those. Pointers, slices, maps, strings, interfaces and platform-sized
// integers are rejected. Blank (_) struct fields act as explicit padding and
// are always encoded as zeros.
//
// Layouts are not migrated in place. A new layout is stored under a new
// account name.
package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrNotStorable is returned for types without a fixed, reference-free byte image.
	ErrNotStorable = errors.New("codec: type is not storable")
	// ErrSizeMismatch is returned when decoding from a buffer shorter than the type's size.
	ErrSizeMismatch = errors.New("codec: size mismatch")
)

var order = binary.LittleEndian

// Descriptor is the capability descriptor of a storable type.
type Descriptor struct {
	// Type is the described Go type.
	Type reflect.Type
	// Size is the exact byte length of the encoded image.
	Size int
	// Default is the image of the zero value.
	Default []byte
}

// Describe validates T and returns its descriptor.
func Describe[T any]() (Descriptor, error) {
	typ := reflect.TypeFor[T]()
	if err := checkStorable(typ); err != nil {
		return Descriptor{}, err
	}

	var zero T
	size := binary.Size(zero)
	if size <= 0 {
		return Descriptor{}, fmt.Errorf("%w: %s has no fixed size", ErrNotStorable, typ)
	}

	return Descriptor{
		Type:    typ,
		Size:    size,
		Default: make([]byte, size),
	}, nil
}

// checkStorable rejects kinds encoding/binary would follow through or refuse.
// Pointers are rejected explicitly because binary.Size dereferences them.
// bool is rejected as it has one valid image per value but decodes every
// non-zero byte as true; use a uint8 flag instead.
func checkStorable(typ reflect.Type) error {
	if typ == nil {
		return fmt.Errorf("%w: nil type", ErrNotStorable)
	}

	switch typ.Kind() {
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128:
		return nil
	case reflect.Array:
		return checkStorable(typ.Elem())
	case reflect.Struct:
		for i := range typ.NumField() {
			field := typ.Field(i)
			if !field.IsExported() && field.Name != "_" {
				return fmt.Errorf("%w: %s has unexported field %s", ErrNotStorable, typ, field.Name)
			}
			if err := checkStorable(field.Type); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: %s contains %s", ErrNotStorable, typ, typ.Kind())
	}
}

// Codec encodes and decodes values of one storable type.
type Codec[T any] struct {
	desc Descriptor
}

// New validates T once and returns a Codec for it.
func New[T any]() (*Codec[T], error) {
	desc, err := Describe[T]()
	if err != nil {
		return nil, err
	}
	return &Codec[T]{desc: desc}, nil
}

// Descriptor returns the descriptor of T.
func (c *Codec[T]) Descriptor() Descriptor {
	return c.desc
}

// Size returns the byte length of T's image.
func (c *Codec[T]) Size() int {
	return c.desc.Size
}

// Encode returns the Size-byte image of v.
func (c *Codec[T]) Encode(v T) ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, c.desc.Size))
	if err := binary.Write(buf, order, v); err != nil {
		return nil, fmt.Errorf("codec: encoding %s: %w", c.desc.Type, err)
	}
	return buf.Bytes(), nil
}

// Decode reads a T from the first Size bytes of b. Anything after them is
// ignored, since accounts may carry trailing metadata added by the ledger.
func (c *Codec[T]) Decode(b []byte) (T, error) {
	var v T
	if len(b) < c.desc.Size {
		return v, fmt.Errorf("%w: %s needs %d bytes, got %d", ErrSizeMismatch, c.desc.Type, c.desc.Size, len(b))
	}
	if err := binary.Read(bytes.NewReader(b[:c.desc.Size]), order, &v); err != nil {
		return v, fmt.Errorf("codec: decoding %s: %w", c.desc.Type, err)
	}
	return v, nil
}

// SizeOf returns the image size of T.
func SizeOf[T any]() (int, error) {
	desc, err := Describe[T]()
	if err != nil {
		return 0, err
	}
	return desc.Size, nil
}

// Encode is a one-off Codec[T].Encode.
func Encode[T any](v T) ([]byte, error) {
	c, err := New[T]()
	if err != nil {
		return nil, err
	}
	return c.Encode(v)
}

// Decode is a one-off Codec[T].Decode.
func Decode[T any](b []byte) (T, error) {
	c, err := New[T]()
	if err != nil {
		var zero T
		return zero, err
	}
	return c.Decode(b)
}
