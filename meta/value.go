package meta

import "strconv"

// SignedInteger is the set of built-in signed integer types the value
// codec knows how to read and write.
type SignedInteger interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// UnsignedInteger is the set of built-in unsigned integer types the value
// codec knows how to read and write.
type UnsignedInteger interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// EncodeSigned renders v as decimal ASCII, the wire representation used
// for every integer-valued item stored through this client.
func EncodeSigned[T SignedInteger](v T) []byte {
	return strconv.AppendInt(nil, int64(v), 10)
}

// EncodeUnsigned renders v as decimal ASCII.
func EncodeUnsigned[T UnsignedInteger](v T) []byte {
	return strconv.AppendUint(nil, uint64(v), 10)
}

// DecodeSigned parses data as decimal ASCII into T. ok is false if data is
// empty or not a valid decimal integer, or if it overflows T.
func DecodeSigned[T SignedInteger](data []byte) (v T, ok bool) {
	if len(data) == 0 {
		return 0, false
	}
	n, err := strconv.ParseInt(string(data), 10, bitSizeOf[T]())
	if err != nil {
		return 0, false
	}
	return T(n), true
}

// DecodeUnsigned parses data as decimal ASCII into T.
func DecodeUnsigned[T UnsignedInteger](data []byte) (v T, ok bool) {
	if len(data) == 0 {
		return 0, false
	}
	n, err := strconv.ParseUint(string(data), 10, bitSizeOfUnsigned[T]())
	if err != nil {
		return 0, false
	}
	return T(n), true
}

// EncodeString renders s as its raw UTF-8 bytes.
func EncodeString(s string) []byte {
	return []byte(s)
}

// DecodeString interprets the entire readable slice as a UTF-8 string.
func DecodeString(data []byte) string {
	return string(data)
}

func bitSizeOf[T SignedInteger]() int {
	n := 0
	for v := T(1); v != 0; v <<= 1 {
		n++
	}
	return n
}

func bitSizeOfUnsigned[T UnsignedInteger]() int {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return 8
	case uint16:
		return 16
	case uint32:
		return 32
	default:
		return 64
	}
}
