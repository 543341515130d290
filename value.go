package memcache

import (
	"context"
	"fmt"

	"github.com/asyncmc/memcache/meta"
)

// encodeValue renders v as raw bytes in the encoding decodeValue reads.
// No command calls it: Set/Add/Replace/Append/Prepend send Item.Value as
// given. It enumerates the concrete built-in types spec §4.2's
// Value trait names (every fixed-width and native signed/unsigned
// integer, plus strings and raw byte payloads) the way Go's lack of
// specialization requires (spec §9: "in languages without specialization,
// enumerate concrete implementations"), mirroring meta/value.go's own
// generic-over-a-constraint style one layer up.
func encodeValue[V any](v V) ([]byte, error) {
	switch x := any(v).(type) {
	case string:
		return meta.EncodeString(x), nil
	case []byte:
		return x, nil
	case int:
		return meta.EncodeSigned(x), nil
	case int8:
		return meta.EncodeSigned(x), nil
	case int16:
		return meta.EncodeSigned(x), nil
	case int32:
		return meta.EncodeSigned(x), nil
	case int64:
		return meta.EncodeSigned(x), nil
	case uint:
		return meta.EncodeUnsigned(x), nil
	case uint8:
		return meta.EncodeUnsigned(x), nil
	case uint16:
		return meta.EncodeUnsigned(x), nil
	case uint32:
		return meta.EncodeUnsigned(x), nil
	case uint64:
		return meta.EncodeUnsigned(x), nil
	default:
		return nil, fmt.Errorf("memcache: unsupported value type %T", v)
	}
}

// decodeValue interprets data as a V, mirroring encodeValue's type switch.
// ok is false when data can't be parsed as the requested type (e.g.
// non-digit bytes for an integer) per spec §4.2's "Read-from-buffer
// returns None when the buffer cannot be interpreted as the requested
// type".
func decodeValue[V any](data []byte) (v V, ok bool) {
	switch any(v).(type) {
	case string:
		return any(meta.DecodeString(data)).(V), true
	case []byte:
		return any(append([]byte(nil), data...)).(V), true
	case int:
		n, ok := meta.DecodeSigned[int](data)
		return any(n).(V), ok
	case int8:
		n, ok := meta.DecodeSigned[int8](data)
		return any(n).(V), ok
	case int16:
		n, ok := meta.DecodeSigned[int16](data)
		return any(n).(V), ok
	case int32:
		n, ok := meta.DecodeSigned[int32](data)
		return any(n).(V), ok
	case int64:
		n, ok := meta.DecodeSigned[int64](data)
		return any(n).(V), ok
	case uint:
		n, ok := meta.DecodeUnsigned[uint](data)
		return any(n).(V), ok
	case uint8:
		n, ok := meta.DecodeUnsigned[uint8](data)
		return any(n).(V), ok
	case uint16:
		n, ok := meta.DecodeUnsigned[uint16](data)
		return any(n).(V), ok
	case uint32:
		n, ok := meta.DecodeUnsigned[uint32](data)
		return any(n).(V), ok
	case uint64:
		n, ok := meta.DecodeUnsigned[uint64](data)
		return any(n).(V), ok
	default:
		var zero V
		return zero, false
	}
}

// GetValue fetches key and decodes its value as a V. found is false if the
// key doesn't exist; err carries any connection, protocol, or decode
// failure.
func GetValue[V any](ctx context.Context, c *Commands, key string) (value V, found bool, err error) {
	item, err := c.Get(ctx, key)
	if err != nil {
		return value, false, err
	}
	if !item.Found {
		return value, false, nil
	}
	v, ok := decodeValue[V](item.Value)
	if !ok {
		return value, false, errProtocol(fmt.Sprintf("value for key %q could not be decoded as %T", key, value), nil)
	}
	return v, true, nil
}

// GetValueWithTTL fetches key, its value decoded as a V, and its
// remaining TimeToLive in one round-trip (spec's "mg key v t").
func GetValueWithTTL[V any](ctx context.Context, c *Commands, key string) (value V, ttl TimeToLive, found bool, err error) {
	item, itemTTL, err := c.getWithTTL(ctx, key)
	if err != nil {
		return value, TimeToLive{}, false, err
	}
	if !item.Found {
		return value, TimeToLive{}, false, nil
	}
	v, ok := decodeValue[V](item.Value)
	if !ok {
		return value, TimeToLive{}, false, errProtocol(fmt.Sprintf("value for key %q could not be decoded as %T", key, value), nil)
	}
	return v, itemTTL, true, nil
}
