package memcache

import (
	"strconv"
	"time"

	"github.com/asyncmc/memcache/meta"
)

// StorageMode selects how a set operation stores its value relative to any
// existing item.
type StorageMode int

const (
	storageModeNone StorageMode = iota
	StoreSet
	StoreAdd
	StoreReplace
	StoreAppend
	StorePrepend
)

func (m StorageMode) token() string {
	switch m {
	case StoreSet:
		return meta.ModeSet
	case StoreAdd:
		return meta.ModeAdd
	case StoreReplace:
		return meta.ModeReplace
	case StoreAppend:
		return meta.ModeAppend
	case StorePrepend:
		return meta.ModePrepend
	default:
		return ""
	}
}

// ArithmeticMode selects the direction of a counter operation.
type ArithmeticMode int

const (
	arithmeticModeNone ArithmeticMode = iota
	Increment
	Decrement
)

func (m ArithmeticMode) token() string {
	switch m {
	case Increment:
		return meta.ModeIncrement
	case Decrement:
		return meta.ModeDecrement
	default:
		return ""
	}
}

// requestFlags is the record of optional fields a typed command may set
// before it's lowered to wire-level meta.Flag tokens. At most one of
// StorageMode/ArithmeticMode may be set (spec invariant); toMetaFlags
// panics otherwise, since that combination can only come from a
// programming error in this package itself, never from caller input.
type requestFlags struct {
	returnValue    bool
	returnTTL      bool
	ttl            *TimeToLive
	storageMode    StorageMode
	arithmeticMode ArithmeticMode
	delta          uint64
	opaque         string
}

// toMetaFlags lowers the record to the wire's flag-token list, in the
// stable order the server expects: v, t, T<value>, M<letter>,
// M<+/-> D<delta>.
func (f requestFlags) toMetaFlags(now time.Time) meta.Flags {
	if f.storageMode != storageModeNone && f.arithmeticMode != arithmeticModeNone {
		panic("memcache: request carries both a storage mode and an arithmetic mode")
	}

	var flags meta.Flags
	if f.returnValue {
		flags = append(flags, meta.Flag{Type: meta.FlagReturnValue})
	}
	if f.returnTTL {
		flags = append(flags, meta.Flag{Type: meta.FlagReturnTTL})
	}
	if f.ttl != nil {
		flags = append(flags, f.ttl.flag(now))
	}
	if f.storageMode != storageModeNone {
		flags = append(flags, meta.Flag{Type: meta.FlagMode, Token: f.storageMode.token()})
	}
	if f.arithmeticMode != arithmeticModeNone {
		flags = append(flags, meta.Flag{Type: meta.FlagMode, Token: f.arithmeticMode.token()})
		flags = append(flags, meta.Flag{Type: meta.FlagDelta, Token: strconv.FormatUint(f.delta, 10)})
	}
	if f.opaque != "" {
		flags = append(flags, meta.Flag{Type: meta.FlagOpaque, Token: f.opaque})
	}
	return flags
}
