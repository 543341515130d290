package memcache

import (
	"strconv"
	"time"

	"github.com/asyncmc/memcache/meta"
)

// MaxRelativeTTL is the largest number of seconds-to-expiry the server will
// interpret as relative; beyond this the wire value is instead an absolute
// Unix timestamp (testable property #7).
const MaxRelativeTTL = 30 * 24 * 60 * 60 // 2,592,000 seconds

// TimeToLive is either Indefinitely (no expiration) or ExpiresAt a specific
// instant. Construct with Indefinite() or ExpiresAt(t).
type TimeToLive struct {
	indefinite bool
	at         time.Time
}

// Indefinite returns a TimeToLive that never expires.
func Indefinite() TimeToLive {
	return TimeToLive{indefinite: true}
}

// ExpiresAt returns a TimeToLive that expires at the given instant.
func ExpiresAt(t time.Time) TimeToLive {
	return TimeToLive{at: t}
}

// IsIndefinite reports whether this TimeToLive never expires.
func (t TimeToLive) IsIndefinite() bool {
	return t.indefinite
}

// At returns the expiration instant and true, or the zero time and false if
// this TimeToLive is indefinite.
func (t TimeToLive) At() (time.Time, bool) {
	if t.indefinite {
		return time.Time{}, false
	}
	return t.at, true
}

// encode renders the TimeToLive as the token that follows the T flag byte,
// per testable properties #6 and #7: Indefinitely is always "0"; an
// ExpiresAt within MaxRelativeTTL seconds of now is relative seconds,
// otherwise it is the absolute Unix timestamp.
func (t TimeToLive) encode(now time.Time) string {
	if t.indefinite {
		return "0"
	}
	seconds := int64(t.at.Sub(now) / time.Second)
	if seconds < 0 {
		seconds = 0
	}
	if seconds <= MaxRelativeTTL {
		return strconv.FormatInt(seconds, 10)
	}
	return strconv.FormatInt(t.at.Unix(), 10)
}

func (t TimeToLive) flag(now time.Time) meta.Flag {
	return meta.Flag{Type: meta.FlagTTL, Token: t.encode(now)}
}

// decodeTTL interprets the token carried by a response's t flag (seconds
// remaining, per the server's own convention) relative to now. A missing
// flag means the item has no expiration.
func decodeTTL(token []byte, present bool, now time.Time) TimeToLive {
	if !present {
		return Indefinite()
	}
	seconds, err := strconv.ParseInt(string(token), 10, 64)
	if err != nil || seconds < 0 {
		return Indefinite()
	}
	return ExpiresAt(now.Add(time.Duration(seconds) * time.Second))
}
