package memcache

// Item is the typed unit of storage this package's command surface works
// in terms of: a key, its byte payload, and the TimeToLive that governs
// expiration. Found distinguishes a real empty value from "no such key"
// on the read path; it is meaningless on Set/Add/Replace/Append/Prepend.
//
// The zero value's TTL is the zero TimeToLive, which encodes identically
// to Indefinite() (ttl.go's encode clamps a non-positive seconds-to-expiry
// to 0) — so Item{Key: k, Value: v} stores with no expiration, matching
// spec's default of ttl = Indefinitely.
type Item struct {
	Key   string
	Value []byte
	TTL   TimeToLive
	Found bool
}
