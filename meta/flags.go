package meta

import "strconv"

// Flag represents a single protocol flag with an optional token.
//
// Examples:
//   - 'v' (no token): Flag{Type: FlagReturnValue}
//   - 'T60' (with token): Flag{Type: FlagTTL, Token: "60"}
//   - 'Omytoken' (opaque): Flag{Type: FlagOpaque, Token: "mytoken"}
type Flag struct {
	// Type is the single-character flag identifier.
	Type FlagType

	// Token is the value following the flag character, empty if none.
	Token string
}

// Flags is an ordered collection of response flag tokens, in the order they
// appeared on the wire.
type Flags []Flag

// Has reports whether a flag of the given type is present.
func (fs Flags) Has(t FlagType) bool {
	_, ok := fs.find(t)
	return ok
}

// Get returns the token bytes for the first flag of the given type. ok is
// false if the flag is absent; token is nil (not empty) if the flag is
// present but carries no token.
func (fs Flags) Get(t FlagType) (token []byte, ok bool) {
	f, found := fs.find(t)
	if !found {
		return nil, false
	}
	if f.Token == "" {
		return nil, true
	}
	return []byte(f.Token), true
}

func (fs Flags) find(t FlagType) (Flag, bool) {
	for _, f := range fs {
		if f.Type == t {
			return f, true
		}
	}
	return Flag{}, false
}

// FormatFlagInt builds a Flag whose token is v rendered as decimal ASCII,
// e.g. FormatFlagInt(FlagTTL, 60) is equivalent to Flag{Type: FlagTTL,
// Token: "60"}.
func FormatFlagInt(t FlagType, v int) Flag {
	return Flag{Type: t, Token: strconv.Itoa(v)}
}
