package meta_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/asyncmc/memcache/meta"
)

func TestParseDebugParams(t *testing.T) {
	params := meta.ParseDebugParams([]byte("size=1024 ttl=3600 flags=0"))
	assert.Equal(t, "1024", params["size"])
	assert.Equal(t, "3600", params["ttl"])
	assert.Equal(t, "0", params["flags"])
}

func TestParseDebugParams_empty(t *testing.T) {
	assert.Empty(t, meta.ParseDebugParams(nil))
}

func TestParseDebugParams_skipsMalformedEntries(t *testing.T) {
	params := meta.ParseDebugParams([]byte("size=1024 garbage ttl=60"))
	assert.Equal(t, "1024", params["size"])
	assert.Equal(t, "60", params["ttl"])
	_, ok := params["garbage"]
	assert.False(t, ok)
}

func TestRequest_hasAndGetFlag(t *testing.T) {
	req := meta.NewRequest(meta.CmdGet, "k", nil, meta.Flag{Type: meta.FlagReturnValue})
	assert.True(t, req.HasFlag(meta.FlagReturnValue))
	assert.False(t, req.HasFlag(meta.FlagReturnTTL))

	f, ok := req.GetFlag(meta.FlagReturnValue)
	assert.True(t, ok)
	assert.Equal(t, meta.FlagReturnValue, f.Type)
}
