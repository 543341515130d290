package meta_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/asyncmc/memcache/meta"
)

func TestWriteRequest_get(t *testing.T) {
	req := meta.NewRequest(meta.CmdGet, "mykey", nil, meta.Flag{Type: meta.FlagReturnValue})

	var buf bytes.Buffer
	n, err := meta.WriteRequest(&buf, req)
	require.NoError(t, err)
	require.Equal(t, "mg mykey v\r\n", buf.String())
	require.Equal(t, buf.Len(), n)
}

func TestWriteRequest_set(t *testing.T) {
	req := meta.NewRequest(meta.CmdSet, "mykey", []byte("hello"),
		meta.Flag{Type: meta.FlagTTL, Token: "60"},
	)

	var buf bytes.Buffer
	_, err := meta.WriteRequest(&buf, req)
	require.NoError(t, err)
	require.Equal(t, "ms mykey 5 T60\r\nhello\r\n", buf.String())
}

func TestWriteRequest_delete(t *testing.T) {
	req := meta.NewRequest(meta.CmdDelete, "mykey", nil)

	var buf bytes.Buffer
	_, err := meta.WriteRequest(&buf, req)
	require.NoError(t, err)
	require.Equal(t, "md mykey\r\n", buf.String())
}

func TestWriteRequest_arithmetic(t *testing.T) {
	req := meta.NewRequest(meta.CmdArithmetic, "counter", nil,
		meta.Flag{Type: meta.FlagReturnValue},
		meta.Flag{Type: meta.FlagMode, Token: meta.ModeDecrement},
		meta.Flag{Type: meta.FlagDelta, Token: "5"},
	)

	var buf bytes.Buffer
	_, err := meta.WriteRequest(&buf, req)
	require.NoError(t, err)
	require.Equal(t, "ma counter v M- D5\r\n", buf.String())
}

func TestWriteRequest_noOp(t *testing.T) {
	req := meta.NewRequest(meta.CmdNoOp, "", nil)

	var buf bytes.Buffer
	_, err := meta.WriteRequest(&buf, req)
	require.NoError(t, err)
	require.Equal(t, "mn\r\n", buf.String())
}

func TestWriteRequest_debug(t *testing.T) {
	req := meta.NewRequest(meta.CmdDebug, "mykey", nil)

	var buf bytes.Buffer
	_, err := meta.WriteRequest(&buf, req)
	require.NoError(t, err)
	require.Equal(t, "me mykey\r\n", buf.String())
}

func TestWriteRequest_emptyKeyRejected(t *testing.T) {
	req := meta.NewRequest(meta.CmdGet, "", nil)

	var buf bytes.Buffer
	_, err := meta.WriteRequest(&buf, req)
	require.Error(t, err)

	var keyErr *meta.InvalidKeyError
	require.ErrorAs(t, err, &keyErr)
}

func TestWriteRequest_keyTooLong(t *testing.T) {
	req := meta.NewRequest(meta.CmdGet, string(make([]byte, meta.MaxKeyLength+1)), nil)

	var buf bytes.Buffer
	_, err := meta.WriteRequest(&buf, req)
	require.Error(t, err)
}

func TestWriteRequest_keyWithWhitespaceRejectedUnlessBase64(t *testing.T) {
	req := meta.NewRequest(meta.CmdGet, "bad key", nil)

	var buf bytes.Buffer
	_, err := meta.WriteRequest(&buf, req)
	require.Error(t, err)

	req2 := meta.NewRequest(meta.CmdGet, "bad key", nil, meta.Flag{Type: meta.FlagBase64Key})
	buf.Reset()
	_, err = meta.WriteRequest(&buf, req2)
	require.NoError(t, err)
}

func TestWriteRequest_pipelining(t *testing.T) {
	reqs := []*meta.Request{
		meta.NewRequest(meta.CmdGet, "key1", nil, meta.Flag{Type: meta.FlagReturnValue}, meta.Flag{Type: meta.FlagQuiet}),
		meta.NewRequest(meta.CmdGet, "key2", nil, meta.Flag{Type: meta.FlagReturnValue}, meta.Flag{Type: meta.FlagQuiet}),
		meta.NewRequest(meta.CmdNoOp, "", nil),
	}

	var buf bytes.Buffer
	for _, req := range reqs {
		_, err := meta.WriteRequest(&buf, req)
		require.NoError(t, err)
	}
	require.Equal(t, "mg key1 v q\r\nmg key2 v q\r\nmn\r\n", buf.String())
}
