package memcache_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asyncmc/memcache"
	"github.com/asyncmc/memcache/internal/testutils"
	"github.com/asyncmc/memcache/meta"
)

func TestConnection_SendWritesRequestAndParsesResponse(t *testing.T) {
	conn := testutils.NewConnectionMock("HD\r\n")
	c := memcache.NewConnection(conn)

	resp, err := c.Send(meta.NewRequest(meta.CmdSet, "foo", []byte("bar"), meta.Flag{Type: meta.FlagTTL, Token: "0"}))
	require.NoError(t, err)
	assert.Equal(t, meta.StatusHD, resp.Status)
	assert.Equal(t, "ms foo 3 T0\r\nbar\r\n", conn.GetWrittenRequest())
}

func TestConnection_SendDecodesValueResponse(t *testing.T) {
	conn := testutils.NewConnectionMock("VA 3\r\nbar\r\n")
	c := memcache.NewConnection(conn)

	resp, err := c.Send(meta.NewRequest(meta.CmdGet, "foo", nil, meta.Flag{Type: meta.FlagReturnValue}))
	require.NoError(t, err)
	assert.Equal(t, meta.StatusVA, resp.Status)
	assert.Equal(t, []byte("bar"), resp.Data)
	assert.Equal(t, "mg foo v\r\n", conn.GetWrittenRequest())
}

// TestConnection_SendPipelinesInOrder exercises spec's positional FIFO
// guarantee: successive Send calls on the same Connection each observe the
// reply to their own request, in submission order.
func TestConnection_SendPipelinesInOrder(t *testing.T) {
	conn := testutils.NewConnectionMock("HD\r\n", "NF\r\n", "EN\r\n")
	c := memcache.NewConnection(conn)

	resp, err := c.Send(meta.NewRequest(meta.CmdSet, "a", []byte("1"), meta.Flag{Type: meta.FlagTTL, Token: "0"}))
	require.NoError(t, err)
	assert.Equal(t, meta.StatusHD, resp.Status)

	resp, err = c.Send(meta.NewRequest(meta.CmdDelete, "b", nil))
	require.NoError(t, err)
	assert.Equal(t, meta.StatusNF, resp.Status)

	resp, err = c.Send(meta.NewRequest(meta.CmdGet, "c", nil, meta.Flag{Type: meta.FlagReturnValue}))
	require.NoError(t, err)
	assert.Equal(t, meta.StatusEN, resp.Status)
}

// TestConnection_SendUnexpectedEOFMidResponse checks that a peer close while
// a response is only partially framed surfaces as a ConnectionShutdown error
// wrapping the decoder's unexpected-EOF (spec §4.4/§4.5), not a silently
// truncated Response.
func TestConnection_SendUnexpectedEOFMidResponse(t *testing.T) {
	conn := testutils.NewConnectionMock("VA 10\r\nshort")
	c := memcache.NewConnection(conn)

	_, err := c.Send(meta.NewRequest(meta.CmdGet, "foo", nil, meta.Flag{Type: meta.FlagReturnValue}))
	require.Error(t, err)
	assert.True(t, memcache.IsKind(err, memcache.ConnectionShutdown))
	assert.ErrorIs(t, err, meta.ErrUnexpectedEOF)
}

// TestServerPool_ExecuteAfterCloseIsConnectionShutdown exercises testable
// property #5: after Close, every subsequent submission resolves with
// ConnectionShutdown rather than a raw pool-internal error.
func TestServerPool_ExecuteAfterCloseIsConnectionShutdown(t *testing.T) {
	sp, err := memcache.NewServerPool("127.0.0.1:0", memcache.Config{
		NewPool: func(constructor func(ctx context.Context) (*memcache.Connection, error), maxSize int32) (memcache.Pool, error) {
			return memcache.NewChannelPool(constructor, maxSize)
		},
	})
	require.NoError(t, err)
	sp.Close()

	_, err = sp.Execute(context.Background(), meta.NewRequest(meta.CmdGet, "foo", nil, meta.Flag{Type: meta.FlagReturnValue}))
	require.Error(t, err)
	assert.True(t, memcache.IsKind(err, memcache.ConnectionShutdown))
	assert.True(t, errors.Is(err, memcache.ErrPoolClosed))
}
