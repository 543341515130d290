package memcache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asyncmc/memcache"
	"github.com/asyncmc/memcache/meta"
)

// fakeClock is a deterministic Clock for tests that need to control "now".
type fakeClock struct{ now time.Time }

func (c fakeClock) Now() time.Time { return c.now }

// scripted wires a sequence of canned responses (and captured requests) to
// an ExecuteFunc, so Commands methods can be exercised without a real
// connection.
type scripted struct {
	responses []*meta.Response
	errs      []error
	requests  []*meta.Request
}

func (s *scripted) execute(_ context.Context, _ string, req *meta.Request) (*meta.Response, error) {
	s.requests = append(s.requests, req)
	i := len(s.requests) - 1
	var err error
	if i < len(s.errs) {
		err = s.errs[i]
	}
	var resp *meta.Response
	if i < len(s.responses) {
		resp = s.responses[i]
	}
	return resp, err
}

func newCommands(s *scripted) *memcache.Commands {
	return memcache.NewCommands(s.execute, nil, fakeClock{now: time.Unix(1_700_000_000, 0)})
}

func TestCommands_GetFound(t *testing.T) {
	s := &scripted{responses: []*meta.Response{{Status: meta.StatusVA, Data: []byte("hello")}}}
	cmds := newCommands(s)

	item, err := cmds.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, item.Found)
	assert.Equal(t, []byte("hello"), item.Value)
	require.Len(t, s.requests, 1)
	assert.Equal(t, meta.CmdGet, s.requests[0].Command)
}

func TestCommands_GetMiss(t *testing.T) {
	s := &scripted{responses: []*meta.Response{{Status: meta.StatusEN}}}
	cmds := newCommands(s)

	item, err := cmds.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.False(t, item.Found)
}

func TestCommands_GetEmptyKeyPanics(t *testing.T) {
	cmds := newCommands(&scripted{})
	assert.Panics(t, func() {
		_, _ = cmds.Get(context.Background(), "")
	})
}

func TestCommands_SetDefaultsToIndefinite(t *testing.T) {
	s := &scripted{responses: []*meta.Response{{Status: meta.StatusHD}}}
	cmds := newCommands(s)

	err := cmds.Set(context.Background(), memcache.Item{Key: "k", Value: []byte("v")})
	require.NoError(t, err)

	_, hasTTL := s.requests[0].GetFlag(meta.FlagTTL)
	require.True(t, hasTTL)
	tok, _ := s.requests[0].GetFlag(meta.FlagTTL)
	assert.Equal(t, "0", tok.Token)
}

func TestCommands_AddKeyExists(t *testing.T) {
	s := &scripted{responses: []*meta.Response{{Status: meta.StatusNS}}}
	cmds := newCommands(s)

	err := cmds.Add(context.Background(), memcache.Item{Key: "k", Value: []byte("v")})
	require.Error(t, err)
	assert.True(t, memcache.IsKind(err, memcache.KeyExist))
}

func TestCommands_ReplaceKeyNotFound(t *testing.T) {
	s := &scripted{responses: []*meta.Response{{Status: meta.StatusNS}}}
	cmds := newCommands(s)

	err := cmds.Replace(context.Background(), memcache.Item{Key: "k", Value: []byte("v")})
	require.Error(t, err)
	assert.True(t, memcache.IsKind(err, memcache.KeyNotFound))
}

func TestCommands_DeleteNotFound(t *testing.T) {
	s := &scripted{responses: []*meta.Response{{Status: meta.StatusNF}}}
	cmds := newCommands(s)

	err := cmds.Delete(context.Background(), "k")
	require.Error(t, err)
	assert.True(t, memcache.IsKind(err, memcache.KeyNotFound))
}

func TestCommands_IncrementVivifiesAtDelta(t *testing.T) {
	s := &scripted{responses: []*meta.Response{{Status: meta.StatusVA, Data: []byte("5")}}}
	cmds := newCommands(s)

	v, err := cmds.Increment(context.Background(), "counter", 5, memcache.Indefinite())
	require.NoError(t, err)
	assert.Equal(t, uint64(5), v)

	initial, ok := s.requests[0].GetFlag(meta.FlagInitialValue)
	require.True(t, ok)
	assert.Equal(t, "5", initial.Token)
}

func TestCommands_DecrementVivifiesAtZero(t *testing.T) {
	s := &scripted{responses: []*meta.Response{{Status: meta.StatusVA, Data: []byte("0")}}}
	cmds := newCommands(s)

	_, err := cmds.Decrement(context.Background(), "counter", 3, memcache.Indefinite())
	require.NoError(t, err)

	initial, ok := s.requests[0].GetFlag(meta.FlagInitialValue)
	require.True(t, ok)
	assert.Equal(t, "0", initial.Token)

	mode, ok := s.requests[0].GetFlag(meta.FlagMode)
	require.True(t, ok)
	assert.Equal(t, meta.ModeDecrement, mode.Token)
}

func TestCommands_IncrementZeroDeltaPanics(t *testing.T) {
	cmds := newCommands(&scripted{})
	assert.Panics(t, func() {
		_, _ = cmds.Increment(context.Background(), "k", 0, memcache.Indefinite())
	})
}

func TestCommands_DebugParsesParams(t *testing.T) {
	s := &scripted{responses: []*meta.Response{{Status: meta.StatusME, Data: []byte("key=k exp=60 la=3")}}}
	cmds := newCommands(s)

	params, err := cmds.Debug(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "k", params["key"])
	assert.Equal(t, "60", params["exp"])
}

func TestCommands_NoOp(t *testing.T) {
	s := &scripted{responses: []*meta.Response{{Status: meta.StatusMN}}}
	cmds := newCommands(s)

	require.NoError(t, cmds.NoOp(context.Background()))
	assert.Equal(t, meta.CmdNoOp, s.requests[0].Command)
}

func TestGetValue_DecodesTypedValue(t *testing.T) {
	s := &scripted{responses: []*meta.Response{{Status: meta.StatusVA, Data: []byte("42")}}}
	cmds := newCommands(s)

	v, found, err := memcache.GetValue[int](context.Background(), cmds, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 42, v)
}

func TestGetValueWithTTL_ReturnsRemainingTTL(t *testing.T) {
	s := &scripted{responses: []*meta.Response{{
		Status: meta.StatusVA,
		Data:   []byte("7"),
		Flags:  meta.Flags{{Type: meta.FlagReturnTTL, Token: "60"}},
	}}}
	cmds := newCommands(s)

	v, ttl, found, err := memcache.GetValueWithTTL[int](context.Background(), cmds, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 7, v)
	assert.False(t, ttl.IsIndefinite())
}
