package memcache

import (
	"context"
	"strconv"

	"github.com/asyncmc/memcache/meta"
)

// ExecuteFunc executes a memcache request for a given key.
// The key is provided separately to allow server selection based on the key.
type ExecuteFunc func(ctx context.Context, key string, req *meta.Request) (*meta.Response, error)

// Commands provides the typed memcache command surface (get/set/add/
// replace/append/prepend/delete/touch/increment/decrement/debug/noop) on
// top of any ExecuteFunc. This struct can be used independently with a
// custom ExecuteFunc, or obtained from a Client for full pool/circuit-
// breaker backed resilience.
type Commands struct {
	execute ExecuteFunc
	stats   *clientStatsCollector
	clock   Clock
}

// NewCommands creates a new Commands instance with the given execute
// function, stats collector and clock (used for TTL math). clock may be
// nil, in which case DefaultClock is used.
func NewCommands(execute ExecuteFunc, stats *clientStatsCollector, clock Clock) *Commands {
	if clock == nil {
		clock = DefaultClock
	}
	return &Commands{execute: execute, stats: stats, clock: clock}
}

func requireKey(key string) {
	if key == "" {
		panic("memcache: key must not be empty")
	}
}

// Get retrieves a single item from memcache ("mg key v").
func (c *Commands) Get(ctx context.Context, key string) (Item, error) {
	requireKey(key)
	req := meta.NewRequest(meta.CmdGet, key, nil, meta.Flag{Type: meta.FlagReturnValue})
	resp, err := c.execute(ctx, key, req)
	if err != nil {
		return Item{}, err
	}

	if resp.IsMiss() {
		c.stats.recordGet(false)
		return Item{Key: key, Found: false}, nil
	}
	if resp.HasError() {
		c.stats.recordError()
		return Item{}, errProtocol("get failed", resp.Error)
	}
	if resp.Status != meta.StatusVA {
		c.stats.recordError()
		return Item{}, errProtocol("unexpected response status for get: "+string(resp.Status), nil)
	}

	c.stats.recordGet(true)
	return Item{Key: key, Value: resp.Data, Found: true}, nil
}

// getWithTTL retrieves a single item along with its remaining TimeToLive
// ("mg key v t"), backing GetValueWithTTL's get<V>(key) -> (V, TTL)? surface.
func (c *Commands) getWithTTL(ctx context.Context, key string) (Item, TimeToLive, error) {
	requireKey(key)
	req := meta.NewRequest(meta.CmdGet, key, nil,
		meta.Flag{Type: meta.FlagReturnValue},
		meta.Flag{Type: meta.FlagReturnTTL},
	)
	resp, err := c.execute(ctx, key, req)
	if err != nil {
		return Item{}, TimeToLive{}, err
	}

	if resp.IsMiss() {
		c.stats.recordGet(false)
		return Item{Key: key, Found: false}, TimeToLive{}, nil
	}
	if resp.HasError() {
		c.stats.recordError()
		return Item{}, TimeToLive{}, errProtocol("get failed", resp.Error)
	}
	if resp.Status != meta.StatusVA {
		c.stats.recordError()
		return Item{}, TimeToLive{}, errProtocol("unexpected response status for get: "+string(resp.Status), nil)
	}

	token, present := resp.GetFlagToken(meta.FlagReturnTTL)
	ttl := decodeTTL(token, present, c.clock.Now())

	c.stats.recordGet(true)
	return Item{Key: key, Value: resp.Data, Found: true}, ttl, nil
}

// Touch updates a key's TTL without altering its value ("mg key T<...>").
func (c *Commands) Touch(ctx context.Context, key string, ttl TimeToLive) error {
	requireKey(key)
	req := meta.NewRequest(meta.CmdGet, key, nil, ttl.flag(c.clock.Now()))
	resp, err := c.execute(ctx, key, req)
	if err != nil {
		return err
	}
	if resp.IsMiss() {
		return errKeyNotFound(key)
	}
	if resp.HasError() {
		c.stats.recordError()
		return errProtocol("touch failed", resp.Error)
	}
	if !resp.IsSuccess() {
		c.stats.recordError()
		return errProtocol("unexpected response status for touch: "+string(resp.Status), nil)
	}
	return nil
}

func (c *Commands) store(ctx context.Context, item Item, mode StorageMode) error {
	requireKey(item.Key)
	flags := requestFlags{ttl: &item.TTL}
	if mode != StoreSet {
		flags.storageMode = mode
	}

	req := meta.NewRequest(meta.CmdSet, item.Key, item.Value, flags.toMetaFlags(c.clock.Now())...)
	resp, err := c.execute(ctx, item.Key, req)
	if err != nil {
		return err
	}

	if resp.HasError() {
		c.stats.recordError()
		return errProtocol("store failed", resp.Error)
	}

	switch {
	case resp.Status == meta.StatusHD:
		return nil
	case resp.Status == meta.StatusNS && mode == StoreAdd:
		c.stats.recordError()
		return errKeyExist(item.Key)
	case (resp.Status == meta.StatusNS || resp.Status == meta.StatusNF) &&
		(mode == StoreReplace || mode == StoreAppend || mode == StorePrepend):
		c.stats.recordError()
		return errKeyNotFound(item.Key)
	default:
		c.stats.recordError()
		return errProtocol("unexpected response status for store: "+string(resp.Status), nil)
	}
}

// Set stores an item unconditionally, defaulting to no expiration when
// item.TTL is the zero value (set(key, value, ttl=Indefinitely)).
func (c *Commands) Set(ctx context.Context, item Item) error {
	err := c.store(ctx, item, StoreSet)
	if err == nil {
		c.stats.recordSet()
	}
	return err
}

// Add stores item only if its key doesn't already exist; KeyExist if it does.
func (c *Commands) Add(ctx context.Context, item Item) error {
	err := c.store(ctx, item, StoreAdd)
	if err == nil {
		c.stats.recordAdd()
	}
	return err
}

// Replace stores item only if its key already exists; KeyNotFound otherwise.
func (c *Commands) Replace(ctx context.Context, item Item) error {
	return c.store(ctx, item, StoreReplace)
}

// Append appends item.Value to the existing value; KeyNotFound if the key
// doesn't exist.
func (c *Commands) Append(ctx context.Context, item Item) error {
	return c.store(ctx, item, StoreAppend)
}

// Prepend prepends item.Value to the existing value; KeyNotFound if the
// key doesn't exist.
func (c *Commands) Prepend(ctx context.Context, item Item) error {
	return c.store(ctx, item, StorePrepend)
}

// Delete removes an item from memcache.
func (c *Commands) Delete(ctx context.Context, key string) error {
	requireKey(key)
	req := meta.NewRequest(meta.CmdDelete, key, nil)
	resp, err := c.execute(ctx, key, req)
	if err != nil {
		return err
	}

	if resp.HasError() {
		c.stats.recordError()
		return errProtocol("delete failed", resp.Error)
	}

	switch resp.Status {
	case meta.StatusHD:
		c.stats.recordDelete()
		return nil
	case meta.StatusNF:
		c.stats.recordError()
		return errKeyNotFound(key)
	default:
		c.stats.recordError()
		return errProtocol("unexpected response status for delete: "+string(resp.Status), nil)
	}
}

// arithmetic implements both Increment and Decrement: "ma key v M<+/->
// D<delta> N<ttl> J<initial>", auto-vivifying the key at initial (0 for decrement,
// delta for increment) with the given ttl if it doesn't already exist.
func (c *Commands) arithmetic(ctx context.Context, key string, mode ArithmeticMode, delta uint64, ttl TimeToLive) (uint64, error) {
	requireKey(key)
	if delta == 0 {
		panic("memcache: increment/decrement delta must be > 0")
	}

	initial := delta
	if mode == Decrement {
		initial = 0
	}

	now := c.clock.Now()
	flags := requestFlags{arithmeticMode: mode, delta: delta, returnValue: true}
	wireFlags := flags.toMetaFlags(now)
	wireFlags = append(wireFlags,
		meta.Flag{Type: meta.FlagVivify, Token: ttl.encode(now)},
		meta.Flag{Type: meta.FlagInitialValue, Token: strconv.FormatUint(initial, 10)},
	)

	req := meta.NewRequest(meta.CmdArithmetic, key, nil, wireFlags...)
	resp, err := c.execute(ctx, key, req)
	if err != nil {
		return 0, err
	}

	if resp.HasError() {
		c.stats.recordError()
		return 0, errProtocol("arithmetic failed", resp.Error)
	}
	if resp.Status != meta.StatusVA {
		c.stats.recordError()
		return 0, errProtocol("unexpected response status for arithmetic: "+string(resp.Status), nil)
	}

	value, ok := meta.DecodeUnsigned[uint64](resp.Data)
	if !ok {
		c.stats.recordError()
		return 0, errProtocol("arithmetic response value could not be decoded", nil)
	}

	c.stats.recordIncrement()
	return value, nil
}

// Increment atomically adds delta to key's stored counter, auto-creating
// it at delta with ttl if it doesn't exist. delta must be > 0 (programmer
// error otherwise).
func (c *Commands) Increment(ctx context.Context, key string, delta uint64, ttl TimeToLive) (uint64, error) {
	return c.arithmetic(ctx, key, Increment, delta, ttl)
}

// Decrement atomically subtracts delta from key's stored counter (never
// underflowing below zero), auto-creating it at 0 with ttl if it doesn't
// exist. delta must be > 0 (programmer error otherwise).
func (c *Commands) Decrement(ctx context.Context, key string, delta uint64, ttl TimeToLive) (uint64, error) {
	return c.arithmetic(ctx, key, Decrement, delta, ttl)
}

// Debug returns the server's free-form internal metadata for key ("me
// key"), grounded on meta.ParseDebugParams.
func (c *Commands) Debug(ctx context.Context, key string) (map[string]string, error) {
	requireKey(key)
	req := meta.NewRequest(meta.CmdDebug, key, nil)
	resp, err := c.execute(ctx, key, req)
	if err != nil {
		return nil, err
	}
	if resp.HasError() {
		c.stats.recordError()
		return nil, errProtocol("debug failed", resp.Error)
	}
	if resp.IsMiss() {
		return nil, errKeyNotFound(key)
	}
	if resp.Status != meta.StatusME {
		c.stats.recordError()
		return nil, errProtocol("unexpected response status for debug: "+string(resp.Status), nil)
	}
	return meta.ParseDebugParams(resp.Data), nil
}

// NoOp sends a liveness probe ("mn") and returns nil once the server
// replies MN. It carries no key, so it bypasses any key-based server
// selection the caller's ExecuteFunc might otherwise perform.
func (c *Commands) NoOp(ctx context.Context) error {
	req := meta.NewRequest(meta.CmdNoOp, "", nil)
	resp, err := c.execute(ctx, "", req)
	if err != nil {
		return err
	}
	if resp.HasError() {
		return errProtocol("noop failed", resp.Error)
	}
	if resp.Status != meta.StatusMN {
		return errProtocol("unexpected response status for noop: "+string(resp.Status), nil)
	}
	return nil
}
