package protocol

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPeer string

func (p testPeer) ID() string { return string(p) }

type echoParams struct {
	Text  string `json:"text"`
	Times int    `json:"times"`
}

func (echoParams) Required() []string { return []string{"text"} }

func (p echoParams) Validate() error {
	if p.Times < 0 {
		return errors.New("times must not be negative")
	}
	return nil
}

type echoDomain struct {
	attached, detached []string
}

func (d *echoDomain) Name() string { return "Echo" }

func (d *echoDomain) Methods() map[string]Handler {
	return map[string]Handler{
		"enable": func(context.Context, Peer, json.RawMessage) (any, error) {
			return nil, nil
		},
		"echo": func(_ context.Context, _ Peer, raw json.RawMessage) (any, error) {
			p, err := DecodeParams[echoParams](raw)
			if err != nil {
				return nil, err
			}
			return map[string]any{"text": p.Text, "times": p.Times}, nil
		},
		"fail": func(context.Context, Peer, json.RawMessage) (any, error) {
			return nil, errors.New("boom")
		},
		"panic": func(context.Context, Peer, json.RawMessage) (any, error) {
			panic("oops")
		},
	}
}

func (d *echoDomain) PeerAttached(p Peer) { d.attached = append(d.attached, p.ID()) }
func (d *echoDomain) PeerDetached(p Peer) { d.detached = append(d.detached, p.ID()) }

func dispatch(t *testing.T, d *Dispatcher, msg string) string {
	resp := d.Dispatch(context.Background(), testPeer("p1"), []byte(msg))
	out, err := json.Marshal(resp)
	require.NoError(t, err)
	return string(out)
}

func TestDispatch(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "inspector.protocol")
	defer teardown()
	//
	d := NewDispatcher()
	require.NoError(t, d.Register(&echoDomain{}))
	assert.True(t, errors.Is(d.Register(&echoDomain{}), ErrDuplicateDomain))
	assert.Equal(t, []string{"Echo"}, d.Domains())
	//
	assert.JSONEq(t, `{"id":1,"result":{}}`,
		dispatch(t, d, `{"id":1,"method":"Echo.enable"}`))
	assert.JSONEq(t, `{"id":2,"result":{"text":"hi","times":3}}`,
		dispatch(t, d, `{"id":2,"method":"Echo.echo","params":{"text":"hi","times":3}}`))
	assert.JSONEq(t, `{"id":"x","error":{"code":-32601,"message":"method not found","data":"method not found: DOM.enable"}}`,
		dispatch(t, d, `{"id":"x","method":"DOM.enable"}`))
	assert.JSONEq(t, `{"id":4,"error":{"code":-32603,"message":"internal error","data":"boom"}}`,
		dispatch(t, d, `{"id":4,"method":"Echo.fail"}`))
	assert.Contains(t, dispatch(t, d, `{"id":5,"method":"Echo.panic"}`), `"code":-32603`)
}

func TestDispatchMalformed(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "inspector.protocol")
	defer teardown()
	//
	d := NewDispatcher()
	require.NoError(t, d.Register(&echoDomain{}))
	for msg, code := range map[string]int{
		`{"id":1,`:                                   CodeParseError,
		`[1,2]`:                                      CodeInvalidRequest,
		`{"method":"Echo.enable"}`:                   CodeInvalidRequest,
		`{"id":1}`:                                   CodeInvalidRequest,
		`{"id":1,"method":"Echo.echo"}`:              CodeInvalidParams,
		`{"id":1,"method":"Echo.echo","params":[1]}`: CodeInvalidParams,
		`{"id":1,"method":"Echo.echo","params":{"text":7}}`:              CodeInvalidParams,
		`{"id":1,"method":"Echo.echo","params":{"text":null}}`:           CodeInvalidParams,
		`{"id":1,"method":"Echo.echo","params":{"text":"a","times":-1}}`: CodeInvalidParams,
	} {
		resp := d.Dispatch(context.Background(), testPeer("p1"), []byte(msg))
		if assert.NotNil(t, resp.Error, msg) {
			assert.Equal(t, code, resp.Error.Code, msg)
		}
		assert.Nil(t, resp.Result, msg)
	}
}

func TestAttachDetach(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "inspector.protocol")
	defer teardown()
	//
	d := NewDispatcher()
	echo := &echoDomain{}
	require.NoError(t, d.Register(echo))
	d.Attach(testPeer("a"))
	d.Attach(testPeer("b"))
	d.Detach(testPeer("a"))
	assert.Equal(t, []string{"a", "b"}, echo.attached)
	assert.Equal(t, []string{"a"}, echo.detached)
}

func TestPeersRegisteredListener(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "inspector.protocol")
	defer teardown()
	//
	first, last := 0, 0
	pm := NewPeerManager()
	pm.SetListener(&PeersRegisteredListener{
		FirstPeerRegistered:  func() { first++ },
		LastPeerUnregistered: func() { last++ },
	})
	assert.True(t, pm.AddPeer(testPeer("a")))
	assert.False(t, pm.AddPeer(testPeer("a")))
	assert.True(t, pm.AddPeer(testPeer("b")))
	assert.Equal(t, 1, first)
	assert.True(t, pm.RemovePeer(testPeer("a")))
	assert.Equal(t, 0, last)
	assert.True(t, pm.HasRegisteredPeers())
	assert.True(t, pm.RemovePeer(testPeer("b")))
	assert.False(t, pm.RemovePeer(testPeer("b")))
	assert.Equal(t, 1, last)
	assert.False(t, pm.HasRegisteredPeers())
	assert.True(t, pm.AddPeer(testPeer("c")))
	assert.Equal(t, 2, first)
}

func TestErrorFrom(t *testing.T) {
	perr := &Error{Code: 42, Message: "custom"}
	assert.Same(t, perr, ErrorFrom(perr))
	e := ErrorFrom(ErrInvalidParams)
	assert.Equal(t, CodeInvalidParams, e.Code)
	assert.Empty(t, e.Data)
	assert.Equal(t, "[-32602] invalid params", e.Error())
}
