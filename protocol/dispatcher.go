package protocol

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// Peer is a remote inspector client connected to a transport.
type Peer interface {
	ID() string
}

// Handler handles a method call. A nil result is answered with an empty
// object.
type Handler func(ctx context.Context, peer Peer, params json.RawMessage) (any, error)

// Domain is a group of protocol methods, e.g. "CSS".
type Domain interface {
	Name() string
	Methods() map[string]Handler
}

// PeerObserver is implemented by domains which want to know about peers
// connecting to and disconnecting from the dispatcher.
type PeerObserver interface {
	PeerAttached(Peer)
	PeerDetached(Peer)
}

// ErrDuplicateDomain is returned when registering a domain name twice.
var ErrDuplicateDomain = errors.New("domain already registered")

// Dispatcher routes requests to the handlers of registered domains.
// It is safe for concurrent use.
type Dispatcher struct {
	mu        sync.RWMutex
	domains   []Domain
	methods   map[string]Handler
	observers []PeerObserver
}

// NewDispatcher creates a dispatcher without any domains.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{methods: make(map[string]Handler)}
}

// Register adds the methods of a domain to the dispatcher.
func (d *Dispatcher) Register(domain Domain) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	name := domain.Name()
	for _, dom := range d.domains {
		if dom.Name() == name {
			return fmt.Errorf("%w: %s", ErrDuplicateDomain, name)
		}
	}
	d.domains = append(d.domains, domain)
	for m, h := range domain.Methods() {
		d.methods[name+"."+m] = h
	}
	if obs, ok := domain.(PeerObserver); ok {
		d.observers = append(d.observers, obs)
	}
	tracer().Debugf("domain %s registered", name)
	return nil
}

// Domains returns the names of the registered domains, in order of
// registration.
func (d *Dispatcher) Domains() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	names := make([]string, len(d.domains))
	for i, dom := range d.domains {
		names[i] = dom.Name()
	}
	return names
}

// Attach tells all peer observers about a new peer.
func (d *Dispatcher) Attach(peer Peer) {
	tracer().P("peer", peer.ID()).Infof("peer attached")
	for _, obs := range d.peerObservers() {
		obs.PeerAttached(peer)
	}
}

// Detach tells all peer observers that a peer went away.
func (d *Dispatcher) Detach(peer Peer) {
	tracer().P("peer", peer.ID()).Infof("peer detached")
	for _, obs := range d.peerObservers() {
		obs.PeerDetached(peer)
	}
}

func (d *Dispatcher) peerObservers() []PeerObserver {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]PeerObserver(nil), d.observers...)
}

// Dispatch handles a single request message of a peer and returns the
// response to send back.
func (d *Dispatcher) Dispatch(ctx context.Context, peer Peer, msg []byte) *Response {
	req, err := ParseRequest(msg)
	if err != nil {
		resp := &Response{Error: ErrorFrom(err)}
		if req != nil {
			resp.ID = req.ID
		}
		tracer().Errorf("malformed request: %v", err)
		return resp
	}
	return d.Call(ctx, peer, req)
}

// Call calls the handler for a request.
func (d *Dispatcher) Call(ctx context.Context, peer Peer, req *Request) *Response {
	resp := &Response{ID: req.ID}
	d.mu.RLock()
	h, ok := d.methods[req.Method]
	d.mu.RUnlock()
	if !ok {
		resp.Error = ErrorFrom(fmt.Errorf("%w: %s", ErrMethodNotFound, req.Method))
		tracer().Infof("%s not implemented", req.Method)
		return resp
	}
	result, err := call(ctx, h, peer, req)
	if err != nil {
		resp.Error = ErrorFrom(err)
		tracer().P("method", req.Method).Errorf("%v", err)
		return resp
	}
	if result == nil {
		result = struct{}{}
	}
	resp.Result = result
	return resp
}

func call(ctx context.Context, h Handler, peer Peer, req *Request) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: handler panicked: %v", ErrInternal, r)
		}
	}()
	return h(ctx, peer, req.Params)
}
