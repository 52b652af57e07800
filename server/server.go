/*
Package server serves the inspection protocol to remote inspector clients.

The server offers the DevTools discovery endpoints

	GET /json/version
	GET /json           (alias /json/list)

and a websocket endpoint per inspectable page at /devtools/page/{id}.
Every websocket connection is a protocol peer. Messages of a connection
are dispatched one after the other and answered in order.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/npillmayer/inspector/protocol"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/net/websocket"
)

// tracer traces with key 'inspector.server'.
func tracer() tracing.Trace {
	return tracing.Select("inspector.server")
}

// PageID is the id of the single page target the server exposes.
const PageID = "1"

// Version is reported by /json/version.
const Version = "cssinspect/0.1"

// ProtocolVersion is the DevTools protocol version reported by /json/version.
const ProtocolVersion = "1.3"

// Server is an HTTP server for the inspection protocol.
type Server struct {
	dispatcher *protocol.Dispatcher
	router     *chi.Mux
	title      string
	url        string
	peerCount  atomic.Int64
	mu         sync.Mutex
	conns      map[*websocket.Conn]struct{}
}

// Option configures a server.
type Option func(*Server)

// WithPage sets title and URL of the inspectable page, as shown in the
// target list.
func WithPage(title, url string) Option {
	return func(s *Server) {
		s.title, s.url = title, url
	}
}

// New creates a server which dispatches protocol messages to dispatcher.
func New(dispatcher *protocol.Dispatcher, opts ...Option) *Server {
	s := &Server{
		dispatcher: dispatcher,
		title:      "document",
		url:        "about:blank",
		conns:      make(map[*websocket.Conn]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NoCache)
		r.Get("/json/version", s.handleVersion)
		r.Get("/json", s.handleList)
		r.Get("/json/list", s.handleList)
	})
	r.Get("/devtools/page/{id}", s.handlePage)
	s.router = r
	return s
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully, closing open websocket connections.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("cannot listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, l)
}

// Serve serves on l until ctx is done.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.closeConns()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			tracer().Errorf("shutdown: %v", err)
		}
	}()
	tracer().Infof("serving inspection protocol on http://%s", l.Addr())
	if err := srv.Serve(l); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// --- Discovery -------------------------------------------------------------

type versionInfo struct {
	Browser         string `json:"Browser"`
	ProtocolVersion string `json:"Protocol-Version"`
}

type target struct {
	ID                   string `json:"id"`
	Type                 string `json:"type"`
	Title                string `json:"title"`
	URL                  string `json:"url"`
	Description          string `json:"description"`
	WebSocketDebuggerURL string `json:"webSocketDebuggerUrl"`
	DevtoolsFrontendURL  string `json:"devtoolsFrontendUrl"`
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, versionInfo{Browser: Version, ProtocolVersion: ProtocolVersion})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	ws := fmt.Sprintf("%s/devtools/page/%s", r.Host, PageID)
	writeJSON(w, []target{{
		ID:                   PageID,
		Type:                 "page",
		Title:                s.title,
		URL:                  s.url,
		Description:          fmt.Sprintf("domains: %v", s.dispatcher.Domains()),
		WebSocketDebuggerURL: "ws://" + ws,
		DevtoolsFrontendURL:  "/devtools/inspector.html?ws=" + ws,
	}})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		tracer().Errorf("cannot encode JSON response: %v", err)
	}
}

// --- Websocket transport ---------------------------------------------------

// peer is a websocket connection.
type peer struct {
	id string
	ws *websocket.Conn
}

func (p *peer) ID() string {
	return p.id
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	if chi.URLParam(r, "id") != PageID {
		http.NotFound(w, r)
		return
	}
	wsServer := websocket.Server{
		// inspector front-ends are served from arbitrary origins
		Handshake: func(*websocket.Config, *http.Request) error { return nil },
		Handler:   s.serveConn,
	}
	wsServer.ServeHTTP(w, r)
}

func (s *Server) serveConn(ws *websocket.Conn) {
	p := &peer{
		id: fmt.Sprintf("peer-%d", s.peerCount.Add(1)),
		ws: ws,
	}
	s.mu.Lock()
	s.conns[ws] = struct{}{}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.conns, ws)
		s.mu.Unlock()
		_ = ws.Close()
	}()
	s.dispatcher.Attach(p)
	defer s.dispatcher.Detach(p)
	ctx := ws.Request().Context()
	for {
		var msg []byte
		if err := websocket.Message.Receive(ws, &msg); err != nil {
			tracer().P("peer", p.id).Debugf("connection closed: %v", err)
			return
		}
		resp := s.dispatcher.Dispatch(ctx, p, msg)
		out, err := json.Marshal(resp)
		if err != nil {
			tracer().P("peer", p.id).Errorf("cannot encode response: %v", err)
			out, _ = json.Marshal(&protocol.Response{
				ID:    resp.ID,
				Error: protocol.ErrorFrom(fmt.Errorf("%w: %v", protocol.ErrInternal, err)),
			})
		}
		if err := websocket.Message.Send(ws, string(out)); err != nil {
			tracer().P("peer", p.id).Errorf("cannot send response: %v", err)
			return
		}
	}
}

func (s *Server) closeConns() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ws := range s.conns {
		_ = ws.Close()
	}
}
