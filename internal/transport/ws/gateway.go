// Package ws is the WebSocket gateway transport. Browser and desktop
// clients authenticate with a shared token, send chat messages and
// confirmation decisions, and receive dispatched actions.
package ws

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/obeidat/hrdesk/internal/config"
	"github.com/obeidat/hrdesk/internal/domain"
	"github.com/obeidat/hrdesk/internal/logging"
	"github.com/obeidat/hrdesk/internal/version"
)

// TransportID identifies this transport in inbound messages and status
// reports.
const TransportID = "gateway"

const maxFramePayload = 1 << 20 // 1MB

var ErrNotConnected = errors.New("external account has no active connection")

// authRateLimiter tracks failed handshakes per IP.
type authRateLimiter struct {
	mu       sync.Mutex
	failures map[string][]time.Time
}

const (
	authRateWindow   = 5 * time.Minute
	authRateMaxFails = 10
)

func newAuthRateLimiter() *authRateLimiter {
	return &authRateLimiter{failures: make(map[string][]time.Time)}
}

func (l *authRateLimiter) allow(remoteAddr string) bool {
	host, _, _ := net.SplitHostPort(remoteAddr)
	if host == "" {
		host = remoteAddr
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := time.Now().Add(-authRateWindow)
	recent := l.failures[host]
	filtered := recent[:0]
	for _, t := range recent {
		if t.After(cutoff) {
			filtered = append(filtered, t)
		}
	}
	if len(filtered) == 0 {
		delete(l.failures, host)
		return true
	}
	l.failures[host] = filtered
	return len(filtered) < authRateMaxFails
}

func (l *authRateLimiter) recordFailure(remoteAddr string) {
	host, _, _ := net.SplitHostPort(remoteAddr)
	if host == "" {
		host = remoteAddr
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failures[host] = append(l.failures[host], time.Now())
}

// conn is one authenticated client connection.
type conn struct {
	ws          *websocket.Conn
	connID      string
	externalID  string
	displayName string

	writeMu sync.Mutex
}

func (c *conn) writeFrame(f Frame) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.ws.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return c.ws.WriteJSON(f)
}

// Gateway is the WebSocket transport server. It implements
// domain.Transport.
type Gateway struct {
	cfg  config.GatewayConfig
	auth ResolvedAuth
	log  *logging.Logger

	handler func(msg domain.InboundMessage)

	mu    sync.RWMutex
	conns map[string]*conn // keyed by external account id; latest connection wins

	httpServer  *http.Server
	upgrader    websocket.Upgrader
	authLimiter *authRateLimiter
	lastError   string
	running     bool
}

// New creates a gateway transport from config.
func New(cfg config.GatewayConfig, log *logging.Logger) *Gateway {
	return &Gateway{
		cfg:         cfg,
		auth:        ResolveAuth(cfg.Auth),
		log:         log.Sub("gateway"),
		conns:       make(map[string]*conn),
		authLimiter: newAuthRateLimiter(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Clients are native apps and the bundled UI; any origin may connect,
			// authentication happens in the handshake frame.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// ID returns the transport identifier.
func (g *Gateway) ID() string { return TransportID }

// OnMessage registers the inbound message handler. Must be called
// before Start.
func (g *Gateway) OnMessage(handler func(msg domain.InboundMessage)) {
	g.handler = handler
}

// Status reports the gateway's runtime state.
func (g *Gateway) Status() domain.TransportStatus {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return domain.TransportStatus{
		TransportID: TransportID,
		Connected:   len(g.conns) > 0,
		Running:     g.running,
		LastError:   g.lastError,
	}
}

// resolveBindAddr computes the listen address from config.
func resolveBindAddr(cfg config.GatewayConfig) string {
	switch cfg.Bind {
	case "lan":
		return fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	default:
		return fmt.Sprintf("127.0.0.1:%d", cfg.Port)
	}
}

// Start begins listening for WebSocket connections. It blocks until the
// context is cancelled or the listener fails.
func (g *Gateway) Start(ctx context.Context) error {
	addr := resolveBindAddr(g.cfg)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", g.handleWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})

	g.httpServer = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		IdleTimeout:  120 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	if g.cfg.Bind == "lan" {
		g.log.Warn().Msg("binding beyond loopback; traffic is cleartext")
	}

	g.mu.Lock()
	g.running = true
	g.mu.Unlock()

	g.log.Info().
		Str("addr", ln.Addr().String()).
		Str("bind", g.cfg.Bind).
		Msg("gateway listening")

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		g.closeAll()
		g.httpServer.Shutdown(shutdownCtx)
	}()

	err = g.httpServer.Serve(ln)
	g.mu.Lock()
	g.running = false
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		g.lastError = err.Error()
	}
	g.mu.Unlock()

	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully shuts the gateway down.
func (g *Gateway) Stop(ctx context.Context) error {
	g.closeAll()
	if g.httpServer == nil {
		return nil
	}
	return g.httpServer.Shutdown(ctx)
}

// Deliver renders an action to the given external account's active
// connection.
func (g *Gateway) Deliver(_ context.Context, externalID string, act domain.Action) error {
	c := g.connFor(externalID)
	if c == nil {
		return fmt.Errorf("deliver to %s: %w", externalID, ErrNotConnected)
	}
	return c.writeFrame(NewActionFrame(act))
}

// Typing signals an in-flight dispatch cycle to the user.
func (g *Gateway) Typing(_ context.Context, externalID string) error {
	c := g.connFor(externalID)
	if c == nil {
		return nil
	}
	return c.writeFrame(Frame{Type: FrameTypeTyping})
}

func (g *Gateway) connFor(externalID string) *conn {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.conns[externalID]
}

func (g *Gateway) closeAll() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for id, c := range g.conns {
		c.ws.Close()
		delete(g.conns, id)
	}
}

// handleWS upgrades the connection, authenticates it and runs the read
// loop until the peer disconnects.
func (g *Gateway) handleWS(w http.ResponseWriter, r *http.Request) {
	if !g.authLimiter.allow(r.RemoteAddr) {
		g.log.Warn().Str("remote", r.RemoteAddr).Msg("rate limited after repeated auth failures")
		http.Error(w, "too many requests", http.StatusTooManyRequests)
		return
	}

	wsConn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	wsConn.SetReadLimit(maxFramePayload)

	c, err := g.handshake(wsConn)
	if err != nil {
		g.log.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("handshake failed")
		g.authLimiter.recordFailure(wsConn.RemoteAddr().String())
		wsConn.Close()
		return
	}

	g.register(c)
	defer g.unregister(c)

	g.readLoop(c)
}

// handshake reads the connect frame and authenticates the client.
func (g *Gateway) handshake(wsConn *websocket.Conn) (*conn, error) {
	wsConn.SetReadDeadline(time.Now().Add(10 * time.Second))

	_, raw, err := wsConn.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("reading connect: %w", err)
	}
	frame, err := DecodeFrame(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing connect frame: %w", err)
	}
	if frame.Type != FrameTypeConnect {
		sendErrorAndClose(wsConn, "protocol_error", "expected connect frame")
		return nil, fmt.Errorf("expected connect frame, got %q", frame.Type)
	}
	if frame.ExternalID == "" {
		sendErrorAndClose(wsConn, "invalid_params", "externalId is required")
		return nil, errors.New("connect frame missing externalId")
	}

	result := Authorize(g.auth, frame.Token)
	if !result.OK {
		sendErrorAndClose(wsConn, "unauthorized", result.Reason)
		return nil, fmt.Errorf("auth failed: %s", result.Reason)
	}

	wsConn.SetReadDeadline(time.Time{})

	c := &conn{
		ws:          wsConn,
		connID:      uuid.New().String(),
		externalID:  frame.ExternalID,
		displayName: frame.DisplayName,
	}

	if err := c.writeFrame(Frame{
		Type:     FrameTypeConnected,
		Protocol: ProtocolVersion,
		Server:   &ServerInfo{Version: version.Version, ConnID: c.connID},
	}); err != nil {
		return nil, fmt.Errorf("sending connected: %w", err)
	}

	g.log.Info().
		Str("conn_id", c.connID).
		Str("external_id", c.externalID).
		Msg("client authenticated")
	return c, nil
}

func (g *Gateway) register(c *conn) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if prev, ok := g.conns[c.externalID]; ok {
		prev.ws.Close()
	}
	g.conns[c.externalID] = c
}

func (g *Gateway) unregister(c *conn) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.conns[c.externalID] == c {
		delete(g.conns, c.externalID)
	}
	c.ws.Close()
}

// readLoop processes frames from an authenticated client.
func (g *Gateway) readLoop(c *conn) {
	for {
		_, raw, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				g.log.Debug().Str("conn_id", c.connID).Msg("client closed connection")
			} else {
				g.log.Warn().Err(err).Str("conn_id", c.connID).Msg("read error")
			}
			return
		}

		frame, err := DecodeFrame(raw)
		if err != nil {
			c.writeFrame(NewErrorFrame("bad_frame", "malformed frame"))
			continue
		}

		switch frame.Type {
		case FrameTypeMessage:
			g.inbound(c, frame, nil)
		case FrameTypeDecision:
			if frame.Token == "" || frame.Approved == nil {
				c.writeFrame(NewErrorFrame("invalid_params", "decision requires token and approved"))
				continue
			}
			g.inbound(c, frame, &domain.Decision{Token: frame.Token, Approved: *frame.Approved})
		default:
			g.log.Debug().Str("type", frame.Type).Msg("ignoring unexpected frame")
		}
	}
}

// inbound converts a frame into a dispatcher message. Each message runs
// in its own goroutine so one slow cycle never blocks the read loop.
func (g *Gateway) inbound(c *conn, frame Frame, decision *domain.Decision) {
	if g.handler == nil {
		c.writeFrame(NewErrorFrame("unavailable", "no message handler configured"))
		return
	}

	id := frame.ID
	if id == "" {
		id = uuid.New().String()
	}
	msg := domain.InboundMessage{
		ID:          id,
		TransportID: TransportID,
		ExternalID:  c.externalID,
		SenderName:  c.displayName,
		Body:        frame.Body,
		Timestamp:   time.Now().UTC(),
		Decision:    decision,
	}
	go g.handler(msg)
}

func sendErrorAndClose(wsConn *websocket.Conn, code, message string) {
	wsConn.WriteJSON(NewErrorFrame(code, message))
	wsConn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, message))
}
