package ra2

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"ra2audit/internal/logging"
	"ra2audit/internal/protocol"
)

// State is the connection lifecycle state of a Client.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateAwaitingLogin
	StateReady
	StateFailed
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateAwaitingLogin:
		return "awaiting-login"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Default timeouts. All overridable per Client before Connect.
const (
	DefaultDialTimeout  = 5 * time.Second
	DefaultLoginTimeout = 5 * time.Second
	DefaultQueryTimeout = 3 * time.Second
	DefaultWriteTimeout = 5 * time.Second

	identifyFadeSeconds  = 0.5
	defaultIdentifyPause = 1 * time.Second

	readChunkSize = 1024
)

// Client is a stateful client for one controller session. It owns the TCP
// connection exclusively; the receive loop is the only reader and all
// writes go through a single mutex. Safe for concurrent use.
type Client struct {
	// DialTimeout bounds the TCP connect.
	DialTimeout time.Duration
	// LoginTimeout bounds the wait for the controller's command prompt
	// after credentials are sent.
	LoginTimeout time.Duration
	// QueryTimeout bounds the wait for a correlated zone level response.
	QueryTimeout time.Duration
	// WriteTimeout bounds each command send.
	WriteTimeout time.Duration
	// IdentifyPause is the hold time between identify flash steps.
	IdentifyPause time.Duration

	// OnEvent, when set, observes every parsed event. Called from the
	// receive loop; must not block.
	OnEvent func(protocol.Event)

	mu          sync.Mutex // guards state, conn, loginResult, promptCount
	state       State
	conn        net.Conn
	loginResult chan error
	promptCount int

	sendMu sync.Mutex // serializes writes to conn

	waiterMu sync.Mutex
	waiters  map[int][]chan float64
}

// NewClient creates a disconnected client with default timeouts.
func NewClient() *Client {
	return &Client{
		DialTimeout:   DefaultDialTimeout,
		LoginTimeout:  DefaultLoginTimeout,
		QueryTimeout:  DefaultQueryTimeout,
		WriteTimeout:  DefaultWriteTimeout,
		IdentifyPause: defaultIdentifyPause,
		state:         StateDisconnected,
		waiters:       make(map[int][]chan float64),
	}
}

// State returns the current session state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Connect dials the controller, submits credentials, and waits for the
// command prompt. On return with nil error the session is Ready: logged in
// and safe for commands. Login rejection, dial failure, and prompt timeout
// all return an error with the session torn down.
func (c *Client) Connect(ctx context.Context, host string, port int, username, password string) error {
	c.mu.Lock()
	if c.state == StateConnecting || c.state == StateAwaitingLogin || c.state == StateReady {
		c.mu.Unlock()
		return NewValidationError("already connected; disconnect first")
	}
	c.state = StateConnecting
	c.loginResult = make(chan error, 1)
	c.promptCount = 0
	loginResult := c.loginResult
	c.mu.Unlock()

	addr := net.JoinHostPort(host, fmt.Sprintf("%d", port))
	dialer := net.Dialer{Timeout: c.DialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		c.mu.Lock()
		c.state = StateFailed
		c.mu.Unlock()
		return NewTransportError(fmt.Sprintf("failed to connect to %s", addr), err)
	}

	c.mu.Lock()
	c.conn = conn
	c.state = StateAwaitingLogin
	c.mu.Unlock()

	logging.Debug("Connected, sending credentials", zap.String("addr", addr))
	go c.receiveLoop(conn)

	// The controller prompts for credentials as soon as the transport is
	// up; answering immediately avoids waiting on an unterminated prompt.
	if err := c.send(protocol.Login(username, password)); err != nil {
		c.teardown(StateFailed)
		return err
	}

	select {
	case err := <-loginResult:
		if err != nil {
			c.teardown(StateFailed)
			return err
		}
		logging.Debug("Login accepted", zap.String("addr", addr))
		return nil
	case <-ctx.Done():
		c.teardown(StateFailed)
		return NewTransportError("connect canceled", ctx.Err())
	case <-time.After(c.LoginTimeout):
		c.teardown(StateFailed)
		return NewTimeoutError("no login confirmation from controller")
	}
}

// Disconnect releases the transport. Idempotent.
func (c *Client) Disconnect() {
	c.teardown(StateDisconnected)
}

// SetZoneLevel commands a zone to the given level (0-100) over the given
// fade time. The command is fire-and-forget: nil means accepted for
// transmission, not confirmed applied. Out-of-range levels fail validation
// before any bytes reach the wire.
func (c *Client) SetZoneLevel(integrationID int, level float64, fadeSeconds float64) error {
	if level < 0 || level > 100 {
		return NewValidationError(fmt.Sprintf("level %v out of range 0-100", level))
	}
	if err := c.requireReady(); err != nil {
		return err
	}
	return c.send(protocol.SetZoneLevel(integrationID, level, fadeSeconds))
}

// QueryZoneLevel asks the controller for a zone's current level and waits
// for the response correlated by integration ID. Unsolicited level events
// for the same zone satisfy the query too - the controller does not tag
// responses, so correlation by ID is the contract.
func (c *Client) QueryZoneLevel(ctx context.Context, integrationID int) (float64, error) {
	if err := c.requireReady(); err != nil {
		return 0, err
	}

	ch := make(chan float64, 1)
	c.addWaiter(integrationID, ch)

	if err := c.send(protocol.QueryZoneLevel(integrationID)); err != nil {
		c.removeWaiter(integrationID, ch)
		return 0, err
	}

	select {
	case level, ok := <-ch:
		if !ok {
			return 0, NewTransportError("connection lost awaiting level response", nil)
		}
		return level, nil
	case <-ctx.Done():
		c.removeWaiter(integrationID, ch)
		return 0, NewTransportError("query canceled", ctx.Err())
	case <-time.After(c.QueryTimeout):
		c.removeWaiter(integrationID, ch)
		return 0, NewTimeoutError(fmt.Sprintf("no level response for zone %d", integrationID))
	}
}

// ActivateScene presses a keypad button, activating whatever scene is
// programmed behind it.
func (c *Client) ActivateScene(keypadID, button int) error {
	if err := c.requireReady(); err != nil {
		return err
	}
	return c.send(protocol.ActivateScene(keypadID, button))
}

// Ping sends a system query to verify the session is alive.
func (c *Client) Ping() error {
	if err := c.requireReady(); err != nil {
		return err
	}
	return c.send(protocol.Ping())
}

// IdentifyZone flashes a zone so an installer can locate it: full on, off,
// full on, each over a half-second fade with a pause between steps.
func (c *Client) IdentifyZone(ctx context.Context, integrationID int) error {
	steps := []float64{100, 0, 100}
	for i, level := range steps {
		if err := c.SetZoneLevel(integrationID, level, identifyFadeSeconds); err != nil {
			return err
		}
		if i == len(steps)-1 {
			break
		}
		select {
		case <-time.After(c.IdentifyPause):
		case <-ctx.Done():
			return NewTransportError("identify canceled", ctx.Err())
		}
	}
	return nil
}

// requireReady fails fast when the session is not logged in.
func (c *Client) requireReady() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateReady {
		return NewNotConnectedError(fmt.Sprintf("session is %s", c.state))
	}
	return nil
}

// send writes one encoded command. Writes are serialized so interleaved
// commands from concurrent callers never corrupt the stream.
func (c *Client) send(wire string) error {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return NewNotConnectedError("no open connection")
	}

	if err := conn.SetWriteDeadline(time.Now().Add(c.WriteTimeout)); err != nil {
		return NewTransportError("failed to set write deadline", err)
	}
	if _, err := conn.Write([]byte(wire)); err != nil {
		return NewTransportError("send failed", err)
	}

	logging.Debug("Sent command", zap.String("wire", strings.TrimRight(wire, "\r\n")))
	return nil
}

// receiveLoop is the sole reader of the connection. It accumulates bytes,
// splits complete CRLF lines through the codec, and keeps the unterminated
// remainder for the next read. Exits on any read error.
func (c *Client) receiveLoop(conn net.Conn) {
	var buf []byte
	chunk := make([]byte, readChunkSize)

	for {
		n, err := conn.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
			buf = c.drainLines(buf)
		}
		if err != nil {
			logging.Debug("Receive loop ended", zap.Error(err))
			c.connectionLost(conn)
			return
		}
	}
}

// drainLines dispatches every complete line in buf and returns the
// remainder. Telnet-style prompts ("login:", "GNET>") arrive without a
// terminator, so a remainder that is itself a prompt is dispatched and
// consumed as well.
func (c *Client) drainLines(buf []byte) []byte {
	for {
		idx := bytes.Index(buf, []byte("\r\n"))
		if idx < 0 {
			break
		}
		line := string(buf[:idx])
		buf = buf[idx+2:]
		c.handleEvent(protocol.ParseLine(line))
	}

	if isPrompt(buf) {
		c.handleEvent(protocol.ParseLine(string(buf)))
		return buf[:0]
	}
	return buf
}

// isPrompt reports whether an unterminated remainder is a login or command
// prompt rather than a partial response line.
func isPrompt(buf []byte) bool {
	if len(buf) == 0 {
		return false
	}
	s := strings.TrimSpace(string(buf))
	return strings.Contains(s, "GNET>") || strings.HasSuffix(strings.ToLower(s), "login:")
}

// handleEvent routes one parsed event: login sequencing, waiter
// correlation, then the observer hook.
func (c *Client) handleEvent(ev protocol.Event) {
	logging.Debug("Received event", zap.String("event", ev.String()))

	switch e := ev.(type) {
	case protocol.LoginSuccessEvent:
		c.mu.Lock()
		if c.state == StateAwaitingLogin {
			c.state = StateReady
			select {
			case c.loginResult <- nil:
			default:
			}
		}
		c.mu.Unlock()

	case protocol.LoginPromptEvent:
		c.mu.Lock()
		c.promptCount++
		// The first prompt is the connection banner; a repeat prompt after
		// credentials were sent means they were rejected.
		if c.state == StateAwaitingLogin && c.promptCount >= 2 {
			select {
			case c.loginResult <- NewTransportError("login rejected by controller", nil):
			default:
			}
		}
		c.mu.Unlock()

	case protocol.ZoneLevelEvent:
		c.deliverLevel(e.IntegrationID, e.Level)

	case protocol.ErrorEvent:
		logging.Warn("Controller reported error", zap.String("line", e.Raw))

	case protocol.UnknownEvent:
		// Unparseable lines never abort the session.
		logging.Debug("Ignoring unrecognized line", zap.String("line", e.Raw))
	}

	if c.OnEvent != nil {
		c.OnEvent(ev)
	}
}

// addWaiter registers a one-shot channel for the next level event on a zone.
func (c *Client) addWaiter(integrationID int, ch chan float64) {
	c.waiterMu.Lock()
	defer c.waiterMu.Unlock()
	c.waiters[integrationID] = append(c.waiters[integrationID], ch)
}

// removeWaiter unregisters a waiter that timed out or was canceled.
func (c *Client) removeWaiter(integrationID int, ch chan float64) {
	c.waiterMu.Lock()
	defer c.waiterMu.Unlock()
	pending := c.waiters[integrationID]
	for i, w := range pending {
		if w == ch {
			c.waiters[integrationID] = append(pending[:i], pending[i+1:]...)
			break
		}
	}
	if len(c.waiters[integrationID]) == 0 {
		delete(c.waiters, integrationID)
	}
}

// deliverLevel satisfies every pending query for the zone.
func (c *Client) deliverLevel(integrationID int, level float64) {
	c.waiterMu.Lock()
	pending := c.waiters[integrationID]
	delete(c.waiters, integrationID)
	c.waiterMu.Unlock()

	for _, ch := range pending {
		select {
		case ch <- level:
		default:
		}
	}
}

// connectionLost marks the session failed after a read error, unless it was
// an orderly local disconnect that already reset the state.
func (c *Client) connectionLost(conn net.Conn) {
	c.mu.Lock()
	if c.conn == conn {
		c.conn = nil
		if c.state != StateDisconnected {
			c.state = StateFailed
		}
		select {
		case c.loginResult <- NewTransportError("connection closed during login", nil):
		default:
		}
	}
	c.mu.Unlock()

	c.dropAllWaiters()
}

// teardown closes the transport and settles the session into the given
// terminal state.
func (c *Client) teardown(final State) {
	c.mu.Lock()
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	c.state = final
	c.mu.Unlock()

	c.dropAllWaiters()
}

// dropAllWaiters closes out pending queries after the session dies; their
// selects fall through to timeout handling.
func (c *Client) dropAllWaiters() {
	c.waiterMu.Lock()
	defer c.waiterMu.Unlock()
	for id, pending := range c.waiters {
		for _, ch := range pending {
			close(ch)
		}
		delete(c.waiters, id)
	}
}
