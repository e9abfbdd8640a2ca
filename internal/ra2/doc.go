// Package ra2 implements the stateful TCP client for the Lutron integration
// protocol, plus the controller-side device model.
//
// The Client owns exactly one connection and behaves as a single-owner
// actor: all writes are serialized through it, and the receive buffer is
// touched only by its receive loop. Callers on any goroutine may issue
// operations concurrently; the client interleaves them safely.
//
// # Session Lifecycle
//
//	Disconnected -> Connecting -> AwaitingLogin -> Ready
//	                                    |             |
//	                                    +--> Failed <-+
//
// Connect dials the controller, submits credentials, and waits for the
// controller's command prompt before reporting success, so a Ready client is
// always logged in. The receive loop runs for the life of the session,
// splitting the TCP stream on CRLF and feeding each complete line through
// the protocol codec; zone level responses are correlated back to pending
// queries by integration ID.
//
// Level-set commands are fire-and-forget on the wire: success means the
// command was accepted for transmission, not confirmed applied.
package ra2
