// Package protocol implements the wire codec for the Lutron integration
// protocol: encoding commands into CRLF-terminated ASCII lines and parsing
// received lines into typed events.
//
// The codec is purely functional - it performs no I/O and holds no state.
// Connection management, login sequencing, and response correlation live in
// the ra2 package; this package only answers two questions:
//
//   - What bytes does command X put on the wire?
//   - What does received line Y mean?
//
// # Command Grammar
//
// All commands are ASCII lines terminated with CRLF:
//
//	?OUTPUT,<id>,1                     query zone level
//	#OUTPUT,<id>,1,<level>,<fade>      set zone level (fade in seconds, 2 decimals)
//	#DEVICE,<keypad>,<button>,3        press a keypad button (scene activation)
//	?SYSTEM,1                          ping / system query
//
// The login exchange is not a command proper: the controller prompts with
// "login:" and the client answers with username and password on separate
// lines.
//
// # Response Grammar
//
// Parsing is line-local - one input line yields exactly one event, and every
// line maps to some event. Lines that resemble a known response but carry
// malformed fields degrade to UnknownEvent rather than failing, so a noisy
// controller can never abort a session.
package protocol
