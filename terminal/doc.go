// Package terminal provides the keyboard sources and status display for the synthesizer.
//
// Two front ends are available:
//   - Raw: stdin in raw mode with a zero-timeout poll, one byte per key
//   - Tcell: a tcell screen with a reader goroutine and an on-screen status line
//
// Both restore the terminal on Close; EmergencyReset covers panics.
package terminal
