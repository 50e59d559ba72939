// Package clock supplies the time source for code-expiry and cooldown logic.
// Production wiring uses System; tests use Manual to step through expiry
// windows deterministically.
package clock
