// Package uid generates opaque string identifiers.
package uid

// StringID generates string identifiers such as request correlation ids and
// JWT ids.
type StringID interface {
	Generate() string
}
