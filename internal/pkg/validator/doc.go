// Package validator checks request structs against their `validate` tags
// using go-playground/validator v10. Field errors are keyed by the
// lowerCamelCase field name so they line up with the JSON request bodies.
package validator
