package validator

// Validator validates structs using their `validate` tags.
type Validator interface {
	// Validate returns nil when data is valid, otherwise a validation error.
	Validate(data any) error
}
