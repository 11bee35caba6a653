package console

// SchemaProvider resolves schemas for form compilation and the relation
// browser. Implementations can load schemas from the platform API, files, or
// fixtures in tests.
type SchemaProvider interface {
	// SchemaByName retrieves a schema by name.
	SchemaByName(name string) (*Schema, error)
	// Schemas returns all known schemas.
	Schemas() ([]*Schema, error)
}

// TokenSource supplies the bearer token for platform API calls. Cookie-backed
// storage lives outside this module; tests use a static source.
type TokenSource interface {
	Token() (string, error)
}

// StaticTokenSource returns the same token for every request.
type StaticTokenSource string

func (s StaticTokenSource) Token() (string, error) {
	return string(s), nil
}
