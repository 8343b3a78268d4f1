package common

// UnknownStr is returned by String methods for out-of-range enum values.
const UnknownStr = "unknown"

// QualifiedName joins a schema and an object name ("public.orders").
// Returns name unchanged if schema is empty.
func QualifiedName(schema, name string) string {
	if schema == "" {
		return name
	}

	return schema + "." + name
}
