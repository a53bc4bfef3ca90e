package helpers

// Ptr returns a pointer to a copy of v, or nil when v is a nil interface.
// Used for optional settings where absent and zero differ, e.g. an empty webhook secret.
func Ptr[T any](v T) *T {
	if any(v) == nil {
		return nil
	}
	return &v
}
