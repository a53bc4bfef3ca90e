package handler

// SignatureMismatchError is returned when a request signature does not match the configured secret.
type SignatureMismatchError struct{}

func (m *SignatureMismatchError) Error() string {
	return "signature mismatch"
}

// NoNotifierError is returned when the handler is built without a notifier.
type NoNotifierError struct{}

func (m *NoNotifierError) Error() string {
	return "no notifier configured"
}
