package ports

// SessionStore holds a single authentication token.
type SessionStore interface {
	Get() (token string, ok bool, err error)
	Set(token string) error
	Clear() error
}
