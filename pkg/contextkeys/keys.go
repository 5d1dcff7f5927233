package contextkeys

type contextKey string

const (
	PrincipalKey contextKey = "Principal"
	SessionIDKey contextKey = "SessionID"
	RequestIDKey contextKey = "RequestID"
)
