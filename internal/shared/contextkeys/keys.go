package contextkeys

// contextKey is an unexported type to prevent collisions with context keys defined in
// other packages.
type contextKey string

// String makes contextKey satisfy the Stringer interface to assist with debugging.
func (c contextKey) String() string {
	return "projects-api context key " + string(c)
}

// RequestIDKey is the key for the per-request identifier in context.Context
const RequestIDKey = contextKey("requestID")

// ProjectIDKey is the key for the project ID taken from the route path
const ProjectIDKey = contextKey("projectID")

// OperationKey names the route operation being performed
const OperationKey = contextKey("operation")
