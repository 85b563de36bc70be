package contextkeys

// contextKey is an unexported type to prevent collisions with context keys defined in
// other packages.
type contextKey string

// String makes contextKey satisfy the Stringer interface to assist with debugging.
func (c contextKey) String() string {
	return "dataprep context key " + string(c)
}

// RequestIDKey is the key for the HTTP request ID in context.Context
const RequestIDKey = contextKey("requestID")

// JobIDKey is the key for the preprocessing job ID in context.Context
const JobIDKey = contextKey("jobID")

// DatasetKey is the key for the dataset (collection) name in context.Context
const DatasetKey = contextKey("dataset")

// SubjectKey is the key for the authenticated API subject in context.Context
const SubjectKey = contextKey("subject")
