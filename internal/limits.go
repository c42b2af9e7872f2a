package internal

const (
	// transaction behavior
	MaxBreadcrumbs = 20
	MaxErrorCauses = 10

	maxStackTraceFrames = 100

	// tag sanitization
	TagKeyLengthLimit   = 100
	TagValueLengthLimit = 255

	// QueueStartMaxMillis is the upper bound for a plausible queue start
	// timestamp in milliseconds since the epoch (midnight, Jan 1, 3000).
	QueueStartMaxMillis = int64(32503680000000)
)
