package tracklight

const (
	major = "0"
	minor = "3"
	patch = "1"

	// Version is the full string version of this agent core.
	Version = major + "." + minor + "." + patch
)
