package tracklight

import (
	"os"
	"strings"

	"github.com/zoobzio/clockz"
)

// Config contains Transaction and Registry behavior settings.  Use NewConfig
// to create a Config with proper defaults.  A Config is captured at
// transaction construction: changing it afterwards does not affect running
// transactions.
type Config struct {
	// Active controls whether telemetry is recorded.  When false, errors
	// are not forwarded to the recorder.  Recorders are additionally
	// expected to hand out disabled sessions while inactive.
	Active bool

	// ParamsMethod selects the request accessor consulted when no
	// explicit parameter source was set on the transaction: "params" or
	// "filtered_params".
	ParamsMethod string

	// SendParams controls whether the params sample data entry is
	// assembled at completion.
	SendParams bool

	// SendSessionData controls whether the session_data sample data
	// entry is assembled at completion.
	SendSessionData bool

	// FilterParameters lists parameter keys whose values are redacted,
	// at any nesting depth, before submission.
	FilterParameters []string

	// FilterSessionData lists session keys whose values are redacted
	// before submission.
	FilterSessionData []string

	// FilterMetadata lists metadata keys that are never forwarded, via
	// SetMetadata or the assembled metadata sample data entry.
	FilterMetadata []string

	// RequestHeaders is the allow list applied to the request
	// environment when assembling the environment sample data entry.
	RequestHeaders []string

	// BacktraceCleaner, when set, post-processes backtraces before they
	// are forwarded with an error.
	BacktraceCleaner func([]string) []string

	// Clock supplies timestamps for breadcrumbs.  Tests inject a fake
	// clock for deterministic output.
	Clock clockz.Clock
}

var defaultRequestHeaders = []string{
	"CONTENT_LENGTH",
	"CONTENT_TYPE",
	"HTTP_ACCEPT",
	"HTTP_ACCEPT_CHARSET",
	"HTTP_ACCEPT_ENCODING",
	"HTTP_ACCEPT_LANGUAGE",
	"HTTP_CACHE_CONTROL",
	"HTTP_CONNECTION",
	"HTTP_RANGE",
	"HTTP_USER_AGENT",
	"HTTP_X_REQUEST_ID",
	"PATH_INFO",
	"REQUEST_METHOD",
	"REQUEST_URI",
	"SERVER_NAME",
	"SERVER_PORT",
	"SERVER_PROTOCOL",
}

// NewConfig creates a Config populated with default values.
func NewConfig() Config {
	return Config{
		Active:          true,
		ParamsMethod:    "params",
		SendParams:      true,
		SendSessionData: true,
		RequestHeaders:  defaultRequestHeaders,
		Clock:           clockz.RealClock,
	}
}

// ConfigFromEnvironment creates a Config with defaults overridden by
// TRACKLIGHT_* environment variables.  Full configuration loading is owned
// by the surrounding integration; only the switches needed to turn the
// agent off or make it talkative in production are read here.
func ConfigFromEnvironment() Config {
	cfg := NewConfig()
	if s := os.Getenv("TRACKLIGHT_ACTIVE"); "" != s {
		cfg.Active = "false" != s && "0" != s
	}
	if s := os.Getenv("TRACKLIGHT_SEND_PARAMS"); "" != s {
		cfg.SendParams = "false" != s && "0" != s
	}
	if s := os.Getenv("TRACKLIGHT_SEND_SESSION_DATA"); "" != s {
		cfg.SendSessionData = "false" != s && "0" != s
	}
	if s := os.Getenv("TRACKLIGHT_FILTER_PARAMETERS"); "" != s {
		cfg.FilterParameters = splitList(s)
	}
	if s := os.Getenv("TRACKLIGHT_FILTER_SESSION_DATA"); "" != s {
		cfg.FilterSessionData = splitList(s)
	}
	if s := os.Getenv("TRACKLIGHT_FILTER_METADATA"); "" != s {
		cfg.FilterMetadata = splitList(s)
	}
	if s := os.Getenv("TRACKLIGHT_REQUEST_HEADERS"); "" != s {
		cfg.RequestHeaders = splitList(s)
	}
	return cfg
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); "" != item {
			out = append(out, item)
		}
	}
	return out
}

func (c *Config) clock() clockz.Clock {
	if nil == c.Clock {
		return clockz.RealClock
	}
	return c.Clock
}

func (c *Config) filtersMetadataKey(key string) bool {
	for _, k := range c.FilterMetadata {
		if k == key {
			return true
		}
	}
	return false
}
