package internal

import (
	"regexp"

	"github.com/tracklight/go-agent/log"
)

// FilteredValue replaces values whose keys match a configured filter list.
const FilteredValue = "[FILTERED]"

// FilterMap returns a copy of data with the value of every filtered key
// replaced by the "[FILTERED]" placeholder.  Nested maps and slices are
// filtered recursively, so secrets are redacted wherever they appear in the
// parameter tree.
func FilterMap(data map[string]interface{}, filterKeys []string) map[string]interface{} {
	if nil == data {
		return nil
	}
	out := make(map[string]interface{}, len(data))
	for key, value := range data {
		if containsKey(filterKeys, key) {
			out[key] = FilteredValue
			continue
		}
		out[key] = filterValue(value, filterKeys)
	}
	return out
}

func filterValue(value interface{}, filterKeys []string) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		return FilterMap(v, filterKeys)
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = filterValue(item, filterKeys)
		}
		return out
	default:
		return value
	}
}

func containsKey(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}

// ReduceEnv returns the subset of env whose keys appear in the allow list.
// A nil or empty result means the environment entry is omitted entirely.
func ReduceEnv(env map[string]string, allowed []string) map[string]string {
	if 0 == len(env) {
		return nil
	}
	out := make(map[string]string)
	for _, key := range allowed {
		if value, ok := env[key]; ok {
			out[key] = value
		}
	}
	return out
}

// EnvMetadata derives the string-keyed request metadata map from a request
// environment, dropping filtered keys.
func EnvMetadata(env map[string]string, filterKeys []string) map[string]string {
	out := make(map[string]string)
	for key, envKey := range map[string]string{
		"method": "REQUEST_METHOD",
		"path":   "PATH_INFO",
	} {
		if containsKey(filterKeys, key) {
			continue
		}
		if value, ok := env[envKey]; ok && "" != value {
			out[key] = value
		}
	}
	return out
}

// SanitizeTags restricts tags to entries whose key and value both pass the
// allowed-type check: keys must be non-empty and short, values must be
// string-like, boolean, or integer.  Offending entries were accepted at
// insertion time and are silently dropped here.
func SanitizeTags(tags map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(tags))
	for key, value := range tags {
		if "" == key || len(key) > TagKeyLengthLimit {
			log.Debug("dropping tag with invalid key", log.Context{"key": key})
			continue
		}
		if !tagValueIsValid(value) {
			log.Debug("dropping tag with invalid value type", log.Context{"key": key})
			continue
		}
		out[key] = truncateTagValue(value)
	}
	return out
}

func tagValueIsValid(value interface{}) bool {
	switch value.(type) {
	case string, bool,
		uint8, uint16, uint32, uint64,
		int8, int16, int32, int64,
		uint, int:
		return true
	default:
		return false
	}
}

func truncateTagValue(value interface{}) interface{} {
	if str, ok := value.(string); ok && len(str) > TagValueLengthLimit {
		return str[0:TagValueLengthLimit]
	}
	return value
}

// uniquenessViolationClasses are database error classes whose messages
// embed the offending column/value list.
var uniquenessViolationClasses = map[string]struct{}{
	"*pq.Error":             {},
	"*pgconn.PgError":       {},
	"*mysql.MySQLError":     {},
	"UniqueConstraintError": {},
}

var uniquenessValueList = regexp.MustCompile(`\([^)]*\)=\([^)]*\)`)

// CleanErrorMessage redacts the offending value list from known database
// uniqueness-violation messages so user data does not leak into error
// tracking.  Other messages pass through unchanged.
func CleanErrorMessage(class, message string) string {
	if _, ok := uniquenessViolationClasses[class]; !ok {
		return message
	}
	return uniquenessValueList.ReplaceAllString(message, "(?)=(?)")
}
