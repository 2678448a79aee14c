package utils

// MakeMap creates and returns a map[string]string containing a single key-value pair.
func MakeMap(key, value string) map[string]string {
	return map[string]string{key: value}
}

// SourceTags returns the Sentry tags that identify a station source, plus
// any extra key/value pairs. Empty values are skipped and a trailing key
// without a value is ignored.
func SourceTags(name, sourceType string, kv ...string) map[string]string {
	tags := make(map[string]string, 2+len(kv)/2)
	if name != "" {
		tags["source"] = name
	}
	if sourceType != "" {
		tags["source_type"] = sourceType
	}
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] != "" {
			tags[kv[i]] = kv[i+1]
		}
	}
	return tags
}
