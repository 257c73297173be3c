package platforms

import (
	"strconv"
	"strings"
	"time"
)

// Raw records from the aggregation API are inconsistently shaped between
// platforms and API versions, so every logical field is read through a
// list of candidate dot-paths and the first usable value wins.

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns the string at path or "".
func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// firstStr: first non-empty string across several paths.
func firstStr(m map[string]any, paths ...string) string {
	for _, p := range paths {
		if s := lookupStr(m, p); s != "" {
			return s
		}
	}
	return ""
}

// floatAt: number from several paths (float64/int/string like "4,0").
func floatAt(m map[string]any, paths ...string) (float64, bool) {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			return v, true
		case int:
			return float64(v), true
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

// starsAt maps a raw rating onto the 1..5 integer scale. 0 is the
// "unknown" sentinel for anything absent or outside the scale.
func starsAt(m map[string]any, paths ...string) int {
	f, ok := floatAt(m, paths...)
	if !ok {
		return 0
	}
	n := int(f + 0.5)
	if n < 1 || n > 5 {
		return 0
	}
	return n
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05 -07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// dateAt returns the first non-empty date across paths, normalized to
// RFC 3339 when one of the known layouts parses; otherwise the raw
// string is kept as-is rather than dropped.
func dateAt(m map[string]any, paths ...string) string {
	raw := firstStr(m, paths...)
	if raw == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC().Format(time.RFC3339)
		}
	}
	return raw
}
