package wiki

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"
	"strings"

	"github.com/gogotex/pingbot/pkg/logger"
)

// Reserved top-level keys. They can never be used as group names.
const (
	StatsKey     = "__pingStats"
	BlacklistKey = "__blacklist"
)

var reservedKeys = []string{StatsKey, BlacklistKey}

// IsReserved reports whether name collides with a reserved key (case-insensitive).
func IsReserved(name string) bool {
	n := strings.TrimSpace(name)
	for _, k := range reservedKeys {
		if strings.EqualFold(n, k) {
			return true
		}
	}
	return false
}

// Document is the parsed JSON payload of the bot page: group name -> member list,
// plus the reserved stats and blacklist keys.
type Document map[string]any

// Parse decodes page content. Empty, malformed or non-object content yields an
// empty document; the next successful write replaces whatever was stored.
func Parse(content string) Document {
	if strings.TrimSpace(content) == "" {
		return Document{}
	}
	dec := json.NewDecoder(strings.NewReader(content))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		logger.Warnf("[wiki] corrupted page JSON, resetting: %v", err)
		return Document{}
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		logger.Warnf("[wiki] trailing data after page JSON, resetting")
		return Document{}
	}
	m, ok := raw.(map[string]any)
	if !ok {
		logger.Warnf("[wiki] page JSON is not an object (%T), resetting", raw)
		return Document{}
	}
	return Document(m)
}

// Encode serializes the document as indented JSON.
func (d Document) Encode() (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(map[string]any(d)); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// StringList returns the list stored under key. ok is false when the key is
// absent or does not hold a list. Non-string elements are skipped.
func (d Document) StringList(key string) (list []string, ok bool) {
	switch v := d[key].(type) {
	case []string:
		return append([]string(nil), v...), true
	case []any:
		out := make([]string, 0, len(v))
		for _, it := range v {
			if s, isStr := it.(string); isStr {
				out = append(out, s)
			}
		}
		return out, true
	}
	return nil, false
}

// SetStringList replaces the value under key.
func (d Document) SetStringList(key string, list []string) {
	if list == nil {
		list = []string{}
	}
	d[key] = list
}

// Counters returns the object stored under key as name -> count. Values that
// are not numbers read as 0. ok is false when the key does not hold an object.
func (d Document) Counters(key string) (counts map[string]int, ok bool) {
	obj, isObj := d[key].(map[string]any)
	if !isObj {
		if typed, isTyped := d[key].(map[string]int); isTyped {
			out := make(map[string]int, len(typed))
			for k, v := range typed {
				out[k] = v
			}
			return out, true
		}
		return nil, false
	}
	out := make(map[string]int, len(obj))
	for k, v := range obj {
		out[k] = toInt(v)
	}
	return out, true
}

// SetCounter writes name=value into the object under key, creating it if the
// key is absent or not an object. Other entries of the object are preserved as stored.
func (d Document) SetCounter(key, name string, value int) {
	switch obj := d[key].(type) {
	case map[string]any:
		obj[name] = value
		return
	case map[string]int:
		obj[name] = value
		return
	}
	d[key] = map[string]any{name: value}
}

// toInt reads a stored counter. Values outside the int range, NaN and
// non-numbers read as 0.
func toInt(v any) int {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil && i >= math.MinInt && i <= math.MaxInt {
			return int(i)
		}
		if f, err := n.Float64(); err == nil {
			return floatToInt(f)
		}
	case float64:
		return floatToInt(n)
	case int:
		return n
	case int64:
		return int(n)
	}
	return 0
}

func floatToInt(f float64) int {
	if math.IsNaN(f) || f >= math.MaxInt || f < math.MinInt {
		return 0
	}
	return int(f)
}
