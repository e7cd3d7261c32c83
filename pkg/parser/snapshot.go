// Package parser decodes controller telemetry into a strict snapshot.
//
// Controllers are loose about shape: JSON or YAML, sometimes wrapped in a
// markdown fence, sections delivered as one-element arrays, MCS histograms
// as lists of {mcs, count} pairs, generations as numbers or 802.11 names.
// ParseSnapshot absorbs those differences so the engine only sees
// model.TelemetrySnapshot.
package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/helmcode/wifi-doctor/pkg/model"
	"github.com/helmcode/wifi-doctor/pkg/phy"
)

var (
	ErrEmptyInput = errors.New("empty telemetry input")
	ErrMalformed  = errors.New("malformed telemetry")
)

var fences = regexp.MustCompile("```[a-zA-Z]*\n|```")

// sectionAliases maps alternative section names onto the canonical ones.
var sectionAliases = map[string]string{
	"clientSession":      "client",
	"session":            "client",
	"radioStats":         "radio",
	"backhaulStats":      "backhaul",
	"wan":                "backhaul",
	"clientCapabilities": "capabilities",
	"interferenceStats":  "interference",
}

var sections = []string{"client", "radio", "backhaul", "capabilities", "interference"}

// ParseSnapshot decodes raw JSON or YAML telemetry.
func ParseSnapshot(raw []byte) (*model.TelemetrySnapshot, error) {
	cleaned := stripFences(string(raw))
	if cleaned == "" {
		return nil, ErrEmptyInput
	}

	var doc any
	if err := yaml.Unmarshal([]byte(cleaned), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	doc = first(stringKeys(doc))
	root, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: top level must be an object, got %T", ErrMalformed, doc)
	}

	for alias, canonical := range sectionAliases {
		if v, ok := root[alias]; ok {
			if _, taken := root[canonical]; !taken {
				root[canonical] = v
			}
			delete(root, alias)
		}
	}
	for _, name := range sections {
		v, ok := root[name]
		if !ok {
			continue
		}
		if v = first(v); v == nil {
			delete(root, name)
			continue
		}
		root[name] = v
	}

	if client, ok := root["client"].(map[string]any); ok {
		if h, ok := client["mcsHistogram"]; ok {
			hist, err := histogram(h)
			if err != nil {
				return nil, fmt.Errorf("%w: client.mcsHistogram: %v", ErrMalformed, err)
			}
			client["mcsHistogram"] = hist
		}
	}
	for _, name := range []string{"radio", "capabilities"} {
		if sec, ok := root[name].(map[string]any); ok {
			if g, ok := sec["generation"]; ok {
				sec["generation"] = generation(g)
			}
		}
	}

	data, err := json.Marshal(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	var snap model.TelemetrySnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return &snap, nil
}

// stripFences removes markdown code fences such as ```json ... ```.
func stripFences(text string) string {
	return strings.TrimSpace(fences.ReplaceAllString(text, ""))
}

// first unwraps a section delivered as an array. An empty array is
// treated as absent.
func first(v any) any {
	arr, ok := v.([]any)
	if !ok {
		return v
	}
	if len(arr) == 0 {
		return nil
	}
	return arr[0]
}

// stringKeys converts YAML's map[any]any (produced for non-string keys,
// such as a histogram keyed by MCS index) into map[string]any, recursively.
func stringKeys(v any) any {
	switch t := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = stringKeys(val)
		}
		return out
	case map[string]any:
		for k, val := range t {
			t[k] = stringKeys(val)
		}
		return t
	case []any:
		for i, val := range t {
			t[i] = stringKeys(val)
		}
		return t
	default:
		return v
	}
}

// histogram accepts {"11": 900} or [{"mcs": 11, "count": 900}] and returns
// the object form. Repeated indices in the list form are summed.
func histogram(v any) (map[string]any, error) {
	switch t := v.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return t, nil
	case []any:
		counts := make(map[int]int64, len(t))
		for i, entry := range t {
			pair, ok := entry.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("entry %d: want {mcs, count}, got %T", i, entry)
			}
			mcs, err := integer(pair["mcs"])
			if err != nil {
				return nil, fmt.Errorf("entry %d: mcs: %v", i, err)
			}
			n, err := integer(pair["count"])
			if err != nil {
				return nil, fmt.Errorf("entry %d: count: %v", i, err)
			}
			counts[int(mcs)] += n
		}
		out := make(map[string]any, len(counts))
		for mcs, n := range counts {
			out[strconv.Itoa(mcs)] = n
		}
		return out, nil
	default:
		return nil, fmt.Errorf("want object or list, got %T", v)
	}
}

func integer(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case uint64:
		return int64(n), nil
	case float64:
		if n != float64(int64(n)) {
			return 0, fmt.Errorf("%v is not an integer", n)
		}
		return int64(n), nil
	case string:
		return strconv.ParseInt(strings.TrimSpace(n), 10, 64)
	case nil:
		return 0, errors.New("missing")
	default:
		return 0, fmt.Errorf("unexpected %T", v)
	}
}

// generation turns 6, "6e", "802.11ax" or "Wi-Fi 7" into the canonical
// label. Unrecognized values pass through for validation to reject.
func generation(v any) any {
	s := fmt.Sprint(v)
	if g, err := phy.ParseGeneration(s); err == nil {
		return string(g)
	}
	return s
}
