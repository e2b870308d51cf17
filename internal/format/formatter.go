// Package format rewrites answer sheets in canonical form.
package format

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dotcommander/screenscore/internal/discovery"
)

// Formatter formats sheet files canonically.
type Formatter interface {
	// Format takes raw file content and returns formatted content.
	// Returns original content and error if formatting fails.
	Format(content string) (string, error)
}

// NewSheetFormatter returns the formatter for a sheet encoding. Unknown
// encodings are treated as YAML.
func NewSheetFormatter(f discovery.Format) Formatter {
	if f == discovery.FormatJSON {
		return &JSONFormatter{}
	}
	return &YAMLFormatter{}
}

// Field order. Keys not listed follow alphabetically.
var (
	sheetFields     = []string{"subject", "grade", "via", "srss", "indicators"}
	indicatorFields = []string{"attendanceRate", "currentAverage", "previousAverage", "disciplinaryLogs"}
)

// itemSections hold answers keyed by item number.
var itemSections = map[string]bool{"via": true, "srss": true}

var errNotMapping = errors.New("sheet must be a mapping")

// orderKeys sorts keys with priority fields first, in priority order.
func orderKeys(keys, priority []string) {
	rank := func(k string) int {
		for i, p := range priority {
			if k == p {
				return i
			}
		}
		return len(priority)
	}
	sort.SliceStable(keys, func(i, j int) bool {
		ri, rj := rank(keys[i]), rank(keys[j])
		if ri != rj {
			return ri < rj
		}
		return keys[i] < keys[j]
	})
}

// orderItems sorts item keys numerically; non-numeric keys go last.
func orderItems(keys []string) {
	sort.SliceStable(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		default:
			return keys[i] < keys[j]
		}
	})
}

// sectionOrder returns the key ordering for the value stored under key.
func sectionOrder(key string) func([]string) {
	switch {
	case itemSections[key]:
		return orderItems
	case key == "indicators":
		return func(keys []string) { orderKeys(keys, indicatorFields) }
	default:
		return nil
	}
}

// YAMLFormatter formats YAML sheets. Comments survive the rewrite.
type YAMLFormatter struct{}

func (f *YAMLFormatter) Format(content string) (string, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(content), &doc); err != nil {
		return content, fmt.Errorf("parsing sheet: %w", err)
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return content, errNotMapping
	}

	root := doc.Content[0]
	sortMapping(root, func(keys []string) { orderKeys(keys, sheetFields) })
	for i := 0; i+1 < len(root.Content); i += 2 {
		value := root.Content[i+1]
		if order := sectionOrder(root.Content[i].Value); order != nil && value.Kind == yaml.MappingNode {
			sortMapping(value, order)
		}
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return content, err
	}
	if err := enc.Close(); err != nil {
		return content, err
	}
	return buf.String(), nil
}

// sortMapping reorders the key/value pairs of a mapping node.
func sortMapping(node *yaml.Node, order func([]string)) {
	pairs := make(map[string][2]*yaml.Node, len(node.Content)/2)
	keys := make([]string, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		k := node.Content[i].Value
		if _, dup := pairs[k]; dup {
			// duplicate keys are left for the schema check to report
			return
		}
		pairs[k] = [2]*yaml.Node{node.Content[i], node.Content[i+1]}
		keys = append(keys, k)
	}

	order(keys)
	content := make([]*yaml.Node, 0, len(node.Content))
	for _, k := range keys {
		content = append(content, pairs[k][0], pairs[k][1])
	}
	node.Content = content
}

// JSONFormatter formats JSON sheets with two-space indentation.
type JSONFormatter struct{}

func (f *JSONFormatter) Format(content string) (string, error) {
	dec := json.NewDecoder(strings.NewReader(content))
	dec.UseNumber()

	var data map[string]any
	if err := dec.Decode(&data); err != nil {
		return content, fmt.Errorf("parsing sheet: %w", err)
	}
	if data == nil {
		return content, errNotMapping
	}

	var compact bytes.Buffer
	if err := writeObject(&compact, data, func(keys []string) { orderKeys(keys, sheetFields) }, true); err != nil {
		return content, err
	}

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "  "); err != nil {
		return content, err
	}
	out.WriteByte('\n')
	return out.String(), nil
}

// writeObject writes m as compact JSON with keys ordered by order. Nested
// sections get their own ordering only at the top level.
func writeObject(buf *bytes.Buffer, m map[string]any, order func([]string), top bool) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	order(keys)

	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := marshal(k)
		if err != nil {
			return err
		}
		buf.Write(name)
		buf.WriteByte(':')

		nested, isObject := m[k].(map[string]any)
		if sub := sectionOrder(k); top && isObject && sub != nil {
			if err := writeObject(buf, nested, sub, false); err != nil {
				return err
			}
			continue
		}
		value, err := marshal(m[k])
		if err != nil {
			return err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return nil
}

// marshal encodes v without escaping HTML characters in names.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Diff generates a simple line-by-line diff between original and formatted content.
func Diff(original, formatted, filename string) string {
	if original == formatted {
		return ""
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "--- %s\n", filename)
	fmt.Fprintf(&buf, "+++ %s (formatted)\n", filename)

	origLines := strings.Split(original, "\n")
	fmtLines := strings.Split(formatted, "\n")

	for i := 0; i < max(len(origLines), len(fmtLines)); i++ {
		var origLine, fmtLine string
		if i < len(origLines) {
			origLine = origLines[i]
		}
		if i < len(fmtLines) {
			fmtLine = fmtLines[i]
		}

		if origLine != fmtLine {
			if origLine != "" {
				fmt.Fprintf(&buf, "- %s\n", origLine)
			}
			if fmtLine != "" {
				fmt.Fprintf(&buf, "+ %s\n", fmtLine)
			}
		}
	}

	return buf.String()
}
