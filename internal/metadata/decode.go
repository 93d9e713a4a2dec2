// Package metadata loads LCA metadata files and holds the current snapshot.
package metadata

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/leapstack-labs/lcaview/pkg/lca"
	"gopkg.in/yaml.v3"
)

// MissingFieldError reports required fields absent from a metadata document.
// Scenario fields are reported as "scenarios.<key>.<field>".
type MissingFieldError struct {
	Fields []string
}

func (e *MissingFieldError) Error() string {
	return "missing required field(s): " + strings.Join(e.Fields, ", ")
}

// Decode parses a metadata document. JSON documents are accepted as YAML.
// Every field of lca.Metadata and lca.Scenario must be present; unknown
// fields are rejected. Decode does not run lca.Metadata.Validate.
func Decode(data []byte) (*lca.Metadata, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse metadata: %w", err)
	}
	if err := checkRequired(&root); err != nil {
		return nil, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var m lca.Metadata
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("metadata document is empty")
		}
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}
	for i, v := range m.DefaultAlternatives {
		m.DefaultAlternatives[i] = stringKeys(v)
	}
	return &m, nil
}

// stringKeys rewrites the map[any]any values yaml produces for mappings with
// non-string keys into map[string]any so the result stays JSON-encodable.
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

// DecodeReader reads r fully and decodes it.
func DecodeReader(r io.Reader) (*lca.Metadata, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}
	return Decode(data)
}

func checkRequired(root *yaml.Node) error {
	if root.Kind == 0 {
		return fmt.Errorf("metadata document is empty")
	}
	doc := root
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		doc = doc.Content[0]
	}
	if doc.Kind != yaml.MappingNode {
		return fmt.Errorf("metadata document must be a mapping, got %s", kindName(doc.Kind))
	}

	top := mappingKeys(doc)
	var missing []string
	for _, f := range lca.RequiredFields {
		if _, ok := top[f]; !ok {
			missing = append(missing, f)
		}
	}

	if scenarios, ok := top["scenarios"]; ok && scenarios.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(scenarios.Content); i += 2 {
			key := scenarios.Content[i].Value
			val := scenarios.Content[i+1]
			if val.Kind != yaml.MappingNode {
				continue // left to the typed decoder
			}
			fields := mappingKeys(val)
			for _, f := range lca.RequiredScenarioFields {
				if _, ok := fields[f]; !ok {
					missing = append(missing, "scenarios."+key+"."+f)
				}
			}
		}
	}

	if len(missing) > 0 {
		slices.Sort(missing)
		return &MissingFieldError{Fields: missing}
	}
	return nil
}

func mappingKeys(n *yaml.Node) map[string]*yaml.Node {
	keys := make(map[string]*yaml.Node, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		keys[n.Content[i].Value] = n.Content[i+1]
	}
	return keys
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "document"
	}
}
