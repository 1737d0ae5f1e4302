package meraki

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

type FixedIPAssignment struct {
	MAC  string `json:"-" yaml:"-"`
	IP   string `json:"ip" yaml:"ip"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// FixedIPAssignments is the Dashboard's MAC-keyed object, kept in document
// order so reserved-address entries number the same way on every run.
type FixedIPAssignments []FixedIPAssignment

func (f *FixedIPAssignments) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*f = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("fixed ip assignments: expected object, got %v", tok)
	}

	var out FixedIPAssignments
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		mac, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("fixed ip assignments: expected mac key, got %v", keyTok)
		}

		var assignment FixedIPAssignment
		if err := dec.Decode(&assignment); err != nil {
			return fmt.Errorf("fixed ip assignment %s: %w", mac, err)
		}
		assignment.MAC = mac
		out = append(out, assignment)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	*f = out
	return nil
}

func (f FixedIPAssignments) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, assignment := range f {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(assignment.MAC)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(assignment)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (f *FixedIPAssignments) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("fixed ip assignments at line %d: expected mapping", node.Line)
	}

	out := make(FixedIPAssignments, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]

		var assignment FixedIPAssignment
		if err := value.Decode(&assignment); err != nil {
			return fmt.Errorf("fixed ip assignment %s: %w", key.Value, err)
		}
		assignment.MAC = key.Value
		out = append(out, assignment)
	}
	*f = out
	return nil
}

func (f FixedIPAssignments) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, assignment := range f {
		var value yaml.Node
		if err := value.Encode(assignment); err != nil {
			return nil, fmt.Errorf("fixed ip assignment %s: %w", assignment.MAC, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: assignment.MAC},
			&value,
		)
	}
	return node, nil
}
