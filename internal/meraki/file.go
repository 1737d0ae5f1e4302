package meraki

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a network export saved as YAML or JSON. The format is
// chosen by extension.
func LoadFile(path string) (NetworkExport, error) {
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return NetworkExport{}, fmt.Errorf("read network file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return DecodeYAML(content)
	case ".json":
		return DecodeJSON(content)
	default:
		return NetworkExport{}, fmt.Errorf("unsupported network file extension %q", ext)
	}
}

func DecodeYAML(content []byte) (NetworkExport, error) {
	var export NetworkExport
	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)
	if err := dec.Decode(&export); err != nil {
		return NetworkExport{}, fmt.Errorf("decode yaml network: %w", err)
	}
	return export, nil
}

func DecodeJSON(content []byte) (NetworkExport, error) {
	var export NetworkExport
	if err := json.Unmarshal(content, &export); err != nil {
		return NetworkExport{}, fmt.Errorf("decode json network: %w", err)
	}
	return export, nil
}

// WriteFile saves an export as YAML or JSON, chosen by extension.
func WriteFile(path string, export NetworkExport) error {
	var (
		content []byte
		err     error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		content, err = json.MarshalIndent(export, "", "  ")
	case ".yaml", ".yml":
		content, err = encodeYAML(export)
	default:
		return fmt.Errorf("unsupported network file extension %q", ext)
	}
	if err != nil {
		return fmt.Errorf("encode network: %w", err)
	}
	return os.WriteFile(path, content, 0o644)
}

func encodeYAML(export NetworkExport) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(export); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
