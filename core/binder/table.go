package binder

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// FieldTable declares field origins outside the struct definition.
// An entry replaces the origin tags of the named Go field. A `bind` rename
// still applies unless the entry sets its own key.
//
// YAML form:
//
//	default: form
//	fields:
//	  UserID: {origin: path, key: id}
//	  Token:  {origin: header, key: X-Token}
type FieldTable struct {
	Default string               `yaml:"default"`
	Fields  map[string]FieldRule `yaml:"fields"`
}

// FieldRule is a single field entry of a FieldTable.
// An empty Key means the Go field name.
type FieldRule struct {
	Origin string `yaml:"origin"`
	Key    string `yaml:"key"`
}

// ParseFieldTable decodes a YAML field table. Unknown keys are rejected.
func ParseFieldTable(data []byte) (FieldTable, error) {
	var table FieldTable
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&table); err != nil && !errors.Is(err, io.EOF) {
		return FieldTable{}, fmt.Errorf("binder: failed to parse field table: %w", err)
	}
	return table, nil
}

// LoadFieldTable reads and decodes a YAML field table file.
func LoadFieldTable(path string) (FieldTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FieldTable{}, fmt.Errorf("binder: failed to read field table: %w", err)
	}
	return ParseFieldTable(data)
}
