package world

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaSource string

var datasetSchema = jsonschema.MustCompileString("world.schema.json", schemaSource)

type dataset struct {
	Meta      Meta                 `json:"meta"`
	Locations map[string]*Location `json:"locations"`
}

// Load reads a world dataset from path, validates it against the dataset
// schema and builds the graph.
func Load(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading world %q: %w", path, err)
	}

	g, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("loading world %q: %w", path, err)
	}
	return g, nil
}

// Parse builds a graph from a JSON encoded dataset.
func Parse(data []byte) (*Graph, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding dataset: %w", err)
	}
	if err := datasetSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("validating dataset: %w", err)
	}

	var ds dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("unmarshalling dataset: %w", err)
	}

	return NewGraph(ds.Meta, ds.Locations)
}
