// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package document

import (
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/tastemap-import/internal/normalize"
	"github.com/pdiddy/tastemap-import/pkg/types"
)

// encodeYAML builds the node tree by hand so that key order and explicit
// nulls survive; marshaling a map would sort keys.
func encodeYAML(w io.Writer, movies []types.Movie) error {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, m := range movies {
		mapping := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, f := range m.Fields() {
			v, _ := m.Get(f)
			mapping.Content = append(mapping.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f},
				scalarNode(v),
			)
		}
		seq.Content = append(seq.Content, mapping)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{seq}}); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	return enc.Close()
}

func scalarNode(v types.Value) *yaml.Node {
	n := &yaml.Node{Kind: yaml.ScalarNode}
	switch v.Kind() {
	case types.KindString:
		n.Tag = "!!str"
	case types.KindInt:
		n.Tag = "!!int"
	case types.KindFloat:
		n.Tag = "!!float"
	default:
		n.Tag = "!!null"
		n.Value = "null"
		return n
	}
	n.Value = v.Text()
	return n
}

func decodeYAML(r io.Reader) ([]types.Movie, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("decoding YAML: %w", err)
	}
	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) == 1 {
		root = root.Content[0]
	}
	if root.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("decoding YAML: document must be a sequence, line %d", root.Line)
	}

	movies := make([]types.Movie, 0, len(root.Content))
	for _, item := range root.Content {
		if item.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("decoding YAML: record at line %d is not a mapping", item.Line)
		}
		m := types.NewMovie()
		for i := 0; i+1 < len(item.Content); i += 2 {
			key, val := item.Content[i], item.Content[i+1]
			v, err := scalarValue(val)
			if err != nil {
				return nil, fmt.Errorf("decoding YAML: field %q: %w", key.Value, err)
			}
			m.Set(key.Value, v)
		}
		movies = append(movies, m)
	}
	return movies, nil
}

func scalarValue(n *yaml.Node) (types.Value, error) {
	if n.Kind != yaml.ScalarNode {
		return types.Null(), fmt.Errorf("line %d: expected a scalar", n.Line)
	}
	switch n.ShortTag() {
	case "!!null":
		return types.Null(), nil
	case "!!int":
		v := normalize.ParseInt(n.Value)
		if v.IsNull() {
			return v, fmt.Errorf("line %d: invalid integer %q", n.Line, n.Value)
		}
		return v, nil
	case "!!float":
		v := normalize.ParseFloat(n.Value)
		if v.IsNull() {
			return v, fmt.Errorf("line %d: invalid float %q", n.Line, n.Value)
		}
		return v, nil
	default:
		return types.String(n.Value), nil
	}
}
