package mapping

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"relmap/internal/common"
)

// --- StringOrArray YAML methods ---

// UnmarshalYAML accepts either a single string or an array of strings.
func (s *StringOrArray) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string

		err := node.Decode(&str)
		if err != nil {
			return err
		}

		if str != "" {
			*s = StringOrArray{str}
		} else {
			*s = StringOrArray{}
		}

		return nil

	case yaml.SequenceNode:
		var arr []string

		err := node.Decode(&arr)
		if err != nil {
			return err
		}

		*s = arr

		return nil

	default:
		return fmt.Errorf("line %d: expected string or array, got %v", node.Line, kindName(node.Kind))
	}
}

// MarshalYAML outputs a single string if length is 1, otherwise an array.
func (s StringOrArray) MarshalYAML() (any, error) {
	if len(s) == 1 {
		return s[0], nil
	}

	return []string(s), nil
}

// IsEmpty returns true if the array is empty.
func (s StringOrArray) IsEmpty() bool {
	return len(s) == 0
}

// --- ColumnDefArray YAML methods ---

// UnmarshalYAML accepts a column name, a column map, or an array of either.
func (a *ColumnDefArray) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode, yaml.MappingNode:
		col, err := decodeColumnDef(node)
		if err != nil {
			return err
		}

		*a = ColumnDefArray{col}

		return nil

	case yaml.SequenceNode:
		cols := make(ColumnDefArray, 0, len(node.Content))

		for _, item := range node.Content {
			col, err := decodeColumnDef(item)
			if err != nil {
				return err
			}

			cols = append(cols, col)
		}

		*a = cols

		return nil

	default:
		return fmt.Errorf("line %d: expected column, map, or array, got %v", node.Line, kindName(node.Kind))
	}
}

// decodeColumnDef decodes "name" or {name: ..., ...} into a ColumnDef.
func decodeColumnDef(node *yaml.Node) (ColumnDef, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		var name string

		err := node.Decode(&name)
		if err != nil {
			return ColumnDef{}, err
		}

		return ColumnDef{Name: name}, nil

	case yaml.MappingNode:
		var col ColumnDef

		err := node.Decode(&col)
		if err != nil {
			return ColumnDef{}, fmt.Errorf("line %d: invalid column: %w", node.Line, err)
		}

		return col, nil

	default:
		return ColumnDef{}, fmt.Errorf("line %d: expected column name or map, got %v", node.Line, kindName(node.Kind))
	}
}

// MarshalYAML writes name-only columns in shorthand form.
func (a ColumnDefArray) MarshalYAML() (any, error) {
	out := make([]any, len(a))

	for i, c := range a {
		if c == (ColumnDef{Name: c.Name}) {
			out[i] = c.Name
			continue
		}

		out[i] = c
	}

	return out, nil
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return common.UnknownStr
	}
}
