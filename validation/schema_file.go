package validation

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"gopkg.in/yaml.v3"
)

// SchemaConfig is the content of a schema file.
type SchemaConfig struct {
	// RequiredFields lists field names that must be present
	RequiredFields []string `json:"required_fields" yaml:"required_fields"`

	// NonNullableFields lists fields that must not be nullable
	NonNullableFields []string `json:"non_nullable_fields" yaml:"non_nullable_fields"`

	// FieldTypes maps field names to allowed types or type families
	// (numeric, integer, text, temporal)
	FieldTypes map[string][]string `json:"field_types" yaml:"field_types"`
}

// LoadSchemaConfig reads a JSON or YAML schema file.
func LoadSchemaConfig(path string) (*SchemaConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}

	var config SchemaConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse JSON schema file: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML schema file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported schema file format: %s (supported: .json, .yaml, .yml)", ext)
	}
	return &config, nil
}

// Rules turns the config into schema rules, in the order required fields,
// nullability, field types. Empty sections add no rule.
func (c *SchemaConfig) Rules() ([]SchemaRule, error) {
	var rules []SchemaRule
	if len(c.RequiredFields) > 0 {
		rules = append(rules, &RequiredFieldsRule{RequiredFields: c.RequiredFields})
	}
	if len(c.NonNullableFields) > 0 {
		rules = append(rules, &NullabilityRule{NonNullableFields: c.NonNullableFields})
	}
	if len(c.FieldTypes) > 0 {
		allowed := make(map[string][]arrow.Type, len(c.FieldTypes))
		for field, names := range c.FieldTypes {
			var types []arrow.Type
			for _, name := range names {
				ts, err := parseTypes(name)
				if err != nil {
					return nil, fmt.Errorf("invalid type specification for field '%s': %w", field, err)
				}
				for _, t := range ts {
					if !slices.Contains(types, t) {
						types = append(types, t)
					}
				}
			}
			allowed[field] = types
		}
		rules = append(rules, &FieldTypeRule{AllowedTypes: allowed})
	}
	return rules, nil
}

// LoadSchemaRules reads a schema file and returns its rules.
func LoadSchemaRules(path string) ([]SchemaRule, error) {
	config, err := LoadSchemaConfig(path)
	if err != nil {
		return nil, err
	}
	return config.Rules()
}

func parseTypes(s string) ([]arrow.Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "numeric", "number":
		return NumericTypes, nil
	case "integer":
		return IntegerTypes, nil
	case "text":
		return TextTypes, nil
	case "temporal":
		return TemporalTypes, nil
	case "bool", "boolean":
		return []arrow.Type{arrow.BOOL}, nil
	case "int8":
		return []arrow.Type{arrow.INT8}, nil
	case "uint8":
		return []arrow.Type{arrow.UINT8}, nil
	case "int16":
		return []arrow.Type{arrow.INT16}, nil
	case "uint16":
		return []arrow.Type{arrow.UINT16}, nil
	case "int32", "int":
		return []arrow.Type{arrow.INT32}, nil
	case "uint32", "uint":
		return []arrow.Type{arrow.UINT32}, nil
	case "int64", "long":
		return []arrow.Type{arrow.INT64}, nil
	case "uint64", "ulong":
		return []arrow.Type{arrow.UINT64}, nil
	case "float", "float32":
		return []arrow.Type{arrow.FLOAT32}, nil
	case "double", "float64":
		return []arrow.Type{arrow.FLOAT64}, nil
	case "string", "utf8":
		return []arrow.Type{arrow.STRING}, nil
	case "large_string", "large_utf8":
		return []arrow.Type{arrow.LARGE_STRING}, nil
	case "date32", "date":
		return []arrow.Type{arrow.DATE32}, nil
	case "date64":
		return []arrow.Type{arrow.DATE64}, nil
	case "timestamp":
		return []arrow.Type{arrow.TIMESTAMP}, nil
	case "struct":
		return []arrow.Type{arrow.STRUCT}, nil
	case "list":
		return []arrow.Type{arrow.LIST}, nil
	}
	return nil, fmt.Errorf("unknown type %q", s)
}
