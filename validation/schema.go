package validation

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"go.uber.org/zap"

	"github.com/TFMV/partskeeper/internal/fieldpath"
	"github.com/TFMV/partskeeper/pkg/core"
)

// Type families accepted by FieldTypeRule.
var (
	NumericTypes = []arrow.Type{
		arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64,
		arrow.UINT8, arrow.UINT16, arrow.UINT32, arrow.UINT64,
		arrow.FLOAT16, arrow.FLOAT32, arrow.FLOAT64,
		arrow.DECIMAL128, arrow.DECIMAL256,
	}
	IntegerTypes = []arrow.Type{
		arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64,
		arrow.UINT8, arrow.UINT16, arrow.UINT32, arrow.UINT64,
	}
	TextTypes     = []arrow.Type{arrow.STRING, arrow.LARGE_STRING, arrow.STRING_VIEW}
	TemporalTypes = []arrow.Type{arrow.TIMESTAMP, arrow.DATE32, arrow.DATE64}
)

// SchemaRule checks one property of an Arrow schema.
type SchemaRule interface {
	// Validate checks if the schema meets the rule's criteria.
	Validate(schema *arrow.Schema) (bool, error)

	// Name returns the human-readable name of the rule.
	Name() string
}

// RequiredFieldsRule checks that every named field exists.
type RequiredFieldsRule struct {
	RequiredFields []string
}

// Validate implements SchemaRule.Validate.
func (r *RequiredFieldsRule) Validate(schema *arrow.Schema) (bool, error) {
	var missing []string
	for _, name := range r.RequiredFields {
		if len(schema.FieldIndices(name)) == 0 {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return false, fmt.Errorf("required fields missing: %s", strings.Join(missing, ", "))
	}
	return true, nil
}

// Name implements SchemaRule.Name.
func (r *RequiredFieldsRule) Name() string { return "RequiredFieldsRule" }

// FieldTypeRule checks field types by family. Absent fields are skipped;
// pair it with RequiredFieldsRule to demand them. A null-typed field
// (a column with no values) always passes.
type FieldTypeRule struct {
	AllowedTypes map[string][]arrow.Type
}

// Validate implements SchemaRule.Validate.
func (r *FieldTypeRule) Validate(schema *arrow.Schema) (bool, error) {
	names := make([]string, 0, len(r.AllowedTypes))
	for name := range r.AllowedTypes {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs []string
	for _, name := range names {
		idx := schema.FieldIndices(name)
		if len(idx) == 0 {
			continue
		}
		field := schema.Field(idx[0])
		id := field.Type.ID()
		if id == arrow.NULL || slices.Contains(r.AllowedTypes[name], id) {
			continue
		}
		allowed := make([]string, len(r.AllowedTypes[name]))
		for i, t := range r.AllowedTypes[name] {
			allowed[i] = t.String()
		}
		errs = append(errs, fmt.Sprintf("field '%s' has type '%s', but expected one of: %s",
			name, field.Type, strings.Join(allowed, ", ")))
	}
	if len(errs) > 0 {
		return false, fmt.Errorf("field type validation failed: %s", strings.Join(errs, "; "))
	}
	return true, nil
}

// Name implements SchemaRule.Name.
func (r *FieldTypeRule) Name() string { return "FieldTypeRule" }

// NullabilityRule checks that the named fields are declared non-nullable.
type NullabilityRule struct {
	NonNullableFields []string
}

// Validate implements SchemaRule.Validate.
func (r *NullabilityRule) Validate(schema *arrow.Schema) (bool, error) {
	var nullable []string
	for _, name := range r.NonNullableFields {
		idx := schema.FieldIndices(name)
		if len(idx) > 0 && schema.Field(idx[0]).Nullable {
			nullable = append(nullable, name)
		}
	}
	if len(nullable) > 0 {
		return false, fmt.Errorf("fields that should not be nullable: %s", strings.Join(nullable, ", "))
	}
	return true, nil
}

// Name implements SchemaRule.Name.
func (r *NullabilityRule) Name() string { return "NullabilityRule" }

// SchemaResult groups schema violations by rule name.
type SchemaResult struct {
	Valid  bool
	Errors map[string][]string
}

// Err flattens the violations into one error, or nil.
func (r SchemaResult) Err() error {
	if r.Valid {
		return nil
	}
	rules := make([]string, 0, len(r.Errors))
	for name := range r.Errors {
		rules = append(rules, name)
	}
	sort.Strings(rules)
	var msgs []string
	for _, name := range rules {
		msgs = append(msgs, fmt.Sprintf("%s: %s", name, strings.Join(r.Errors[name], "; ")))
	}
	return fmt.Errorf("schema validation failed: %s", strings.Join(msgs, " | "))
}

// SchemaValidator runs a set of rules against schemas.
type SchemaValidator struct {
	rules  []SchemaRule
	logger *zap.Logger
}

// NewSchemaValidator returns a validator with rules.
func NewSchemaValidator(logger *zap.Logger, rules ...SchemaRule) *SchemaValidator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SchemaValidator{rules: rules, logger: logger}
}

// AddRule adds a validation rule to the validator.
func (v *SchemaValidator) AddRule(rule SchemaRule) {
	v.rules = append(v.rules, rule)
}

// ValidateSchema checks schema against every rule.
func (v *SchemaValidator) ValidateSchema(schema *arrow.Schema) SchemaResult {
	result := SchemaResult{Valid: true, Errors: make(map[string][]string)}
	for _, rule := range v.rules {
		valid, err := rule.Validate(schema)
		if valid {
			continue
		}
		result.Valid = false
		if err != nil {
			result.Errors[rule.Name()] = append(result.Errors[rule.Name()], err.Error())
			v.logger.Warn("Schema rule failed", zap.String("rule", rule.Name()), zap.Error(err))
		}
	}
	return result
}

// ColumnFieldsRule requires a schema field for the root of every column
// field path, so "supplier.name" needs a "supplier" field. Columns that
// only render are skipped.
func ColumnFieldsRule[T any](columns []core.Column[T]) *RequiredFieldsRule {
	var fields []string
	for i := range columns {
		if columns[i].Field == "" {
			continue
		}
		root := fieldpath.Root(columns[i].Field)
		if !slices.Contains(fields, root) {
			fields = append(fields, root)
		}
	}
	return &RequiredFieldsRule{RequiredFields: fields}
}

// InventoryRules are the schema rules for inventory part files.
func InventoryRules() []SchemaRule {
	return []SchemaRule{
		&RequiredFieldsRule{RequiredFields: []string{"id", "name", "price"}},
		&FieldTypeRule{AllowedTypes: map[string][]arrow.Type{
			"id":            append(slices.Clone(TextTypes), IntegerTypes...),
			"name":          TextTypes,
			"category":      TextTypes,
			"price":         NumericTypes,
			"stock":         IntegerTypes,
			"reorder_level": IntegerTypes,
			"added_at":      append(slices.Clone(TemporalTypes), TextTypes...),
		}},
	}
}
