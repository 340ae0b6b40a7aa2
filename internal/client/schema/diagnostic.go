package schema

import "fmt"

// Diagnostic describes a single field that could not be translated as-is.
type Diagnostic struct {
	Table string
	Field string
	Value string
	Err   error
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s.%s=%q: %v", d.Table, d.Field, d.Value, d.Err)
}

type Diagnostics []Diagnostic

// Has reports whether any diagnostic concerns field.
func (ds Diagnostics) Has(field string) bool {
	for _, d := range ds {
		if d.Field == field {
			return true
		}
	}
	return false
}

type collector struct {
	table string
	diags Diagnostics
}

func (c *collector) add(field, value string, err error) {
	c.diags = append(c.diags, Diagnostic{Table: c.table, Field: field, Value: value, Err: err})
}
