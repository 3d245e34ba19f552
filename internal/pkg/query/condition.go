package query

import "fmt"

// Condition represents a WHERE clause condition rendered with Spanner named
// parameters.
type Condition interface {
	// SQL returns the fragment and its parameters. paramIndex is the first
	// free parameter number.
	SQL(paramIndex int) (string, map[string]interface{})
}

type eqCondition struct {
	field string
	value interface{}
}

// Eq creates an equality condition: Eq("snapshot_key", k) renders "snapshot_key = @p0".
func Eq(field string, value interface{}) Condition {
	return &eqCondition{field: field, value: value}
}

func (c *eqCondition) SQL(paramIndex int) (string, map[string]interface{}) {
	name := fmt.Sprintf("p%d", paramIndex)
	return fmt.Sprintf("%s = @%s", c.field, name), map[string]interface{}{name: c.value}
}
