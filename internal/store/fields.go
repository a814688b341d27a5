package store

import (
	"fmt"
	"sort"
	"strings"
)

// Column maps from the wire field names used in partial updates to the
// underlying table columns. Anything outside the map is rejected before it
// reaches SQL.
var (
	tokenColumns = map[string]string{
		"customerName":     "customer_name",
		"phoneNumber":      "phone_number",
		"status":           "status",
		"statusChangeTime": "status_change_time",
	}
	dishColumns = map[string]string{
		"name":        "name",
		"description": "description",
	}
	menuColumns = map[string]string{
		"name":        "name",
		"category":    "category",
		"price":       "price",
		"isAvailable": "is_available",
	}
)

// buildSetClause renders a deterministic SET clause for a partial field
// merge. Placeholders start at $1; the caller appends its own key arguments
// after the returned ones.
func buildSetClause(fields map[string]interface{}, columns map[string]string) (string, []interface{}, error) {
	if len(fields) == 0 {
		return "", nil, fmt.Errorf("no fields to update")
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	args := make([]interface{}, 0, len(keys))
	for i, k := range keys {
		col, ok := columns[k]
		if !ok {
			return "", nil, fmt.Errorf("unknown field %q", k)
		}
		parts = append(parts, fmt.Sprintf("%s=$%d", col, i+1))
		args = append(args, fields[k])
	}
	return strings.Join(parts, ", "), args, nil
}
