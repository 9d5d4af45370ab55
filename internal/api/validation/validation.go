package validation

import (
	"sort"
	"strings"

	"github.com/markdave123-py/uniconnect/internal/core"
)

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func OneOf(field, value string, allowed []string, v Violations) {
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	v[field] = "must be one of " + strings.Join(allowed, ", ")
}

// Err returns nil when there are no violations, otherwise a BadRequest naming every field.
func (v Violations) Err() error {
	if v.Empty() {
		return nil
	}
	var missing, invalid []string
	for field, reason := range v {
		if reason == "required" {
			missing = append(missing, field)
		} else {
			invalid = append(invalid, field+" "+reason)
		}
	}
	sort.Strings(missing)
	sort.Strings(invalid)

	var parts []string
	if len(missing) > 0 {
		parts = append(parts, "Missing required fields: "+strings.Join(missing, ", ")+".")
	}
	for _, s := range invalid {
		parts = append(parts, s+".")
	}
	return core.BadRequest(strings.Join(parts, " "))
}
