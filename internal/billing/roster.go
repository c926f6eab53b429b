package billing

import (
	"strings"

	"github.com/AshapuriCRM/billing-engine/internal/domain/entity"
)

// RosterWarning flags an attendance record whose name does not match the
// company roster. Warnings are advisory; they never block a calculation.
type RosterWarning struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
}

// NormalizeName canonicalizes an employee name for roster comparison:
// trim, lowercase, collapse internal whitespace.
func NormalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// CheckRoster compares attendance records against a roster of known
// employee names and returns a warning per unmatched record. An empty
// roster yields no warnings, since there is nothing to match against.
func CheckRoster(records []entity.AttendanceRecord, rosterNames []string) []RosterWarning {
	if len(rosterNames) == 0 {
		return nil
	}

	known := make(map[string]bool, len(rosterNames))
	for _, n := range rosterNames {
		known[NormalizeName(n)] = true
	}

	var warnings []RosterWarning
	for i, r := range records {
		if !known[NormalizeName(r.Name)] {
			warnings = append(warnings, RosterWarning{Index: i, Name: r.Name})
		}
	}
	return warnings
}
