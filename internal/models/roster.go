package models

import (
	"fmt"
	"regexp"
)

// RosterEntry is one eligible participant as configured by the organizer.
// Phones in the roster file must already be digits-only.
type RosterEntry struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

var digitsOnly = regexp.MustCompile(`^[0-9]+$`)

// ValidateRoster checks that every entry has a name and a unique digits-only
// phone number. A bad roster is a configuration error and should stop startup.
func ValidateRoster(roster []RosterEntry) error {
	seen := make(map[string]string, len(roster))
	for i, entry := range roster {
		if entry.Name == "" {
			return fmt.Errorf("roster entry %d has no name", i)
		}
		if !digitsOnly.MatchString(entry.Phone) {
			return fmt.Errorf("roster entry %q has invalid phone %q (digits only)", entry.Name, entry.Phone)
		}
		if other, ok := seen[entry.Phone]; ok {
			return fmt.Errorf("roster phone %s is shared by %q and %q", entry.Phone, other, entry.Name)
		}
		seen[entry.Phone] = entry.Name
	}
	return nil
}
