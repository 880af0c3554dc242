package model

import "strings"

// ServiceCategory identifies one of the three lines of business.  Each
// category carries its own operating-hour configuration and its own
// reservation calendar, so a repair booking never conflicts with a
// tuning or parking booking at the same time.
type ServiceCategory string

const (
	CategoryRepair  ServiceCategory = "REPAIR"
	CategoryTuning  ServiceCategory = "TUNING"
	CategoryParking ServiceCategory = "PARKING"
)

// Categories lists every valid service category in a stable order.
var Categories = []ServiceCategory{CategoryRepair, CategoryTuning, CategoryParking}

// ParseCategory normalizes raw client input into a ServiceCategory.
// It accepts any casing and returns false for unknown values.
func ParseCategory(raw string) (ServiceCategory, bool) {
	switch ServiceCategory(strings.ToUpper(strings.TrimSpace(raw))) {
	case CategoryRepair:
		return CategoryRepair, true
	case CategoryTuning:
		return CategoryTuning, true
	case CategoryParking:
		return CategoryParking, true
	}
	return "", false
}
