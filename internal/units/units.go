// Package units provides shared constants and validation for length units.
// The kinematics engine works in meters; conversion happens at the edges.
package units

import (
	"fmt"
	"strings"
)

// Unit constants
const (
	Meters      = "m"
	Centimeters = "cm"
	// Millimeters is the unit of the K10S manual diagrams, where lengths are
	// given in tenths of a centimeter (1 m = 1000 units).
	Millimeters = "mm"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{Meters, Centimeters, Millimeters}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return strings.Join(ValidUnits, ", ")
}

// Validate returns an error naming the valid units if unit is not one of them.
func Validate(unit string) error {
	if !IsValid(unit) {
		return fmt.Errorf("invalid units %q: must be one of %s", unit, GetValidUnitsString())
	}
	return nil
}

// perMeter returns how many of unit make up one meter.
func perMeter(unit string) float64 {
	switch unit {
	case Centimeters:
		return 100
	case Millimeters:
		return 1000
	default:
		return 1
	}
}

// ConvertLength converts a length from meters to the target units.
// Unknown units fall back to meters.
func ConvertLength(meters float64, targetUnits string) float64 {
	return meters * perMeter(targetUnits)
}

// ConvertToMeters converts a length in fromUnits to meters.
// Unknown units are treated as meters.
func ConvertToMeters(length float64, fromUnits string) float64 {
	return length / perMeter(fromUnits)
}
