package enums

import "fmt"

// UnitType labels how a listing's rate is quoted.
//
// Billing is per calendar day regardless of unit type; the label is a display
// concern carried over from vendor-entered data.
type UnitType string

const (
	UnitTypePerDay   UnitType = "Per Day"
	UnitTypePerPiece UnitType = "Per Piece"
	UnitTypePerPlate UnitType = "Per Plate"
)

var validUnitTypes = []UnitType{
	UnitTypePerDay,
	UnitTypePerPiece,
	UnitTypePerPlate,
}

// String implements fmt.Stringer.
func (u UnitType) String() string {
	return string(u)
}

// IsValid reports whether the value is a known UnitType.
func (u UnitType) IsValid() bool {
	for _, candidate := range validUnitTypes {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseUnitType converts raw input into a UnitType.
func ParseUnitType(value string) (UnitType, error) {
	for _, candidate := range validUnitTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid unit type %q", value)
}
