// Package units holds the weight-unit conversions behind supplier pricing.
// All money math goes through shopspring/decimal; float64 only crosses the
// package boundary.
package units

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Supported weight units.
const (
	UnitKilo   = "kilo"
	UnitGram   = "gram"
	UnitTon    = "ton"
	UnitPound  = "pound"
	UnitOunce  = "ounce"
	UnitCarton = "carton"
)

// kilogramFactors maps each unit to its size in kilograms. A carton's declared
// weight is already in kilograms.
var kilogramFactors = map[string]float64{
	UnitKilo:   1,
	UnitGram:   0.001,
	UnitTon:    1000,
	UnitPound:  0.45359237,
	UnitOunce:  0.028349523125,
	UnitCarton: 1,
}

// IsValidUnit reports whether unit is one of the supported weight units.
func IsValidUnit(unit string) bool {
	_, ok := kilogramFactors[unit]
	return ok
}

// ToKilograms converts a weight expressed in the given unit to kilograms.
func ToKilograms(weight float64, unit string) (float64, error) {
	factor, ok := kilogramFactors[unit]
	if !ok {
		return 0, fmt.Errorf("unknown weight unit %q", unit)
	}
	f, _ := decimal.NewFromFloat(weight).Mul(decimal.NewFromFloat(factor)).Float64()
	return f, nil
}

// WeightPerPiece returns the weight of a single piece given the supplier's
// declared total weight and piece count.
func WeightPerPiece(totalWeight float64, pieceCount int) (float64, error) {
	if pieceCount <= 0 {
		return 0, fmt.Errorf("piece count must be positive, got %d", pieceCount)
	}
	if totalWeight <= 0 {
		return 0, fmt.Errorf("total weight must be positive, got %v", totalWeight)
	}
	f, _ := decimal.NewFromFloat(totalWeight).Div(decimal.NewFromInt(int64(pieceCount))).Float64()
	return f, nil
}

// PricePerPiece returns the cost of one piece: the price per kilo times the
// piece weight normalized to kilograms.
func PricePerPiece(pricePerKilo float64, unit string, weightPerPiece float64) (float64, error) {
	kg, err := ToKilograms(weightPerPiece, unit)
	if err != nil {
		return 0, err
	}
	f, _ := decimal.NewFromFloat(pricePerKilo).Mul(decimal.NewFromFloat(kg)).Float64()
	return f, nil
}

// PiecesToWeight returns the weight consumed by a piece count, in the
// supplier's own unit.
func PiecesToWeight(pieces, weightPerPiece float64) float64 {
	f, _ := decimal.NewFromFloat(pieces).Mul(decimal.NewFromFloat(weightPerPiece)).Float64()
	return f
}

// PiecesToCost returns the cost of a piece count.
func PiecesToCost(pieces, pricePerPiece float64) float64 {
	f, _ := decimal.NewFromFloat(pieces).Mul(decimal.NewFromFloat(pricePerPiece)).Float64()
	return f
}

// ValidateCarton checks the composite carton declaration: the piece count must
// equal unitCount times piecesPerUnit, with both factors positive.
func ValidateCarton(pieceCount, unitCount, piecesPerUnit int) error {
	if unitCount <= 0 || piecesPerUnit <= 0 {
		return fmt.Errorf("carton requires positive unit count and pieces per unit, got %d and %d", unitCount, piecesPerUnit)
	}
	if pieceCount != unitCount*piecesPerUnit {
		return fmt.Errorf("carton piece count %d does not match %d units x %d pieces", pieceCount, unitCount, piecesPerUnit)
	}
	return nil
}

// Round2 rounds a currency amount to two decimal places. Only presentation
// boundaries round; internal arithmetic keeps full precision.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// Round3 rounds a weight to three decimal places.
func Round3(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(3).Float64()
	return f
}

// Money2 formats a currency amount with exactly two decimals, matching the
// strings the sale response carries.
func Money2(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
