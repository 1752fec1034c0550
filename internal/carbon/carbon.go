// Package carbon computes grid carbon intensity from a generation mix
// using lifecycle emission factors per fuel type.
package carbon

import (
	"math"

	"github.com/gridhub-labs/gridhub/pkg/core"
)

// Lifecycle emission factors in kg CO2 per MWh.
const (
	FactorGas     = 410
	FactorCoal    = 820
	FactorNuclear = 12
	FactorWind    = 11
	FactorSolar   = 45
	FactorHydro   = 24
	FactorOther   = 500
)

// Intensity returns the load-weighted carbon intensity of a generation
// mix in kg CO2 per MWh, rounded to two decimals. A mix with no
// generation returns 0.
func Intensity(mix core.GenerationMix) float64 {
	total := mix.TotalMW()
	if total <= 0 {
		return 0
	}
	emissions := mix.NaturalGasMW*FactorGas +
		mix.CoalMW*FactorCoal +
		mix.NuclearMW*FactorNuclear +
		mix.WindMW*FactorWind +
		mix.SolarMW*FactorSolar +
		mix.HydroMW*FactorHydro +
		mix.OtherMW*FactorOther
	return round2(emissions / total)
}

// RenewableFraction returns the share of wind, solar, and hydro in the
// mix as a percentage of total generation, rounded to two decimals.
func RenewableFraction(mix core.GenerationMix) float64 {
	total := mix.TotalMW()
	if total <= 0 {
		return 0
	}
	return round2(mix.RenewableMW() / total * 100)
}

// EstimateEmissions returns the kg of CO2 emitted by a load running
// for the given number of hours at the given intensity, rounded to two
// decimals.
func EstimateEmissions(loadMW, intensity, hours float64) float64 {
	return round2(loadMW * hours * intensity)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Recommendation classifies an intensity value for compute scheduling.
func Recommendation(intensity float64) string {
	switch {
	case intensity < 200:
		return "Excellent - Very low carbon, ideal for compute workloads"
	case intensity < 350:
		return "Good - Moderate carbon intensity"
	case intensity < 500:
		return "Fair - Consider scheduling non-urgent workloads for later"
	default:
		return "Poor - High carbon intensity, defer workloads if possible"
	}
}
