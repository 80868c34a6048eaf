// Package scorer classifies extracted tradelines against the scoring
// rulebook and reduces a report to a score and a 1-5 grade.
package scorer

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Rules holds the rulebook thresholds. The zero value of any field means
// "use the default" when loading from a rules file.
type Rules struct {
	// MinAmount is the credit-limit / original-amount floor for the
	// general positive test (inclusive).
	MinAmount int64 `yaml:"min_amount"`

	// MortgageMinOriginal is the original-amount floor for the
	// conventional/FHA mortgage exception (exclusive).
	MortgageMinOriginal int64 `yaml:"mortgage_min_original"`

	// MinMonths is the tenure requirement for the general positive test.
	MinMonths int `yaml:"min_months"`

	// RedemptionThreshold is the fraction of negative tradelines that must
	// be older than RedemptionAgeYears for the redemption scenario to run.
	RedemptionThreshold float64 `yaml:"redemption_threshold"`

	// RedemptionAgeYears is the age beyond which a negative tradeline
	// counts toward the redemption threshold.
	RedemptionAgeYears int `yaml:"redemption_age_years"`

	// RedemptionDropYears is the age beyond which a negative tradeline is
	// dropped when recomputing the score under redemption.
	RedemptionDropYears int `yaml:"redemption_drop_years"`
}

// DefaultRules returns the canonical rulebook.
func DefaultRules() Rules {
	return Rules{
		MinAmount:           1000,
		MortgageMinOriginal: 30000,
		MinMonths:           12,
		RedemptionThreshold: 0.70,
		RedemptionAgeYears:  2,
		RedemptionDropYears: 3,
	}
}

// LoadRules reads rulebook overrides from a YAML file. Fields absent from
// the file keep their canonical defaults.
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, eris.Wrapf(err, "scorer: read rules %s", path)
	}

	// The YAML has a top-level "rules" key.
	var wrapper struct {
		Rules Rules `yaml:"rules"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return Rules{}, eris.Wrap(err, "scorer: parse rules")
	}

	r := wrapper.Rules
	defaults := DefaultRules()
	if r.MinAmount == 0 {
		r.MinAmount = defaults.MinAmount
	}
	if r.MortgageMinOriginal == 0 {
		r.MortgageMinOriginal = defaults.MortgageMinOriginal
	}
	if r.MinMonths == 0 {
		r.MinMonths = defaults.MinMonths
	}
	if r.RedemptionThreshold == 0 {
		r.RedemptionThreshold = defaults.RedemptionThreshold
	}
	if r.RedemptionAgeYears == 0 {
		r.RedemptionAgeYears = defaults.RedemptionAgeYears
	}
	if r.RedemptionDropYears == 0 {
		r.RedemptionDropYears = defaults.RedemptionDropYears
	}
	return r, nil
}
