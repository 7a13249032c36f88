package domain

import (
	"fmt"
	"math"
)

// WarningCode identifies a class of data-quality anomaly
type WarningCode string

const (
	WarningInvalidItems        WarningCode = "invalid_items"
	WarningInvalidPrice        WarningCode = "invalid_price"
	WarningDropMassOutOfRange  WarningCode = "drop_mass_out_of_range"
	WarningComplementEstimate  WarningCode = "complement_estimate_used"
	WarningEditorialSubsets    WarningCode = "editorial_subsets_empty"
	WarningProbabilityTotal    WarningCode = "probability_total_out_of_range"
	WarningUltraRareTarget     WarningCode = "ultra_rare_target"
	WarningSkippedBox          WarningCode = "skipped_box"
	WarningDerivedMetrics      WarningCode = "derived_metrics"
	WarningZeroDropChance      WarningCode = "zero_drop_chance"
	WarningDuplicateBoxName    WarningCode = "duplicate_box_name"
	WarningHighSpendTarget     WarningCode = "high_spend_target"
	WarningManyTrialsTarget    WarningCode = "many_trials_target"
	WarningUnreadableItemField WarningCode = "unreadable_item_field"
)

// Warning is a structured diagnostic returned next to a result instead of being logged
type Warning struct {
	Code    WarningCode `json:"code" msgpack:"code"`
	Message string      `json:"message" msgpack:"message"`
	Value   float64     `json:"value,omitempty" msgpack:"value,omitempty"`
}

// NewWarning builds a Warning with a formatted message.
// A non-finite value is dropped, the message still carries it.
func NewWarning(code WarningCode, value float64, format string, args ...interface{}) Warning {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		value = 0
	}
	return Warning{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Value:   value,
	}
}

// Warnings is an append-only diagnostics list
type Warnings []Warning

// Add appends a warning
func (w *Warnings) Add(code WarningCode, value float64, format string, args ...interface{}) {
	*w = append(*w, NewWarning(code, value, format, args...))
}

// Has reports whether a warning with the given code was recorded
func (w Warnings) Has(code WarningCode) bool {
	for _, warning := range w {
		if warning.Code == code {
			return true
		}
	}
	return false
}
