// Package catalog is the ingestion boundary of the engine: it turns catalog files into
// domain boxes and keeps the current snapshot in memory.
package catalog

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/aristath/boxengine/internal/domain"
	"github.com/aristath/boxengine/internal/modules/riskmodel"
	"github.com/aristath/boxengine/internal/modules/statistics"
	"github.com/tidwall/gjson"
)

// ErrInvalidCatalog is returned when a document is not a box catalog at all
var ErrInvalidCatalog = errors.New("invalid catalog document")

// Decoder converts loosely-typed catalog JSON into boxes.
// Numbers may arrive as strings ("12.50", "$1,200", "0.5%"); anything unparseable
// becomes NaN so the engine can skip it instead of the whole catalog failing.
type Decoder struct {
	stats *statistics.Calculator
}

// NewDecoder creates a decoder that derives missing metrics with the given model
func NewDecoder(model riskmodel.Model) *Decoder {
	return &Decoder{stats: statistics.NewCalculator(model)}
}

var defaultDecoder = NewDecoder(riskmodel.Default())

// DecodeJSON decodes a catalog with the default risk model
func DecodeJSON(data []byte) ([]domain.Box, domain.Warnings, error) {
	return defaultDecoder.DecodeJSON(data)
}

// DecodeJSON accepts either a top-level array of boxes or an object with a "boxes" array
func (d *Decoder) DecodeJSON(data []byte) ([]domain.Box, domain.Warnings, error) {
	if !gjson.ValidBytes(data) {
		return nil, nil, fmt.Errorf("%w: malformed JSON", ErrInvalidCatalog)
	}

	root := gjson.ParseBytes(data)
	if root.IsObject() {
		root = root.Get("boxes")
	}
	if !root.IsArray() {
		return nil, nil, fmt.Errorf("%w: expected an array of boxes or an object with a \"boxes\" array", ErrInvalidCatalog)
	}

	var warnings domain.Warnings
	boxes := make([]domain.Box, 0, len(root.Array()))
	seen := make(map[string]bool)

	root.ForEach(func(key, v gjson.Result) bool {
		box, ok := d.decodeBox(int(key.Int()), v, &warnings)
		if !ok {
			return true
		}
		if seen[box.BoxName] {
			warnings.Add(domain.WarningDuplicateBoxName, 0,
				"box %q appears more than once; the last entry wins", box.BoxName)
			for i := range boxes {
				if boxes[i].BoxName == box.BoxName {
					boxes[i] = box
				}
			}
			return true
		}
		seen[box.BoxName] = true
		boxes = append(boxes, box)
		return true
	})

	return boxes, warnings, nil
}

func (d *Decoder) decodeBox(index int, v gjson.Result, warnings *domain.Warnings) (domain.Box, bool) {
	name := strings.TrimSpace(firstOf(v, "box_name", "name").String())
	if name == "" {
		warnings.Add(domain.WarningSkippedBox, float64(index), "box #%d has no name and was skipped", index)
		return domain.Box{}, false
	}

	price, _ := readNumber(firstOf(v, "box_price", "price"))
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		warnings.Add(domain.WarningSkippedBox, float64(index), "box %q has no usable price and was skipped", name)
		return domain.Box{}, false
	}

	box := domain.Box{
		BoxName:       name,
		BoxPrice:      price,
		AllItems:      decodeItems(name, "all_items", v.Get("all_items"), warnings),
		JackpotItems:  decodeItems(name, "jackpot_items", v.Get("jackpot_items"), warnings),
		UnwantedItems: decodeItems(name, "unwanted_items", v.Get("unwanted_items"), warnings),
	}

	zero := 0
	for _, item := range box.AllItems {
		if item.DropChance == 0 {
			zero++
		}
	}
	if zero > 0 {
		warnings.Add(domain.WarningZeroDropChance, float64(zero),
			"box %q has %d item(s) with a 0%% drop chance", name, zero)
	}

	ev, evOK := readNumber(v.Get("expected_value_percent_of_price"))
	std, stdOK := readNumber(v.Get("standard_deviation_percent"))
	floor, floorOK := readNumber(v.Get("floor_rate_percent"))

	if !evOK || !stdOK || !floorOK {
		derived := d.stats.DeriveBoxMetrics(box.AllItems, price)
		if !evOK {
			ev = derived.ExpectedValuePercent
		}
		if !stdOK {
			std = derived.StandardDeviationPercent
		}
		if !floorOK {
			floor = derived.FloorRatePercent
		}
		warnings.Add(domain.WarningDerivedMetrics, 0,
			"box %q is missing editorial metrics; derived from its items", name)
	}
	box.ExpectedValuePercentOfPrice = ev
	box.StandardDeviationPercent = std
	box.FloorRatePercent = floor

	switch bucket := domain.VolatilityBucket(v.Get("volatility_bucket").String()); bucket {
	case domain.VolatilityLow, domain.VolatilityMedium, domain.VolatilityHigh:
		box.VolatilityBucket = bucket
	default:
		box.VolatilityBucket = d.stats.ClassifyVolatility(std)
	}

	return box, true
}

func decodeItems(boxName, field string, v gjson.Result, warnings *domain.Warnings) []domain.BoxItem {
	if !v.IsArray() {
		return []domain.BoxItem{}
	}

	items := make([]domain.BoxItem, 0, len(v.Array()))
	unreadable := 0
	v.ForEach(func(_, raw gjson.Result) bool {
		value, valueOK := readNumber(raw.Get("value"))
		drop, dropOK := readNumber(raw.Get("drop_chance"))
		if !valueOK || !dropOK {
			unreadable++
		}
		items = append(items, domain.BoxItem{
			Name:       raw.Get("name").String(),
			Value:      value,
			DropChance: drop,
			Image:      raw.Get("image").String(),
			Type:       raw.Get("type").String(),
		})
		return true
	})

	if unreadable > 0 {
		warnings.Add(domain.WarningUnreadableItemField, float64(unreadable),
			"box %q: %d %s entr(ies) have a missing or non-numeric value or drop chance", boxName, unreadable, field)
	}
	return items
}

// readNumber returns NaN and false for missing, null or unparseable fields
func readNumber(r gjson.Result) (float64, bool) {
	switch r.Type {
	case gjson.Number:
		return r.Float(), true
	case gjson.String:
		s := strings.TrimSpace(r.String())
		s = strings.TrimPrefix(s, "$")
		s = strings.TrimSuffix(s, "%")
		s = strings.ReplaceAll(s, ",", "")
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return math.NaN(), false
		}
		return f, true
	default:
		return math.NaN(), false
	}
}

func firstOf(v gjson.Result, paths ...string) gjson.Result {
	for _, p := range paths {
		if r := v.Get(p); r.Exists() {
			return r
		}
	}
	return gjson.Result{}
}
