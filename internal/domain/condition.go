package domain

import (
	"math"
	"strconv"
	"strings"
)

// Condition is one of the four canonical weather classes.
type Condition string

const (
	ConditionSunny  Condition = "Sunny"
	ConditionCloudy Condition = "Cloudy"
	ConditionRain   Condition = "Rain"
	ConditionSnow   Condition = "Snow"
)

// Conditions lists the canonical classes in a stable order.
var Conditions = []Condition{ConditionSunny, ConditionCloudy, ConditionRain, ConditionSnow}

// WMOTableVersion identifies the built-in code table in run reports.
const WMOTableVersion = "wmo-4class/v1"

// ParseCondition matches a canonical label case-insensitively.
func ParseCondition(label string) (Condition, bool) {
	label = strings.TrimSpace(label)
	for _, c := range Conditions {
		if strings.EqualFold(label, string(c)) {
			return c, true
		}
	}
	return "", false
}

// ConditionTable maps provider condition codes to canonical classes. It is
// immutable once built and safe to share between validators.
type ConditionTable struct {
	version string
	codes   map[int]Condition
}

// NewConditionTable copies codes into a new table.
func NewConditionTable(version string, codes map[int]Condition) ConditionTable {
	m := make(map[int]Condition, len(codes))
	for k, v := range codes {
		m[k] = v
	}
	return ConditionTable{version: version, codes: m}
}

// WMOConditionTable returns the built-in WMO code table.
func WMOConditionTable() ConditionTable {
	codes := make(map[int]Condition, 28)
	for _, c := range []int{0, 1, 2} {
		codes[c] = ConditionSunny
	}
	for _, c := range []int{3, 45, 48} {
		codes[c] = ConditionCloudy
	}
	for _, c := range []int{66, 67, 71, 73, 75, 77, 85, 86} {
		codes[c] = ConditionSnow
	}
	for _, c := range []int{51, 53, 55, 56, 57, 61, 63, 65, 80, 81, 82, 95, 96, 99} {
		codes[c] = ConditionRain
	}
	return ConditionTable{version: WMOTableVersion, codes: codes}
}

func (t ConditionTable) Version() string { return t.version }

// Len returns the number of provider codes in the table.
func (t ConditionTable) Len() int { return len(t.codes) }

// Normalize resolves a raw condition cell. Canonical labels pass through,
// numeric codes (including integral floats like "61.0") are looked up.
func (t ConditionTable) Normalize(raw string) (Condition, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if c, ok := ParseCondition(raw); ok {
		return c, true
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return "", false
	}
	c, ok := t.codes[int(v)]
	return c, ok
}
