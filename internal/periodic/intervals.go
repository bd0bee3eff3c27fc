package periodic

import (
	"fmt"
	"strconv"

	"hermannm.dev/enumnames"
)

// IntervalUnit is the bucket granularity of a periodic series. The set is
// closed: these are the only units the plan assembler generates date_trunc
// expressions and grid steps for.
type IntervalUnit int8

const (
	IntervalDay IntervalUnit = iota + 1
	IntervalWeek
	IntervalMonth
	IntervalYear
)

var intervalUnitMap = enumnames.NewMap(map[IntervalUnit]string{
	IntervalDay:   "day",
	IntervalWeek:  "week",
	IntervalMonth: "month",
	IntervalYear:  "year",
})

func (unit IntervalUnit) IsValid() bool {
	return intervalUnitMap.ContainsEnumValue(unit)
}

func (unit IntervalUnit) String() string {
	return intervalUnitMap.GetNameOrFallback(unit, "INVALID_INTERVAL_UNIT")
}

// Step returns the grid step for the unit, e.g. "1 day". The step size
// always equals the bucket width, so consecutive grid rows are consecutive
// buckets.
func (unit IntervalUnit) Step() string {
	return "1 " + unit.String()
}

func (unit IntervalUnit) MarshalJSON() ([]byte, error) {
	return intervalUnitMap.MarshalToNameJSON(unit)
}

func (unit *IntervalUnit) UnmarshalJSON(bytes []byte) error {
	return intervalUnitMap.UnmarshalFromNameJSON(bytes, unit)
}

// ParseIntervalUnit maps a unit name ("day", "week", "month", "year") to its
// enum value.
func ParseIntervalUnit(name string) (IntervalUnit, error) {
	var unit IntervalUnit
	if err := unit.UnmarshalJSON([]byte(strconv.Quote(name))); err != nil {
		return 0, fmt.Errorf("invalid interval unit '%s'", name)
	}
	return unit, nil
}
