package periodic

import (
	"fmt"
	"strconv"

	"hermannm.dev/enumnames"
)

// Operation is the aggregate applied within each bucket. The set is a closed
// allowlist: operation names end up in plan text, so free-form strings are
// not accepted. New aggregates are added by extending this enum with a
// per-bucket expression and a fill combiner.
type Operation int8

const (
	OperationCount Operation = iota + 1
	OperationSum
	OperationMin
	OperationMax
)

var operationMap = enumnames.NewMap(map[Operation]string{
	OperationCount: "count",
	OperationSum:   "sum",
	OperationMin:   "min",
	OperationMax:   "max",
})

func (operation Operation) IsValid() bool {
	return operationMap.ContainsEnumValue(operation)
}

func (operation Operation) String() string {
	return operationMap.GetNameOrFallback(operation, "INVALID_OPERATION")
}

func (operation Operation) MarshalJSON() ([]byte, error) {
	return operationMap.MarshalToNameJSON(operation)
}

func (operation *Operation) UnmarshalJSON(bytes []byte) error {
	return operationMap.UnmarshalFromNameJSON(bytes, operation)
}

// ParseOperation maps an operation name ("count", "sum", "min", "max") to
// its enum value.
func ParseOperation(name string) (Operation, error) {
	var operation Operation
	if err := operation.UnmarshalJSON([]byte(strconv.Quote(name))); err != nil {
		return 0, fmt.Errorf("invalid aggregate operation '%s'", name)
	}
	return operation, nil
}

// aggregate returns the per-bucket aggregate expression over the given
// quoted column.
func (operation Operation) aggregate(quotedColumn string) string {
	return operation.String() + "(" + quotedColumn + ")"
}

// fill returns the window function that folds grid placeholders and
// per-bucket aggregates into one value per bucket. count and sum fold with
// sum: the rows entering the window stage are already per-bucket counts and
// sums, and counting them again would collapse every non-empty bucket to 1.
func (operation Operation) fill() string {
	switch operation {
	case OperationCount, OperationSum:
		return "sum"
	case OperationMin:
		return "min"
	case OperationMax:
		return "max"
	default:
		return "INVALID_OPERATION"
	}
}
