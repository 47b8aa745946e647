package state_machine

import (
	"github.com/Carmen-Shannon/oxy-anim/common"
)

// Comparator is the relational operator of a transition condition.
type Comparator string

const (
	// Greater fires when the parameter is strictly greater than the
	// reference value.
	Greater Comparator = ">"

	// Less fires when the parameter is strictly less than the reference value.
	Less Comparator = "<"

	// GreaterOrEqual fires when the parameter is greater than or equal to
	// the reference value.
	GreaterOrEqual Comparator = ">="

	// LessOrEqual fires when the parameter is less than or equal to the
	// reference value.
	LessOrEqual Comparator = "<="

	// Equal fires when the parameter equals the reference value.
	Equal Comparator = "=="

	// NotEqual fires when the parameter differs from the reference value.
	NotEqual Comparator = "!="
)

// TransitionCondition is a stateless predicate over the live parameter bag:
// parameter name, comparator, and reference value. A missing parameter or a
// kind mismatch between parameter and reference evaluates false, never
// raises.
type TransitionCondition struct {
	// Parameter is the name of the parameter to test.
	Parameter string

	// Comparator is the relational operator.
	Comparator Comparator

	// Value is the reference value on the right-hand side.
	Value common.Value
}

// Evaluate tests the condition against a parameter bag.
//
// Parameters:
//   - params: the live parameter values keyed by name
//
// Returns:
//   - bool: true when the parameter exists, kinds match, and the comparison holds
func (c TransitionCondition) Evaluate(params map[string]common.Value) bool {
	v, ok := params[c.Parameter]
	if !ok {
		return false
	}
	return compare(v, c.Comparator, c.Value)
}

// compare evaluates `left op right` with an exhaustive match on the value
// kind. Ordered comparators apply to numbers (numeric order) and strings
// (lexicographic order); booleans support only equality. Every unsupported
// combination is an explicit false case.
func compare(left common.Value, op Comparator, right common.Value) bool {
	if left.Kind() != right.Kind() {
		return false
	}

	switch left.Kind() {
	case common.KindNumber:
		a, b := left.Num(), right.Num()
		switch op {
		case Greater:
			return a > b
		case Less:
			return a < b
		case GreaterOrEqual:
			return a >= b
		case LessOrEqual:
			return a <= b
		case Equal:
			return a == b
		case NotEqual:
			return a != b
		}
		return false

	case common.KindString:
		a, b := left.Str(), right.Str()
		switch op {
		case Greater:
			return a > b
		case Less:
			return a < b
		case GreaterOrEqual:
			return a >= b
		case LessOrEqual:
			return a <= b
		case Equal:
			return a == b
		case NotEqual:
			return a != b
		}
		return false

	case common.KindBool:
		a, b := left.B(), right.B()
		switch op {
		case Equal:
			return a == b
		case NotEqual:
			return a != b
		case Greater, Less, GreaterOrEqual, LessOrEqual:
			// Booleans are unordered.
			return false
		}
		return false
	}

	return false
}
