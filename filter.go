package console

import (
	"encoding/json"
	"fmt"
)

// FilterOperator enumerates the comparison operators the platform API accepts.
type FilterOperator string

const (
	OpEq    FilterOperator = "$eq"
	OpNeq   FilterOperator = "$neq"
	OpGt    FilterOperator = "$gt"
	OpGte   FilterOperator = "$gte"
	OpLt    FilterOperator = "$lt"
	OpLte   FilterOperator = "$lte"
	OpLike  FilterOperator = "$like"
	OpIn    FilterOperator = "$in"
	OpNin   FilterOperator = "$nin"
	OpNull  FilterOperator = "$null"
)

var filterOperators = map[FilterOperator]struct{}{
	OpEq: {}, OpNeq: {}, OpGt: {}, OpGte: {}, OpLt: {}, OpLte: {},
	OpLike: {}, OpIn: {}, OpNin: {}, OpNull: {},
}

// FilterObject applies one or more operators to a single field.
type FilterObject map[FilterOperator]any

// Filter is a field -> condition map. A condition is either a scalar (implicit
// equality), a FilterObject, or — under the reserved "$and"/"$or" keys — a list
// of nested filters.
type Filter map[string]any

const (
	filterKeyAnd = "$and"
	filterKeyOr  = "$or"
)

// Where adds an implicit-equality condition and returns the filter for chaining.
func (f Filter) Where(field string, value any) Filter {
	f[field] = value
	return f
}

// WhereOp adds an operator condition for a field.
func (f Filter) WhereOp(field string, op FilterOperator, value any) Filter {
	obj, _ := f[field].(FilterObject)
	if obj == nil {
		obj = FilterObject{}
	}
	obj[op] = value
	f[field] = obj
	return f
}

// Or attaches a list of alternative nested filters.
func (f Filter) Or(filters ...Filter) Filter {
	f[filterKeyOr] = filters
	return f
}

// And attaches a list of required nested filters.
func (f Filter) And(filters ...Filter) Filter {
	f[filterKeyAnd] = filters
	return f
}

// ParseFilter decodes and validates a filter payload. Nested "$and"/"$or"
// branches are validated recursively; operator-object conditions may only use
// known operators.
func ParseFilter(data []byte) (Filter, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	filter := make(Filter, len(raw))
	for key, value := range raw {
		cond, err := parseFilterCondition(key, value)
		if err != nil {
			return nil, err
		}
		filter[key] = cond
	}
	return filter, nil
}

// parseFilterCondition inspects the value shape for a single filter key and
// returns the appropriate representation: nested filter lists for the logical
// keys, FilterObject for operator maps, and the raw scalar otherwise.
func parseFilterCondition(key string, data json.RawMessage) (any, error) {
	if key == filterKeyAnd || key == filterKeyOr {
		var branches []json.RawMessage
		if err := json.Unmarshal(data, &branches); err != nil {
			return nil, fmt.Errorf("filter %q must hold an array of filters: %w", key, err)
		}
		nested := make([]Filter, 0, len(branches))
		for _, branch := range branches {
			child, err := ParseFilter(branch)
			if err != nil {
				return nil, err
			}
			nested = append(nested, child)
		}
		return nested, nil
	}

	if firstNonSpace(data) == '{' {
		var obj map[string]any
		if err := json.Unmarshal(data, &obj); err != nil {
			return nil, err
		}
		cond := make(FilterObject, len(obj))
		for op, value := range obj {
			operator := FilterOperator(op)
			if _, ok := filterOperators[operator]; !ok {
				return nil, fmt.Errorf("unknown filter operator %q for field %q", op, key)
			}
			cond[operator] = value
		}
		return cond, nil
	}

	var scalar any
	if err := json.Unmarshal(data, &scalar); err != nil {
		return nil, err
	}
	return scalar, nil
}
