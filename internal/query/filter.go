package query

import (
	"encoding/json"
	"fmt"
)

// FilterKind tags the variant carried by a Filter.
type FilterKind int

const (
	// KindScalar matches rows where the column equals a single value.
	KindScalar FilterKind = iota
	// KindRange matches rows where the column lies in [Low, High], inclusive.
	KindRange
	// KindMembership matches rows where the column is one of a set of values.
	KindMembership
)

// Filter is the tagged variant of a single field predicate:
// Scalar(value) | Range(low, high) | Membership(values).
type Filter struct {
	Kind   FilterKind
	Value  interface{}
	Low    float64
	High   float64
	Values []interface{}
}

// Eq builds an equality filter.
func Eq(value interface{}) Filter {
	return Filter{Kind: KindScalar, Value: value}
}

// Between builds an inclusive range filter.
func Between(low, high float64) Filter {
	return Filter{Kind: KindRange, Low: low, High: high}
}

// In builds a membership filter.
func In(values ...interface{}) Filter {
	return Filter{Kind: KindMembership, Values: values}
}

// UnmarshalJSON decodes the wire shape of a filter value: a JSON scalar is an
// equality predicate, a two-element numeric array is an inclusive range, and
// any other non-empty array is a membership predicate.
func (f *Filter) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case []interface{}:
		if len(v) == 0 {
			return fmt.Errorf("filter list must not be empty")
		}
		if len(v) == 2 {
			low, lowOK := v[0].(float64)
			high, highOK := v[1].(float64)
			if lowOK && highOK {
				*f = Between(low, high)
				return nil
			}
		}
		*f = In(v...)
	case map[string]interface{}:
		return fmt.Errorf("filter value must be a scalar, a [low, high] pair or a list")
	default:
		*f = Eq(v)
	}
	return nil
}

// MarshalJSON encodes the filter back into its wire shape.
func (f Filter) MarshalJSON() ([]byte, error) {
	switch f.Kind {
	case KindRange:
		return json.Marshal([2]float64{f.Low, f.High})
	case KindMembership:
		return json.Marshal(f.Values)
	default:
		return json.Marshal(f.Value)
	}
}
