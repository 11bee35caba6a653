package internal

import (
	"fmt"
	"strings"
	"time"

	"github.com/schemahub/console"
)

// Rule validates one form value. Rules return nil for acceptable values and a
// *console.ConsoleError describing the first violation otherwise.
type Rule interface {
	Validate(value any) error
}

// RuleFunc adapts a plain function to the Rule interface.
type RuleFunc func(value any) error

func (f RuleFunc) Validate(value any) error {
	return f(value)
}

// Optional wraps a rule so that nil/absent values are accepted.
func Optional(rule Rule) Rule {
	return RuleFunc(func(value any) error {
		if value == nil {
			return nil
		}
		return rule.Validate(value)
	})
}

func requiredError(label string) *console.ConsoleError {
	return console.NewConsoleError(console.ErrorTypeValidation, console.ErrCodeRequiredField,
		fmt.Sprintf("%s is required", label))
}

func typeError(label, expectation string) *console.ConsoleError {
	return console.NewConsoleError(console.ErrorTypeValidation, console.ErrCodeTypeMismatch,
		fmt.Sprintf("%s must be %s", label, expectation))
}

// requiredStringRule enforces a non-empty-after-trim string value.
func requiredStringRule(label string) Rule {
	return RuleFunc(func(value any) error {
		if value == nil {
			return requiredError(label)
		}
		s, ok := value.(string)
		if !ok {
			return typeError(label, "a string")
		}
		if strings.TrimSpace(s) == "" {
			return requiredError(label)
		}
		return nil
	})
}

// stringRule accepts any string value, including the empty string.
func stringRule(label string) Rule {
	return RuleFunc(func(value any) error {
		if value == nil {
			return requiredError(label)
		}
		if _, ok := value.(string); !ok {
			return typeError(label, "a string")
		}
		return nil
	})
}

// intRule coerces strings to numbers and enforces integer-ness.
func intRule(label string) Rule {
	return RuleFunc(func(value any) error {
		if value == nil {
			return requiredError(label)
		}
		if _, err := toInt64(value); err != nil {
			return typeError(label, "an integer")
		}
		return nil
	})
}

// uintRule enforces integer-ness and non-negativity.
func uintRule(label string) Rule {
	return RuleFunc(func(value any) error {
		if value == nil {
			return requiredError(label)
		}
		n, err := toInt64(value)
		if err != nil {
			return typeError(label, "an integer")
		}
		if n < 0 {
			return typeError(label, "a positive integer")
		}
		return nil
	})
}

// floatRule coerces strings to numbers.
func floatRule(label string) Rule {
	return RuleFunc(func(value any) error {
		if value == nil {
			return requiredError(label)
		}
		if _, err := toFloat64(value); err != nil {
			return typeError(label, "a number")
		}
		return nil
	})
}

func boolRule(label string) Rule {
	return RuleFunc(func(value any) error {
		if value == nil {
			return requiredError(label)
		}
		if _, ok := value.(bool); !ok {
			return typeError(label, "a boolean")
		}
		return nil
	})
}

func timeRule(label string) Rule {
	return RuleFunc(func(value any) error {
		if value == nil {
			return requiredError(label)
		}
		if _, ok := value.(time.Time); ok {
			return nil
		}
		s, ok := value.(string)
		if !ok {
			return typeError(label, "a time value")
		}
		if _, err := toTime(s); err != nil {
			return typeError(label, "a valid time value")
		}
		return nil
	})
}

// jsonRule accepts any value.
func jsonRule() Rule {
	return RuleFunc(func(value any) error {
		return nil
	})
}

func enumRule(label string, enums []console.FieldEnum) Rule {
	allowed := make(map[string]struct{}, len(enums))
	values := make([]string, 0, len(enums))
	for _, e := range enums {
		allowed[e.Value] = struct{}{}
		values = append(values, e.Value)
	}
	return RuleFunc(func(value any) error {
		if value == nil {
			return requiredError(label)
		}
		s, ok := value.(string)
		if !ok {
			return typeError(label, "a string")
		}
		if _, ok := allowed[s]; !ok {
			return console.NewConsoleError(console.ErrorTypeValidation, console.ErrCodeInvalidEnumValue,
				fmt.Sprintf("%s must be one of: %s", label, strings.Join(values, ", ")))
		}
		return nil
	})
}

// relationSingleRule requires an id-bearing record reference.
func relationSingleRule(label string) Rule {
	return RuleFunc(func(value any) error {
		if value == nil {
			return requiredError(label)
		}
		if _, ok := console.RefOf(value); !ok {
			return typeError(label, "a record reference")
		}
		return nil
	})
}

// relationArrayRule accepts a flat reference array or any relation edit value.
func relationArrayRule(label string) Rule {
	return RuleFunc(func(value any) error {
		if value == nil {
			return nil
		}
		if _, ok := console.AsRelationValue(value); ok {
			return nil
		}
		switch items := value.(type) {
		case []console.ContentRef:
			return nil
		case []console.Content:
			return nil
		case []any:
			for _, item := range items {
				if _, ok := console.RefOf(item); !ok {
					return typeError(label, "a list of record references")
				}
			}
			return nil
		}
		return typeError(label, "a relation value")
	})
}

// Contract is the combined validation contract of a compiled form: one rule
// per field, kept in schema declaration order.
type Contract struct {
	names []string
	rules map[string]Rule
}

// NewContract creates an empty contract.
func NewContract() *Contract {
	return &Contract{rules: make(map[string]Rule)}
}

// Add registers a rule under the field name, preserving insertion order.
// Re-adding a name replaces the rule without changing its position.
func (c *Contract) Add(name string, rule Rule) {
	if _, exists := c.rules[name]; !exists {
		c.names = append(c.names, name)
	}
	c.rules[name] = rule
}

// Rule returns the rule registered for the field name.
func (c *Contract) Rule(name string) (Rule, bool) {
	rule, ok := c.rules[name]
	return rule, ok
}

// Names returns the field names in declaration order.
func (c *Contract) Names() []string {
	return c.names
}

// Len returns the number of registered rules.
func (c *Contract) Len() int {
	return len(c.names)
}

// Validate runs every rule against the given form values. Field errors are
// collected in declaration order; a nil return means the form is valid.
func (c *Contract) Validate(values console.Content) error {
	violations := console.NewValidationErrors()
	for _, name := range c.names {
		err := c.rules[name].Validate(values[name])
		if err == nil {
			continue
		}
		ce, ok := err.(*console.ConsoleError)
		if !ok {
			ce = console.NewValidationError(name, err.Error())
		}
		violations.Add(ce.WithField(name))
	}
	return violations.ToError()
}
