package validation

import (
	"fmt"
	"net/mail"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fekuna/omnipos-storefront/internal/apperror"
	"github.com/google/uuid"
)

type Type int

const (
	Any Type = iota
	String
	Integer
	Numeric
	Email
	UUID
	Date
	Object
)

const DateLayout = "2006-01-02"

// Rule describes one field. Field is a dotted path for nested objects.
type Rule struct {
	Field string
	Type  Type

	Required bool
	// RequiredWith makes the field required when the named field is filled.
	RequiredWith string
	// RequiredWithout makes the field required when the named field is not filled.
	RequiredWithout string

	// Min and Max bound the length of strings and the value of numbers.
	Min *float64
	Max *float64
	// Places caps the decimal places of a numeric field.
	Places *int

	In        []string
	Confirmed bool
}

type Schema struct {
	Rules []Rule
	// Strict rejects top-level fields not named by any rule.
	Strict bool
}

func Limit(v float64) *float64 {
	return &v
}

func Places(n int) *int {
	return &n
}

// Validate returns a validation error listing every failing field, or nil.
func (s Schema) Validate(in Input) *apperror.Error {
	fields := map[string][]string{}
	var order []string
	add := func(field, msg string) {
		if _, ok := fields[field]; !ok {
			order = append(order, field)
		}
		fields[field] = append(fields[field], msg)
	}

	for _, r := range s.Rules {
		for _, msg := range r.check(in) {
			add(r.Field, msg)
		}
	}

	if s.Strict {
		known := map[string]bool{}
		for _, r := range s.Rules {
			known[strings.SplitN(r.Field, ".", 2)[0]] = true
		}
		var extra []string
		for k := range in {
			if !known[k] && !strings.HasSuffix(k, "_confirmation") {
				extra = append(extra, k)
			}
		}
		sort.Strings(extra)
		for _, k := range extra {
			add(k, fmt.Sprintf("The %s field is prohibited.", label(k)))
		}
	}

	if len(fields) == 0 {
		return nil
	}
	return apperror.Validation(fields, order...)
}

func (r Rule) required(in Input) bool {
	if r.Required {
		return true
	}
	if r.RequiredWith != "" && in.Filled(r.RequiredWith) {
		return true
	}
	if r.RequiredWithout != "" && !in.Filled(r.RequiredWithout) {
		return true
	}
	return false
}

func (r Rule) check(in Input) []string {
	name := label(r.Field)
	v, ok := in.Lookup(r.Field)
	if !ok || !isFilled(v) {
		if r.required(in) {
			return []string{fmt.Sprintf("The %s field is required.", name)}
		}
		return nil
	}

	if msg := r.checkType(name, v); msg != "" {
		return []string{msg}
	}

	var msgs []string
	if msg := r.checkBounds(name, v); msg != "" {
		msgs = append(msgs, msg)
	}
	if r.Places != nil {
		if d, ok := toDecimal(v); ok && -d.Exponent() > int32(*r.Places) {
			msgs = append(msgs, fmt.Sprintf("The %s field must have 0-%d decimal places.", name, *r.Places))
		}
	}
	if len(r.In) > 0 && !contains(r.In, in.String(r.Field)) {
		msgs = append(msgs, fmt.Sprintf("The selected %s is invalid.", name))
	}
	if r.Confirmed && in.String(r.Field+"_confirmation") != in.String(r.Field) {
		msgs = append(msgs, fmt.Sprintf("The %s field confirmation does not match.", name))
	}
	return msgs
}

func (r Rule) checkType(name string, v interface{}) string {
	switch r.Type {
	case String:
		if _, ok := v.(string); !ok {
			return fmt.Sprintf("The %s field must be a string.", name)
		}
	case Integer:
		if _, ok := toInt(v); !ok {
			return fmt.Sprintf("The %s field must be an integer.", name)
		}
	case Numeric:
		if _, ok := toDecimal(v); !ok {
			return fmt.Sprintf("The %s field must be a number.", name)
		}
	case Email:
		s, ok := v.(string)
		if !ok || !validEmail(s) {
			return fmt.Sprintf("The %s field must be a valid email address.", name)
		}
	case UUID:
		s, ok := v.(string)
		if !ok {
			return fmt.Sprintf("The selected %s is invalid.", name)
		}
		if _, err := uuid.Parse(s); err != nil {
			return fmt.Sprintf("The selected %s is invalid.", name)
		}
	case Date:
		s, ok := v.(string)
		if !ok {
			return fmt.Sprintf("The %s field must be a valid date.", name)
		}
		if _, err := time.Parse(DateLayout, s); err != nil {
			return fmt.Sprintf("The %s field must be a valid date.", name)
		}
	case Object:
		if _, ok := v.(map[string]interface{}); !ok {
			return fmt.Sprintf("The %s field must be an object.", name)
		}
	}
	return ""
}

func (r Rule) checkBounds(name string, v interface{}) string {
	if r.Min == nil && r.Max == nil {
		return ""
	}

	switch r.Type {
	case Integer, Numeric:
		d, _ := toDecimal(v)
		f, _ := d.Float64()
		if r.Min != nil && f < *r.Min {
			return fmt.Sprintf("The %s field must be at least %s.", name, trimFloat(*r.Min))
		}
		if r.Max != nil && f > *r.Max {
			return fmt.Sprintf("The %s field must not be greater than %s.", name, trimFloat(*r.Max))
		}
	case String, Email:
		s, _ := v.(string)
		n := float64(utf8.RuneCountInString(s))
		if r.Min != nil && n < *r.Min {
			return fmt.Sprintf("The %s field must be at least %s characters.", name, trimFloat(*r.Min))
		}
		if r.Max != nil && n > *r.Max {
			return fmt.Sprintf("The %s field must not be greater than %s characters.", name, trimFloat(*r.Max))
		}
	}
	return ""
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s && strings.Contains(s, "@")
}

func label(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}

func trimFloat(f float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", f), "0"), ".")
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
