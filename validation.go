package iso8583

import (
	"fmt"
	"regexp"
	"strconv"
	"unicode"
)

// ValidationRule checks one stored field value against its descriptor.
type ValidationRule interface {
	Validate(d *FieldDescriptor, value any) error
	Name() string
}

// Validator holds the message-level rules applied on top of the content
// class checks every Message runs. It is immutable after setup and may be
// shared between messages.
type Validator struct {
	required   []int
	fieldRules map[int][]ValidationRule
}

func NewValidator() *Validator {
	return &Validator{fieldRules: make(map[int][]ValidationRule)}
}

// Require marks fields that must be present.
func (v *Validator) Require(fields ...int) *Validator {
	v.required = append(v.required, fields...)
	return v
}

// AddRule attaches extra rules to a single field.
func (v *Validator) AddRule(field int, rules ...ValidationRule) *Validator {
	v.fieldRules[field] = append(v.fieldRules[field], rules...)
	return v
}

// ValidateMessage returns the first violation found in m.
func (v *Validator) ValidateMessage(m *Message) error {
	for _, i := range v.required {
		if !m.HasField(i) {
			return &ValidationError{Field: i, Rule: "presence", Message: "mandatory field missing"}
		}
	}
	for _, i := range m.Fields() {
		rules := v.fieldRules[i]
		if len(rules) == 0 {
			continue
		}
		d, err := m.Spec().field(i)
		if err != nil {
			return &FieldError{Field: i, Err: err}
		}
		for _, rule := range rules {
			if err := rule.Validate(d, m.fields.values[i]); err != nil {
				return &ValidationError{Field: i, Rule: rule.Name(), Message: err.Error()}
			}
		}
	}
	return nil
}

// builtinRules run for every present field.
var builtinRules = []ValidationRule{&LengthRule{}, &ClassRule{}}

func validateField(d *FieldDescriptor, value any) error {
	for _, rule := range builtinRules {
		if err := rule.Validate(d, value); err != nil {
			return &ValidationError{Field: d.Index, Rule: rule.Name(), Message: err.Error()}
		}
	}
	return nil
}

// valueWidth measures a stored value in content units.
func valueWidth(d *FieldDescriptor, value any) int {
	switch v := value.(type) {
	case []byte:
		return len(v)
	case string:
		return d.Charset.width(v)
	}
	return 0
}

// LengthRule bounds the content length. Zero bounds fall back to the
// descriptor's maximum.
type LengthRule struct {
	MinLength   int
	MaxLength   int
	ExactLength int
}

func (r *LengthRule) Name() string {
	return "length"
}

func (r *LengthRule) Validate(d *FieldDescriptor, value any) error {
	length := valueWidth(d, value)
	maxLen := r.MaxLength
	if maxLen == 0 {
		maxLen = d.MaxLength
	}

	if r.ExactLength > 0 && length != r.ExactLength {
		return fmt.Errorf("expected length %d, got %d", r.ExactLength, length)
	}
	if r.MinLength > 0 && length < r.MinLength {
		return fmt.Errorf("length %d below minimum %d", length, r.MinLength)
	}
	if length > maxLen {
		return fmt.Errorf("length %d exceeds maximum %d", length, maxLen)
	}
	if length == 0 && d.LengthType != LengthFixed {
		return fmt.Errorf("variable field is empty")
	}
	return nil
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isAlpha(r rune) bool { return unicode.IsLetter(r) || r == ' ' }

func isSpecial(r rune) bool {
	return unicode.IsPrint(r) && !unicode.IsLetter(r) && !isDigit(r)
}

// classCharsets is the accepted character set of every text class.
var classCharsets = map[ContentClass]func(rune) bool{
	ClassNumeric:             isDigit,
	ClassAlpha:               isAlpha,
	ClassSpecial:             isSpecial,
	ClassAlphanumeric:        func(r rune) bool { return isAlpha(r) || isDigit(r) },
	ClassAlphaSpecial:        func(r rune) bool { return isAlpha(r) || isSpecial(r) },
	ClassNumericSpecial:      func(r rune) bool { return isDigit(r) || isSpecial(r) },
	ClassAlphanumericSpecial: unicode.IsPrint,
	ClassTrackData:           func(r rune) bool { return isDigit(r) || r == '=' },
}

// ClassRule checks every character against the descriptor's content class.
// Binary fields always pass.
type ClassRule struct{}

func (r *ClassRule) Name() string {
	return "class"
}

func (r *ClassRule) Validate(d *FieldDescriptor, value any) error {
	s, ok := value.(string)
	if !ok {
		return nil
	}
	allowed, ok := classCharsets[d.Class]
	if !ok {
		return nil
	}
	for i, ch := range s {
		if !allowed(ch) {
			return fmt.Errorf("character %q at position %d not allowed in class %s", ch, i, d.Class)
		}
	}
	return nil
}

// RegexRule matches the text form of a value against a pattern.
type RegexRule struct {
	Description string
	regex       *regexp.Regexp
}

// NewRegexRule compiles pattern once so the rule is safe to share.
func NewRegexRule(pattern, description string) (*RegexRule, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: regex rule: %v", ErrConfiguration, err)
	}
	return &RegexRule{Description: description, regex: re}, nil
}

func (r *RegexRule) Name() string {
	return "regex"
}

func (r *RegexRule) Validate(d *FieldDescriptor, value any) error {
	data := valueString(value)
	if !r.regex.MatchString(data) {
		if r.Description != "" {
			return fmt.Errorf("%s", r.Description)
		}
		return fmt.Errorf("does not match pattern %s", r.regex)
	}
	return nil
}

// RangeRule parses a numeric value and bounds it.
type RangeRule struct {
	Min int64
	Max int64
}

func (r *RangeRule) Name() string {
	return "range"
}

func (r *RangeRule) Validate(d *FieldDescriptor, value any) error {
	val, err := strconv.ParseInt(valueString(value), 10, 64)
	if err != nil {
		return fmt.Errorf("cannot parse as integer: %v", err)
	}
	if val < r.Min {
		return fmt.Errorf("value %d below minimum %d", val, r.Min)
	}
	if val > r.Max {
		return fmt.Errorf("value %d exceeds maximum %d", val, r.Max)
	}
	return nil
}

// CustomRule wraps an arbitrary check.
type CustomRule struct {
	RuleName     string
	ValidateFunc func(d *FieldDescriptor, value any) error
}

func (r *CustomRule) Name() string {
	return r.RuleName
}

func (r *CustomRule) Validate(d *FieldDescriptor, value any) error {
	return r.ValidateFunc(d, value)
}

// valueString renders a stored value as text, binary as upper-case hex.
func valueString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return hexUpper(v)
	}
	return ""
}
