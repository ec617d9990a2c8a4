package validate

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"loanbook/internal/dataset"
	"loanbook/internal/domain/record"
	"loanbook/internal/schema"
)

// Validator checks raw column mappings against the data dictionary. It
// is pure: no storage, no mutation of its input, all findings collected
// in a single pass.
type Validator struct{ dict *schema.Dictionary }

func New(dict *schema.Dictionary) *Validator { return &Validator{dict: dict} }

// Validate coerces raw into a typed record and reports every finding.
// The record is always returned; fields whose values could not be
// coerced stay nil. A record with no violations is fully valid.
func (v *Validator) Validate(raw dataset.Raw) (*record.LoanRecord, []Violation) {
	rec := &record.LoanRecord{}
	var out []Violation

	for _, spec := range v.dict.Fields() {
		val, present := raw[spec.Name]
		if !present || val == nil || strings.TrimSpace(renderValue(val)) == "" {
			if spec.Required {
				out = append(out, Violation{
					Field: spec.Name, Code: CodeMissingField, Message: "is required",
				})
			}
			continue
		}
		out = append(out, v.checkField(rec, spec, val)...)
	}

	// Columns the dictionary does not know, in a stable order.
	var unknown []string
	for name := range raw {
		if _, ok := v.dict.Lookup(name); !ok {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	for _, name := range unknown {
		out = append(out, Violation{
			Field: name, Value: renderValue(raw[name]),
			Code: CodeUnknownField, Message: "is not in the data dictionary",
		})
	}

	out = append(out, v.checkRules(rec)...)
	return rec, out
}

// checkField coerces one value, records it on rec, and reports range
// and category findings. Coercion failures leave the field nil.
func (v *Validator) checkField(rec *record.LoanRecord, spec schema.FieldSpec, val any) []Violation {
	mismatch := func(err error) []Violation {
		return []Violation{{
			Field: spec.Name, Value: renderValue(val), Code: CodeTypeMismatch,
			Message: fmt.Sprintf("cannot be read as %s: %v", spec.Kind, err),
		}}
	}

	switch spec.Kind {
	case schema.KindIdentifier:
		s := strings.TrimSpace(renderValue(val))
		setString(rec, spec.Name, s)
		return nil

	case schema.KindCurrency:
		d, err := coerceDecimal(val)
		if err != nil {
			return mismatch(err)
		}
		setDecimal(rec, spec.Name, d)
		return v.checkDecimalRange(spec, val, d)

	case schema.KindPercent, schema.KindRatio:
		f, err := coerceFloat(val)
		if err != nil {
			return mismatch(err)
		}
		setFloat(rec, spec.Name, f)
		return v.checkFloatRange(spec, val, f)

	case schema.KindInteger:
		n, null, err := coerceInteger(spec.Name, val)
		if err != nil {
			return mismatch(err)
		}
		if null {
			return nil
		}
		setInt(rec, spec.Name, n)
		if len(spec.Enum) > 0 {
			for _, e := range spec.Enum {
				if int64(n) == e {
					return nil
				}
			}
			return []Violation{{
				Field: spec.Name, Value: renderValue(val), Code: CodeInvalidCategory,
				Message: fmt.Sprintf("must be one of %v", spec.Enum),
			}}
		}
		return v.checkFloatRange(spec, val, float64(n))

	case schema.KindDate:
		t, err := coerceDate(val)
		if err != nil {
			return mismatch(err)
		}
		setDate(rec, spec.Name, t)
		return nil

	case schema.KindCategory:
		s := strings.TrimSpace(renderValue(val))
		setString(rec, spec.Name, s)
		for _, c := range spec.Categories {
			if s == c {
				return nil
			}
		}
		return []Violation{{
			Field: spec.Name, Value: s, Code: CodeInvalidCategory,
			Message: "is not in the allowed value set",
		}}
	}
	return nil
}

func (v *Validator) checkFloatRange(spec schema.FieldSpec, val any, f float64) []Violation {
	if spec.Min != nil && (f < *spec.Min || (spec.MinExclusive && f == *spec.Min)) {
		op := "greater than or equal to"
		if spec.MinExclusive {
			op = "greater than"
		}
		return []Violation{{
			Field: spec.Name, Value: renderValue(val), Code: CodeOutOfRange,
			Message: fmt.Sprintf("must be %s %g", op, *spec.Min),
		}}
	}
	if spec.Max != nil && f > *spec.Max {
		return []Violation{{
			Field: spec.Name, Value: renderValue(val), Code: CodeOutOfRange,
			Message: fmt.Sprintf("must be less than or equal to %g", *spec.Max),
		}}
	}
	return nil
}

func (v *Validator) checkDecimalRange(spec schema.FieldSpec, val any, d decimal.Decimal) []Violation {
	if spec.Min != nil {
		min := decimal.NewFromFloat(*spec.Min)
		cmp := d.Cmp(min)
		if cmp < 0 || (spec.MinExclusive && cmp == 0) {
			op := "greater than or equal to"
			if spec.MinExclusive {
				op = "greater than"
			}
			return []Violation{{
				Field: spec.Name, Value: renderValue(val), Code: CodeOutOfRange,
				Message: fmt.Sprintf("must be %s %g", op, *spec.Min),
			}}
		}
	}
	if spec.Max != nil && d.Cmp(decimal.NewFromFloat(*spec.Max)) > 0 {
		return []Violation{{
			Field: spec.Name, Value: renderValue(val), Code: CodeOutOfRange,
			Message: fmt.Sprintf("must be less than or equal to %g", *spec.Max),
		}}
	}
	return nil
}

// checkRules evaluates cross-field rules over the typed record. A rule
// only fires when both sides coerced cleanly.
func (v *Validator) checkRules(rec *record.LoanRecord) []Violation {
	var out []Violation
	for _, rule := range v.dict.Rules() {
		switch rule.Kind {
		case schema.RuleLTEAmount:
			l, r := amountField(rec, rule.Left), amountField(rec, rule.Right)
			if l != nil && r != nil && l.Cmp(*r) > 0 {
				out = append(out, Violation{
					Field: rule.Left, Value: l.String(), Code: CodeCrossField,
					Message: fmt.Sprintf("must not exceed %s", rule.Right),
				})
			}
		case schema.RuleLTEDate:
			l, r := dateField(rec, rule.Left), dateField(rec, rule.Right)
			if l != nil && r != nil && l.After(*r) {
				out = append(out, Violation{
					Field: rule.Left, Value: l.Format("2006-01-02"), Code: CodeCrossField,
					Message: fmt.Sprintf("must not be after %s", rule.Right),
				})
			}
		case schema.RuleRefines:
			l, r := stringField(rec, rule.Left), stringField(rec, rule.Right)
			if l != nil && r != nil && !strings.HasPrefix(*l, *r) {
				out = append(out, Violation{
					Field: rule.Left, Value: *l, Code: CodeCrossField,
					Message: fmt.Sprintf("must refine %s", rule.Right),
				})
			}
		}
	}
	return out
}

// ---- coercion ----

func coerceDecimal(v any) (decimal.Decimal, error) {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return decimal.Decimal{}, fmt.Errorf("%g is not a finite number", x)
		}
		return decimal.NewFromFloat(x), nil
	case float32:
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return decimal.Decimal{}, fmt.Errorf("%g is not a finite number", f)
		}
		return decimal.NewFromFloat32(x), nil
	case int:
		return decimal.NewFromInt(int64(x)), nil
	case int64:
		return decimal.NewFromInt(x), nil
	case string:
		return decimal.NewFromString(strings.TrimSpace(x))
	}
	return decimal.Decimal{}, fmt.Errorf("unsupported type %T", v)
}

// coerceFloat rejects NaN and infinities: pandas exports spell unknown
// cells that way, and a non-finite value would slide through the range
// checks and break JSON encoding of the typed record.
func coerceFloat(v any) (float64, error) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, err
		}
		f = parsed
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%g is not a finite number", f)
	}
	return f, nil
}

// coerceInteger accepts numbers (only when integral) and the prose
// forms the dump uses for term and employment_length. null reports the
// export's explicit unknown markers.
func coerceInteger(field string, v any) (n int, null bool, err error) {
	switch x := v.(type) {
	case int:
		return x, false, nil
	case int64:
		return int(x), false, nil
	case float64:
		if x != math.Trunc(x) {
			return 0, false, fmt.Errorf("%g is not a whole number", x)
		}
		return int(x), false, nil
	case string:
		s := strings.TrimSpace(x)
		if m, perr := strconv.Atoi(s); perr == nil {
			return m, false, nil
		}
		switch field {
		case schema.FieldTerm:
			m, perr := dataset.ParseTerm(s)
			return m, false, perr
		case schema.FieldEmploymentLength:
			m, perr := dataset.ParseEmploymentLength(s)
			if errors.Is(perr, dataset.ErrUnknown) {
				return 0, true, nil
			}
			return m, false, perr
		}
		return 0, false, fmt.Errorf("%q is not an integer", s)
	}
	return 0, false, fmt.Errorf("unsupported type %T", v)
}

func coerceDate(v any) (time.Time, error) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, fmt.Errorf("unsupported type %T", v)
	}
	return dataset.ParseDate(s)
}
