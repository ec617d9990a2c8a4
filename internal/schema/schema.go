package schema

// Kind is the semantic type a raw column value must coerce to.
type Kind string

const (
	KindIdentifier Kind = "identifier"
	KindCurrency   Kind = "currency"
	KindInteger    Kind = "integer"
	KindPercent    Kind = "percent"
	KindRatio      Kind = "ratio"
	KindDate       Kind = "date"
	KindCategory   Kind = "category"
)

// FieldSpec describes one column of the loan-payments data dictionary.
type FieldSpec struct {
	Name     string `json:"name"`
	Kind     Kind   `json:"kind"`
	Required bool   `json:"required,omitempty"`
	// Min/Max bound numeric kinds (currency, integer, percent, ratio).
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
	// MinExclusive makes Min a strict lower bound.
	MinExclusive bool `json:"min_exclusive,omitempty"`
	// Categories is the allowed value set for category fields.
	Categories []string `json:"categories,omitempty"`
	// Enum is the allowed value set for integer-coded fields (policy_code).
	Enum        []int64 `json:"enum,omitempty"`
	Description string  `json:"description,omitempty"`
}

// RuleKind selects how a cross-field rule compares its two fields.
type RuleKind string

const (
	// RuleLTEAmount: left amount must not exceed right amount.
	RuleLTEAmount RuleKind = "lte_amount"
	// RuleLTEDate: left date must not be after right date.
	RuleLTEDate RuleKind = "lte_date"
	// RuleRefines: left category must start with the right category
	// (sub_grade refines grade).
	RuleRefines RuleKind = "refines"
)

// CrossRule relates two fields of the same record.
type CrossRule struct {
	Kind  RuleKind `json:"kind"`
	Left  string   `json:"left"`
	Right string   `json:"right"`
}

func fptr(f float64) *float64 { return &f }
