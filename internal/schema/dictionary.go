package schema

import (
	"encoding/json"
	"fmt"
	"os"
)

// Field names, kept as constants so usecases and repositories never
// spell a column by hand.
const (
	FieldID                      = "id"
	FieldMemberID                = "member_id"
	FieldLoanAmount              = "loan_amount"
	FieldFundedAmount            = "funded_amount"
	FieldFundedAmountInv         = "funded_amount_inv"
	FieldTerm                    = "term"
	FieldIntRate                 = "int_rate"
	FieldInstalment              = "instalment"
	FieldGrade                   = "grade"
	FieldSubGrade                = "sub_grade"
	FieldEmploymentLength        = "employment_length"
	FieldHomeOwnership           = "home_ownership"
	FieldVerificationStatus      = "verification_status"
	FieldIssueDate               = "issue_date"
	FieldLoanStatus              = "loan_status"
	FieldPaymentPlan             = "payment_plan"
	FieldPurpose                 = "purpose"
	FieldDTI                     = "dti"
	FieldDelinq2Yr               = "delinq_2yr"
	FieldEarliestCreditLine      = "earliest_credit_line"
	FieldInqLast6Mths            = "inq_last_6mths"
	FieldMthsSinceLastRecord     = "mths_since_last_record"
	FieldOpenAccounts            = "open_accounts"
	FieldTotalAccounts           = "total_accounts"
	FieldOutPrncp                = "out_prncp"
	FieldOutPrncpInv             = "out_prncp_inv"
	FieldTotalPayment            = "total_payment"
	FieldTotalRecInt             = "total_rec_int"
	FieldTotalRecLateFee         = "total_rec_late_fee"
	FieldRecoveries              = "recoveries"
	FieldCollectionRecoveryFee   = "collection_recovery_fee"
	FieldLastPaymentDate         = "last_payment_date"
	FieldLastPaymentAmount       = "last_payment_amount"
	FieldNextPaymentDate         = "next_payment_date"
	FieldLastCreditPullDate      = "last_credit_pull_date"
	FieldCollections12MthsExMed  = "collections_12_mths_ex_med"
	FieldMthsSinceLastMajorDerog = "mths_since_last_major_derog"
	FieldPolicyCode              = "policy_code"
	FieldApplicationType         = "application_type"
)

// Dictionary is the machine-readable data dictionary for loan records.
type Dictionary struct {
	fields []FieldSpec
	index  map[string]int
	rules  []CrossRule
}

func defaultGrades() []string { return []string{"A", "B", "C", "D", "E", "F", "G"} }

func defaultSubGrades() []string {
	out := make([]string, 0, 35)
	for _, g := range defaultGrades() {
		for n := 1; n <= 5; n++ {
			out = append(out, fmt.Sprintf("%s%d", g, n))
		}
	}
	return out
}

// Default builds the dictionary with its shipped category sets. Category
// sets are deployment configuration; see ApplyEnumOverrides.
func Default() *Dictionary {
	currency := func(name, desc string) FieldSpec {
		return FieldSpec{Name: name, Kind: KindCurrency, Min: fptr(0), Description: desc}
	}
	counter := func(name, desc string) FieldSpec {
		return FieldSpec{Name: name, Kind: KindInteger, Min: fptr(0), Description: desc}
	}
	date := func(name, desc string) FieldSpec {
		return FieldSpec{Name: name, Kind: KindDate, Description: desc}
	}

	fields := []FieldSpec{
		{Name: FieldID, Kind: KindIdentifier, Required: true, Description: "unique id of the loan record"},
		{Name: FieldMemberID, Kind: KindIdentifier, Description: "id of the borrowing member"},
		currency(FieldLoanAmount, "amount of loan the applicant received"),
		currency(FieldFundedAmount, "amount of the loan funded"),
		currency(FieldFundedAmountInv, "amount funded by investors"),
		{Name: FieldTerm, Kind: KindInteger, Min: fptr(1), Description: "number of monthly payments for the loan"},
		{Name: FieldIntRate, Kind: KindPercent, Min: fptr(0), Max: fptr(100), Description: "annual interest rate"},
		{Name: FieldInstalment, Kind: KindCurrency, Min: fptr(0), MinExclusive: true, Description: "monthly payment owed by the borrower"},
		{Name: FieldGrade, Kind: KindCategory, Categories: defaultGrades(), Description: "LC assigned loan grade"},
		{Name: FieldSubGrade, Kind: KindCategory, Categories: defaultSubGrades(), Description: "LC assigned loan sub grade"},
		{Name: FieldEmploymentLength, Kind: KindInteger, Min: fptr(0), Description: "employment length in years"},
		{Name: FieldHomeOwnership, Kind: KindCategory,
			Categories:  []string{"MORTGAGE", "RENT", "OWN", "OTHER", "NONE", "ANY"},
			Description: "home ownership status provided by the borrower"},
		{Name: FieldVerificationStatus, Kind: KindCategory,
			Categories:  []string{"Verified", "Source Verified", "Not Verified"},
			Description: "whether the income was verified by LC"},
		date(FieldIssueDate, "month the loan was funded"),
		{Name: FieldLoanStatus, Kind: KindCategory,
			Categories: []string{
				"Fully Paid", "Current", "Charged Off", "Default",
				"Late (31-120 days)", "Late (16-30 days)", "In Grace Period",
				"Does not meet the credit policy. Status:Fully Paid",
				"Does not meet the credit policy. Status:Charged Off",
			},
			Description: "current status of the loan"},
		{Name: FieldPaymentPlan, Kind: KindCategory, Categories: []string{"y", "n"},
			Description: "whether a payment plan is in place for the loan"},
		{Name: FieldPurpose, Kind: KindCategory,
			Categories: []string{
				"credit_card", "debt_consolidation", "home_improvement", "house",
				"major_purchase", "medical", "moving", "car", "vacation", "wedding",
				"renewable_energy", "small_business", "educational", "other",
			},
			Description: "purpose of the loan provided by the borrower"},
		{Name: FieldDTI, Kind: KindRatio, Min: fptr(0), Max: fptr(100), Description: "debt-to-income ratio"},
		counter(FieldDelinq2Yr, "30+ day past-due incidences in the past 2 years"),
		date(FieldEarliestCreditLine, "month the borrower's earliest credit line opened"),
		counter(FieldInqLast6Mths, "inquiries in the past 6 months"),
		counter(FieldMthsSinceLastRecord, "months since the last public record"),
		counter(FieldOpenAccounts, "number of open credit lines"),
		counter(FieldTotalAccounts, "total number of credit lines"),
		currency(FieldOutPrncp, "remaining outstanding principal"),
		currency(FieldOutPrncpInv, "outstanding principal funded by investors"),
		currency(FieldTotalPayment, "payments received to date"),
		currency(FieldTotalRecInt, "interest received to date"),
		currency(FieldTotalRecLateFee, "late fees received to date"),
		currency(FieldRecoveries, "post charge-off gross recovery"),
		currency(FieldCollectionRecoveryFee, "post charge-off collection fee"),
		date(FieldLastPaymentDate, "month the last payment was received"),
		currency(FieldLastPaymentAmount, "last total payment amount received"),
		date(FieldNextPaymentDate, "next scheduled payment date"),
		date(FieldLastCreditPullDate, "most recent month LC pulled credit"),
		counter(FieldCollections12MthsExMed, "collections in 12 months excluding medical"),
		counter(FieldMthsSinceLastMajorDerog, "months since most recent 90-day or worse rating"),
		{Name: FieldPolicyCode, Kind: KindInteger, Enum: []int64{1, 2},
			Description: "1 = publicly available product, 2 = not publicly available"},
		{Name: FieldApplicationType, Kind: KindCategory,
			Categories:  []string{"INDIVIDUAL", "JOINT", "DIRECT_PAY"},
			Description: "whether the loan is an individual or joint application"},
	}

	idx := make(map[string]int, len(fields))
	for i, f := range fields {
		idx[f.Name] = i
	}

	return &Dictionary{
		fields: fields,
		index:  idx,
		rules: []CrossRule{
			{Kind: RuleLTEAmount, Left: FieldFundedAmount, Right: FieldLoanAmount},
			{Kind: RuleLTEAmount, Left: FieldFundedAmountInv, Right: FieldFundedAmount},
			{Kind: RuleLTEDate, Left: FieldEarliestCreditLine, Right: FieldIssueDate},
			{Kind: RuleRefines, Left: FieldSubGrade, Right: FieldGrade},
		},
	}
}

// Fields returns the specs in dictionary order.
func (d *Dictionary) Fields() []FieldSpec { return d.fields }

// Lookup returns the spec for a column name.
func (d *Dictionary) Lookup(name string) (FieldSpec, bool) {
	i, ok := d.index[name]
	if !ok {
		return FieldSpec{}, false
	}
	return d.fields[i], true
}

// Rules returns the cross-field rules.
func (d *Dictionary) Rules() []CrossRule { return d.rules }

// Document is the JSON shape served to schema consumers.
type Document struct {
	Entity string      `json:"entity"`
	Fields []FieldSpec `json:"fields"`
	Rules  []CrossRule `json:"rules"`
}

// Doc renders the dictionary as a machine-readable schema document.
func (d *Dictionary) Doc() Document {
	return Document{Entity: "loan_record", Fields: d.fields, Rules: d.rules}
}

// ApplyEnumOverrides replaces category sets by field name. Unknown or
// non-category fields are rejected so a typo in the overrides file does
// not silently leave the shipped set in place.
func (d *Dictionary) ApplyEnumOverrides(sets map[string][]string) error {
	for name, values := range sets {
		i, ok := d.index[name]
		if !ok {
			return fmt.Errorf("enum override for unknown field %q", name)
		}
		if d.fields[i].Kind != KindCategory {
			return fmt.Errorf("enum override for non-category field %q", name)
		}
		if len(values) == 0 {
			return fmt.Errorf("enum override for %q is empty", name)
		}
		d.fields[i].Categories = values
	}
	return nil
}

// LoadEnumOverrides reads a JSON file mapping field name to category set.
func LoadEnumOverrides(path string) (map[string][]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read enum overrides: %w", err)
	}
	var sets map[string][]string
	if err := json.Unmarshal(b, &sets); err != nil {
		return nil, fmt.Errorf("parse enum overrides: %w", err)
	}
	return sets, nil
}
