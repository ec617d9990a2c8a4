package record

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"loanbook/internal/dataset"
	"loanbook/internal/schema"
)

var ErrNotFound = errors.New("record not found")

// LoanRecord is one validated row of the loan-payments dataset. Every
// column except the record id is nullable in the source dump, so those
// map to pointers. Currency columns use decimal(18,2).
type LoanRecord struct {
	ID       uint64 `gorm:"primaryKey;column:id" json:"-"`
	RecordID string `gorm:"size:64;column:record_id;uniqueIndex:ux_records_batch_record" json:"id"`
	BatchID  uint64 `gorm:"column:batch_id;index;uniqueIndex:ux_records_batch_record" json:"-"`
	// Valid is false when the row carried violations at import time.
	Valid bool `gorm:"column:valid" json:"valid"`

	MemberID                *string          `gorm:"size:64;column:member_id" json:"member_id"`
	LoanAmount              *decimal.Decimal `gorm:"type:decimal(18,2);column:loan_amount" json:"loan_amount"`
	FundedAmount            *decimal.Decimal `gorm:"type:decimal(18,2);column:funded_amount" json:"funded_amount"`
	FundedAmountInv         *decimal.Decimal `gorm:"type:decimal(18,2);column:funded_amount_inv" json:"funded_amount_inv"`
	Term                    *int             `gorm:"column:term" json:"term"`
	IntRate                 *float64         `gorm:"type:decimal(6,3);column:int_rate" json:"int_rate"`
	Instalment              *decimal.Decimal `gorm:"type:decimal(18,2);column:instalment" json:"instalment"`
	Grade                   *string          `gorm:"size:4;column:grade" json:"grade"`
	SubGrade                *string          `gorm:"size:4;column:sub_grade" json:"sub_grade"`
	EmploymentLength        *int             `gorm:"column:employment_length" json:"employment_length"`
	HomeOwnership           *string          `gorm:"size:32;column:home_ownership" json:"home_ownership"`
	VerificationStatus      *string          `gorm:"size:32;column:verification_status" json:"verification_status"`
	IssueDate               *time.Time       `gorm:"column:issue_date" json:"issue_date"`
	LoanStatus              *string          `gorm:"size:64;column:loan_status" json:"loan_status"`
	PaymentPlan             *string          `gorm:"size:4;column:payment_plan" json:"payment_plan"`
	Purpose                 *string          `gorm:"size:32;column:purpose" json:"purpose"`
	DTI                     *float64         `gorm:"type:decimal(6,3);column:dti" json:"dti"`
	Delinq2Yr               *int             `gorm:"column:delinq_2yr" json:"delinq_2yr"`
	EarliestCreditLine      *time.Time       `gorm:"column:earliest_credit_line" json:"earliest_credit_line"`
	InqLast6Mths            *int             `gorm:"column:inq_last_6mths" json:"inq_last_6mths"`
	MthsSinceLastRecord     *int             `gorm:"column:mths_since_last_record" json:"mths_since_last_record"`
	OpenAccounts            *int             `gorm:"column:open_accounts" json:"open_accounts"`
	TotalAccounts           *int             `gorm:"column:total_accounts" json:"total_accounts"`
	OutPrncp                *decimal.Decimal `gorm:"type:decimal(18,2);column:out_prncp" json:"out_prncp"`
	OutPrncpInv             *decimal.Decimal `gorm:"type:decimal(18,2);column:out_prncp_inv" json:"out_prncp_inv"`
	TotalPayment            *decimal.Decimal `gorm:"type:decimal(18,2);column:total_payment" json:"total_payment"`
	TotalRecInt             *decimal.Decimal `gorm:"type:decimal(18,2);column:total_rec_int" json:"total_rec_int"`
	TotalRecLateFee         *decimal.Decimal `gorm:"type:decimal(18,2);column:total_rec_late_fee" json:"total_rec_late_fee"`
	Recoveries              *decimal.Decimal `gorm:"type:decimal(18,2);column:recoveries" json:"recoveries"`
	CollectionRecoveryFee   *decimal.Decimal `gorm:"type:decimal(18,2);column:collection_recovery_fee" json:"collection_recovery_fee"`
	LastPaymentDate         *time.Time       `gorm:"column:last_payment_date" json:"last_payment_date"`
	LastPaymentAmount       *decimal.Decimal `gorm:"type:decimal(18,2);column:last_payment_amount" json:"last_payment_amount"`
	NextPaymentDate         *time.Time       `gorm:"column:next_payment_date" json:"next_payment_date"`
	LastCreditPullDate      *time.Time       `gorm:"column:last_credit_pull_date" json:"last_credit_pull_date"`
	Collections12MthsExMed  *int             `gorm:"column:collections_12_mths_ex_med" json:"collections_12_mths_ex_med"`
	MthsSinceLastMajorDerog *int             `gorm:"column:mths_since_last_major_derog" json:"mths_since_last_major_derog"`
	PolicyCode              *int             `gorm:"column:policy_code" json:"policy_code"`
	ApplicationType         *string          `gorm:"size:32;column:application_type" json:"application_type"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (LoanRecord) TableName() string { return "loan_records" }

const rawDateLayout = "2006-01-02"

// Raw serializes the record back to the raw column mapping the
// validator consumes. Nil fields come back as nil; re-validating the
// result reproduces the record (and any range, category, or cross-field
// findings it was stored with).
func (r *LoanRecord) Raw() dataset.Raw {
	raw := dataset.Raw{}
	putStr := func(name string, v *string) {
		if v == nil {
			raw[name] = nil
		} else {
			raw[name] = *v
		}
	}
	putDec := func(name string, v *decimal.Decimal) {
		if v == nil {
			raw[name] = nil
		} else {
			raw[name] = v.String()
		}
	}
	putInt := func(name string, v *int) {
		if v == nil {
			raw[name] = nil
		} else {
			raw[name] = *v
		}
	}
	putFloat := func(name string, v *float64) {
		if v == nil {
			raw[name] = nil
		} else {
			raw[name] = *v
		}
	}
	putDate := func(name string, v *time.Time) {
		if v == nil {
			raw[name] = nil
		} else {
			raw[name] = v.Format(rawDateLayout)
		}
	}

	raw[schema.FieldID] = r.RecordID
	putStr(schema.FieldMemberID, r.MemberID)
	putDec(schema.FieldLoanAmount, r.LoanAmount)
	putDec(schema.FieldFundedAmount, r.FundedAmount)
	putDec(schema.FieldFundedAmountInv, r.FundedAmountInv)
	putInt(schema.FieldTerm, r.Term)
	putFloat(schema.FieldIntRate, r.IntRate)
	putDec(schema.FieldInstalment, r.Instalment)
	putStr(schema.FieldGrade, r.Grade)
	putStr(schema.FieldSubGrade, r.SubGrade)
	putInt(schema.FieldEmploymentLength, r.EmploymentLength)
	putStr(schema.FieldHomeOwnership, r.HomeOwnership)
	putStr(schema.FieldVerificationStatus, r.VerificationStatus)
	putDate(schema.FieldIssueDate, r.IssueDate)
	putStr(schema.FieldLoanStatus, r.LoanStatus)
	putStr(schema.FieldPaymentPlan, r.PaymentPlan)
	putStr(schema.FieldPurpose, r.Purpose)
	putFloat(schema.FieldDTI, r.DTI)
	putInt(schema.FieldDelinq2Yr, r.Delinq2Yr)
	putDate(schema.FieldEarliestCreditLine, r.EarliestCreditLine)
	putInt(schema.FieldInqLast6Mths, r.InqLast6Mths)
	putInt(schema.FieldMthsSinceLastRecord, r.MthsSinceLastRecord)
	putInt(schema.FieldOpenAccounts, r.OpenAccounts)
	putInt(schema.FieldTotalAccounts, r.TotalAccounts)
	putDec(schema.FieldOutPrncp, r.OutPrncp)
	putDec(schema.FieldOutPrncpInv, r.OutPrncpInv)
	putDec(schema.FieldTotalPayment, r.TotalPayment)
	putDec(schema.FieldTotalRecInt, r.TotalRecInt)
	putDec(schema.FieldTotalRecLateFee, r.TotalRecLateFee)
	putDec(schema.FieldRecoveries, r.Recoveries)
	putDec(schema.FieldCollectionRecoveryFee, r.CollectionRecoveryFee)
	putDate(schema.FieldLastPaymentDate, r.LastPaymentDate)
	putDec(schema.FieldLastPaymentAmount, r.LastPaymentAmount)
	putDate(schema.FieldNextPaymentDate, r.NextPaymentDate)
	putDate(schema.FieldLastCreditPullDate, r.LastCreditPullDate)
	putInt(schema.FieldCollections12MthsExMed, r.Collections12MthsExMed)
	putInt(schema.FieldMthsSinceLastMajorDerog, r.MthsSinceLastMajorDerog)
	putInt(schema.FieldPolicyCode, r.PolicyCode)
	putStr(schema.FieldApplicationType, r.ApplicationType)
	return raw
}

// Violation is one stored finding from validating a row at import.
type Violation struct {
	ID       uint64 `gorm:"primaryKey;column:id" json:"-"`
	BatchID  uint64 `gorm:"column:batch_id;index" json:"-"`
	RecordPK uint64 `gorm:"column:record_pk;index" json:"-"`
	// RecordID is the dataset id, denormalized for listings.
	RecordID  string    `gorm:"size:64;column:record_id" json:"record_id"`
	Field     string    `gorm:"size:64;column:field" json:"field"`
	RawValue  string    `gorm:"size:255;column:raw_value" json:"raw_value"`
	Code      string    `gorm:"size:32;column:code" json:"code"`
	Message   string    `gorm:"size:255;column:message" json:"message"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
}

func (Violation) TableName() string { return "violations" }
