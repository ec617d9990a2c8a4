package validate

import (
	"time"

	"github.com/shopspring/decimal"

	"loanbook/internal/domain/record"
	"loanbook/internal/schema"
)

// Field plumbing between the dictionary's column names and the typed
// record. Setters ignore names outside their kind; the dictionary is
// the source of truth for which setter applies.

func setString(rec *record.LoanRecord, name, s string) {
	switch name {
	case schema.FieldID:
		rec.RecordID = s
	case schema.FieldMemberID:
		rec.MemberID = &s
	case schema.FieldGrade:
		rec.Grade = &s
	case schema.FieldSubGrade:
		rec.SubGrade = &s
	case schema.FieldHomeOwnership:
		rec.HomeOwnership = &s
	case schema.FieldVerificationStatus:
		rec.VerificationStatus = &s
	case schema.FieldLoanStatus:
		rec.LoanStatus = &s
	case schema.FieldPaymentPlan:
		rec.PaymentPlan = &s
	case schema.FieldPurpose:
		rec.Purpose = &s
	case schema.FieldApplicationType:
		rec.ApplicationType = &s
	}
}

func setDecimal(rec *record.LoanRecord, name string, d decimal.Decimal) {
	switch name {
	case schema.FieldLoanAmount:
		rec.LoanAmount = &d
	case schema.FieldFundedAmount:
		rec.FundedAmount = &d
	case schema.FieldFundedAmountInv:
		rec.FundedAmountInv = &d
	case schema.FieldInstalment:
		rec.Instalment = &d
	case schema.FieldOutPrncp:
		rec.OutPrncp = &d
	case schema.FieldOutPrncpInv:
		rec.OutPrncpInv = &d
	case schema.FieldTotalPayment:
		rec.TotalPayment = &d
	case schema.FieldTotalRecInt:
		rec.TotalRecInt = &d
	case schema.FieldTotalRecLateFee:
		rec.TotalRecLateFee = &d
	case schema.FieldRecoveries:
		rec.Recoveries = &d
	case schema.FieldCollectionRecoveryFee:
		rec.CollectionRecoveryFee = &d
	case schema.FieldLastPaymentAmount:
		rec.LastPaymentAmount = &d
	}
}

func setFloat(rec *record.LoanRecord, name string, f float64) {
	switch name {
	case schema.FieldIntRate:
		rec.IntRate = &f
	case schema.FieldDTI:
		rec.DTI = &f
	}
}

func setInt(rec *record.LoanRecord, name string, n int) {
	switch name {
	case schema.FieldTerm:
		rec.Term = &n
	case schema.FieldEmploymentLength:
		rec.EmploymentLength = &n
	case schema.FieldDelinq2Yr:
		rec.Delinq2Yr = &n
	case schema.FieldInqLast6Mths:
		rec.InqLast6Mths = &n
	case schema.FieldMthsSinceLastRecord:
		rec.MthsSinceLastRecord = &n
	case schema.FieldOpenAccounts:
		rec.OpenAccounts = &n
	case schema.FieldTotalAccounts:
		rec.TotalAccounts = &n
	case schema.FieldCollections12MthsExMed:
		rec.Collections12MthsExMed = &n
	case schema.FieldMthsSinceLastMajorDerog:
		rec.MthsSinceLastMajorDerog = &n
	case schema.FieldPolicyCode:
		rec.PolicyCode = &n
	}
}

func setDate(rec *record.LoanRecord, name string, t time.Time) {
	switch name {
	case schema.FieldIssueDate:
		rec.IssueDate = &t
	case schema.FieldEarliestCreditLine:
		rec.EarliestCreditLine = &t
	case schema.FieldLastPaymentDate:
		rec.LastPaymentDate = &t
	case schema.FieldNextPaymentDate:
		rec.NextPaymentDate = &t
	case schema.FieldLastCreditPullDate:
		rec.LastCreditPullDate = &t
	}
}

// Getters for the fields cross-field rules touch.

func amountField(rec *record.LoanRecord, name string) *decimal.Decimal {
	switch name {
	case schema.FieldLoanAmount:
		return rec.LoanAmount
	case schema.FieldFundedAmount:
		return rec.FundedAmount
	case schema.FieldFundedAmountInv:
		return rec.FundedAmountInv
	}
	return nil
}

func dateField(rec *record.LoanRecord, name string) *time.Time {
	switch name {
	case schema.FieldIssueDate:
		return rec.IssueDate
	case schema.FieldEarliestCreditLine:
		return rec.EarliestCreditLine
	}
	return nil
}

func stringField(rec *record.LoanRecord, name string) *string {
	switch name {
	case schema.FieldGrade:
		return rec.Grade
	case schema.FieldSubGrade:
		return rec.SubGrade
	}
	return nil
}
