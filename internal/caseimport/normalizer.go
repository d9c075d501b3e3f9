package caseimport

import (
	"CollectPortal/internal/models"

	"github.com/shopspring/decimal"
)

// Normalizer converts upload rows into partial case records. Fields whose
// column is missing or blank are left at their zero value, which the merger
// reads as "absent".
type Normalizer struct {
	aliases AliasTable
}

func NewNormalizer(aliases AliasTable) *Normalizer {
	if aliases == nil {
		aliases = DefaultAliasTable()
	}
	return &Normalizer{aliases: aliases}
}

func (n *Normalizer) str(row Row, f Field) string {
	v, _ := ValueFrom(row, n.aliases.Aliases(f))
	return v
}

func (n *Normalizer) num(row Row, f Field) decimal.Decimal {
	v, ok := ValueFrom(row, n.aliases.Aliases(f))
	if !ok {
		return decimal.Zero
	}
	return NumberFrom(v)
}

func (n *Normalizer) date(row Row, f Field) string {
	v, ok := ValueFrom(row, n.aliases.Aliases(f))
	if !ok {
		return ""
	}
	return DateFrom(v)
}

// CaseID returns the row's case identifier, or "" when none of the case id
// columns carry a value.
func (n *Normalizer) CaseID(row Row) string {
	return n.str(row, FieldCaseID)
}

// Normalize maps one row onto a partial case record.
func (n *Normalizer) Normalize(row Row) models.CaseRecord {
	rec := models.CaseRecord{
		CaseID:               n.CaseID(row),
		Reference:            n.str(row, FieldReference),
		ClientName:           n.str(row, FieldClientName),
		DebtorName:           n.str(row, FieldDebtorName),
		DebtorNameFallback:   n.str(row, FieldDebtorNameFallback),
		CustomerContactName:  n.str(row, FieldCustomerContactName),
		CustomerContactEmail: n.str(row, FieldCustomerContactEmail),
		CustomerAddress1:     n.str(row, FieldCustomerAddress1),
		CustomerAddress2:     n.str(row, FieldCustomerAddress2),
		DebtorAddress1:       n.str(row, FieldDebtorAddress1),
		DebtorAddress2:       n.str(row, FieldDebtorAddress2),
		DebtorCity:           n.str(row, FieldDebtorCity),
		DebtorState:          n.str(row, FieldDebtorState),
		DebtorZip:            n.str(row, FieldDebtorZip),
		DebtorCountry:        n.str(row, FieldDebtorCountry),
		DebtorPhone:          n.str(row, FieldDebtorPhone),
		DebtorEmail:          n.str(row, FieldDebtorEmail),
		Language:             n.str(row, FieldLanguage),
		Stage:                n.str(row, FieldStage),
		AgeInMonths:          int(n.num(row, FieldAgeInMonths).IntPart()),
		OpenedDate:           n.date(row, FieldOpenedDate),
		DueDate:              n.date(row, FieldDueDate),
		LastActivityDate:     n.date(row, FieldLastActivityDate),
		LastPaymentDate:      n.date(row, FieldLastPaymentDate),
		ClosedDate:           n.date(row, FieldClosedDate),
		Collector:            n.str(row, FieldCollector),
		CollectorName:        n.str(row, FieldCollectorName),
		CollectorEmail:       n.str(row, FieldCollectorEmail),
		NextAction:           n.str(row, FieldNextAction),
		NextActionDate:       n.date(row, FieldNextActionDate),
		Notes:                n.str(row, FieldNotes),
	}
	if v, ok := ValueFrom(row, n.aliases.Aliases(FieldStatus)); ok {
		rec.Status = StatusFrom(v)
	}
	if v, ok := ValueFrom(row, n.aliases.Aliases(FieldCurrency)); ok {
		rec.Currency = NormalizeCurrency(v)
	}

	fin := models.Financials{
		PrincipalAmount:      n.num(row, FieldPrincipal),
		InterestAmount:       n.num(row, FieldInterest),
		FeesBeforeSubmission: n.num(row, FieldFeesBefore),
		FeesAfterSubmission:  n.num(row, FieldFeesAfter),
		FeesAmount:           n.num(row, FieldFees),
		TotalAmountDue:       n.num(row, FieldTotalAmountDue),
		CollectedAmount:      n.num(row, FieldCollected),
		BalanceAmount:        n.num(row, FieldBalance),
		CollectionRate:       n.num(row, FieldCollectionRate),
		LastPaymentAmount:    n.num(row, FieldLastPaymentAmount),
	}
	fin.Explicit = models.DerivedFlags{
		FeesAmount:     !fin.FeesAmount.IsZero(),
		TotalAmountDue: !fin.TotalAmountDue.IsZero(),
		BalanceAmount:  !fin.BalanceAmount.IsZero(),
		CollectionRate: !fin.CollectionRate.IsZero(),
	}
	rec.Financials = fin
	return rec
}
