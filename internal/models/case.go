package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

type CaseStatus string

const (
	StatusNew        CaseStatus = "New"
	StatusOpen       CaseStatus = "Open"
	StatusInProgress CaseStatus = "In Progress"
	StatusOnHold     CaseStatus = "On Hold"
	StatusClosed     CaseStatus = "Closed"
	StatusPaid       CaseStatus = "Paid"
)

// AllStatuses lists the workflow states in display order.
var AllStatuses = []CaseStatus{StatusNew, StatusOpen, StatusInProgress, StatusOnHold, StatusClosed, StatusPaid}

// Placeholders for required party names missing from an import.
const (
	UnknownClient   = "Unknown Client"
	UnknownDebtor   = "Unknown Debtor"
	DefaultCurrency = "USD"
)

// DerivedFlags records which cached derived amounts came from an imported
// column rather than from the formula.
type DerivedFlags struct {
	FeesAmount     bool `json:"feesAmount,omitempty"`
	TotalAmountDue bool `json:"totalAmountDue,omitempty"`
	BalanceAmount  bool `json:"balanceAmount,omitempty"`
	CollectionRate bool `json:"collectionRate,omitempty"`
}

// Financials holds every monetary field of a case. All amounts share the
// case currency.
type Financials struct {
	PrincipalAmount      decimal.Decimal `json:"principalAmount"`
	InterestAmount       decimal.Decimal `json:"interestAmount"`
	FeesBeforeSubmission decimal.Decimal `json:"feesBeforeSubmission"`
	FeesAfterSubmission  decimal.Decimal `json:"feesAfterSubmission"`
	FeesAmount           decimal.Decimal `json:"feesAmount"`
	TotalAmountDue       decimal.Decimal `json:"totalAmountDue"`
	CollectedAmount      decimal.Decimal `json:"collectedAmount"`
	BalanceAmount        decimal.Decimal `json:"balanceAmount"`
	CollectionRate       decimal.Decimal `json:"collectionRate"`
	LastPaymentAmount    decimal.Decimal `json:"lastPaymentAmount"`
	Explicit             DerivedFlags    `json:"explicit"`
}

type CaseRecord struct {
	CaseID   string `json:"caseId"`
	ClientID string `json:"clientId"`

	Reference  string `json:"reference,omitempty"`
	ClientName string `json:"clientName"`
	DebtorName string `json:"debtorName"`

	// DebtorNameFallback names the debtor of a newly created case when the
	// upload has no debtor column. It is never stored.
	DebtorNameFallback string `json:"-"`

	CustomerContactName  string `json:"customerContactName,omitempty"`
	CustomerContactEmail string `json:"customerContactEmail,omitempty"`
	CustomerAddress1     string `json:"customerAddress1,omitempty"`
	CustomerAddress2     string `json:"customerAddress2,omitempty"`

	DebtorAddress1 string `json:"debtorAddress1,omitempty"`
	DebtorAddress2 string `json:"debtorAddress2,omitempty"`
	DebtorCity     string `json:"debtorCity,omitempty"`
	DebtorState    string `json:"debtorState,omitempty"`
	DebtorZip      string `json:"debtorZip,omitempty"`
	DebtorCountry  string `json:"debtorCountry,omitempty"`
	DebtorPhone    string `json:"debtorPhone,omitempty"`
	DebtorEmail    string `json:"debtorEmail,omitempty"`
	Language       string `json:"language,omitempty"`

	Financials
	Currency string `json:"currency"`

	Status      CaseStatus `json:"status"`
	Stage       string     `json:"stage,omitempty"`
	AgeInMonths int        `json:"ageInMonths"`

	OpenedDate       string `json:"openedDate,omitempty"`
	DueDate          string `json:"dueDate,omitempty"`
	LastActivityDate string `json:"lastActivityDate,omitempty"`
	LastPaymentDate  string `json:"lastPaymentDate,omitempty"`
	ClosedDate       string `json:"closedDate,omitempty"`

	Collector      string `json:"collector,omitempty"`
	CollectorName  string `json:"collectorName,omitempty"`
	CollectorEmail string `json:"collectorEmail,omitempty"`

	NextAction     string `json:"nextAction,omitempty"`
	NextActionDate string `json:"nextActionDate,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

// IsActive reports whether the case still has collection work pending.
func (c CaseRecord) IsActive() bool {
	return c.Status != StatusClosed && c.Status != StatusPaid
}

// AssignedCollector is the display name used to group cases by collector.
func (c CaseRecord) AssignedCollector() string {
	if s := strings.TrimSpace(c.CollectorName); s != "" {
		return s
	}
	if s := strings.TrimSpace(c.Collector); s != "" {
		return s
	}
	return "Unassigned"
}

// ActivityDate is the most recent known date on the case.
func (c CaseRecord) ActivityDate() string {
	if c.LastActivityDate != "" {
		return c.LastActivityDate
	}
	return c.OpenedDate
}
