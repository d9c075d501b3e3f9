package caseimport

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Field is the canonical name of a case attribute an upload column can map to.
type Field string

const (
	FieldCaseID               Field = "caseId"
	FieldReference            Field = "reference"
	FieldClientName           Field = "clientName"
	FieldDebtorName           Field = "debtorName"
	FieldDebtorNameFallback   Field = "debtorNameFallback"
	FieldCustomerContactName  Field = "customerContactName"
	FieldCustomerContactEmail Field = "customerContactEmail"
	FieldCustomerAddress1     Field = "customerAddress1"
	FieldCustomerAddress2     Field = "customerAddress2"
	FieldDebtorAddress1       Field = "debtorAddress1"
	FieldDebtorAddress2       Field = "debtorAddress2"
	FieldDebtorCity           Field = "debtorCity"
	FieldDebtorState          Field = "debtorState"
	FieldDebtorZip            Field = "debtorZip"
	FieldDebtorCountry        Field = "debtorCountry"
	FieldDebtorPhone          Field = "debtorPhone"
	FieldDebtorEmail          Field = "debtorEmail"
	FieldLanguage             Field = "language"
	FieldPrincipal            Field = "principalAmount"
	FieldInterest             Field = "interestAmount"
	FieldFeesBefore           Field = "feesBeforeSubmission"
	FieldFeesAfter            Field = "feesAfterSubmission"
	FieldFees                 Field = "feesAmount"
	FieldTotalAmountDue       Field = "totalAmountDue"
	FieldCollected            Field = "collectedAmount"
	FieldBalance              Field = "balanceAmount"
	FieldCollectionRate       Field = "collectionRate"
	FieldLastPaymentAmount    Field = "lastPaymentAmount"
	FieldCurrency             Field = "currency"
	FieldStatus               Field = "status"
	FieldStage                Field = "stage"
	FieldAgeInMonths          Field = "ageInMonths"
	FieldOpenedDate           Field = "openedDate"
	FieldDueDate              Field = "dueDate"
	FieldLastActivityDate     Field = "lastActivityDate"
	FieldLastPaymentDate      Field = "lastPaymentDate"
	FieldClosedDate           Field = "closedDate"
	FieldCollector            Field = "collector"
	FieldCollectorName        Field = "collectorName"
	FieldCollectorEmail       Field = "collectorEmail"
	FieldNextAction           Field = "nextAction"
	FieldNextActionDate       Field = "nextActionDate"
	FieldNotes                Field = "notes"
)

// DefaultCaseIDColumns are the accepted names of the case identifier column.
var DefaultCaseIDColumns = []string{"Case ID", "CaseId", "ID", "CaseID"}

// defaultAliases lists accepted headers per field, most specific first. The
// trailing entries of some fields come from the layouts of older client
// spreadsheets.
var defaultAliases = map[Field][]string{
	FieldReference:            {"CRM Case ID", "Reference", "Client Reference"},
	FieldClientName:           {"Client Name", "Client"},
	FieldDebtorName:           {"Debtor Name", "Debtor"},
	FieldDebtorNameFallback:   {"Customer Contact Name", "Customer name"},
	FieldCustomerContactName:  {"Customer Contact Name"},
	FieldCustomerContactEmail: {"Customer Contact Email"},
	FieldCustomerAddress1:     {"Customer Address 1"},
	FieldCustomerAddress2:     {"Customer Address 2"},
	FieldDebtorAddress1:       {"Debtor Address 1"},
	FieldDebtorAddress2:       {"Debtor Address 2"},
	FieldDebtorCity:           {"Debtor City"},
	FieldDebtorState:          {"Debtor State"},
	FieldDebtorZip:            {"Debtor Zip", "Debtor postal code"},
	FieldDebtorCountry:        {"Debtor Country"},
	FieldDebtorPhone:          {"Debtor Phone"},
	FieldDebtorEmail:          {"Debtor Email"},
	FieldLanguage:             {"Language"},
	FieldPrincipal:            {"Principal", "Principal Amount", "Amount", "Amount 2"},
	FieldInterest:             {"Interest"},
	FieldFeesBefore:           {"Fees Before Submission", "Administrative fees"},
	FieldFeesAfter:            {"Fees After Submission", "Collection fees"},
	FieldFees:                 {"Fees", "Fees Amount"},
	FieldTotalAmountDue:       {"Total Amount Due", "Total Due", "Total amount payable"},
	FieldCollected:            {"Paid", "Collected", "Amount Collected", "Paid before submission"},
	FieldBalance:              {"Balance"},
	FieldCollectionRate:       {"Collection Rate"},
	FieldLastPaymentAmount:    {"Last Payment Amount"},
	FieldCurrency:             {"Currency"},
	FieldStatus:               {"Case Status", "Status", "Substatus"},
	FieldStage:                {"Stage"},
	FieldAgeInMonths:          {"Age in Months", "Age", "Age of debt at CMC"},
	FieldOpenedDate:           {"Creation Date", "Created Date", "Date Opened", "Opened", "Case entry date"},
	FieldDueDate:              {"Due Date"},
	FieldLastActivityDate:     {"Last Activity", "Last Update"},
	FieldLastPaymentDate:      {"Last Payment Date"},
	FieldClosedDate:           {"Close date", "Closed Date"},
	FieldCollector:            {"Collector", "Collector ID", "Debt Collector"},
	FieldCollectorName:        {"Collector Name"},
	FieldCollectorEmail:       {"Collector Email"},
	FieldNextAction:           {"Next Action"},
	FieldNextActionDate:       {"Next Action Date"},
	FieldNotes:                {"Notes", "Comments"},
}

// AliasTable maps canonical fields to their accepted header names.
type AliasTable map[Field][]string

// DefaultAliasTable returns a fresh copy of the built-in aliases.
func DefaultAliasTable() AliasTable {
	t := make(AliasTable, len(defaultAliases)+1)
	for f, names := range defaultAliases {
		t[f] = append([]string(nil), names...)
	}
	t[FieldCaseID] = append([]string(nil), DefaultCaseIDColumns...)
	return t
}

// Aliases returns the accepted headers for a field.
func (t AliasTable) Aliases(f Field) []string {
	return t[f]
}

// Extend appends extra header names to a field. Existing names keep their
// precedence.
func (t AliasTable) Extend(f Field, names ...string) {
	for _, n := range names {
		if !containsHeader(t[f], n) {
			t[f] = append(t[f], n)
		}
	}
}

type aliasOverrides struct {
	CaseIDColumns []string            `yaml:"case_id_columns"`
	Aliases       map[string][]string `yaml:"aliases"`
}

// LoadAliasTable reads extra header names from a YAML file and layers them
// on top of the defaults. An empty path yields the defaults.
//
//	case_id_columns: ["Matter Number"]
//	aliases:
//	  principalAmount: ["Original Debt"]
func LoadAliasTable(path string) (AliasTable, error) {
	t := DefaultAliasTable()
	if path == "" {
		return t, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read alias file: %w", err)
	}
	var o aliasOverrides
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&o); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse alias file %s: %w", path, err)
	}
	t.Extend(FieldCaseID, o.CaseIDColumns...)
	for name, headers := range o.Aliases {
		f := Field(name)
		if _, known := t[f]; !known {
			return nil, fmt.Errorf("alias file %s: unknown field %q", path, name)
		}
		t.Extend(f, headers...)
	}
	return t, nil
}

func containsHeader(list []string, name string) bool {
	key := normalizeHeader(name)
	for _, n := range list {
		if normalizeHeader(n) == key {
			return true
		}
	}
	return false
}
