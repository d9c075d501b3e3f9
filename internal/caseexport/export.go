package caseexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"CollectPortal/internal/models"

	"github.com/xuri/excelize/v2"
)

// CaseColumns is the fixed column order of a case export. The headers are
// accepted by the importer, so an export can be uploaded again unchanged.
var CaseColumns = []string{
	"Case ID", "CRM Case ID", "Client Name",
	"Customer Contact Name", "Customer Contact Email", "Customer Address 1", "Customer Address 2",
	"Debtor Name", "Debtor Address 1", "Debtor Address 2", "Debtor City", "Debtor State",
	"Debtor Zip", "Debtor Country", "Debtor Phone", "Debtor Email", "Language",
	"Creation Date", "Due Date", "Last Activity", "Last Payment Date", "Last Payment Amount",
	"Principal", "Interest", "Fees Before Submission", "Fees After Submission",
	"Total Amount Due", "Paid", "Balance", "Collection Rate",
	"Case Status", "Stage", "Age in Months", "Currency",
	"Collector", "Collector Name", "Collector Email",
	"Next Action", "Next Action Date", "Notes",
}

var MessageColumns = []string{"Message ID", "Case ID", "Author", "Created At", "Body"}

// CaseRow renders one case in CaseColumns order. Derived amounts are taken
// from the resolved fields stored on the record.
func CaseRow(c models.CaseRecord) []string {
	currency := c.Currency
	if currency == "" {
		currency = models.DefaultCurrency
	}
	return []string{
		c.CaseID, c.Reference, c.ClientName,
		c.CustomerContactName, c.CustomerContactEmail, c.CustomerAddress1, c.CustomerAddress2,
		c.DebtorName, c.DebtorAddress1, c.DebtorAddress2, c.DebtorCity, c.DebtorState,
		c.DebtorZip, c.DebtorCountry, c.DebtorPhone, c.DebtorEmail, c.Language,
		c.OpenedDate, c.DueDate, c.LastActivityDate, c.LastPaymentDate, c.LastPaymentAmount.String(),
		c.PrincipalAmount.String(), c.InterestAmount.String(), c.FeesBeforeSubmission.String(), c.FeesAfterSubmission.String(),
		c.TotalAmountDue.String(), c.CollectedAmount.String(), c.BalanceAmount.String(), c.CollectionRate.String(),
		string(c.Status), c.Stage, strconv.Itoa(c.AgeInMonths), currency,
		c.Collector, c.CollectorName, c.CollectorEmail,
		c.NextAction, c.NextActionDate, c.Notes,
	}
}

func MessageRow(m models.CaseMessage) []string {
	return []string{m.ID, m.CaseID, string(m.Author), m.CreatedAt, m.Body}
}

// WriteCasesCSV writes a header line followed by one line per case.
func WriteCasesCSV(w io.Writer, cases []models.CaseRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CaseColumns); err != nil {
		return err
	}
	for _, c := range cases {
		if err := cw.Write(CaseRow(c)); err != nil {
			return fmt.Errorf("write case %s: %w", c.CaseID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteMessagesCSV(w io.Writer, messages []models.CaseMessage) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(MessageColumns); err != nil {
		return err
	}
	for _, m := range messages {
		if err := cw.Write(MessageRow(m)); err != nil {
			return fmt.Errorf("write message %s: %w", m.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// amountColumns are written as numbers in the workbook so totals work in a
// spreadsheet.
var amountColumns = map[string]bool{
	"Last Payment Amount": true, "Principal": true, "Interest": true,
	"Fees Before Submission": true, "Fees After Submission": true,
	"Total Amount Due": true, "Paid": true, "Balance": true, "Collection Rate": true,
	"Age in Months": true,
}

const casesSheet = "Cases"

// WriteCasesXLSX writes the same layout as WriteCasesCSV to a workbook with a
// single "Cases" sheet.
func WriteCasesXLSX(w io.Writer, cases []models.CaseRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), casesSheet); err != nil {
		return err
	}
	sw, err := f.NewStreamWriter(casesSheet)
	if err != nil {
		return err
	}

	header := make([]interface{}, len(CaseColumns))
	for i, h := range CaseColumns {
		header[i] = h
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	for i, c := range cases {
		cells := CaseRow(c)
		row := make([]interface{}, len(cells))
		for j, v := range cells {
			row[j] = v
			if amountColumns[CaseColumns[j]] {
				if n, err := strconv.ParseFloat(v, 64); err == nil {
					row[j] = n
				}
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("write case %s: %w", c.CaseID, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}
	_, err = f.WriteTo(w)
	return err
}
