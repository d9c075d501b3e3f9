package reconcile

import (
	"sort"
	"strings"

	"CollectPortal/internal/models"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Result is the outcome of upserting one batch of rows into a client's cases.
type Result struct {
	Cases    []models.CaseRecord `json:"cases"`
	Imported int                 `json:"imported"`
	Inserted int                 `json:"inserted"`
	Updated  int                 `json:"updated"`
	Skipped  int                 `json:"skipped"`
	// 1-based positions in the batch of rows without a case id
	SkippedRows []int `json:"skippedRows,omitempty"`
}

// Merge upserts normalized rows into the existing cases of one client and
// returns the new collection sorted by case id. Rows without a case id are
// counted as skipped. A row whose case id is already known, including one
// seen earlier in the same batch, is merged onto that record. Neither input
// slice is modified.
func Merge(existing []models.CaseRecord, rows []models.CaseRecord, clientID string) Result {
	res := Result{Cases: make([]models.CaseRecord, 0, len(existing)+len(rows))}
	index := make(map[string]int, len(existing)+len(rows))
	for _, c := range existing {
		index[c.CaseID] = len(res.Cases)
		res.Cases = append(res.Cases, c)
	}

	for i, row := range rows {
		row.CaseID = strings.TrimSpace(row.CaseID)
		if row.CaseID == "" {
			res.Skipped++
			res.SkippedRows = append(res.SkippedRows, i+1)
			continue
		}
		if pos, ok := index[row.CaseID]; ok {
			res.Cases[pos] = MergeRecord(res.Cases[pos], row, clientID)
			res.Updated++
		} else {
			index[row.CaseID] = len(res.Cases)
			res.Cases = append(res.Cases, NewRecord(row, clientID))
			res.Inserted++
		}
		res.Imported++
	}

	SortCases(res.Cases)
	return res
}

// NewRecord completes a partial row into a stored case, filling placeholder
// names, default status and currency, and the derived amounts.
func NewRecord(row models.CaseRecord, clientID string) models.CaseRecord {
	rec := row
	if clientID != "" {
		rec.ClientID = clientID
	}
	if strings.TrimSpace(rec.ClientName) == "" {
		rec.ClientName = models.UnknownClient
	}
	if strings.TrimSpace(rec.DebtorName) == "" {
		rec.DebtorName = strings.TrimSpace(rec.DebtorNameFallback)
	}
	if rec.DebtorName == "" {
		rec.DebtorName = models.UnknownDebtor
	}
	rec.DebtorNameFallback = ""
	if rec.Status == "" {
		rec.Status = models.StatusNew
	}
	if rec.Currency == "" {
		rec.Currency = models.DefaultCurrency
	}
	rec.Financials = Resolve(row.Financials, nil)
	return rec
}

// MergeRecord overlays a partial row on a stored case. Non-empty values in the
// row win; everything the row leaves blank keeps the stored value.
func MergeRecord(prior, row models.CaseRecord, clientID string) models.CaseRecord {
	out := prior
	if clientID != "" {
		out.ClientID = clientID
	} else if row.ClientID != "" {
		out.ClientID = row.ClientID
	}

	overlay(&out.Reference, row.Reference)
	overlay(&out.ClientName, row.ClientName)
	overlay(&out.DebtorName, row.DebtorName)
	overlay(&out.CustomerContactName, row.CustomerContactName)
	overlay(&out.CustomerContactEmail, row.CustomerContactEmail)
	overlay(&out.CustomerAddress1, row.CustomerAddress1)
	overlay(&out.CustomerAddress2, row.CustomerAddress2)
	overlay(&out.DebtorAddress1, row.DebtorAddress1)
	overlay(&out.DebtorAddress2, row.DebtorAddress2)
	overlay(&out.DebtorCity, row.DebtorCity)
	overlay(&out.DebtorState, row.DebtorState)
	overlay(&out.DebtorZip, row.DebtorZip)
	overlay(&out.DebtorCountry, row.DebtorCountry)
	overlay(&out.DebtorPhone, row.DebtorPhone)
	overlay(&out.DebtorEmail, row.DebtorEmail)
	overlay(&out.Language, row.Language)
	overlay(&out.Currency, row.Currency)
	overlay(&out.Stage, row.Stage)
	overlay(&out.OpenedDate, row.OpenedDate)
	overlay(&out.DueDate, row.DueDate)
	overlay(&out.LastActivityDate, row.LastActivityDate)
	overlay(&out.LastPaymentDate, row.LastPaymentDate)
	overlay(&out.ClosedDate, row.ClosedDate)
	overlay(&out.Collector, row.Collector)
	overlay(&out.CollectorName, row.CollectorName)
	overlay(&out.CollectorEmail, row.CollectorEmail)
	overlay(&out.NextAction, row.NextAction)
	overlay(&out.NextActionDate, row.NextActionDate)
	overlay(&out.Notes, row.Notes)

	if row.Status != "" {
		out.Status = row.Status
	}
	if row.AgeInMonths != 0 {
		out.AgeInMonths = row.AgeInMonths
	}
	if out.Status == "" {
		out.Status = models.StatusNew
	}
	if out.Currency == "" {
		out.Currency = models.DefaultCurrency
	}

	out.Financials = Resolve(row.Financials, &prior.Financials)
	return out
}

func overlay(dst *string, v string) {
	if strings.TrimSpace(v) != "" {
		*dst = v
	}
}

// SortCases orders cases by case id using English collation, falling back to
// byte order for ids the collator considers equal.
func SortCases(cases []models.CaseRecord) {
	c := collate.New(language.English)
	sort.SliceStable(cases, func(i, j int) bool {
		if r := c.CompareString(cases[i].CaseID, cases[j].CaseID); r != 0 {
			return r < 0
		}
		return cases[i].CaseID < cases[j].CaseID
	})
}
