package caseimport

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"CollectPortal/internal/config"
	"CollectPortal/internal/models"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/currency"
)

// normalizeHeader lower-cases a header and drops every whitespace rune so that
// "Case ID", "case id" and "CaseID" compare equal.
func normalizeHeader(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// ValueFrom returns the first non-empty cell whose header matches one of the
// aliases. Aliases are tried in order; for each alias the row headers are
// scanned in file order. ok is false when nothing usable was found.
func ValueFrom(row Row, aliases []string) (string, bool) {
	for _, alias := range aliases {
		key := normalizeHeader(alias)
		for _, h := range row.Headers {
			if normalizeHeader(h) != key {
				continue
			}
			if v := strings.TrimSpace(row.Values[h]); v != "" {
				return v, true
			}
		}
	}
	return "", false
}

var numberReplacer = strings.NewReplacer(
	",", "",
	"$", "",
	"£", "",
	"€", "",
	"¥", "",
	"₹", "",
	"%", "",
	" ", "",
	"\u00a0", "",
)

// NumberFrom coerces a cell into a decimal. Blank, "N/A" and anything that
// does not parse as a finite number yield zero.
func NumberFrom(raw string) decimal.Decimal {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "n/a") {
		return decimal.Zero
	}
	s = numberReplacer.Replace(s)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// IntFrom is NumberFrom truncated to an integer.
func IntFrom(raw string) int {
	return int(NumberFrom(raw).IntPart())
}

const (
	// serial value of 1970-01-01 in the 1900 date system
	excelUnixEpochSerial = 25569
	// serial value of 9999-12-31
	excelMaxSerial = 2958465
)

var dateLayouts = []string{
	config.DateFormat,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"1/2/06",
	"02-01-2006",
	"02.01.2006",
	"2006.01.02",
	"20060102",
	"02-Jan-2006",
	"2-Jan-2006",
	"02-Jan-06",
	"2 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"Mon Jan 2 2006",
}

// DateFrom coerces a cell into a YYYY-MM-DD date. Numbers past the Unix epoch
// are spreadsheet serial dates counted from 1899-12-30. Text that matches none
// of the known layouts is returned trimmed but otherwise untouched.
func DateFrom(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > excelUnixEpochSerial && f <= excelMaxSerial {
		if t, err := excelize.ExcelDateToTime(f, false); err == nil {
			return t.Format(config.DateFormat)
		}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(config.DateFormat)
		}
	}
	return s
}

// StatusFrom classifies free-text status by substring. The checks run in a
// fixed order, so "Paid - On Hold" is Paid.
func StatusFrom(raw string) models.CaseStatus {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case s == "":
		return models.StatusNew
	case strings.Contains(s, "paid"):
		return models.StatusPaid
	case strings.Contains(s, "close"):
		return models.StatusClosed
	case strings.Contains(s, "hold"):
		return models.StatusOnHold
	case strings.Contains(s, "progress"):
		return models.StatusInProgress
	case s == "open" || strings.Contains(s, "active"):
		return models.StatusOpen
	}
	return models.StatusNew
}

var currencySymbols = map[string]string{
	"US$": "USD",
	"$":   "USD",
	"£":   "GBP",
	"€":   "EUR",
	"¥":   "JPY",
	"₹":   "INR",
	"C$":  "CAD",
	"CA$": "CAD",
	"A$":  "AUD",
	"AU$": "AUD",
	"R$":  "BRL",
	"CHF": "CHF",
	"RMB": "CNY",
}

// NormalizeCurrency maps a symbol or code onto an ISO 4217 code. Unknown
// values fall back to USD.
func NormalizeCurrency(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return models.DefaultCurrency
	}
	if code, ok := currencySymbols[strings.ToUpper(s)]; ok {
		return code
	}
	unit, err := currency.ParseISO(strings.ToUpper(s))
	if err != nil {
		return models.DefaultCurrency
	}
	return unit.String()
}
