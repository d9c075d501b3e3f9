package reports

import (
	"sort"
	"time"

	"CollectPortal/internal/config"
	"CollectPortal/internal/models"
	"CollectPortal/internal/reconcile"

	"github.com/shopspring/decimal"
)

// All report figures read the derived amounts already resolved on each case.

type StatusSummary struct {
	Status      models.CaseStatus `json:"status"`
	Cases       int               `json:"cases"`
	Outstanding decimal.Decimal   `json:"outstanding"`
}

type Overview struct {
	TotalCases       int                  `json:"totalCases"`
	ActiveCases      int                  `json:"activeCases"`
	TotalDue         decimal.Decimal      `json:"totalDue"`
	TotalCollected   decimal.Decimal      `json:"totalCollected"`
	TotalOutstanding decimal.Decimal      `json:"totalOutstanding"`
	CollectionRate   int64                `json:"collectionRate"`
	ByStatus         []StatusSummary      `json:"byStatus"`
	RecentCases      []models.CaseRecord  `json:"recentCases"`
	RecentMessages   []models.CaseMessage `json:"recentMessages"`
	ClientMessages   int                  `json:"clientMessages"`
}

// BuildOverview summarizes a client's portfolio for the dashboard.
func BuildOverview(cases []models.CaseRecord, messages []models.CaseMessage) Overview {
	ov := Overview{
		TotalCases:       len(cases),
		TotalDue:         decimal.Zero,
		TotalCollected:   decimal.Zero,
		TotalOutstanding: decimal.Zero,
	}
	for _, c := range cases {
		ov.TotalDue = ov.TotalDue.Add(c.TotalAmountDue)
		ov.TotalCollected = ov.TotalCollected.Add(c.CollectedAmount)
		ov.TotalOutstanding = ov.TotalOutstanding.Add(c.BalanceAmount)
		if c.IsActive() {
			ov.ActiveCases++
		}
	}
	ov.CollectionRate = reconcile.CollectionRate(ov.TotalCollected, ov.TotalDue).Round(0).IntPart()
	ov.ByStatus = ByStatus(cases)
	ov.RecentCases = RecentCases(cases, config.RecentItemsLimit)
	ov.RecentMessages = RecentMessages(messages, config.RecentItemsLimit)
	for _, m := range messages {
		if m.Author == models.AuthorClient {
			ov.ClientMessages++
		}
	}
	return ov
}

// ByStatus counts cases per status, largest group first.
func ByStatus(cases []models.CaseRecord) []StatusSummary {
	idx := map[models.CaseStatus]int{}
	out := []StatusSummary{}
	for _, c := range cases {
		i, ok := idx[c.Status]
		if !ok {
			i = len(out)
			idx[c.Status] = i
			out = append(out, StatusSummary{Status: c.Status, Outstanding: decimal.Zero})
		}
		out[i].Cases++
		out[i].Outstanding = out[i].Outstanding.Add(c.BalanceAmount)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Cases > out[j].Cases })
	return out
}

// RecentCases returns up to limit cases ordered by last activity, falling back
// to the opened date. Cases without a parseable date sort last.
func RecentCases(cases []models.CaseRecord, limit int) []models.CaseRecord {
	sorted := append([]models.CaseRecord(nil), cases...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return parseDate(sorted[i].ActivityDate()).After(parseDate(sorted[j].ActivityDate()))
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// RecentMessages returns up to limit messages, newest first.
func RecentMessages(messages []models.CaseMessage, limit int) []models.CaseMessage {
	sorted := append([]models.CaseMessage(nil), messages...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return parseDate(sorted[i].CreatedAt).After(parseDate(sorted[j].CreatedAt))
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

type AgeBucket struct {
	Label       string          `json:"label"`
	Cases       int             `json:"cases"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

var ageLabels = []string{"0-3 months", "3-6 months", "6-12 months", "12+ months"}

func ageIndex(months int) int {
	switch {
	case months < 3:
		return 0
	case months < 6:
		return 1
	case months < 12:
		return 2
	}
	return 3
}

// ByAge groups cases into fixed age brackets. Every bracket is present.
func ByAge(cases []models.CaseRecord) []AgeBucket {
	out := make([]AgeBucket, len(ageLabels))
	for i, l := range ageLabels {
		out[i] = AgeBucket{Label: l, Outstanding: decimal.Zero}
	}
	for _, c := range cases {
		b := &out[ageIndex(c.AgeInMonths)]
		b.Cases++
		b.Outstanding = b.Outstanding.Add(c.BalanceAmount)
	}
	return out
}

type CollectorSummary struct {
	Collector   string          `json:"collector"`
	Cases       int             `json:"cases"`
	Collected   decimal.Decimal `json:"collected"`
	Outstanding decimal.Decimal `json:"outstanding"`
	Rate        decimal.Decimal `json:"rate"`
}

// ByCollector totals cases per assigned collector, highest collected first.
func ByCollector(cases []models.CaseRecord) []CollectorSummary {
	idx := map[string]int{}
	out := []CollectorSummary{}
	for _, c := range cases {
		name := c.AssignedCollector()
		i, ok := idx[name]
		if !ok {
			i = len(out)
			idx[name] = i
			out = append(out, CollectorSummary{Collector: name, Collected: decimal.Zero, Outstanding: decimal.Zero})
		}
		out[i].Cases++
		out[i].Collected = out[i].Collected.Add(c.CollectedAmount)
		out[i].Outstanding = out[i].Outstanding.Add(c.BalanceAmount)
	}
	for i := range out {
		out[i].Rate = reconcile.CollectionRate(out[i].Collected, out[i].Collected.Add(out[i].Outstanding))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Collected.GreaterThan(out[j].Collected) })
	return out
}

type MonthTrend struct {
	Month     string          `json:"month"`
	Collected decimal.Decimal `json:"collected"`
	Cases     int             `json:"cases"`
}

// CollectionTrend sums collected amounts by the month of the last payment and
// keeps the latest months that have any payment.
func CollectionTrend(cases []models.CaseRecord, months int) []MonthTrend {
	byMonth := map[time.Time]*MonthTrend{}
	for _, c := range cases {
		d := parseDate(c.LastPaymentDate)
		if d.IsZero() {
			continue
		}
		key := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
		m, ok := byMonth[key]
		if !ok {
			m = &MonthTrend{Month: key.Format("Jan 2006"), Collected: decimal.Zero}
			byMonth[key] = m
		}
		m.Collected = m.Collected.Add(c.CollectedAmount)
		m.Cases++
	}
	keys := make([]time.Time, 0, len(byMonth))
	for k := range byMonth {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })
	if months > 0 && len(keys) > months {
		keys = keys[len(keys)-months:]
	}
	out := make([]MonthTrend, 0, len(keys))
	for _, k := range keys {
		out = append(out, *byMonth[k])
	}
	return out
}

// Reports bundles every breakdown shown on the reports page.
type Reports struct {
	ByAge       []AgeBucket        `json:"byAge"`
	ByCollector []CollectorSummary `json:"byCollector"`
	Trend       []MonthTrend       `json:"trend"`
	ByStatus    []StatusSummary    `json:"byStatus"`
	OpenCases   int                `json:"openCases"`
	Messages    int                `json:"messages"`
}

func Build(cases []models.CaseRecord, messages []models.CaseMessage) Reports {
	r := Reports{
		ByAge:       ByAge(cases),
		ByCollector: ByCollector(cases),
		Trend:       CollectionTrend(cases, config.TrendMonths),
		ByStatus:    ByStatus(cases),
		Messages:    len(messages),
	}
	for _, c := range cases {
		if c.IsActive() {
			r.OpenCases++
		}
	}
	return r
}

var dateLayouts = []string{time.RFC3339Nano, time.RFC3339, config.DateTimeFormat, config.DateFormat}

func parseDate(s string) time.Time {
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
