package portal

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"CollectPortal/internal/caseimport"
	"CollectPortal/internal/models"
	"CollectPortal/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const casesCSV = `Case ID,Client Name,Debtor Name,Principal,Paid,Case Status,Collector Name
C-1,Example Corp,Jane Roe,1000,250,Open,Sam
C-2,Example Corp,John Smith,500,500,Paid,Sam
C-3,Example Corp,Jane Smith,300,0,On hold,
`

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc := NewService(store.NewRecordStore(store.NewMemoryKV()), nil)
	clock := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	_, err := svc.ImportFile(context.Background(), "client-001", "cases.csv", []byte(casesCSV))
	require.NoError(t, err)
	return svc
}

func TestListCases_SearchFilterPaginate(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	page := svc.ListCases(ctx, "client-001", CaseQuery{Search: "smith"})
	assert.Equal(t, 2, page.Total)

	page = svc.ListCases(ctx, "client-001", CaseQuery{Search: "SMITH", Status: "paid"})
	require.Equal(t, 1, page.Total)
	assert.Equal(t, "C-2", page.Cases[0].CaseID)

	page = svc.ListCases(ctx, "client-001", CaseQuery{Status: "all", Offset: 2, Limit: 2})
	assert.Equal(t, 3, page.Total)
	require.Len(t, page.Cases, 1)
	assert.Equal(t, "C-3", page.Cases[0].CaseID)

	page = svc.ListCases(ctx, "client-001", CaseQuery{Offset: 10, Limit: 10})
	assert.Equal(t, 3, page.Total)
	assert.Empty(t, page.Cases)

	assert.Zero(t, svc.ListCases(ctx, "client-002", CaseQuery{}).Total)
}

func TestSendMessage_AndCaseDetail(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.SendMessage(ctx, "client-001", "C-1", models.AuthorClient, "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)

	_, err = svc.SendMessage(ctx, "client-002", "C-1", models.AuthorClient, "hello")
	assert.ErrorIs(t, err, ErrCaseNotFound, "other clients cannot post to the case")

	first, err := svc.SendMessage(ctx, "client-001", "C-1", models.AuthorClient, "Any update?")
	require.NoError(t, err)
	assert.Len(t, first.ID, 36)
	assert.Equal(t, "client-001", first.ClientID)

	// admin replies through the administrator scope
	reply, err := svc.SendMessage(ctx, "", "C-1", models.AuthorCollector, "Payment plan agreed")
	require.NoError(t, err)
	assert.Equal(t, "client-001", reply.ClientID)

	detail, err := svc.GetCase(ctx, "client-001", "C-1")
	require.NoError(t, err)
	assert.Equal(t, "Jane Roe", detail.Case.DebtorName)
	require.Len(t, detail.Messages, 2)
	assert.Equal(t, "Any update?", detail.Messages[0].Body)
	assert.Equal(t, "Payment plan agreed", detail.Messages[1].Body)

	_, err = svc.GetCase(ctx, "client-001", "nope")
	assert.ErrorIs(t, err, ErrCaseNotFound)
}

func TestListMessages_GroupsAndFilters(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	for _, m := range []struct {
		caseID string
		author models.Author
	}{
		{"C-1", models.AuthorClient},
		{"C-2", models.AuthorCollector},
		{"C-1", models.AuthorCollector},
	} {
		_, err := svc.SendMessage(ctx, "client-001", m.caseID, m.author, fmt.Sprintf("%s on %s", m.author, m.caseID))
		require.NoError(t, err)
	}

	board := svc.ListMessages(ctx, "client-001", "")
	assert.Equal(t, 3, board.Total)
	assert.Equal(t, 1, board.ClientCount)
	assert.Equal(t, 2, board.CollectorCount)
	require.Len(t, board.Threads, 2)
	assert.Equal(t, "C-1", board.Threads[0].CaseID)
	assert.Equal(t, "Jane Roe", board.Threads[0].DebtorName)
	assert.Equal(t, "Collector on C-1", board.Threads[0].Messages[0].Body)

	board = svc.ListMessages(ctx, "client-001", "client")
	assert.Equal(t, 1, board.Total)
	require.Len(t, board.Threads, 1)
}

func TestSharedCaseID_AdminKeepsClientsApart(t *testing.T) {
	ctx := context.Background()
	svc := NewService(store.NewRecordStore(store.NewMemoryKV()), nil)
	_, err := svc.ImportFile(ctx, "c1", "a.csv", []byte("Case ID,Debtor Name,Principal\nC-1,Alice,100\n"))
	require.NoError(t, err)
	_, err = svc.ImportFile(ctx, "c2", "b.csv", []byte("Case ID,Debtor Name,Principal\nC-1,Bob,200\n"))
	require.NoError(t, err)

	_, err = svc.SendMessage(ctx, "c1", "C-1", models.AuthorClient, "from alice's creditor")
	require.NoError(t, err)
	_, err = svc.SendMessage(ctx, "c2", "C-1", models.AuthorClient, "from bob's creditor")
	require.NoError(t, err)

	_, err = svc.SendMessage(ctx, "", "C-1", models.AuthorCollector, "which one?")
	assert.ErrorIs(t, err, ErrAmbiguousCase)
	_, err = svc.GetCase(ctx, "", "C-1")
	assert.ErrorIs(t, err, ErrAmbiguousCase)

	reply, err := svc.SendMessage(ctx, "c2", "C-1", models.AuthorCollector, "reply to bob's creditor")
	require.NoError(t, err)
	assert.Equal(t, "c2", reply.ClientID)

	detail, err := svc.GetCase(ctx, "c1", "C-1")
	require.NoError(t, err)
	assert.Len(t, detail.Messages, 1)

	board := svc.ListMessages(ctx, "", "")
	assert.Equal(t, 3, board.Total)
	require.Len(t, board.Threads, 2)
	byClient := map[string]Thread{}
	for _, th := range board.Threads {
		byClient[th.ClientID] = th
	}
	assert.Equal(t, "Alice", byClient["c1"].DebtorName)
	assert.Len(t, byClient["c1"].Messages, 1)
	assert.Equal(t, "Bob", byClient["c2"].DebtorName)
	assert.Len(t, byClient["c2"].Messages, 2)
}

func TestOverviewAndReports(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	ov := svc.Overview(ctx, "client-001")
	assert.Equal(t, 3, ov.TotalCases)
	assert.Equal(t, "1050", ov.TotalOutstanding.String())
	assert.Equal(t, int64(42), ov.CollectionRate)

	r := svc.Reports(ctx, "client-001")
	require.NotEmpty(t, r.ByCollector)
	assert.Equal(t, "Sam", r.ByCollector[0].Collector)
	assert.Equal(t, 2, r.OpenCases)
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportCases(ctx, "client-001", "csv", &buf))
	assert.True(t, strings.HasPrefix(buf.String(), "Case ID,CRM Case ID,Client Name"))
	assert.Equal(t, 4, strings.Count(buf.String(), "\n"))

	buf.Reset()
	require.NoError(t, svc.ExportCases(ctx, "client-001", "XLSX", &buf))
	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Cases")
	require.NoError(t, err)
	assert.Len(t, rows, 4)

	assert.ErrorIs(t, svc.ExportCases(ctx, "client-001", "pdf", &buf), ErrUnsupportedFormat)

	buf.Reset()
	require.NoError(t, svc.ExportMessages(ctx, "client-001", &buf))
	assert.Equal(t, "Message ID,Case ID,Author,Created At,Body\n", buf.String())
}

func TestExport_ReimportKeepsDerivedFieldsLive(t *testing.T) {
	ctx := context.Background()
	svc := NewService(store.NewRecordStore(store.NewMemoryKV()), nil)
	_, err := svc.ImportFile(ctx, "client-001", "a.csv", []byte("Case ID,Principal,Paid\nC-1,1200,300\n"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportCases(ctx, "client-001", "csv", &buf))
	_, err = svc.ImportFile(ctx, "client-001", "export.csv", buf.Bytes())
	require.NoError(t, err)

	_, err = svc.ImportFile(ctx, "client-001", "b.csv", []byte("Case ID,Paid\nC-1,1200\n"))
	require.NoError(t, err)

	detail, err := svc.GetCase(ctx, "client-001", "C-1")
	require.NoError(t, err)
	c := detail.Case
	assert.Equal(t, "1200", c.CollectedAmount.String())
	assert.Equal(t, "1200", c.TotalAmountDue.String())
	assert.Equal(t, "0", c.BalanceAmount.String())
	assert.Equal(t, "100", c.CollectionRate.String())
	assert.Equal(t, models.DerivedFlags{}, c.Explicit)
}

func TestClientIDs(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	_, err := svc.ImportRows(ctx, "client-002", []caseimport.Row{
		caseimport.RowFromMap(map[string]string{"Case ID": "B-1"}),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"client-001", "client-002"}, svc.ClientIDs(ctx))
}
