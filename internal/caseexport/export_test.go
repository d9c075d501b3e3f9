package caseexport

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"CollectPortal/internal/caseimport"
	"CollectPortal/internal/models"
	"CollectPortal/internal/reconcile"
	"CollectPortal/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleCases() []models.CaseRecord {
	res := reconcile.Merge(nil, []models.CaseRecord{
		{
			CaseID:     "C-1",
			ClientName: "Example Corp",
			DebtorName: "Jane Roe",
			Status:     models.StatusOpen,
			Notes:      "called, no answer",
			Financials: models.Financials{
				PrincipalAmount: decimal.RequireFromString("1200"),
				InterestAmount:  decimal.RequireFromString("50.25"),
				CollectedAmount: decimal.RequireFromString("300"),
			},
		},
		{CaseID: "C-2", Currency: "GBP"},
	}, "client-001")
	return res.Cases
}

func TestWriteCasesCSV_Layout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCasesCSV(&buf, sampleCases()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, CaseColumns, records[0])
	assert.Len(t, CaseColumns, 40)

	col := func(name string) int {
		for i, c := range CaseColumns {
			if c == name {
				return i
			}
		}
		t.Fatalf("no column %s", name)
		return -1
	}
	first := records[1]
	assert.Equal(t, "C-1", first[col("Case ID")])
	assert.Equal(t, "1250.25", first[col("Total Amount Due")])
	assert.Equal(t, "950.25", first[col("Balance")])
	assert.Equal(t, "24", first[col("Collection Rate")])
	assert.Equal(t, "Open", first[col("Case Status")])
	assert.Equal(t, "called, no answer", first[col("Notes")])
	assert.Equal(t, "GBP", records[2][col("Currency")])
}

func TestWriteCasesCSV_ReimportIsFixedPoint(t *testing.T) {
	ctx := context.Background()
	original := sampleCases()

	var buf bytes.Buffer
	require.NoError(t, WriteCasesCSV(&buf, original))

	st := store.NewRecordStore(store.NewMemoryKV())
	im := caseimport.NewImporter(st, nil)
	_, err := im.ImportFile(ctx, "client-001", "export.csv", buf.Bytes())
	require.NoError(t, err)

	var again bytes.Buffer
	require.NoError(t, WriteCasesCSV(&again, st.Load(ctx, "client-001").Cases))
	assert.Equal(t, buf.String(), again.String())
}

func TestWriteMessagesCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMessagesCSV(&buf, []models.CaseMessage{{
		ID: "m1", CaseID: "C-1", Author: models.AuthorClient, CreatedAt: "2024-05-01T09:00:00Z", Body: "Any update, please?",
	}}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Message ID,Case ID,Author,Created At,Body", lines[0])
	assert.Equal(t, `m1,C-1,Client,2024-05-01T09:00:00Z,"Any update, please?"`, lines[1])
}

func TestWriteCasesXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCasesXLSX(&buf, sampleCases()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Cases")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, CaseColumns, rows[0])
	assert.Equal(t, "C-1", rows[1][0])

	principal, err := f.GetCellValue("Cases", "W2")
	require.NoError(t, err)
	assert.Equal(t, "1200", principal)
}
