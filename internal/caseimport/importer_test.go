package caseimport

import (
	"context"
	"fmt"
	"testing"

	"CollectPortal/internal/models"
	"CollectPortal/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestImporter() (*Importer, *store.RecordStore) {
	st := store.NewRecordStore(store.NewMemoryKV())
	return NewImporter(st, nil), st
}

func TestImportRows_FirstImportThenPartialReimport(t *testing.T) {
	ctx := context.Background()
	im, st := newTestImporter()

	sum, err := im.ImportRows(ctx, "client-001", []Row{RowFromMap(map[string]string{
		"Case ID":     "C-1",
		"Principal":   "$1,200.00",
		"Paid":        "300",
		"Case Status": "partially paid, on hold",
	})})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Imported)
	assert.Equal(t, 0, sum.Skipped)

	cases := st.Load(ctx, "client-001").Cases
	require.Len(t, cases, 1)
	c := cases[0]
	assert.Equal(t, "C-1", c.CaseID)
	assert.Equal(t, "1200", c.PrincipalAmount.String())
	assert.Equal(t, "300", c.CollectedAmount.String())
	assert.Equal(t, "1200", c.TotalAmountDue.String())
	assert.Equal(t, "900", c.BalanceAmount.String())
	assert.Equal(t, "25", c.CollectionRate.String())
	// "paid" is checked before "hold"
	assert.Equal(t, models.StatusPaid, c.Status)

	sum, err = im.ImportRows(ctx, "client-001", []Row{RowFromMap(map[string]string{
		"Case ID": "C-1",
		"Paid":    "1200",
	})})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Updated)

	cases = st.Load(ctx, "client-001").Cases
	require.Len(t, cases, 1)
	c = cases[0]
	assert.Equal(t, "1200", c.PrincipalAmount.String())
	assert.Equal(t, "1200", c.CollectedAmount.String())
	assert.Equal(t, "0", c.BalanceAmount.String())
	assert.Equal(t, "100", c.CollectionRate.String())
	assert.Equal(t, models.StatusPaid, c.Status)
}

func TestImportRows_SkipsRowsWithoutCaseID(t *testing.T) {
	ctx := context.Background()
	im, st := newTestImporter()

	rows := make([]Row, 0, 10)
	for i := 0; i < 10; i++ {
		id := fmt.Sprintf("C-%02d", i)
		if i%3 == 1 {
			id = ""
		}
		rows = append(rows, RowFromMap(map[string]string{"Case ID": id, "Principal": "100"}))
	}

	sum, err := im.ImportRows(ctx, "client-001", rows)
	require.NoError(t, err)
	assert.Equal(t, 7, sum.Imported)
	assert.Equal(t, 3, sum.Skipped)
	assert.Equal(t, []int{2, 5, 8}, sum.SkippedRows)
	assert.Len(t, st.Load(ctx, "client-001").Cases, 7)
}

func TestImportRows_KeepsOtherClients(t *testing.T) {
	ctx := context.Background()
	im, st := newTestImporter()

	_, err := im.ImportRows(ctx, "client-001", []Row{RowFromMap(map[string]string{"Case ID": "A-1"})})
	require.NoError(t, err)
	_, err = im.ImportRows(ctx, "client-002", []Row{RowFromMap(map[string]string{"Case ID": "B-1"})})
	require.NoError(t, err)

	a := st.Load(ctx, "client-001").Cases
	require.Len(t, a, 1)
	assert.Equal(t, "A-1", a[0].CaseID)
	assert.Equal(t, "client-001", a[0].ClientID)
	assert.Len(t, st.Load(ctx, "").Cases, 2)
}

func TestImportRows_ContactNameOnlyNamesNewDebtors(t *testing.T) {
	ctx := context.Background()
	im, st := newTestImporter()

	_, err := im.ImportRows(ctx, "client-001", []Row{
		RowFromMap(map[string]string{"Case ID": "C-1", "Debtor Name": "Jane Roe"}),
		RowFromMap(map[string]string{"Case ID": "C-2", "Customer name": "Acme Buyer Ltd"}),
	})
	require.NoError(t, err)

	_, err = im.ImportRows(ctx, "client-001", []Row{
		RowFromMap(map[string]string{"Case ID": "C-1", "Customer Contact Name": "Sam Contact"}),
	})
	require.NoError(t, err)

	cases := st.Load(ctx, "client-001").Cases
	require.Len(t, cases, 2)
	assert.Equal(t, "Jane Roe", cases[0].DebtorName)
	assert.Equal(t, "Sam Contact", cases[0].CustomerContactName)
	assert.Equal(t, "Acme Buyer Ltd", cases[1].DebtorName)
	assert.Empty(t, cases[1].DebtorNameFallback)
}

func TestImportFile_FlagsRepeatUpload(t *testing.T) {
	ctx := context.Background()
	im, _ := newTestImporter()
	data := []byte("Case ID,Debtor Name,Principal\nC-1,Jane Roe,500\n")

	first, err := im.ImportFile(ctx, "client-001", "cases.csv", data)
	require.NoError(t, err)
	assert.Empty(t, first.PreviouslyImportedAt)
	assert.Len(t, first.FileHash, 64)
	assert.Equal(t, 1, first.Inserted)

	second, err := im.ImportFile(ctx, "client-001", "cases.csv", data)
	require.NoError(t, err)
	assert.NotEmpty(t, second.PreviouslyImportedAt)
	assert.Equal(t, 1, second.Updated)
	assert.Equal(t, 1, second.TotalCases)

	other, err := im.ImportFile(ctx, "client-002", "cases.csv", data)
	require.NoError(t, err)
	assert.Empty(t, other.PreviouslyImportedAt)
}

func TestImportFile_RejectsUnsupportedAndEmpty(t *testing.T) {
	ctx := context.Background()
	im, st := newTestImporter()

	sum, err := im.ImportFile(ctx, "client-001", "cases.docx", []byte("x"))
	assert.ErrorIs(t, err, ErrUnsupportedFileType)
	assert.Equal(t, 0, sum.Rows)

	sum, err = im.ImportFile(ctx, "client-001", "cases.csv", []byte("   "))
	assert.ErrorIs(t, err, ErrEmptyFile)
	assert.Equal(t, 0, sum.Imported)
	assert.Empty(t, st.Load(ctx, "client-001").Cases)
}
