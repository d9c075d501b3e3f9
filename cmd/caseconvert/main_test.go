package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeInput(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cases.csv")
	csv := "Case ID,Debtor Name,Principal,Interest,Paid\nX-1,Jane Roe,100,20,30\nX-1,,,,60\n,Ghost,1,1,1\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0644))
	return path
}

func TestRun_JSON(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.NoError(t, run([]string{"-in", writeInput(t), "-client", "client-001"}, &stdout, &stderr))
	assert.Equal(t, "3 rows, 1 cases, 1 skipped\n", stderr.String())

	var cases []map[string]interface{}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &cases))
	require.Len(t, cases, 1)
	assert.Equal(t, "X-1", cases[0]["caseId"])
	assert.Equal(t, "client-001", cases[0]["clientId"])
	assert.Equal(t, "Jane Roe", cases[0]["debtorName"])
	assert.Equal(t, "60", cases[0]["collectedAmount"])
	assert.Equal(t, "60", cases[0]["balanceAmount"])
	assert.Equal(t, "50", cases[0]["collectionRate"])
}

func TestRun_CSVToFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.csv")
	var stdout, stderr bytes.Buffer
	require.NoError(t, run([]string{"-in", writeInput(t), "-format", "CSV", "-out", out}, &stdout, &stderr))
	assert.Empty(t, stdout.String())
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "X-1")
}

func TestRun_Errors(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Error(t, run(nil, &stdout, &stderr))
	assert.Error(t, run([]string{"-in", "missing.csv"}, &stdout, &stderr))
	assert.Error(t, run([]string{"-in", writeInput(t), "-format", "pdf"}, &stdout, &stderr))
}
