package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pest-erp/pkg/listing"
	"pest-erp/pkg/service"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("LISTCTL_LOG_LEVEL", "error")
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestLists(t *testing.T) {
	out, err := run(t, "lists")
	require.NoError(t, err)
	assert.Contains(t, out, "backlog")
	assert.Contains(t, out, "stock_transfers")
}

func TestPageJSON(t *testing.T) {
	out, err := run(t, "page", "-l", "backlog", "--filter", "technician=Ravi Kumar", "--sort", "amount", "--json")
	require.NoError(t, err)

	var page listing.DerivedPage
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	assert.Equal(t, 2, page.TotalCount)
	require.Len(t, page.Rows, 2)
	assert.Equal(t, "JOB-1001", page.Rows[0]["job_no"])
	assert.Equal(t, "JOB-1003", page.Rows[1]["job_no"])
}

func TestPageTable(t *testing.T) {
	out, err := run(t, "page", "-l", "transfer-in", "--page-size", "25")
	require.NoError(t, err)
	assert.Contains(t, out, "Transfer In")
	assert.Contains(t, out, "Page 1 of 1")
}

func TestPageRejectsUnknownFilter(t *testing.T) {
	_, err := run(t, "page", "-l", "pests", "--filter", "treatment=Fogging")
	assert.Error(t, err)
}

func TestPageFromFixtureFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pests.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`table: pests
rows:
  - {id: 1, name: "Termite", category: "Termite", status: "Active", created_at: "2025-01-01"}
  - {id: 2, name: "Rat", category: "Rodent", status: "Active", created_at: "2025-01-02"}
`), 0o644))

	out, err := run(t, "page", "-l", "pests", "--fixture", path, "--search", "rat", "--json")
	require.NoError(t, err)
	var page listing.DerivedPage
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	assert.Equal(t, 1, page.TotalCount)

	_, err = run(t, "page", "-l", "backlog", "--fixture", path)
	assert.Error(t, err)
}

func TestExportCSVToStdout(t *testing.T) {
	out, err := run(t, "export", "-l", "followups", "-f", "csv", "-o", "-", "--all")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, "ID,Job No,Customer,Service,Technician,City,Status,Service Date,Amount", lines[0])
	assert.Len(t, lines, 5)
}

func TestExportXLSXFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pests.xlsx")
	_, err := run(t, "export", "-l", "pests", "-f", "xlsx", "-o", path)
	require.NoError(t, err)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestExportUnknownFormatCreatesNoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pests.docx")
	_, err := run(t, "export", "-l", "pests", "-f", "docx", "-o", path)
	require.Error(t, err)
	assert.NoFileExists(t, path)
}

func TestToken(t *testing.T) {
	t.Setenv("LISTCTL_JWT_SECRET", "cli-secret")
	out, err := run(t, "token", "--user", "5", "--perm", "pests:view")
	require.NoError(t, err)

	claims, err := service.NewJWTService("cli-secret", 0, 0, zap.NewNop()).ValidateToken(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, uint64(5), claims.UserID)
	assert.Equal(t, []string{"pests:view"}, claims.Permissions)
}
