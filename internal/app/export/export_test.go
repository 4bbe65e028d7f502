package export

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"

	"spaceworks/internal/app/model"
)

// TestToExcel writes a workbook with a header row plus one row per
// transaction.
func TestToExcel(t *testing.T) {
	transactions := []model.Transaction{
		{
			ID:            "tx-1",
			UserID:        "user-1",
			SpaceID:       "space-1",
			Action:        model.ActionTranscription,
			Vendor:        "openai",
			Model:         "whisper-1",
			InputTokens:   30000,
			Cost:          6,
			BalanceBefore: 100,
			BalanceAfter:  94,
			CreatedAt:     time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			ID:           "tx-2",
			UserID:       "user-1",
			SpaceID:      "space-2",
			Action:       model.ActionTranslation,
			Vendor:       "openai",
			Model:        "gpt-4o-mini",
			OutputTokens: 900,
			Cost:         1,
			CreatedAt:    time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC),
		},
	}

	path := filepath.Join(t.TempDir(), "ledger.xlsx")
	require.NoError(t, ToExcel(transactions, path))

	file, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)

	sheet := file.Sheets[0]
	assert.Equal(t, "Transactions", sheet.Name)
	require.Len(t, sheet.Rows, 3)

	assert.Equal(t, "ID", sheet.Rows[0].Cells[0].Value)
	assert.Equal(t, "tx-1", sheet.Rows[1].Cells[0].Value)
	assert.Equal(t, "transcription", sheet.Rows[1].Cells[3].Value)
	assert.Equal(t, "6", sheet.Rows[1].Cells[8].Value)
	assert.Equal(t, "tx-2", sheet.Rows[2].Cells[0].Value)
}

// TestToExcelEmpty still produces a workbook with just the header.
func TestToExcelEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	require.NoError(t, ToExcel(nil, path))

	file, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, file.Sheets[0].Rows, 1)
}
