package export

import (
	"fmt"
	"time"

	"github.com/tealeg/xlsx"

	"spaceworks/internal/app/model"
)

// ToExcel writes a user's ledger transactions to an xlsx workbook.
func ToExcel(transactions []model.Transaction, outputFilePath string) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Transactions")
	if err != nil {
		return err
	}

	headerRow := sheet.AddRow()
	for _, h := range []string{
		"ID", "Created At", "Space", "Action", "Vendor", "Model",
		"Input Tokens", "Output Tokens", "Cost", "Balance Before", "Balance After",
	} {
		headerRow.AddCell().Value = h
	}

	for _, t := range transactions {
		row := sheet.AddRow()
		row.AddCell().Value = t.ID
		row.AddCell().Value = t.CreatedAt.Format(time.RFC3339)
		row.AddCell().Value = t.SpaceID
		row.AddCell().Value = string(t.Action)
		row.AddCell().Value = t.Vendor
		row.AddCell().Value = t.Model
		row.AddCell().Value = fmt.Sprint(t.InputTokens)
		row.AddCell().Value = fmt.Sprint(t.OutputTokens)
		row.AddCell().Value = fmt.Sprint(t.Cost)
		row.AddCell().Value = fmt.Sprint(t.BalanceBefore)
		row.AddCell().Value = fmt.Sprint(t.BalanceAfter)
	}

	return file.Save(outputFilePath)
}
