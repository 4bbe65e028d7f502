package export

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"spaceworks/internal/app"
	"spaceworks/internal/app/export"
)

var userID string
var outputFilePath string

func init() {
	Cmd.Flags().StringVarP(&userID, "user", "u", "", "User whose ledger transactions are exported")
	Cmd.Flags().StringVarP(&outputFilePath, "outputFilePath", "o", "", "set outputFilePath")

	Cmd.MarkFlagRequired("user")
	Cmd.MarkFlagRequired("outputFilePath")
}

// Cmd represents the export command.
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export a user's ledger transactions to excel",
	Run: func(cmd *cobra.Command, args []string) {
		accounts := app.InitializeAccountDAO()
		defer accounts.Close()

		transactions, err := accounts.ListTransactions(context.Background(), userID)
		if err != nil {
			log.Fatal(err)
		}

		if err := export.ToExcel(transactions, outputFilePath); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("export finished, exported file path: %v\n", outputFilePath)
	},
}
