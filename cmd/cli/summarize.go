package main

import (
	"encoding/json"
	"os"

	"ai-pdfstudy-be/internal/pkg/logger"
	"ai-pdfstudy-be/internal/service"
	"ai-pdfstudy-be/pkg/chunking"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize <file.pdf>",
	Short: "Print page-group summaries and statistics as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		provider, err := newLLM(ctx)
		if err != nil {
			return err
		}

		svc := service.NewSummaryService(newFileLoader(), chunking.NewPolicy(), provider, viper.GetInt("concurrency"), nil, logger.NewNopLogger())
		res, err := svc.Summarize(ctx, "", args[0])
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	},
}

func init() {
	rootCmd.AddCommand(summarizeCmd)
}
