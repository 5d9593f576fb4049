package main

import (
	"fmt"
	"os"
	"path/filepath"

	"ai-pdfstudy-be/internal/dto"
	"ai-pdfstudy-be/internal/pkg/logger"
	"ai-pdfstudy-be/internal/service"
	"ai-pdfstudy-be/pkg/chunking"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var quizCmd = &cobra.Command{
	Use:   "quiz <file.pdf>",
	Short: "Write a quiz PDF next to the input document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		types, _ := cmd.Flags().GetStringSlice("types")
		outDir, _ := cmd.Flags().GetString("out")

		provider, err := newLLM(ctx)
		if err != nil {
			return err
		}

		svc := service.NewQuizService(newFileLoader(), chunking.NewPolicy(), provider, viper.GetInt("concurrency"), nil, logger.NewNopLogger())
		quiz, err := svc.GenerateQuiz(ctx, &dto.GenerateQuizRequest{
			QuestionTypes: types,
			File:          args[0],
		})
		if err != nil {
			return err
		}

		if outDir == "" {
			outDir = filepath.Dir(args[0])
		}
		target := filepath.Join(outDir, filepath.Base(quiz.FileName))
		if err := os.WriteFile(target, quiz.Content, 0o644); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), target)
		return nil
	},
}

func init() {
	quizCmd.Flags().StringSlice("types", []string{"Multiple choice", "Short answer"}, "question types to generate")
	quizCmd.Flags().String("out", "", "output directory (defaults to the input's directory)")
	rootCmd.AddCommand(quizCmd)
}
