package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"ai-pdfstudy-be/pkg/document"
	"ai-pdfstudy-be/pkg/extraction"
	"ai-pdfstudy-be/pkg/llm"
	"ai-pdfstudy-be/pkg/llm/factory"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd runs the summary and quiz pipelines on local PDFs, without storage
// or a database.
var rootCmd = &cobra.Command{
	Use:   "pdfstudy",
	Short: "Summarize PDFs and generate quiz questions from the command line",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.pdfstudy.yaml)")
	rootCmd.PersistentFlags().String("llm-provider", "gemini", "chat model backend: gemini, openai, huggingface or ollama")
	rootCmd.PersistentFlags().String("llm-model", "gemini-1.5-flash", "model name for the chat backend")
	rootCmd.PersistentFlags().String("llm-base-url", "", "base URL override for openai-compatible or ollama backends")
	rootCmd.PersistentFlags().String("api-key", "", "API key for the chat backend (or API_KEY)")
	rootCmd.PersistentFlags().Int("concurrency", 1, "page groups generated in parallel")
	rootCmd.PersistentFlags().Bool("ocr", true, "OCR pages without a text layer when tesseract is installed")

	for _, name := range []string{"llm-provider", "llm-model", "llm-base-url", "api-key", "concurrency", "ocr"} {
		cobra.CheckErr(viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)))
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".pdfstudy")
	}

	// LLM_PROVIDER, LLM_MODEL, API_KEY, ... override flag defaults.
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func newLLM(ctx context.Context) (llm.LLMProvider, error) {
	return factory.NewLLMProvider(ctx, factory.Config{
		Provider: viper.GetString("llm-provider"),
		Model:    viper.GetString("llm-model"),
		BaseURL:  viper.GetString("llm-base-url"),
		APIKey:   viper.GetString("api-key"),
	})
}

// fileLoader reads PDFs from the local filesystem; the owner is ignored.
type fileLoader struct {
	extractor extraction.Extractor
}

func newFileLoader() *fileLoader {
	var ocr extraction.PageOCR
	if viper.GetBool("ocr") {
		if t := extraction.NewTesseractOCR("eng"); t.Available() {
			ocr = t
		}
	}
	return &fileLoader{extractor: extraction.NewPDFExtractor(ocr)}
}

func (l *fileLoader) LoadText(ctx context.Context, _ string, path string) (document.Text, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return document.Text{}, err
	}
	return l.extractor.Extract(ctx, data)
}
