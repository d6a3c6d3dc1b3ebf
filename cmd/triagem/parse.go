package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/oncall-labs/triagem/internal/classify"
	"github.com/oncall-labs/triagem/internal/extract"
	"github.com/oncall-labs/triagem/internal/ollama"
)

var parseModel string

var parseCmd = &cobra.Command{
	Use:   "parse <description>",
	Short: "Parse a single incident description and print the record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		llm := ollama.NewClient(cfg.OllamaURL, cfg.Model)
		engine := extract.New(llm, slog.Default())
		classifier := classify.Instruction{}

		message := args[0]
		if !classifier.ShouldParse(message) {
			fmt.Fprintln(os.Stderr, "input does not look like an incident description")
			fmt.Fprintln(os.Stderr, `example: triagem parse "Ontem às 14h houve falha no servidor de São Paulo"`)
			return fmt.Errorf("nothing to parse")
		}

		out := engine.ParseWithModel(cmd.Context(), classifier.ExtractText(message), parseModel)
		return printJSON(out)
	},
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	parseCmd.Flags().StringVar(&parseModel, "model", "", "model identifier override for this parse")
	rootCmd.AddCommand(parseCmd)
}
