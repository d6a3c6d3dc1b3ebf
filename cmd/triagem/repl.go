package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oncall-labs/triagem/internal/classify"
	"github.com/oncall-labs/triagem/internal/extract"
	"github.com/oncall-labs/triagem/internal/ollama"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactive parsing session",
	RunE: func(cmd *cobra.Command, args []string) error {
		llm := ollama.NewClient(cfg.OllamaURL, cfg.Model)
		engine := extract.New(llm, slog.Default())
		classifier := classify.Instruction{}

		fmt.Println("triagem — converts incident descriptions to structured JSON")
		fmt.Println("type 'quit', 'exit' or 'sair' to end")

		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print("\nincident> ")
			if !scanner.Scan() {
				break
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			switch strings.ToLower(line) {
			case "quit", "exit", "bye", "sair":
				return nil
			}

			if !classifier.ShouldParse(line) {
				fmt.Println("not an incident description — try something like:")
				fmt.Println(`  Parse: Ontem às 14h houve falha no servidor`)
				continue
			}

			out := engine.Parse(cmd.Context(), classifier.ExtractText(line))
			if err := printJSON(out); err != nil {
				return err
			}
		}
		return scanner.Err()
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}
