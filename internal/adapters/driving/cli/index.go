package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var indexJSON bool

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Ingest the corpus and build the index",
	Long: `Loads the configured documents, chunks and embeds them, and persists the
index. An unchanged corpus reuses the persisted index without calling the
embedding provider. Missing or unreadable documents are skipped.`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolVar(&indexJSON, "json", false, "output the report as JSON")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	rt, err := startRuntime(cmd)
	if err != nil {
		return err
	}
	defer closeRuntime(rt)

	report := rt.Report
	if report == nil {
		return fmt.Errorf("pipeline returned no report")
	}

	if indexJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	source := "built"
	if report.Loaded {
		source = "loaded from store"
	}

	cmd.Println("Corpus")
	cmd.Println("======")
	cmd.Printf("  Documents: %d\n", report.Documents)
	cmd.Printf("  Pages:     %d\n", report.Pages)
	cmd.Printf("  Chunks:    %d\n", report.Chunks)
	cmd.Printf("  Index:     %s\n", source)
	if len(report.Skipped) > 0 {
		cmd.Printf("  Skipped:   %d\n", len(report.Skipped))
		for _, path := range report.Skipped {
			cmd.Printf("    - %s\n", path)
		}
	}
	return nil
}
