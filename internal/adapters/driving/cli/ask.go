package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/clinirag/internal/core/domain"
)

var (
	askJSON     bool
	askSections bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question",
	Long: `Prepares the index, answers one question and prints the answer with its
sources. Each invocation starts with an empty conversation; use 'chat' for
follow-up questions.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	askCmd.Flags().BoolVar(&askSections, "sections", false, "split the answer into its numbered sections")
	rootCmd.AddCommand(askCmd)
}

// askOutput is the JSON shape of an answer.
type askOutput struct {
	Response string                 `json:"response"`
	Sections *domain.AnswerSections `json:"sections,omitempty"`
	Sources  []domain.SourceRef     `json:"sources"`
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		return fmt.Errorf("question is empty")
	}

	rt, err := startRuntime(cmd)
	if err != nil {
		return err
	}
	defer closeRuntime(rt)

	conv := rt.Sessions.Session(rt.Sessions.NewSession())
	resp, err := rt.Query.Ask(cmd.Context(), conv, question)
	if err != nil {
		return fmt.Errorf("question failed: %w", err)
	}

	if askJSON {
		return outputAnswerJSON(cmd, resp)
	}
	outputAnswerText(cmd, resp)
	return nil
}

func outputAnswerJSON(cmd *cobra.Command, resp *domain.QueryResponse) error {
	out := askOutput{Response: resp.Answer, Sources: resp.Sources}
	if out.Sources == nil {
		out.Sources = []domain.SourceRef{}
	}
	if askSections {
		sections := domain.ParseAnswerSections(resp.Answer)
		out.Sections = &sections
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputAnswerText(cmd *cobra.Command, resp *domain.QueryResponse) {
	if askSections {
		s := domain.ParseAnswerSections(resp.Answer)
		for _, part := range []struct{ name, text string }{
			{"Évaluation", s.Evaluation},
			{"Hypothèse diagnostique", s.Diagnosis},
			{"Recommandations", s.Recommendations},
			{"Disclaimer", s.Disclaimer},
		} {
			cmd.Printf("## %s\n%s\n\n", part.name, part.text)
		}
	} else {
		cmd.Println(resp.Answer)
		cmd.Println()
	}

	if len(resp.Sources) == 0 {
		cmd.Println("No sources.")
		return
	}
	cmd.Println("Sources:")
	for i, src := range resp.Sources {
		cmd.Println(formatSource(i+1, src))
	}
}
