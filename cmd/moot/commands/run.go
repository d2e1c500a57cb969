package commands

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/dyluth/moot/internal/config"
	"github.com/dyluth/moot/internal/orchestrator"
	"github.com/dyluth/moot/internal/printer"
	"github.com/dyluth/moot/internal/provider"
	"github.com/dyluth/moot/pkg/debate"
)

var (
	runProposition  string
	runForModel     string
	runAgainstModel string
	runTurns        int
	runJudgeModel   string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a full debate from the terminal",
	Long: `Run a complete debate locally and print the transcript as it unfolds,
followed by the adjudicator's verdict when a judge model is given.

Provider API keys are read from the environment (or a local .env):
ANTHROPIC_API_KEY, OPENAI_API_KEY, GEMINI_API_KEY.

Examples:
  # Three turns, judged by Gemini
  moot run --proposition "Remote work benefits productivity" \
    --for gpt-4o --against claude-3-5-sonnet-20241022 \
    --turns 3 --judge gemini-1.5-pro`,
	RunE: runDebate,
}

func init() {
	runCmd.Flags().StringVarP(&runProposition, "proposition", "p", "", "Proposition to debate (required)")
	runCmd.Flags().StringVar(&runForModel, "for", "", "Model arguing FOR (required)")
	runCmd.Flags().StringVar(&runAgainstModel, "against", "", "Model arguing AGAINST (required)")
	runCmd.Flags().IntVarP(&runTurns, "turns", "t", debate.DefaultMaxTurns, "Number of turns")
	runCmd.Flags().StringVarP(&runJudgeModel, "judge", "j", "", "Adjudicator model (omit to skip the verdict)")
	_ = runCmd.MarkFlagRequired("proposition")
	_ = runCmd.MarkFlagRequired("for")
	_ = runCmd.MarkFlagRequired("against")
	rootCmd.AddCommand(runCmd)
}

// envCredentials collects provider keys from the environment, keyed the way
// the provider registry expects.
func envCredentials() provider.Credentials {
	creds := provider.Credentials{}
	for family, envVar := range map[string]string{
		"anthropic": "ANTHROPIC_API_KEY",
		"openai":    "OPENAI_API_KEY",
		"gemini":    "GEMINI_API_KEY",
	} {
		if key := os.Getenv(envVar); key != "" {
			creds[family] = key
		}
	}
	return creds
}

func runDebate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return printer.Error("invalid configuration", err.Error(), nil)
	}
	if runTurns < 1 || runTurns > *cfg.Debates.MaxTurnsCeiling {
		return printer.Error(
			"invalid turn count",
			"turns must be between 1 and the configured ceiling",
			[]string{"Adjust --turns or raise debates.max_turns_ceiling"},
		)
	}

	models := []string{runForModel, runAgainstModel}
	if runJudgeModel != "" {
		models = append(models, runJudgeModel)
	}
	for _, model := range models {
		if _, err := provider.FamilyForModel(model); err != nil {
			return printer.Error(
				"unknown model",
				err.Error(),
				[]string{"Run 'moot models' to list available models"},
			)
		}
	}

	ctx := context.Background()
	store := debate.NewMemoryStore()
	registry := provider.NewRegistry(provider.Config{Timeout: cfg.LLM.Timeout()})
	engine := orchestrator.NewEngine(store, registry)
	creds := envCredentials()

	d := debate.NewDebate(runProposition, runForModel, runAgainstModel, runTurns)
	if err := store.Create(ctx, d); err != nil {
		return err
	}

	printer.Info("Proposition: %s\n", runProposition)
	printer.Info("FOR: %s   AGAINST: %s\n\n", runForModel, runAgainstModel)

	for {
		updated, err := engine.ConductTurn(ctx, d.ID, creds)
		if err != nil {
			return printer.Error(
				"turn failed",
				err.Error(),
				[]string{"Check that the required API keys are set in the environment"},
			)
		}

		printer.TurnHeader(updated.CurrentTurn, updated.MaxTurns)
		for _, m := range updated.Messages[len(updated.Messages)-2:] {
			printer.Argument(m.Role, m.Content)
		}

		if updated.Status == debate.StatusCompleted {
			break
		}
	}

	if runJudgeModel == "" {
		printer.Success("debate complete\n")
		return nil
	}

	printer.Step("adjudicating with %s...\n\n", runJudgeModel)
	result, err := engine.Adjudicate(ctx, d.ID, runJudgeModel, creds)
	if err != nil {
		return printer.Error("adjudication failed", err.Error(), nil)
	}

	printer.Verdict(result)
	return nil
}
