package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/zwischenruf/internal/pipeline"
	"github.com/ppiankov/zwischenruf/internal/resolve"
)

var (
	speechSession    int
	speechID         int64
	extractJSON      bool
	forwardPositions bool
	extractRoster    string
	extractNames     []string
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <speech-file>",
	Short: "Extract contributions from a single speech",
	Long: `Extract reads one speech transcript (plain text, HTML or XML) and prints
the cleaned speech with ({N}) placeholders followed by its contributions.

Example:
  zwischenruf extract rede.txt --session 19001
  zwischenruf extract rede.xml --session 19001 --names "Dr. Helmut Kohl" --json
  zwischenruf extract rede.txt --session 19001 --roster roster.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().IntVar(&speechSession, "session", 0, "session number, e.g. 19001 (required)")
	extractCmd.Flags().Int64Var(&speechID, "id", 1, "speech id")
	extractCmd.Flags().BoolVar(&extractJSON, "json", false, "print the result as JSON")
	extractCmd.Flags().BoolVar(&forwardPositions, "forward-positions", false, "number placeholders from the end of the speech")
	extractCmd.Flags().StringVar(&extractRoster, "roster", "", "politician roster YAML to resolve speakers")
	extractCmd.Flags().StringSliceVar(&extractNames, "names", nil, "names printed in page headers (repeatable)")
	_ = extractCmd.MarkFlagRequired("session")
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	if forwardPositions {
		cfg.Extraction.ReversedPositions = false
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	speech, err := pipeline.LoadSpeechFile(args[0], speechID, speechSession)
	if err != nil {
		return err
	}

	opts := []pipeline.Option{
		pipeline.WithKnownNames(extractNames),
		pipeline.WithLogger(logger.Named("pipeline")),
	}
	if extractRoster != "" {
		rosters, err := resolve.LoadRosterSet(extractRoster)
		if err != nil {
			return err
		}
		opts = append(opts, pipeline.WithRosters(rosters))
	}

	result, err := pipeline.NewPipeline(cfg, opts...).ProcessSpeech(context.Background(), speech)
	if err != nil {
		return fmt.Errorf("extract %s: %w", args[0], err)
	}

	if extractJSON {
		return pipeline.RenderSpeechJSON(cmd.OutOrStdout(), result)
	}
	return pipeline.RenderSpeechText(cmd.OutOrStdout(), result)
}
