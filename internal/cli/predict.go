package cli

import (
	"fmt"
	"strings"

	"github.com/Harshitk-cp/ratelens/internal/llm"
	"github.com/Harshitk-cp/ratelens/internal/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var predictCmd = &cobra.Command{
	Use:   "predict <review text>",
	Short: "Predict the star rating of a review",
	Args:  usageArgs(cobra.MinimumNArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		fs, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = fs.Close() }()

		predictor, err := llm.NewPredictor(llm.ConfigOptions())
		if err != nil {
			return fmt.Errorf("initializing predictor: %w", err)
		}
		logger.Debug("predictor initialized", zap.String("predictor", predictor.Name()))

		ps := service.NewPredictionService(fs, predictor, logger)
		result, err := ps.Predict(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), result)
	},
}
