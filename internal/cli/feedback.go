package cli

import (
	"github.com/Harshitk-cp/ratelens/internal/domain"
	"github.com/Harshitk-cp/ratelens/internal/service"
	"github.com/spf13/cobra"
)

var (
	flagReview        string
	flagPredicted     int
	flagUser          int
	flagCorrectedOnly bool
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Record and inspect rating feedback",
}

var feedbackAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a human rating for a predicted review",
	Args:  usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		fs, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = fs.Close() }()

		r, err := service.NewFeedbackService(fs, logger).Submit(ctx, service.SubmitFeedbackInput{
			ReviewText:      flagReview,
			PredictedRating: flagPredicted,
			UserRating:      flagUser,
		})
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), r)
	},
}

var feedbackListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored feedback in insertion order",
	Args:  usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		fs, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = fs.Close() }()

		var records []domain.FeedbackRecord
		if flagCorrectedOnly {
			records, err = fs.ListCorrected(ctx)
		} else {
			records, err = fs.List(ctx)
		}
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"feedback": records,
			"count":    len(records),
		})
	},
}

func init() {
	feedbackAddCmd.Flags().StringVar(&flagReview, "review", "", "review text the prediction was made for")
	feedbackAddCmd.Flags().IntVar(&flagPredicted, "predicted", 0, "rating the model predicted (1-5)")
	feedbackAddCmd.Flags().IntVar(&flagUser, "user", 0, "rating the human chose (1-5)")
	_ = feedbackAddCmd.MarkFlagRequired("review")
	_ = feedbackAddCmd.MarkFlagRequired("predicted")
	_ = feedbackAddCmd.MarkFlagRequired("user")

	feedbackListCmd.Flags().BoolVar(&flagCorrectedOnly, "corrected", false, "only list corrections")

	feedbackCmd.AddCommand(feedbackAddCmd)
	feedbackCmd.AddCommand(feedbackListCmd)
}
