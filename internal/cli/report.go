package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/Harshitk-cp/ratelens/internal/service"
	"github.com/spf13/cobra"
)

var flagOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all feedback as CSV",
	Args:  usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		ctx := cmd.Context()

		fs, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = fs.Close() }()

		var w io.Writer = cmd.OutOrStdout()
		if flagOut != "" {
			f, ferr := os.Create(flagOut)
			if ferr != nil {
				return fmt.Errorf("creating %s: %w", flagOut, ferr)
			}
			defer func() {
				if cerr := f.Close(); err == nil {
					err = cerr
				}
			}()
			w = f
		}

		bw := bufio.NewWriter(w)
		n, err := service.NewAnalyticsService(fs).ExportCSV(ctx, bw)
		if err != nil {
			return err
		}
		if err := bw.Flush(); err != nil {
			return err
		}
		if flagOut != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d records to %s\n", n, flagOut)
		}
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize feedback and prediction accuracy",
	Args:  usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		fs, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = fs.Close() }()

		summary, err := service.NewAnalyticsService(fs).Summarize(ctx)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), summary)
	},
}

func init() {
	exportCmd.Flags().StringVarP(&flagOut, "out", "o", "", "write CSV to this file instead of stdout")
}
