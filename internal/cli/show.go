package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sibexico/PageTrace/paging"
)

func newShowCmd(a *app) *cobra.Command {
	var step int

	cmd := &cobra.Command{
		Use:   "show FILE",
		Short: "Print a trace written by `run --out`.",
		Long: "`show FILE` prints the whole trace table. `show FILE --step 5` " +
			"prints the frames and policy state right after step 5.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read trace: %w", err)
			}

			trace, err := paging.DecodeTrace(data)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if step < 0 {
				RenderTable(w, trace, a.tableWidth(cmd))
				RenderTally(w, trace.Tally())
				return nil
			}

			cursor := paging.NewCursor(trace)
			if err := cursor.Seek(step); err != nil {
				return err
			}
			RenderStep(w, trace, cursor.Step(), cursor.Tally())
			return nil
		},
	}

	cmd.Flags().IntVar(&step, "step", -1, "Show only the state after this step")

	return cmd
}
