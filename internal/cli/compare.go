package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sibexico/PageTrace/paging"
)

func newCompareCmd(a *app) *cobra.Command {
	var (
		refs   string
		detail string
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare all policies on the same reference string.",
		Long: "`compare --frames 4 --refs 7,0,1,2,0,3,0,4` runs every policy " +
			"and prints hits, faults and hit ratio side by side. `--detail` " +
			"also prints the full trace of one policy.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			references, err := paging.ParseReferences(refs)
			if err != nil {
				return err
			}

			summaries, err := a.memo.Compare(references, a.config.Frames)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%d frames, %d references\n\n", a.config.Frames, len(references))
			RenderComparison(w, summaries)

			if detail == "" {
				return nil
			}
			policy, err := paging.ParsePolicy(detail)
			if err != nil {
				return err
			}
			trace, err := a.memo.Generate(policy, references, a.config.Frames)
			if err != nil {
				return err
			}
			fmt.Fprintln(w)
			RenderTable(w, trace, a.tableWidth(cmd))
			return nil
		},
	}

	cmd.Flags().Int("frames", 0, fmt.Sprintf("Number of frames (%d-%d)", paging.MinFrames, paging.MaxFrames))
	cmd.Flags().StringVar(&refs, "refs", "", "Reference string, e.g. \"7,0,1,2,0,3\"")
	cmd.Flags().StringVar(&detail, "detail", "", "Also print the trace of this policy")
	_ = cmd.MarkFlagRequired("refs")

	return cmd
}
