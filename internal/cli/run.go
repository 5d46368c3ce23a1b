package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sibexico/PageTrace/paging"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		refs    string
		out     string
		csvPath string
		csvOn   bool
		best    bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Simulate one policy and print its trace.",
		Long: "`run --policy lru --frames 3 --refs 7,0,1,2,0,3` prints the " +
			"frame table for every reference, then the hit and fault totals.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			references, err := paging.ParseReferences(refs)
			if err != nil {
				return err
			}

			policy, _ := paging.ParsePolicy(a.config.Policy)
			trace, err := a.memo.Generate(policy, references, a.config.Frames)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			RenderTable(w, trace, a.tableWidth(cmd))
			RenderTally(w, trace.Tally())
			paging.LogTrace(a.logger, trace)

			if out != "" {
				if err := a.writeEncoded(cmd, trace, out, best); err != nil {
					return err
				}
			}

			if csvOn || csvPath != "" {
				if err := a.writeCSV(cmd, trace, csvPath); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().String("policy", "", "Replacement policy (fifo, lru, optimal, clock)")
	cmd.Flags().Int("frames", 0, fmt.Sprintf("Number of frames (%d-%d)", paging.MinFrames, paging.MaxFrames))
	cmd.Flags().String("compression", "", "Compression for --out (none, lz4, snappy)")
	cmd.Flags().StringVar(&refs, "refs", "", "Reference string, e.g. \"7,0,1,2,0,3\"")
	cmd.Flags().StringVar(&out, "out", "", "Write the encoded trace to this file")
	cmd.Flags().BoolVar(&best, "best", false, "Pick whichever compression gives the smallest --out file")
	cmd.Flags().StringVar(&csvPath, "csv", "", "Write steps as CSV to this path (\".csv\" is appended if missing)")
	cmd.Flags().BoolVar(&csvOn, "csv-auto", false, "Write steps as CSV to a generated file name")
	_ = cmd.MarkFlagRequired("refs")

	return cmd
}

func (a *app) writeEncoded(cmd *cobra.Command, trace *paging.Trace, path string, best bool) error {
	var (
		data []byte
		ct   paging.CompressionType
		err  error
	)

	if best {
		data, ct, err = paging.ChooseBestCompression(trace)
	} else {
		ct, err = paging.ParseCompression(a.config.Compression)
		if err == nil {
			data, err = paging.EncodeTrace(trace, ct)
		}
	}
	if err != nil {
		return err
	}
	// The encoder may have fallen back to no compression
	ct = paging.CompressionType(data[3])

	if !filepath.IsAbs(path) && filepath.Dir(path) == "." {
		path = filepath.Join(a.config.ExportDirectory, path)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write trace: %w", err)
	}

	a.logger.Info("trace exported",
		slog.String("path", path),
		slog.Int("bytes", len(data)),
		slog.String("compression", ct.String()),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "Trace written to %s\n", path)
	return nil
}

func (a *app) writeCSV(cmd *cobra.Command, trace *paging.Trace, path string) error {
	if path != "" && !filepath.IsAbs(path) && filepath.Dir(path) == "." {
		path = filepath.Join(a.config.ExportDirectory, path)
	}

	w := NewStepCSVWriter(path)
	if path == "" {
		w.dir = a.config.ExportDirectory
	}
	if err := w.Init(); err != nil {
		return err
	}
	for i := range trace.Steps {
		w.Write(&trace.Steps[i])
	}
	if err := w.Close(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Steps written to %s\n", w.Filename())
	return nil
}
