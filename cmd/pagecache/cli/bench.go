package cli

import (
	"os"
	"time"

	"github.com/go-faster/jx"
	"github.com/spf13/cobra"

	"github.com/Blackdeer1524/pagecache/src/app"
)

var benchOpts app.BenchOptions

func initBench() {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Drives a concurrent workload against a buffer pool and reports final pool occupancy as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			benchOpts.ConfigPath = rootCmd.Options.ConfigPath
			entry := &app.BenchEntrypoint{Opts: benchOpts}
			if err := app.Run(cmd.Context(), entry); err != nil {
				return err
			}

			stats := entry.Stats()
			enc := jx.GetEncoder()
			defer jx.PutEncoder(enc)

			enc.ObjStart()
			enc.FieldStart("pool_size")
			enc.Int(stats.PoolSize)
			enc.FieldStart("frames_in_use")
			enc.Int(stats.FramesInUse)
			enc.FieldStart("free_list_size")
			enc.Int(stats.FreeListSize)
			enc.FieldStart("replacer_size")
			enc.Int(stats.ReplacerSize)
			enc.FieldStart("global_depth")
			enc.Int(stats.GlobalDepth)
			enc.FieldStart("num_buckets")
			enc.Int(stats.NumBuckets)
			enc.ObjEnd()

			_, err := os.Stdout.Write(enc.Bytes())
			if err != nil {
				return err
			}
			_, err = os.Stdout.WriteString("\n")
			return err
		},
	}

	cmd.Flags().IntVar(&benchOpts.Workers, "workers", 8, "number of pooled worker goroutines driving the workload")
	cmd.Flags().DurationVar(&benchOpts.Duration, "duration", 5*time.Second, "how long to run the workload")
	cmd.Flags().BoolVar(&benchOpts.InMemory, "in-memory", false, "back the disk manager with an in-memory filesystem instead of the real one")
	cmd.Flags().IntVar(&benchOpts.NumPages, "pages", 32, "number of pages to allocate before starting the workload")

	rootCmd.AddCommand(cmd)
}
