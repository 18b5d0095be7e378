package cli

import (
	"os"

	"github.com/go-faster/jx"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/Blackdeer1524/pagecache/src/bufferpool"
	"github.com/Blackdeer1524/pagecache/src/config"
	"github.com/Blackdeer1524/pagecache/src/disk"
	"github.com/Blackdeer1524/pagecache/src/logging"
	"github.com/Blackdeer1524/pagecache/src/logmanager"
	"github.com/Blackdeer1524/pagecache/src/metrics"
)

func initInspect() {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Reports the structural stats of a fresh buffer pool over the configured data file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(rootCmd.Options.ConfigPath)
			if err != nil {
				return err
			}

			diskManager := disk.New(afero.NewOsFs(), cfg.DataDir+"/"+cfg.DataFile)

			pool := bufferpool.New(
				cfg.PoolSize,
				disk.PageSize,
				cfg.BucketCapacity,
				diskManager,
				logmanager.NopManager{},
				logging.Nop(),
				metrics.Nop{},
			)

			stats := pool.GetPoolStats()

			enc := jx.GetEncoder()
			defer jx.PutEncoder(enc)

			enc.ObjStart()
			enc.FieldStart("environment")
			enc.Str(cfg.Environment)
			enc.FieldStart("pool_size")
			enc.Int(stats.PoolSize)
			enc.FieldStart("free_list_size")
			enc.Int(stats.FreeListSize)
			enc.FieldStart("replacer_size")
			enc.Int(stats.ReplacerSize)
			enc.FieldStart("global_depth")
			enc.Int(stats.GlobalDepth)
			enc.FieldStart("num_buckets")
			enc.Int(stats.NumBuckets)
			enc.ObjEnd()

			_, err = os.Stdout.Write(enc.Bytes())
			if err != nil {
				return err
			}
			_, err = os.Stdout.WriteString("\n")
			return err
		},
	}

	rootCmd.AddCommand(cmd)
}
