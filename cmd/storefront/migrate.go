package main

import (
	"fmt"

	"github.com/abgdnv/soapshop/internal/store"
	pkgconfig "github.com/abgdnv/soapshop/pkg/config"
	"github.com/abgdnv/soapshop/pkg/config/configloader"
	"github.com/spf13/cobra"
)

func newMigrateCmd(src *configloader.Source) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Apply or roll back the PostgreSQL schema",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(store.Up), string(store.Down)},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*src)
			if err != nil {
				return err
			}
			if cfg.Database.Driver != pkgconfig.DriverPostgres {
				return fmt.Errorf("migrations only apply to the %s driver, configured: %s", pkgconfig.DriverPostgres, cfg.Database.Driver)
			}
			if err := store.Migrate(cfg.Database.URL, store.Direction(args[0])); err != nil {
				return err
			}
			cmd.Printf("migrations applied: %s\n", args[0])
			return nil
		},
	}
}
