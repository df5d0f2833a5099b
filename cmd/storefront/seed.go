package main

import (
	"github.com/abgdnv/soapshop/internal/app"
	"github.com/abgdnv/soapshop/internal/store"
	"github.com/abgdnv/soapshop/pkg/bootstrap"
	"github.com/abgdnv/soapshop/pkg/config/configloader"
	"github.com/spf13/cobra"
)

func newSeedCmd(src *configloader.Source) *cobra.Command {
	var replace bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the sample soap catalogue",
		Long:  "Load the sample soap catalogue. Without --replace an existing catalogue is left untouched.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*src)
			if err != nil {
				return err
			}
			logger := bootstrap.NewLogger(cfg.Log)
			products, closeStore, err := app.OpenProductStore(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer closeStore()

			n, err := store.Seed(cmd.Context(), products, store.SampleProducts(cfg.Media.URLPrefix), replace)
			if err != nil {
				return err
			}
			cmd.Printf("seeded %d products\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&replace, "replace", false, "delete the current catalogue before seeding")
	return cmd
}
