package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-sections/internal/watch"
	"github.com/goliatone/go-sections/pkg/client"
	"github.com/goliatone/go-sections/pkg/section"
)

func newRenderCmd(flags *globalFlags) *cobra.Command {
	var input, output, variant string
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a document to HTML",
		Long:  `render reads a JSON document (--input) or the stored copy of --site and writes the rendered page.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd, flags)
			if err != nil {
				return err
			}
			ctx := contextOf(cmd)

			var cfg section.SiteConfig
			if input != "" {
				cfg, err = watch.ReadSeed(input)
			} else {
				cfg, err = a.loadStored(cmd, variant)
			}
			if err != nil {
				return err
			}

			dispatcher, err := a.dispatcher()
			if err != nil {
				return err
			}
			page, err := dispatcher.RenderPage(ctx, cfg)
			if err != nil {
				return err
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(page)
				return err
			}
			if err := os.WriteFile(output, page, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			cmd.PrintErrf("Page written to %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "JSON document to render")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&variant, "variant", "", "stored variant to render, overrides site.variant")
	return cmd
}

func (a *app) loadStored(cmd *cobra.Command, variantFlag string) (section.SiteConfig, error) {
	siteID, err := a.siteID()
	if err != nil {
		return section.SiteConfig{}, err
	}
	raw := a.cfg.Site.Variant
	if variantFlag != "" {
		raw = variantFlag
	}
	variant, err := client.ParseVariant(raw)
	if err != nil {
		return section.SiteConfig{}, err
	}
	st, err := a.openStore()
	if err != nil {
		return section.SiteConfig{}, err
	}
	defer st.Close()
	return st.Get(contextOf(cmd), siteID, string(variant))
}
