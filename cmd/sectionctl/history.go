package main

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-sections/internal/config"
	"github.com/goliatone/go-sections/pkg/client"
	"github.com/goliatone/go-sections/pkg/store/sqlite"
)

func newHistoryCmd(flags *globalFlags) *cobra.Command {
	var (
		variant string
		show    int
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List or print saved revisions of a site (sqlite store)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd, flags)
			if err != nil {
				return err
			}
			if a.cfg.Store.Driver != config.DriverSQLite {
				return errors.New("history needs the sqlite store")
			}
			siteID, err := a.siteID()
			if err != nil {
				return err
			}
			raw := a.cfg.Site.Variant
			if variant != "" {
				raw = variant
			}
			v, err := client.ParseVariant(raw)
			if err != nil {
				return err
			}

			st, err := sqlite.Open(a.cfg.Store.Path)
			if err != nil {
				return err
			}
			defer st.Close()
			ctx := contextOf(cmd)

			if show > 0 {
				cfg, err := st.Revision(ctx, siteID, string(v), show)
				if err != nil {
					return err
				}
				out, err := json.MarshalIndent(cfg, "", "  ")
				if err != nil {
					return err
				}
				cmd.Println(string(out))
				return nil
			}

			revisions, err := st.History(ctx, siteID, string(v))
			if err != nil {
				return err
			}
			if len(revisions) == 0 {
				cmd.Printf("No revisions for %s (%s)\n", siteID, v)
				return nil
			}
			for _, rev := range revisions {
				cmd.Printf("%4d  %s  %d sections\n", rev.Revision, rev.SavedAt.Format("2006-01-02 15:04:05"), rev.Sections)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&variant, "variant", "", "variant, overrides site.variant")
	cmd.Flags().IntVar(&show, "show", 0, "print the document stored at this revision")
	return cmd
}
