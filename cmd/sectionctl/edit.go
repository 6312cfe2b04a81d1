package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-sections/pkg/client"
	"github.com/goliatone/go-sections/pkg/editor"
	"github.com/goliatone/go-sections/pkg/media"
	"github.com/goliatone/go-sections/pkg/registry"
	"github.com/goliatone/go-sections/pkg/section"
	"github.com/goliatone/go-sections/pkg/session"
)

func newEditCmd(flags *globalFlags) *cobra.Command {
	var (
		serverURL string
		create    bool
	)
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit a site's sections interactively",
		Long: `edit loads the site document from the API, lets you add, remove, reorder and edit
sections, and saves the draft back. Nothing is stored until you choose Save.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd, flags)
			if err != nil {
				return err
			}
			if serverURL != "" {
				a.cfg.Server.URL = serverURL
			}
			siteID, err := a.siteID()
			if err != nil {
				return err
			}
			variant, err := client.ParseVariant(a.cfg.Site.Variant)
			if err != nil {
				return err
			}
			ctx := contextOf(cmd)

			api := client.New(a.cfg.ServerURL(), client.WithLogger(a.logger))
			sess := session.New(api.Site(siteID, variant), session.WithLogger(a.logger))
			if err := sess.Open(ctx); err != nil {
				if !create || !errors.Is(err, client.ErrNotFound) {
					return err
				}
				sess.Begin(section.SiteConfig{})
			}

			driver := editor.NewSurveyDriver()
			reg := registry.Default()
			env := editor.Env{SiteID: siteID}
			if ms := a.mediaStore(); ms != nil {
				env.Media = &media.StorePicker{Store: ms, Choose: editor.MediaChooser(driver), Logger: a.logger}
			}
			admin := &editor.Admin{
				Draft:    sess,
				Driver:   driver,
				Registry: reg,
				Dispatch: editor.NewDispatch(driver, editor.WithLabels(reg.LabelOf)),
				Env:      env,
			}
			return admin.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&serverURL, "server", "", "API base URL, overrides server.url")
	cmd.Flags().BoolVar(&create, "new", false, "start from an empty document when the site has none")
	return cmd
}
