package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-sections/internal/watch"
	"github.com/goliatone/go-sections/pkg/section"
)

func newLintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lint [file...]",
		Short: "Check documents for invalid sections and dangling links",
		Long: `lint validates each JSON document (missing or duplicate ids, type drift) and
reports internal links that point to sections no longer on the page. Dangling links
are warnings; validation failures make the command fail.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, path := range args {
				cfg, err := watch.ReadSeed(path)
				if err != nil {
					cmd.Printf("%s: %v\n", path, err)
					failed++
					continue
				}
				if err := section.Validate(cfg); err != nil {
					cmd.Printf("%s: %v\n", path, err)
					failed++
				}
				for _, anchor := range section.DanglingAnchors(cfg) {
					cmd.Printf("%s: warning: %s links %q to missing section %q\n", path, anchor.SectionID, anchor.Label, anchor.Target)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d documents failed", failed, len(args))
			}
			cmd.Printf("%d documents ok\n", len(args))
			return nil
		},
	}
}
