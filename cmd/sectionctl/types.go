package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-sections/pkg/editor"
	"github.com/goliatone/go-sections/pkg/registry"
)

func newTypesCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "types",
		Short: "List section types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg := registry.Default()
			dispatch := editor.NewDispatch(nil)
			types := reg.AllowedTypes()
			if all {
				types = reg.Types()
			}
			for _, t := range types {
				notes := ""
				if !reg.Allowed(t) {
					notes += " (disabled)"
				}
				if _, ok := dispatch.Get(t); !ok {
					notes += " (no editor)"
				}
				cmd.Printf("%-16s %s%s\n", t, reg.LabelOf(t), notes)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "include types that cannot be added")
	return cmd
}
