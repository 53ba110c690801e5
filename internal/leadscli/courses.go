package leadscli

import (
	"fmt"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
)

func addCourses(topLevel *cobra.Command, opts Options) {
	cmd := &cobra.Command{
		Use:   "courses",
		Short: "List the courses leads can enrol in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Catalog == nil {
				return fmt.Errorf("course catalog not loaded")
			}
			tbl := uitable.New()
			tbl.Separator = "  "
			tbl.AddRow(bold("ID"), bold("Slug"), bold("Title"), bold("Duration"))
			for _, c := range opts.Catalog.All() {
				tbl.AddRow(c.ID, c.Slug, c.Title, c.Duration)
			}
			fmt.Fprintln(opts.Out, tbl)
			return nil
		},
	}
	topLevel.AddCommand(cmd)
}
