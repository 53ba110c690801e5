package leadscli

import (
	"fmt"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"course-enrolment/internal/models"
	"course-enrolment/internal/util"
)

func addList(topLevel *cobra.Command, opts Options) {
	var course, since, search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List leads, newest first",
		Example: `
leads list
leads list --course web-development --since 2026-01-01
leads list --search asha
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sinceDate, err := util.ParseSince(since)
			if err != nil {
				return err
			}
			filter := models.LeadFilter{
				CourseType: courseID(opts, course),
				Since:      sinceDate,
				Search:     search,
			}

			return withStore(cmd.Context(), opts.Open, func(leads models.LeadStore) error {
				list, err := leads.ListLeads(cmd.Context(), filter)
				if err != nil {
					return fmt.Errorf("failed to list leads: %w", err)
				}
				if len(list) == 0 {
					fmt.Fprintln(opts.Out, "No leads found.")
					return nil
				}

				tbl := uitable.New()
				tbl.Separator = "  "
				tbl.MaxColWidth = 40
				tbl.AddRow(bold("Created"), bold("Name"), bold("Email"), bold("Phone"), bold("Course"), bold("Status"))
				for _, lead := range list {
					tbl.AddRow(util.FormatDate(lead.CreatedAt), lead.Name, lead.Email, lead.Phone,
						courseTitle(opts, lead.CourseType), statusLabel(lead.Status))
				}
				fmt.Fprintln(opts.Out, tbl)
				fmt.Fprintf(opts.Out, "\n%d lead(s)\n", len(list))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&course, "course", "", "only leads for this course id or slug")
	cmd.Flags().StringVar(&since, "since", "", "only leads created on or after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&search, "search", "", "match name, email or phone")

	topLevel.AddCommand(cmd)
}

// courseID maps a slug or id to the tag stored on leads; unknown values pass through.
func courseID(opts Options, key string) string {
	if key == "" || opts.Catalog == nil {
		return key
	}
	if course, ok := opts.Catalog.Lookup(key); ok {
		return course.ID
	}
	return key
}

func courseTitle(opts Options, tag string) string {
	if opts.Catalog == nil {
		return tag
	}
	return opts.Catalog.Title(tag)
}
