package leadscli

import (
	"fmt"
	"sort"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"course-enrolment/internal/models"
)

func addStats(topLevel *cobra.Command, opts Options) {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Count leads per course",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), opts.Open, func(leads models.LeadStore) error {
				counts, err := leads.CountByCourse(cmd.Context())
				if err != nil {
					return fmt.Errorf("failed to count leads: %w", err)
				}

				tags := make([]string, 0, len(counts))
				total := 0
				for tag, n := range counts {
					tags = append(tags, tag)
					total += n
				}
				sort.Slice(tags, func(i, j int) bool {
					if counts[tags[i]] != counts[tags[j]] {
						return counts[tags[i]] > counts[tags[j]]
					}
					return tags[i] < tags[j]
				})

				tbl := uitable.New()
				tbl.Separator = "  "
				tbl.AddRow(bold("Course"), bold("Leads"))
				for _, tag := range tags {
					tbl.AddRow(courseTitle(opts, tag), counts[tag])
				}
				tbl.AddRow(bold("Total"), total)
				fmt.Fprintln(opts.Out, tbl)
				return nil
			})
		},
	}
	topLevel.AddCommand(cmd)
}
