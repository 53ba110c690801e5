package leadscli

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"course-enrolment/internal/models"
	"course-enrolment/internal/util"
)

func addShow(topLevel *cobra.Command, opts Options) {
	cmd := &cobra.Command{
		Use:   "show <lead-id>",
		Short: "Print every field of one lead",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid lead id %q", args[0])
			}

			return withStore(cmd.Context(), opts.Open, func(leads models.LeadStore) error {
				lead, err := leads.GetLead(cmd.Context(), id)
				if errors.Is(err, models.ErrLeadNotFound) {
					return fmt.Errorf("lead %s not found", id)
				}
				if err != nil {
					return err
				}

				tbl := uitable.New()
				tbl.Separator = "  "
				tbl.Wrap = true
				tbl.MaxColWidth = 60
				tbl.AddRow(bold("ID"), lead.ID.String())
				tbl.AddRow(bold("Name"), lead.Name)
				tbl.AddRow(bold("Email"), lead.Email)
				tbl.AddRow(bold("Phone"), lead.Phone)
				tbl.AddRow(bold("Course"), courseTitle(opts, lead.CourseType))
				tbl.AddRow(bold("Education"), lead.Education)
				tbl.AddRow(bold("Experience"), lead.Experience)
				tbl.AddRow(bold("Interests"), lead.Interests)
				tbl.AddRow(bold("Expectations"), lead.Expectations)
				tbl.AddRow(bold("Status"), statusLabel(lead.Status))
				tbl.AddRow(bold("Created"), util.FormatDate(lead.CreatedAt))
				fmt.Fprintln(opts.Out, tbl)
				return nil
			})
		},
	}
	topLevel.AddCommand(cmd)
}
