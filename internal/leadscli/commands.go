// Package leadscli implements the operator command line for reviewing leads.
package leadscli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"course-enrolment/internal/courses"
	"course-enrolment/internal/models"
)

// Opener returns the configured lead store and a func that releases it.
type Opener func(ctx context.Context) (models.LeadStore, func() error, error)

type Options struct {
	Out     io.Writer
	Open    Opener
	Catalog *courses.Catalog
}

func New(opts Options) *cobra.Command {
	if opts.Out == nil {
		opts.Out = color.Output
	}

	cmd := &cobra.Command{
		Use:           "leads",
		Short:         "Review enrolment leads captured by the course site.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.SetOut(opts.Out)

	addList(cmd, opts)
	addShow(cmd, opts)
	addStats(cmd, opts)
	addCourses(cmd, opts)
	return cmd
}

// withStore opens the store for the duration of fn.
func withStore(ctx context.Context, open Opener, fn func(models.LeadStore) error) error {
	leads, closeFn, err := open(ctx)
	if err != nil {
		return fmt.Errorf("failed to open lead store: %w", err)
	}
	defer closeFn()
	return fn(leads)
}

var statusColors = map[string]color.Attribute{
	"yellow": color.FgYellow,
	"green":  color.FgGreen,
	"red":    color.FgRed,
	"white":  color.FgWhite,
}

func statusLabel(status string) string {
	info := models.GetStatusDisplayInfo(status)
	attr, ok := statusColors[info.Color]
	if !ok {
		attr = color.FgWhite
	}
	return color.New(attr).Sprint(info.DisplayName)
}

func bold(s string) string {
	return color.New(color.Bold).Sprint(s)
}
