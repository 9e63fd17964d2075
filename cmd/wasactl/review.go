package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Muneeb381a/disiltting/entities"
	"github.com/Muneeb381a/disiltting/pkg/flow"
	"github.com/Muneeb381a/disiltting/pkg/review/service"
	"github.com/Muneeb381a/disiltting/pkg/review/serviceImp"
)

type reviewFlags struct {
	status string
	taskID string
	sort   string
	desc   bool
	page   int
	xlsx   bool
}

func newReviewCmd(get func() *env) *cobra.Command {
	f := &reviewFlags{}
	cmd := &cobra.Command{
		Use:   "review",
		Short: "List, approve, reject and export work submissions.",
	}
	cmd.PersistentFlags().StringVar(&f.status, "status", "", "Only submissions with this status (Pending, Approved, Rejected).")
	cmd.PersistentFlags().StringVar(&f.taskID, "task", "", "Only submissions for this task id.")

	list := &cobra.Command{
		Use:   "list",
		Short: "Print one page of submissions.",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := loadReview(cmd, get(), f)
			if err != nil {
				return err
			}
			if err := sortBy(r, f.sort, f.desc); err != nil {
				return fail(cmd, err)
			}
			r.SetPage(f.page)
			printReview(cmd.OutOrStdout(), r.View())
			return nil
		},
	}
	list.Flags().StringVar(&f.sort, "sort", service.SortSubmittedAt, "Sort key.")
	list.Flags().BoolVar(&f.desc, "desc", true, "Sort descending.")
	list.Flags().IntVar(&f.page, "page", 1, "Page to print.")

	decide := func(use, short string, act func(service.Review, *cobra.Command, string) error) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <submission-id>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				r, err := loadReview(cmd, get(), f)
				if err != nil {
					return err
				}
				err = act(r, cmd, args[0])
				if errors.Is(err, flow.ErrDeclined) {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
				if err != nil {
					return fail(cmd, err)
				}
				if m := r.View().Message; m != nil {
					fmt.Fprintln(cmd.OutOrStdout(), m.Text)
				}
				return nil
			},
		}
	}
	approve := decide("approve", "Approve a pending submission.", func(r service.Review, cmd *cobra.Command, id string) error {
		return r.Approve(cmd.Context(), id)
	})
	reject := decide("reject", "Reject a pending submission.", func(r service.Review, cmd *cobra.Command, id string) error {
		return r.Reject(cmd.Context(), id)
	})

	exp := &cobra.Command{
		Use:   "export",
		Short: "Export every submission passing the filter.",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := loadReview(cmd, get(), f)
			if err != nil {
				return err
			}
			if f.xlsx {
				err = r.ExportFilteredXLSX(cmd.Context())
			} else {
				err = r.ExportFiltered(cmd.Context())
			}
			if err != nil {
				return fail(cmd, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d submissions.\n", r.View().Total)
			return nil
		},
	}
	exp.Flags().BoolVar(&f.xlsx, "xlsx", false, "Write an Excel workbook instead of JSON.")

	cmd.AddCommand(list, approve, reject, exp)
	return cmd
}

func loadReview(cmd *cobra.Command, e *env, f *reviewFlags) (service.Review, error) {
	r := serviceImp.New(serviceImp.Deps{Client: e.client, Confirm: e.confirm, Export: e.out, Clock: e.now})
	if err := r.Load(cmd.Context()); err != nil {
		return nil, fail(cmd, err)
	}
	r.SetFilter(service.Filter{Status: entities.ReviewStatus(f.status), TaskID: f.taskID})
	return r, nil
}

// sortBy gets the view to key in the asked direction. SetSort starts a new
// key ascending and flips an existing one.
func sortBy(r service.Review, key string, desc bool) error {
	if r.View().SortKey != key {
		if err := r.SetSort(key); err != nil {
			return err
		}
	}
	if r.View().SortDesc != desc {
		return r.SetSort(key)
	}
	return nil
}

func printReview(out io.Writer, v service.View) {
	if v.Total == 0 {
		fmt.Fprintln(out, "No submissions found.")
		return
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTASK\tDESCRIPTION\tPHASE\tSTATUS\tLENGTH (m)\tSUBMITTED")
	for _, s := range v.Items {
		length := "-"
		if s.LengthCompleted != nil {
			length = fmt.Sprintf("%g", *s.LengthCompleted)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			s.ID, s.TaskID, s.TaskDescription, s.Phase.Title(), s.Status, length,
			s.SubmittedAt.Format("2006-01-02 15:04"))
	}
	w.Flush()
	fmt.Fprintf(out, "Page %d of %d (%d submissions)\n", v.Page, v.TotalPages, v.Total)
}
