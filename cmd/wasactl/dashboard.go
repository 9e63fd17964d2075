package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Muneeb381a/disiltting/pkg/backend"
	"github.com/Muneeb381a/disiltting/pkg/dashboard/serviceImp"
)

func newDashboardCmd(get func() *env) *cobra.Command {
	var query string
	var csv bool
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Print the KPIs and per-task progress.",
		RunE: func(cmd *cobra.Command, args []string) error {
			e := get()
			d := serviceImp.New(e.client, e.out, e.now)
			if err := d.Refresh(cmd.Context()); err != nil {
				return fail(cmd, err)
			}
			d.SetQuery(query)
			if csv {
				if err := d.ExportCSV(cmd.Context()); err != nil {
					return fail(cmd, err)
				}
			}
			v := d.View()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Total submissions:      %d\n", v.KPIs.TotalSubmissions)
			fmt.Fprintf(out, "Pending approvals:      %d\n", v.KPIs.PendingApprovals)
			fmt.Fprintf(out, "Completed tasks:        %d\n", v.KPIs.CompletedTasks)
			fmt.Fprintf(out, "Length completed (m):   %g\n\n", v.KPIs.TotalLengthCompleted)

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TASK\tDESCRIPTION\tDONE (m)\tTOTAL (m)\t%\tSTATUS\tDUE")
			for _, t := range v.Tasks {
				fmt.Fprintf(w, "%s\t%s\t%g\t%g\t%.1f\t%s\t%s\n",
					t.TaskID, t.Description, t.LengthCompleted, t.TotalLength, t.Percent(), t.Status, t.DueDate)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "Only tasks whose description contains this.")
	cmd.Flags().BoolVar(&csv, "csv", false, "Also export the rows as CSV.")
	return cmd
}

func newTasksCmd(get func() *env) *cobra.Command {
	return &cobra.Command{
		Use:   "tasks",
		Short: "List tasks still open for field work.",
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := backend.NewLookup(get().client).AssignableTasks(cmd.Context())
			if err != nil {
				return fail(cmd, err)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TASK\tDESCRIPTION\tTYPE\tTEAM\tLENGTH (m)\tDUE")
			for _, t := range tasks {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%g\t%s\n", t.TaskID, t.Description, t.Type, t.TeamName, t.TotalLength, t.DueDate)
			}
			return w.Flush()
		},
	}
}
