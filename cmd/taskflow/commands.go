package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mtlprog/taskflow/internal/domain"
	"github.com/mtlprog/taskflow/internal/engine"
	"github.com/mtlprog/taskflow/internal/service"
)

// invalidDateMarker is printed in place of a label for unparsable due dates.
const invalidDateMarker = "N/A"

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List tasks",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "status", Value: string(engine.StatusAll), Usage: "all, active or completed"},
			&cli.StringFlag{Name: "priority", Value: engine.All, Usage: "all, low, medium or high"},
			&cli.StringFlag{Name: "category", Value: engine.All, Usage: "all or a category name"},
			&cli.StringFlag{Name: "search", Aliases: []string{"s"}, Usage: "Case-insensitive text in title or description"},
			&cli.StringFlag{Name: "sort", Value: string(engine.SortByCreated), Usage: "priority, dueDate, alphabetical or created"},
			&cli.BoolFlag{Name: "json", Usage: "Print JSON instead of a table"},
		},
		Action: runList,
	}
}

func addCommand() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Create a task",
		ArgsUsage: "<title>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "description", Usage: "Task description"},
			&cli.StringFlag{Name: "due", Usage: "Due date (2006-01-02, 2006-01-02T15:04 or RFC 3339)"},
			&cli.StringFlag{Name: "priority", Value: string(domain.PriorityMedium), Usage: "low, medium or high"},
			&cli.StringFlag{Name: "category", Usage: "Category name"},
		},
		Action: runAdd,
	}
}

func completeCommand() *cli.Command {
	return &cli.Command{
		Name:      "complete",
		Usage:     "Mark a task completed",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "undo", Usage: "Mark the task active again"},
		},
		Action: runComplete,
	}
}

func dueCommand() *cli.Command {
	return &cli.Command{
		Name:      "due",
		Usage:     "Print the label a due date gets today",
		ArgsUsage: "<date>",
		Action:    runDue,
	}
}

func runList(c *cli.Context) error {
	q := service.ListQuery{
		Criteria: engine.Criteria{
			Status:   engine.StatusFilter(c.String("status")),
			Priority: c.String("priority"),
			Category: c.String("category"),
			Search:   c.String("search"),
		},
		Sort: engine.SortKey(c.String("sort")),
	}

	st, err := openStore(c.Context, configFrom(c))
	if err != nil {
		return err
	}
	defer st.Close()

	views, err := st.service.ListTasks(c.Context, q)
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}

	if c.Bool("json") {
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(exportTasks(views))
	}

	printTasks(c.App.Writer, views)
	if len(views) == 0 && !q.Criteria.IsDefault() {
		fmt.Fprintln(c.App.Writer, "No tasks match the current filters.")
	}
	return nil
}

func runAdd(c *cli.Context) error {
	title := strings.Join(c.Args().Slice(), " ")

	due, err := engine.ParseDueDate(c.String("due"), time.Local)
	if err != nil {
		return err
	}
	priority, err := domain.ParsePriority(c.String("priority"))
	if err != nil {
		return err
	}

	st, err := openStore(c.Context, configFrom(c))
	if err != nil {
		return err
	}
	defer st.Close()

	task, err := st.service.CreateTask(c.Context, domain.TaskDraft{
		Title:       title,
		Description: c.String("description"),
		DueDate:     due,
		Priority:    priority,
		Category:    c.String("category"),
	})
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	view, err := st.service.Decorate(c.Context, task)
	if err != nil {
		return err
	}
	printTasks(c.App.Writer, []service.TaskView{view})
	return nil
}

func runComplete(c *cli.Context) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}

	st, err := openStore(c.Context, configFrom(c))
	if err != nil {
		return err
	}
	defer st.Close()

	task, err := st.service.SetCompleted(c.Context, id, !c.Bool("undo"))
	if err != nil {
		return fmt.Errorf("failed to update task %d: %w", id, err)
	}

	view, err := st.service.Decorate(c.Context, task)
	if err != nil {
		return err
	}
	printTasks(c.App.Writer, []service.TaskView{view})
	return nil
}

func runDelete(c *cli.Context) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}

	st, err := openStore(c.Context, configFrom(c))
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.service.DeleteTask(c.Context, id); err != nil {
		return fmt.Errorf("failed to delete task %d: %w", id, err)
	}

	fmt.Fprintf(c.App.Writer, "Deleted task %d\n", id)
	return nil
}

func runClearCompleted(c *cli.Context) error {
	st, err := openStore(c.Context, configFrom(c))
	if err != nil {
		return err
	}
	defer st.Close()

	n, err := st.service.ClearCompleted(c.Context)
	if err != nil {
		return fmt.Errorf("failed to clear completed tasks: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "Deleted %d completed %s\n", n, plural(int(n), "task", "tasks"))
	return nil
}

func runStats(c *cli.Context) error {
	st, err := openStore(c.Context, configFrom(c))
	if err != nil {
		return err
	}
	defer st.Close()

	report, err := st.service.Stats(c.Context)
	if err != nil {
		return fmt.Errorf("failed to compute stats: %w", err)
	}

	printStats(c.App.Writer, report)
	return nil
}

func runDue(c *cli.Context) error {
	label, err := engine.ClassifyDueDateString(c.Args().First(), time.Now())
	switch {
	case errors.Is(err, domain.ErrInvalidDate):
		fmt.Fprintln(c.App.Writer, invalidDateMarker)
		return nil
	case err != nil:
		return err
	}

	fmt.Fprintln(c.App.Writer, dueText(label))
	return nil
}

func taskID(c *cli.Context) (int64, error) {
	if c.NArg() != 1 {
		return 0, fmt.Errorf("expected exactly one task id, got %d arguments", c.NArg())
	}
	id, err := strconv.ParseInt(c.Args().First(), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task id %q", c.Args().First())
	}
	return id, nil
}

func printTasks(w io.Writer, views []service.TaskView) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDONE\tPRIORITY\tTITLE\tCATEGORY\tDUE")
	for _, v := range views {
		done := " "
		if v.Completed {
			done = "x"
		}
		category := v.Category
		if category == "" {
			category = "-"
		}
		fmt.Fprintf(tw, "%d\t[%s]\t%s\t%s\t%s\t%s\n", v.ID, done, v.Priority, v.Title, category, dueText(v.Due))
	}
	_ = tw.Flush()
}

func printStats(w io.Writer, r service.StatsReport) {
	fmt.Fprintf(w, "Total:      %d\n", r.Total)
	fmt.Fprintf(w, "Active:     %d\n", r.Active)
	fmt.Fprintf(w, "Completed:  %d\n", r.Completed)
	fmt.Fprintf(w, "Overdue:    %d\n", r.Overdue)
	fmt.Fprintf(w, "Completion: %d%%\n", r.CompletionRate)
}

func dueText(label *engine.DueLabel) string {
	if label == nil {
		return "-"
	}
	if label.Overdue {
		return "! " + label.Text
	}
	return label.Text
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
