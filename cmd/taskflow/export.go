package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/mtlprog/taskflow/internal/domain"
	"github.com/mtlprog/taskflow/internal/service"
)

// Export formats.
const (
	exportJSON = "json"
	exportYAML = "yaml"
)

type exportDocument struct {
	ExportedAt time.Time        `json:"exported_at" yaml:"exported_at"`
	Tasks      []exportTask     `json:"tasks" yaml:"tasks"`
	Categories []exportCategory `json:"categories" yaml:"categories"`
}

type exportTask struct {
	ID          int64      `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty" yaml:"due_date,omitempty"`
	Due         string     `json:"due,omitempty" yaml:"due,omitempty"`
	Priority    string     `json:"priority" yaml:"priority"`
	Category    string     `json:"category,omitempty" yaml:"category,omitempty"`
	Completed   bool       `json:"completed" yaml:"completed"`
	CreatedAt   time.Time  `json:"created_at" yaml:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
}

type exportCategory struct {
	Name      string `json:"name" yaml:"name"`
	Color     string `json:"color" yaml:"color"`
	TaskCount int    `json:"task_count" yaml:"task_count"`
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Print every task and category",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   exportJSON,
				Usage:   "Output format (json, yaml)",
			},
		},
		Action: runExport,
	}
}

func runExport(c *cli.Context) error {
	format := c.String("format")
	if format != exportJSON && format != exportYAML {
		return fmt.Errorf("unknown export format %q (want %s or %s)", format, exportJSON, exportYAML)
	}

	st, err := openStore(c.Context, configFrom(c))
	if err != nil {
		return err
	}
	defer st.Close()

	snap, err := st.service.Snapshot(c.Context)
	if err != nil {
		return fmt.Errorf("failed to read store: %w", err)
	}

	doc := exportDocument{
		ExportedAt: time.Now().UTC(),
		Tasks:      exportTasks(snap.Tasks),
		Categories: exportCategories(snap.Categories),
	}
	return writeExport(c.App.Writer, format, doc)
}

func writeExport(w io.Writer, format string, doc exportDocument) error {
	if format == exportYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func exportTasks(views []service.TaskView) []exportTask {
	out := make([]exportTask, 0, len(views))
	for _, v := range views {
		t := exportTask{
			ID:          v.ID,
			Title:       v.Title,
			Description: v.Description,
			DueDate:     v.DueDate,
			Priority:    string(v.Priority),
			Category:    v.Category,
			Completed:   v.Completed,
			CreatedAt:   v.CreatedAt,
			CompletedAt: v.CompletedAt,
		}
		if v.Due != nil {
			t.Due = v.Due.Text
		}
		out = append(out, t)
	}
	return out
}

func exportCategories(categories []domain.Category) []exportCategory {
	out := make([]exportCategory, 0, len(categories))
	for _, c := range categories {
		out = append(out, exportCategory{Name: c.Name, Color: c.Color, TaskCount: c.TaskCount})
	}
	return out
}
