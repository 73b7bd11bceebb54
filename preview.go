package main

import (
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/kova98/mealmail/models"
)

func newPreviewCmd(stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "preview",
		Short: "List the recipe links that would be planned with, and their page titles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline, err := newPipeline(stderr)
			if err != nil {
				return err
			}
			links, err := pipeline.Preview(cmd.Context())
			if err != nil {
				return err
			}
			return renderPreview(stdout, links)
		},
	}
}

func renderPreview(w io.Writer, links []models.RecipeLink) error {
	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{ShowHeader: tw.Off},
			},
		}),
	)

	titled := 0
	rows := make([][]string, 0, len(links))
	for i, link := range links {
		title := link.Title
		if title == "" {
			title = "-"
		} else {
			titled++
		}
		rows = append(rows, []string{strconv.Itoa(i + 1), title, link.URL})
	}

	table.Header([]string{"#", "Title", "URL"})
	if err := table.Bulk(rows); err != nil {
		return errors.Wrap(err, "preview")
	}
	if err := table.Render(); err != nil {
		return errors.Wrap(err, "preview")
	}

	summary := color.New(color.FgGreen)
	if titled < len(links) {
		summary = color.New(color.FgYellow)
	}
	_, err := summary.Fprintf(w, "%d recipe links, %d with titles\n", len(links), titled)
	return err
}
