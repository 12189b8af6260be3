package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"instagen/internal/config"
	"instagen/internal/store"
	"instagen/internal/types"
)

type HistoryCommand struct {
	stdout io.Writer
	stderr io.Writer
}

func NewHistoryCommand(stdout, stderr io.Writer) *HistoryCommand {
	return &HistoryCommand{stdout: stdout, stderr: stderr}
}

func (c *HistoryCommand) Run(args []string) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	asJSON := fs.Bool("json", false, "print records as JSON")
	clear := fs.Bool("clear", false, "delete all records")
	if err := fs.Parse(args); err != nil {
		return err
	}

	dbPath, err := config.DBPath()
	if err != nil {
		return err
	}
	repo, err := store.NewBboltRepository(dbPath)
	if err != nil {
		return err
	}
	defer repo.Close()

	ctx := context.Background()
	if *clear {
		if err := repo.History().Clear(ctx); err != nil {
			return err
		}
		fmt.Fprintln(c.stdout, "history cleared")
		return nil
	}

	records, err := repo.History().List(ctx)
	if err != nil {
		return err
	}
	if *asJSON {
		encoder := json.NewEncoder(c.stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(records)
	}
	printHistory(c.stdout, records)
	return nil
}

func printHistory(output io.Writer, records []*types.HistoryRecord) {
	if len(records) == 0 {
		fmt.Fprintln(output, "no published posts")
		return
	}
	writer := tabwriter.NewWriter(output, 0, 8, 2, ' ', 0)
	fmt.Fprintln(writer, "WHEN\tTYPE\tCAPTION\tURL")
	for _, record := range records {
		caption := firstLine(record.FullCaption)
		if len(caption) > 48 {
			caption = caption[:45] + "..."
		}
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\n",
			record.Timestamp.Local().Format("2006-01-02 15:04"),
			record.PostType,
			caption,
			record.ImageURL,
		)
	}
	_ = writer.Flush()
}

func firstLine(text string) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		return text[:i]
	}
	return text
}
