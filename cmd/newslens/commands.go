package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/poiesic/newslens"
	"github.com/poiesic/newslens/core"
	"github.com/poiesic/newslens/embed"
	"github.com/poiesic/newslens/search"
	"github.com/urfave/cli/v2"
)

func embedCommand() *cli.Command {
	return &cli.Command{
		Name:   "embed",
		Usage:  "Embed every article, resuming from the checkpoint if one exists",
		Action: embedAction,
		Flags: concat(dataFlags(), embeddingFlags(), pipelineFlags(), []cli.Flag{
			&cli.BoolFlag{Name: "no-progress", Usage: "Hide the per-record progress bar"},
		}),
	}
}

func statusCommand() *cli.Command {
	return &cli.Command{
		Name:   "status",
		Usage:  "Show how far the embedding run has progressed",
		Action: statusAction,
		Flags:  dataFlags(),
	}
}

func similarCommand() *cli.Command {
	return &cli.Command{
		Name:      "similar",
		Usage:     "List the articles most similar to an article id or a query",
		ArgsUsage: "[article-id]",
		Action:    similarAction,
		Flags: concat(dataFlags(), embeddingFlags(), []cli.Flag{
			&cli.IntFlag{Name: "k", Usage: "Number of similar articles to show", Value: search.DefaultLimit},
			&cli.StringFlag{Name: "query", Aliases: []string{"q"}, Usage: "Free-text query instead of an article id"},
		}),
	}
}

func dbSetupCommand() *cli.Command {
	return &cli.Command{
		Name:   "db-setup",
		Usage:  "Create the pgvector extension, articles table and index",
		Action: dbSetupAction,
		Flags:  concat(embeddingFlags(), databaseFlags()),
	}
}

func dbLoadCommand() *cli.Command {
	return &cli.Command{
		Name:   "db-load",
		Usage:  "Load the embedded articles into PostgreSQL",
		Action: dbLoadAction,
		Flags:  concat(dataFlags(), embeddingFlags(), databaseFlags()),
	}
}

func openWorkspace(c *cli.Context) (*newslens.Workspace, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	ws, err := newslens.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open workspace: %w", err)
	}
	return ws, nil
}

func embedAction(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ws, err := openWorkspace(c)
	if err != nil {
		return err
	}
	defer ws.Close()

	cfg := ws.Config()
	fmt.Fprintf(c.App.ErrWriter, "Source: %s\n", cfg.Data.Source)
	fmt.Fprintf(c.App.ErrWriter, "Embedding host: %s\n", cfg.Embedding.Host)
	fmt.Fprintf(c.App.ErrWriter, "Embedding model: %s\n", cfg.Embedding.Model)
	fmt.Fprintln(c.App.ErrWriter)

	pipeline, err := ws.NewPipeline(
		embed.WithProgress(c.App.ErrWriter),
		embed.WithProgressBar(!c.Bool("no-progress")),
	)
	if err != nil {
		return fmt.Errorf("create pipeline: %w", err)
	}
	defer pipeline.Release()

	res, err := pipeline.Run(ctx)
	if err != nil {
		if res != nil && res.BatchesDone > 0 {
			fmt.Fprintln(c.App.ErrWriter, color.YellowString(
				"Stopped after %d/%d batches; run again to resume from %s",
				res.BatchesDone, res.Batches, cfg.Data.Checkpoint))
		}
		return fmt.Errorf("embedding failed: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "Embedded %d articles (%d from cache) in %s; %d still pending\n",
		res.Embedded, res.Cached, res.Elapsed.Round(time.Second), res.Remaining)
	return nil
}

func statusAction(c *cli.Context) error {
	ws, err := openWorkspace(c)
	if err != nil {
		return err
	}
	defer ws.Close()

	st, err := ws.Status(c.Context)
	if err != nil {
		return fmt.Errorf("read status: %w", err)
	}

	for _, t := range []struct {
		label string
		table newslens.TableStatus
	}{
		{"source", st.Source},
		{"checkpoint", st.Checkpoint},
		{"final", st.Final},
	} {
		if !t.table.Exists {
			fmt.Fprintf(c.App.Writer, "%-10s %s  %s\n", t.label, color.YellowString("missing"), t.table.Location)
			continue
		}
		if t.label == "source" {
			fmt.Fprintf(c.App.Writer, "%-10s %d rows  %s\n", t.label, t.table.Rows, t.table.Location)
			continue
		}
		state := color.YellowString("%d/%d embedded", t.table.Embedded, t.table.Rows)
		if t.table.Embedded == t.table.Rows {
			state = color.GreenString("%d/%d embedded", t.table.Embedded, t.table.Rows)
		}
		fmt.Fprintf(c.App.Writer, "%-10s %s  %s\n", t.label, state, t.table.Location)
	}
	return nil
}

func similarAction(c *cli.Context) error {
	query := c.String("query")
	if query == "" && c.NArg() != 1 {
		return fmt.Errorf("expected exactly one article id or --query")
	}

	ws, err := openWorkspace(c)
	if err != nil {
		return err
	}
	defer ws.Close()

	searcher, err := ws.NewSearcher(c.Context)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	var matches []*core.Match
	if query != "" {
		matches, err = searcher.Query(c.Context, query, c.Int("k"))
	} else {
		id, parseErr := strconv.ParseInt(c.Args().First(), 10, 64)
		if parseErr != nil {
			return fmt.Errorf("invalid article id %q: %w", c.Args().First(), parseErr)
		}
		if err := writeArticleHeading(c.Context, c.App.Writer, ws.Dataset(), core.ID(id)); err != nil {
			return fmt.Errorf("load dataset: %w", err)
		}
		matches, err = searcher.Similar(core.ID(id), c.Int("k"))
	}
	if err != nil {
		return fmt.Errorf("similarity search failed: %w", err)
	}

	for _, m := range matches {
		fmt.Fprintf(c.App.Writer, "%s  [%d] %s\n", color.CyanString("%.4f", m.Score), m.Article.Id, m.Article.Title)
		if m.Article.URL != "" {
			fmt.Fprintf(c.App.Writer, "        %s\n", m.Article.URL)
		}
	}
	return nil
}

// writeArticleHeading prints the title of the article a similarity listing is for.
// Unknown ids print nothing.
func writeArticleHeading(ctx context.Context, w io.Writer, dataset *search.Dataset, id core.ID) error {
	table, err := dataset.Table(ctx)
	if err != nil {
		return err
	}
	if a, ok := table.Get(id); ok {
		fmt.Fprintf(w, "%s\n\n", color.New(color.Bold).Sprint(a.Title))
	}
	return nil
}

func dbSetupAction(c *cli.Context) error {
	ctx := c.Context
	ws, err := openWorkspace(c)
	if err != nil {
		return err
	}
	defer ws.Close()

	store, err := ws.OpenVectorStore(ctx)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	fmt.Fprintln(c.App.Writer, color.GreenString("Database schema is ready (table %s)", ws.Config().Database.Table))
	return nil
}

func dbLoadAction(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ws, err := openWorkspace(c)
	if err != nil {
		return err
	}
	defer ws.Close()

	table, err := ws.Dataset().Table(ctx)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	store, err := ws.OpenVectorStore(ctx)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	written, skipped, err := store.Load(ctx, table)
	if err != nil {
		return fmt.Errorf("load articles: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "Loaded %d articles into %s", written, ws.Config().Database.Table)
	if skipped > 0 {
		fmt.Fprint(c.App.Writer, color.YellowString(" (%d without embeddings skipped)", skipped))
	}
	fmt.Fprintln(c.App.Writer)
	return nil
}
