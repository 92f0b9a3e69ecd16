package main

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"orkg-backend/backend/internal/app"
	"orkg-backend/backend/internal/graph"
	"orkg-backend/backend/internal/paging"
	"orkg-backend/backend/pkg/logger"
)

var (
	exportChunkSize  int
	exportOut        string
	exportWithCounts bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Stream graph content as JSON lines",
}

var exportStatementsCmd = &cobra.Command{
	Use:   "statements",
	Short: "Export every statement",
	RunE: func(cmd *cobra.Command, args []string) error {
		return export(cmd, func(ctx context.Context, rt *app.Runtime, w io.Writer, chunk int) (int, error) {
			return exportLines(ctx, w, "statements", func(ctx context.Context, req paging.Request) (paging.Page[graph.GeneralStatement], error) {
				return rt.Stores.Statements.FindAll(ctx, graph.StatementFilter{}, req)
			}, chunk)
		})
	},
}

var exportResourcesCmd = &cobra.Command{
	Use:   "resources",
	Short: "Export every resource",
	RunE: func(cmd *cobra.Command, args []string) error {
		return export(cmd, func(ctx context.Context, rt *app.Runtime, w io.Writer, chunk int) (int, error) {
			fetch := func(ctx context.Context, req paging.Request) (paging.Page[graph.Resource], error) {
				return rt.Stores.Resources.FindAll(ctx, graph.ResourceFilter{}, req)
			}
			if !exportWithCounts {
				return exportLines(ctx, w, "resources", fetch, chunk)
			}
			return exportLines(ctx, w, "resources", withStatementCounts(rt.Stores.Statements, fetch, cfg.PMapWorkers), chunk)
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{exportStatementsCmd, exportResourcesCmd} {
		c.Flags().IntVar(&exportChunkSize, "chunk-size", 0, "page size of each fetch (default EXPORT_CHUNK_SIZE)")
		c.Flags().StringVarP(&exportOut, "out", "o", "-", "output file, - for stdout")
		exportCmd.AddCommand(c)
	}
	exportResourcesCmd.Flags().BoolVar(&exportWithCounts, "with-counts", false, "add the number of statements each resource is the subject of")
	rootCmd.AddCommand(exportCmd)
}

type exportFunc func(ctx context.Context, rt *app.Runtime, w io.Writer, chunkSize int) (int, error)

func export(cmd *cobra.Command, run exportFunc) error {
	chunk := exportChunkSize
	if chunk <= 0 {
		chunk = cfg.ExportChunkSize
	}
	w := cmd.OutOrStdout()
	if exportOut != "-" {
		f, err := os.Create(exportOut)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return withRuntime(cmd.Context(), false, func(rt *app.Runtime) error {
		n, err := run(cmd.Context(), rt, w, chunk)
		if err != nil {
			return err
		}
		logger.Named("export").Info("export finished", zap.Int("records", n), zap.Int("chunk_size", chunk))
		return nil
	})
}

// exportLines writes one JSON document per element. Output is flushed after every
// chunk, so an aborted export leaves only whole chunks behind.
func exportLines[T any](ctx context.Context, w io.Writer, kind string, fetch paging.FetchFunc[T], chunkSize int) (int, error) {
	buf := bufio.NewWriter(w)
	enc := json.NewEncoder(buf)
	total := 0
	err := paging.ForEach(ctx, fetch,
		func(item T) error {
			total++
			return enc.Encode(item)
		},
		func(page paging.Page[T]) error {
			m.Exported(kind, len(page.Content))
			return buf.Flush()
		},
		chunkSize,
	)
	return total, err
}

type resourceWithCount struct {
	Resource   graph.Resource `json:"resource"`
	Statements int64          `json:"statement_count"`
}

// withStatementCounts decorates each fetched page with per-resource statement counts,
// counting up to workers resources at a time
func withStatementCounts(statements graph.StatementRepository, fetch paging.FetchFunc[graph.Resource], workers int) paging.FetchFunc[resourceWithCount] {
	return func(ctx context.Context, req paging.Request) (paging.Page[resourceWithCount], error) {
		page, err := fetch(ctx, req)
		if err != nil {
			return paging.Page[resourceWithCount]{}, err
		}
		return paging.PMap(ctx, page, func(ctx context.Context, r graph.Resource) (resourceWithCount, error) {
			n, err := statements.Count(ctx, graph.StatementFilter{Subject: r.ID})
			return resourceWithCount{Resource: r, Statements: n}, err
		}, workers)
	}
}
