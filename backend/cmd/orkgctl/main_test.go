package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orkg-backend/backend/internal/app"
	communitymem "orkg-backend/backend/internal/community/inmemory"
	"orkg-backend/backend/internal/graph"
	"orkg-backend/backend/internal/graph/inmemory"
	"orkg-backend/backend/internal/ids"
	"orkg-backend/backend/internal/paging"
)

type stubBenchmarks struct {
	graph.BenchmarkQueries
}

func (stubBenchmarks) SummarizeBenchmarks(_ context.Context, req paging.Request) (paging.Page[graph.BenchmarkSummary], error) {
	return paging.New([]graph.BenchmarkSummary{{
		ResearchProblem: graph.ThingRef{ID: ids.MustThingID("R5"), Label: "Question answering"},
		TotalPapers:     4,
		TotalDatasets:   2,
		TotalCodes:      1,
	}}, req, 1), nil
}

// useMemory points every command at a fresh in-memory graph
func useMemory(t *testing.T) *inmemory.Graph {
	t.Helper()
	g, _ := useStores(t)
	return g
}

// useStores points the commands at fresh in-memory stores
func useStores(t *testing.T) (*inmemory.Graph, *communitymem.Store) {
	t.Helper()
	t.Setenv("ENV", "test")
	g := inmemory.NewGraph()
	mem := communitymem.NewStore()
	stores := app.Stores{
		Resources:  g.Resources(),
		Predicates: g.Predicates(),
		Classes:    g.Classes(),
		Literals:   g.Literals(),
		Things:     g.Things(),
		Statements: g.Statements(),
		Benchmarks: stubBenchmarks{},
	}.WithCommunity(mem.Observatories(), mem.Organizations(), mem.Contributors())

	original := openRuntime
	openRuntime = func(context.Context, bool) (*app.Runtime, error) {
		return &app.Runtime{Stores: stores}, nil
	}
	t.Cleanup(func() { openRuntime = original })
	return g, mem
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)
	err := rootCmd.Execute()
	return buf.String(), err
}

// populate creates n resources, each the subject of one statement per preceding resource
func populate(t *testing.T, g *inmemory.Graph, n int) []ids.ThingID {
	t.Helper()
	ctx := context.Background()
	_, err := graph.SeedVocabulary(ctx, g.Classes(), g.Predicates())
	require.NoError(t, err)

	resources := graph.NewResourceService(g.Resources(), g.Classes())
	statements := graph.NewStatementService(g.Things(), g.Predicates(), g.Statements())
	created := make([]ids.ThingID, 0, n)
	for i := 0; i < n; i++ {
		id, err := resources.Create(ctx, graph.CreateResourceCommand{Label: "resource"})
		require.NoError(t, err)
		for _, object := range created {
			_, err := statements.Add(ctx, graph.CreateStatementCommand{Subject: id, Predicate: graph.PredicateHasResearchProblem, Object: object})
			require.NoError(t, err)
		}
		created = append(created, id)
	}
	return created
}

func exportedTotal(t *testing.T, kind string) float64 {
	t.Helper()
	reg := prometheus.NewRegistry()
	require.NoError(t, m.Register(reg))
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != "orkg_export_records_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetValue() == kind {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func lines(t *testing.T, out string) []map[string]any {
	t.Helper()
	var decoded []map[string]any
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		var v map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &v))
		decoded = append(decoded, v)
	}
	return decoded
}

func TestSeed(t *testing.T) {
	g := useMemory(t)
	out, err := execute(t, "seed")
	require.NoError(t, err)
	want := len(graph.VocabularyClasses()) + len(graph.VocabularyPredicates())
	assert.Contains(t, out, "Created "+strconv.Itoa(want)+" vocabulary entries.")

	ok, err := g.Classes().Exists(context.Background(), graph.ClassResearchField)
	require.NoError(t, err)
	assert.True(t, ok)

	out, err = execute(t, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "Created 0 vocabulary entries.")
}

func TestExportStatementsInChunks(t *testing.T) {
	g := useMemory(t)
	populate(t, g, 4) // 0+1+2+3 statements
	before := exportedTotal(t, "statements")

	out, err := execute(t, "export", "statements", "--chunk-size", "2", "--out", "-")
	require.NoError(t, err)

	records := lines(t, out)
	assert.Len(t, records, 6)
	seen := map[string]bool{}
	for _, r := range records {
		id, _ := r["id"].(string)
		assert.False(t, seen[id], "statement %s exported twice", id)
		seen[id] = true
	}
	assert.Equal(t, 6.0, exportedTotal(t, "statements")-before)
}

func TestExportResourcesWithCountsToFile(t *testing.T) {
	g := useMemory(t)
	created := populate(t, g, 3)
	path := filepath.Join(t.TempDir(), "resources.jsonl")

	_, err := execute(t, "export", "resources", "--chunk-size", "10", "--out", path, "--with-counts")
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	counts := map[string]float64{}
	for _, r := range lines(t, string(raw)) {
		resource, ok := r["resource"].(map[string]any)
		require.True(t, ok)
		counts[resource["id"].(string)] = r["statement_count"].(float64)
	}
	require.Len(t, counts, len(created))
	for i, id := range created {
		assert.Equal(t, float64(i), counts[id.String()])
	}
}

func TestSummarizeBenchmarks(t *testing.T) {
	useMemory(t)
	out, err := execute(t, "summarize", "benchmarks", "--field", "")
	require.NoError(t, err)
	assert.Contains(t, out, "R5\tQuestion answering\tpapers=4 datasets=2 codes=1")
	assert.Contains(t, out, "1 research problems.")
}

func TestSummarizeBenchmarksRejectsMalformedField(t *testing.T) {
	useMemory(t)
	_, err := execute(t, "summarize", "benchmarks", "--field", "not valid")
	assert.Error(t, err)
}

func TestContributorAdd(t *testing.T) {
	_, mem := useStores(t)
	t.Cleanup(func() { contributorName, contributorEmail, contributorID = "", "", "" })
	ctx := context.Background()

	out, err := execute(t, "contributor", "add", "--name", "Jane Doe", "--email", "jane@example.org")
	require.NoError(t, err)
	raw := strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(out), "Created contributor "), ".")
	id, err := ids.ParseContributorID(raw)
	require.NoError(t, err, out)

	jane, ok, err := mem.Contributors().FindByID(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Jane Doe", jane.Name)
	assert.Equal(t, "jane@example.org", jane.Email)

	fixed := ids.NewContributorID()
	_, err = execute(t, "contributor", "add", "--id", fixed.String(), "--name", "Grace", "--email", "")
	require.NoError(t, err)
	_, ok, err = mem.Contributors().FindByID(ctx, fixed)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = execute(t, "contributor", "add", "--id", fixed.String(), "--name", "Grace")
	require.Error(t, err)

	_, err = execute(t, "contributor", "add", "--id", "not-a-uuid", "--name", "Bad")
	require.Error(t, err)
}
