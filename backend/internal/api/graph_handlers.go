package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"orkg-backend/backend/internal/graph"
	"orkg-backend/backend/internal/ids"
	"orkg-backend/backend/internal/paging"
)

func (h *handler) getResource(c *gin.Context) {
	id, err := thingParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	r, err := h.Resources.FindByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *handler) listStatements(c *gin.Context) {
	req, err := pageRequest(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	var filter graph.StatementFilter
	for name, dst := range map[string]*ids.ThingID{
		"subject":   &filter.Subject,
		"predicate": &filter.Predicate,
		"object":    &filter.Object,
	} {
		if *dst, err = optionalThing(c, name); err != nil {
			h.fail(c, err)
			return
		}
	}
	page, err := h.Statements.FindAll(c.Request.Context(), filter, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *handler) getStatement(c *gin.Context) {
	id, err := ids.ParseStatementID(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	s, err := h.Statements.FindByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// ============================================================================
// Research fields
// ============================================================================

// fieldContent serves the listings that take include_subfields and visibility
func (h *handler) fieldContent(c *gin.Context, find func(*gin.Context, ids.ThingID, graph.FieldContentQuery, paging.Request) (paging.Page[graph.Resource], error)) {
	id, err := thingParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	q, err := contentQuery(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	req, err := pageRequest(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	page, err := find(c, id, q, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *handler) fieldPapers(c *gin.Context) {
	h.fieldContent(c, func(c *gin.Context, id ids.ThingID, q graph.FieldContentQuery, req paging.Request) (paging.Page[graph.Resource], error) {
		return h.Research.PapersOfField(c.Request.Context(), id, q, req)
	})
}

func (h *handler) fieldComparisons(c *gin.Context) {
	h.fieldContent(c, func(c *gin.Context, id ids.ThingID, q graph.FieldContentQuery, req paging.Request) (paging.Page[graph.Resource], error) {
		return h.Research.ComparisonsOfField(c.Request.Context(), id, q, req)
	})
}

func (h *handler) fieldProblems(c *gin.Context) {
	h.fieldContent(c, func(c *gin.Context, id ids.ThingID, q graph.FieldContentQuery, req paging.Request) (paging.Page[graph.Resource], error) {
		return h.Research.ProblemsOfField(c.Request.Context(), id, q, req)
	})
}

func (h *handler) fieldProblemsWithPaperCount(c *gin.Context) {
	id, req, ok := h.idAndPage(c)
	if !ok {
		return
	}
	value, err := h.Research.ProblemsOfFieldWithPaperCount(c.Request.Context(), id, req)
	h.write(c, value, err)
}

func (h *handler) fieldContributors(c *gin.Context) {
	id, req, ok := h.idAndPage(c)
	if !ok {
		return
	}
	include, err := boolQuery(c, "include_subfields")
	if err != nil {
		h.fail(c, err)
		return
	}
	value, err := h.Research.ContributorsOfField(c.Request.Context(), id, include, req)
	h.write(c, value, err)
}

func (h *handler) fieldSubfields(c *gin.Context) {
	id, req, ok := h.idAndPage(c)
	if !ok {
		return
	}
	value, err := h.Research.Subfields(c.Request.Context(), id, req)
	h.write(c, value, err)
}

func (h *handler) fieldParent(c *gin.Context) {
	id, err := thingParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	parent, ok, err := h.Research.ParentOf(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, parent)
}

func (h *handler) fieldRoots(c *gin.Context) {
	id, err := thingParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	value, err := h.Research.RootsOf(c.Request.Context(), id)
	h.write(c, value, err)
}

func (h *handler) fieldsWithBenchmarks(c *gin.Context) {
	req, err := pageRequest(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	value, err := h.Research.FieldsWithBenchmarks(c.Request.Context(), req)
	h.write(c, value, err)
}

func (h *handler) fieldBenchmarks(c *gin.Context) {
	id, req, ok := h.idAndPage(c)
	if !ok {
		return
	}
	include, err := boolQuery(c, "include_subfields")
	if err != nil {
		h.fail(c, err)
		return
	}
	value, err := h.Research.BenchmarkSummariesOfField(c.Request.Context(), id, include, req)
	h.write(c, value, err)
}

// ============================================================================
// Problems, benchmarks and datasets
// ============================================================================

func (h *handler) problemContributions(c *gin.Context) {
	id, req, ok := h.idAndPage(c)
	if !ok {
		return
	}
	visibility, err := graph.ParseVisibilityFilter(c.Query("visibility"))
	if err != nil {
		h.fail(c, err)
		return
	}
	value, err := h.Research.ContributionsOfProblem(c.Request.Context(), id, visibility, req)
	h.write(c, value, err)
}

func (h *handler) problemPapers(c *gin.Context) {
	id, req, ok := h.idAndPage(c)
	if !ok {
		return
	}
	visibility, err := graph.ParseVisibilityFilter(c.Query("visibility"))
	if err != nil {
		h.fail(c, err)
		return
	}
	value, err := h.Research.PapersOfProblem(c.Request.Context(), id, visibility, req)
	h.write(c, value, err)
}

func (h *handler) problemFields(c *gin.Context) {
	id, req, ok := h.idAndPage(c)
	if !ok {
		return
	}
	value, err := h.Research.FieldsOfProblem(c.Request.Context(), id, req)
	h.write(c, value, err)
}

func (h *handler) problemDatasets(c *gin.Context) {
	id, req, ok := h.idAndPage(c)
	if !ok {
		return
	}
	value, err := h.Research.DatasetsOfProblem(c.Request.Context(), id, req)
	h.write(c, value, err)
}

func (h *handler) benchmarkSummaries(c *gin.Context) {
	req, err := pageRequest(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	value, err := h.Research.BenchmarkSummaries(c.Request.Context(), req)
	h.write(c, value, err)
}

func (h *handler) datasetProblems(c *gin.Context) {
	id, req, ok := h.idAndPage(c)
	if !ok {
		return
	}
	value, err := h.Research.ProblemsOfDataset(c.Request.Context(), id, req)
	h.write(c, value, err)
}

func (h *handler) datasetSummary(c *gin.Context) {
	id, req, ok := h.idAndPage(c)
	if !ok {
		return
	}
	problem, err := thingParam(c, "problemId")
	if err != nil {
		h.fail(c, err)
		return
	}
	value, err := h.Research.DatasetSummary(c.Request.Context(), id, problem, req)
	h.write(c, value, err)
}

// idAndPage reads the :id path parameter and the page request, answering the
// request itself when either is malformed
func (h *handler) idAndPage(c *gin.Context) (ids.ThingID, paging.Request, bool) {
	id, err := thingParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return ids.ThingID{}, paging.Request{}, false
	}
	req, err := pageRequest(c)
	if err != nil {
		h.fail(c, err)
		return ids.ThingID{}, paging.Request{}, false
	}
	return id, req, true
}

// write answers with value as JSON, or with the error envelope when err is set
func (h *handler) write(c *gin.Context, value any, err error) {
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, value)
}
