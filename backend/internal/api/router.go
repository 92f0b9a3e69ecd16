// Package api exposes the graph, content types and community services over HTTP.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"orkg-backend/backend/internal/community"
	"orkg-backend/backend/internal/contenttypes"
	"orkg-backend/backend/internal/graph"
	"orkg-backend/backend/pkg/logger"
)

// Services are the application services the handlers delegate to
type Services struct {
	Resources     *graph.ResourceService
	Statements    *graph.StatementService
	Research      *graph.ResearchService
	Templates     *contenttypes.TemplateService
	Papers        *contenttypes.PaperService
	Comparisons   *contenttypes.ComparisonService
	Observatories *community.ObservatoryService
	Organizations *community.OrganizationService
	Contributors  *community.ContributorService
}

// Options tune the router
type Options struct {
	Production bool
	// Gatherer backs /metrics; the route is omitted when nil
	Gatherer prometheus.Gatherer
}

type handler struct {
	Services
	logger *zap.Logger
}

// NewRouter wires every route onto a fresh gin engine
func NewRouter(s Services, opts Options) *gin.Engine {
	if opts.Production {
		gin.SetMode(gin.ReleaseMode)
	}
	log := logger.Named("http")
	h := &handler{Services: s, logger: log}

	router := gin.New()
	router.Use(requestLogger(log))
	router.Use(gin.Recovery())
	router.Use(cors())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if opts.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	api := router.Group("/api")
	{
		api.GET("/resources/:id", h.getResource)
		api.GET("/statements", h.listStatements)
		api.GET("/statements/:id", h.getStatement)

		fields := api.Group("/research-fields")
		fields.GET("/benchmarks", h.fieldsWithBenchmarks)
		fields.GET("/:id/papers", h.fieldPapers)
		fields.GET("/:id/comparisons", h.fieldComparisons)
		fields.GET("/:id/problems", h.fieldProblems)
		fields.GET("/:id/research-problems", h.fieldProblemsWithPaperCount)
		fields.GET("/:id/contributors", h.fieldContributors)
		fields.GET("/:id/subfields", h.fieldSubfields)
		fields.GET("/:id/parent", h.fieldParent)
		fields.GET("/:id/roots", h.fieldRoots)
		fields.GET("/:id/benchmarks", h.fieldBenchmarks)

		problems := api.Group("/problems")
		problems.GET("/:id/contributions", h.problemContributions)
		problems.GET("/:id/papers", h.problemPapers)
		problems.GET("/:id/research-fields", h.problemFields)
		problems.GET("/:id/datasets", h.problemDatasets)

		api.GET("/benchmarks/summary", h.benchmarkSummaries)
		api.GET("/datasets/:id/problems", h.datasetProblems)
		api.GET("/datasets/:id/problem/:problemId/summary", h.datasetSummary)

		api.POST("/templates", h.createTemplate)
		api.GET("/templates/:id", h.getTemplate)
		api.PUT("/templates/:id", h.updateTemplate)
		api.POST("/templates/:id/properties", h.createTemplateProperty)
		api.PUT("/templates/:id/properties/:propertyId", h.updateTemplateProperty)
		api.POST("/papers", h.createPaper)
		api.POST("/comparisons", h.createComparison)

		api.POST("/observatories", h.createObservatory)
		api.GET("/observatories/:id", h.getObservatory)
		api.POST("/observatories/:id/members", h.addObservatoryMember)
		api.POST("/organizations", h.createOrganization)
		api.GET("/organizations/:id", h.getOrganization)
		api.POST("/contributors", h.createContributor)
		api.GET("/contributors/:id", h.getContributor)
	}

	return router
}
