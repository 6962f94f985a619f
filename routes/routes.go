package routes

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"geosleuth/geocode"
	"geosleuth/handlers"
	"geosleuth/logger"
	"geosleuth/metrics"
	"geosleuth/nlp"
)

// Deps are the agents and services the router hands to its handlers.
type Deps struct {
	NER          nlp.Extractor
	Exif         handlers.GPSExtractor
	Geocoder     geocode.Geocoder
	GeocodeLimit int
	Health       handlers.StatusReporter
	Logger       *slog.Logger
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), logger.Middleware(d.Logger), metrics.Middleware())

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Hello, welcome to geosleuth! POST to /ner, /exif or /gis.",
		})
	})
	r.GET("/health", func(c *gin.Context) {
		handlers.Health(c, d.Health)
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// agents at the root and again under /api/agents
	register(&r.RouterGroup, d)
	register(r.Group("/api/agents"), d)

	return r
}

func register(g *gin.RouterGroup, d Deps) {
	g.POST("/ner", func(c *gin.Context) {
		handlers.ExtractLocations(c, d.NER, d.Logger)
	})
	g.POST("/exif", func(c *gin.Context) {
		handlers.ExtractGPS(c, d.Exif, d.Logger)
	})
	g.POST("/gis", func(c *gin.Context) {
		handlers.Geocode(c, d.Geocoder, d.GeocodeLimit, d.Logger)
	})
}
