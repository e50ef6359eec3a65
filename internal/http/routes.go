package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func NewRouter(h *Handler, staticDir string, ratePerMin int) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(ClientID())
	r.Use(CORS())
	r.Use(RequestID())
	r.Use(Metrics())

	if ratePerMin <= 0 {
		ratePerMin = 30
	}
	rl := NewRateLimiter(ratePerMin, time.Minute)

	r.GET("/healthz", h.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	{
		api.GET("/sentence", h.GetSentence)
		api.POST("/sentence", RateLimitSubmit(rl), h.PostSentence)
	}

	// Everything else is the front-end: GETs fall through to the static
	// bundle ("/" resolves to index.html, missing files 404), unknown
	// API-style POSTs get the JSON 404.
	static := http.FileServer(http.Dir(staticDir))
	r.NoRoute(func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead:
			static.ServeHTTP(c.Writer, c.Request)
		default:
			c.JSON(http.StatusNotFound, gin.H{"error": "Endpoint not found"})
		}
	})

	return r
}
