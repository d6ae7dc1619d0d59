// README: API gateway; builds the gin engine, registers routes and delegates to the scoring service.
package http

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"valora/internal/config"
	"valora/internal/http/handlers"
	"valora/internal/http/middleware"
	"valora/internal/metrics"
	"valora/internal/modules/scoring"
)

type ServerDeps struct {
	Scoring *scoring.Service
	Metrics *metrics.Registry
	Logger  zerolog.Logger
	Config  config.Config
}

type Server struct {
	scoring *scoring.Service
	metrics *metrics.Registry
	logger  zerolog.Logger
	cfg     config.Config
}

func NewServer(deps ServerDeps) *Server {
	return &Server{
		scoring: deps.Scoring,
		metrics: deps.Metrics,
		logger:  deps.Logger,
		cfg:     deps.Config,
	}
}

var registerWireNames sync.Once

func (s *Server) Routes() http.Handler {
	if s.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	// Validation errors name fields as they appear on the wire.
	registerWireNames.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			scoring.RegisterWireNames(v)
		}
	})

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logging(s.logger),
		middleware.Recovery(),
	)
	if s.metrics != nil {
		r.Use(middleware.Metrics(s.metrics))
	}
	r.Use(middleware.BodyLimit(s.cfg.HTTP.MaxBodyBytes))

	status := handlers.NewStatusHandler()
	r.GET("/", status.Root)
	r.GET("/health", status.Health)

	valuation := handlers.NewValuationHandler(s.scoring)
	r.POST("/valorar", valuation.Basic)
	r.POST("/valorar/extendido", valuation.Extended)

	if s.metrics != nil && s.cfg.Metrics.Enabled {
		r.GET(s.cfg.Metrics.Path, gin.WrapH(s.metrics.Handler()))
	}

	r.NoRoute(handlers.NotFound)
	return r
}
