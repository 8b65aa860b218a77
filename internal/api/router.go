package api

import (
	"github.com/gin-gonic/gin"

	"github.com/hana/reelmind/internal/api/handler"
	"github.com/hana/reelmind/internal/api/middleware"
	"github.com/hana/reelmind/internal/catalog"
	"github.com/hana/reelmind/internal/index"
	"github.com/hana/reelmind/internal/logger"
	"github.com/hana/reelmind/internal/recommend"
)

// RouterConfig carries the collaborators the routes need.
type RouterConfig struct {
	Engine    *recommend.Engine
	Store     catalog.Store
	Refresher *index.Refresher
	Mode      string
	CORS      middleware.CORSConfig
	Logger    *logger.Logger
}

// SetupRouter configures the Gin router with all routes.
func SetupRouter(cfg *RouterConfig) *gin.Engine {
	switch cfg.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.CORS(cfg.CORS))

	healthHandler := handler.NewHealthHandler(cfg.Engine)
	recommendHandler := handler.NewRecommendHandler(cfg.Engine)
	movieHandler := handler.NewMovieHandler(cfg.Store)
	adminHandler := handler.NewAdminHandler(cfg.Refresher)

	r.GET("/health", healthHandler.Health)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/recommend", recommendHandler.Recommend)

		v1.GET("/movies", movieHandler.ListMovies)
		v1.POST("/movies", movieHandler.AppendMovie)
		v1.GET("/genres", movieHandler.ListGenres)

		v1.POST("/refresh", adminHandler.Refresh)
	}

	return r
}
