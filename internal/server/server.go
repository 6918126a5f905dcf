package server

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"
	"github.com/tharun06x/team-chanchal/internal/cache"
	"github.com/tharun06x/team-chanchal/internal/config"
	"github.com/tharun06x/team-chanchal/internal/handler"
	appmw "github.com/tharun06x/team-chanchal/internal/middleware"
	"github.com/tharun06x/team-chanchal/internal/repository"
	"github.com/tharun06x/team-chanchal/internal/service"
	"github.com/tharun06x/team-chanchal/internal/storage"
	"gorm.io/gorm"
)

type Server struct {
	e *echo.Echo
}

// New wires repositories, services and handlers over the already-connected
// storage handles. The process entry point owns their lifecycle.
func New(db *gorm.DB, c *cache.Cache, uploader storage.Uploader, cfg *config.Config) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		AllowOriginFunc: func(origin string) (bool, error) {
			low := strings.ToLower(origin)
			if strings.HasPrefix(low, "http://localhost:") || strings.HasPrefix(low, "http://127.0.0.1:") ||
				strings.HasPrefix(low, "https://localhost:") || strings.HasPrefix(low, "https://127.0.0.1:") {
				return true, nil
			}
			u, err := url.Parse(origin)
			if err != nil {
				return false, nil
			}
			if u.Scheme != "http" && u.Scheme != "https" {
				return false, nil
			}
			if strings.HasSuffix(u.Hostname(), "vercel.app") {
				return true, nil
			}
			return false, nil
		},
	}))

	listingRepo := repository.NewListingRepository(db)
	listingSvc := service.NewListingService(listingRepo, c, cfg.ListingTTL)
	listingHandler := handler.NewListingHandler(listingSvc, uploader)

	convRepo := repository.NewConversationRepository(db)
	convSvc := service.NewConversationService(convRepo)
	convHandler := handler.NewConversationHandler(convSvc)

	userRepo := repository.NewUserRepository(db)
	userSvc := service.NewUserService(userRepo)
	userHandler := handler.NewUserHandler(userSvc)

	// Without a Firebase project the API runs open: identity comes from
	// request bodies, as in local development.
	var authMw *appmw.AuthMiddleware
	if cfg.FirebaseProjectID != "" {
		mw, err := appmw.NewAuthMiddleware(context.Background(), cfg.FirebaseProjectID, cfg.AllowedEmailDomain)
		if err != nil {
			log.WithError(err).Fatal("failed to init firebase auth")
		}
		authMw = mw
	} else {
		log.Warn("FIREBASE_PROJECT_ID not set, running without authentication")
	}

	e.GET("/healthz", func(ec echo.Context) error {
		return ec.JSON(http.StatusOK, map[string]string{"ok": "true"})
	})

	api := e.Group("/api")
	if authMw != nil {
		api.POST("/listings", listingHandler.Create, authMw.RequireAuth)
		api.DELETE("/listings/:id", listingHandler.Delete, authMw.RequireAuth)
		api.POST("/conversations", convHandler.Create, authMw.RequireAuth)
		api.GET("/conversations/:userId", convHandler.ListForUser, authMw.RequireAuth)
		api.POST("/messages", convHandler.SendMessage, authMw.RequireAuth)
		api.GET("/messages/:conversationId", convHandler.ListMessages, authMw.RequireAuth)
		api.POST("/users", userHandler.Upsert, authMw.RequireAuth)
	} else {
		api.POST("/listings", listingHandler.Create)
		api.DELETE("/listings/:id", listingHandler.Delete)
		api.POST("/conversations", convHandler.Create)
		api.GET("/conversations/:userId", convHandler.ListForUser)
		api.POST("/messages", convHandler.SendMessage)
		api.GET("/messages/:conversationId", convHandler.ListMessages)
		api.POST("/users", userHandler.Upsert)
	}
	api.GET("/listings", listingHandler.List)
	api.GET("/listings/:id", listingHandler.Get)

	return &Server{e: e}
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}
