package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"hoa-server/cache"
	"hoa-server/confs"
	"hoa-server/db"
	"hoa-server/entities"
	"hoa-server/handlers"
	httpHandler "hoa-server/handlers/http"
	"hoa-server/middleware"
	"hoa-server/repositories"
	"hoa-server/services"
	"hoa-server/usecases"
	"hoa-server/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	devClientURL    = "http://localhost:5173"
	overdueInterval = 24 * time.Hour
)

type Server struct {
	app        *gin.Engine
	db         db.Database
	cfg        *confs.Config
	dispatcher *services.Dispatcher
	overdue    *services.OverdueJob
}

// NewServer wires every layer and registers the routes. Background
// workers are started by Start.
func NewServer(cfg *confs.Config, database db.Database) (*Server, error) {
	revocations, err := newRevocationStore(cfg.Redis)
	if err != nil {
		return nil, err
	}

	s := &Server{
		app: gin.Default(),
		db:  database,
		cfg: cfg,
	}

	// Initialize repositories
	repos := repositories.NewPgRepositories(database)

	// Notifications and realtime events
	s.dispatcher = services.NewDispatcher(cache.NewOutbox(), cfg.NotifyFlushInterval, map[entities.Channel]services.Sender{
		entities.ChannelEmail: services.NewMailer(cfg.Mail),
		entities.ChannelSMS:   services.LogSMS{},
	})
	s.overdue = services.NewOverdueJob(repos.Payments, overdueInterval)
	manager := ws.NewManager()
	tokens := services.NewTokenService(cfg.Auth, revocations)

	// Initialize use cases
	authUseCase := usecases.NewAuthUseCase(repos, tokens)
	maintenanceUseCase := usecases.NewMaintenanceUseCase(repos, s.dispatcher, manager)
	adminUseCase := usecases.NewAdminUseCase(repos)

	// Initialize handlers
	h := routeHandlers{
		auth:          httpHandler.NewAuthHandler(authUseCase),
		maintenance:   httpHandler.NewMaintenanceHandler(maintenanceUseCase),
		admin:         httpHandler.NewAdminHandler(adminUseCase),
		properties:    httpHandler.NewPropertyHandler(usecases.NewPropertyUseCase(repos)),
		units:         httpHandler.NewUnitHandler(usecases.NewUnitUseCase(repos)),
		tenants:       httpHandler.NewTenantHandler(usecases.NewTenantUseCase(repos)),
		users:         httpHandler.NewUserHandler(usecases.NewUserUseCase(repos)),
		contact:       httpHandler.NewContactHandler(usecases.NewContactUseCase(repos.Contacts, s.dispatcher, cfg.ContactInbox)),
		vendors:       httpHandler.NewResourceHandler(usecases.NewVendorUseCase(repos)),
		leases:        httpHandler.NewResourceHandler(usecases.NewLeaseUseCase(repos)),
		payments:      httpHandler.NewResourceHandler(usecases.NewPaymentUseCase(repos)),
		expenses:      httpHandler.NewResourceHandler(usecases.NewExpenseUseCase(repos)),
		messages:      httpHandler.NewResourceHandler(usecases.NewMessageUseCase(repos)),
		notifications: handlers.NewNotificationHandler(s.dispatcher),
		ws:            handlers.NewWSHandler(manager, tokens, s.allowedOrigins()...),
	}
	s.routes(h, tokens)
	return s, nil
}

// newRevocationStore uses redis when REDIS_ADDR is set so revoked refresh
// tokens survive restarts and are shared between instances.
func newRevocationStore(cfg confs.RedisConfig) (services.RevocationStore, error) {
	if cfg.Addr == "" {
		log.Println("Using in-memory refresh token revocation store")
		return cache.NewMemoryRevocations(), nil
	}
	rdb := redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}
	log.Printf("Using redis refresh token revocation store at %s", cfg.Addr)
	return cache.NewRedisRevocations(rdb), nil
}

func (s *Server) allowedOrigins() []string {
	origins := []string{devClientURL}
	if s.cfg.ClientURL != "" && s.cfg.ClientURL != devClientURL {
		origins = append(origins, s.cfg.ClientURL)
	}
	return origins
}

type routeHandlers struct {
	auth          *httpHandler.AuthHandler
	maintenance   *httpHandler.MaintenanceHandler
	admin         *httpHandler.AdminHandler
	properties    *httpHandler.PropertyHandler
	units         *httpHandler.UnitHandler
	tenants       *httpHandler.TenantHandler
	users         *httpHandler.UserHandler
	contact       *httpHandler.ContactHandler
	vendors       *httpHandler.ResourceHandler[entities.Vendor]
	leases        *httpHandler.ResourceHandler[entities.Lease]
	payments      *httpHandler.ResourceHandler[entities.Payment]
	expenses      *httpHandler.ResourceHandler[entities.Expense]
	messages      *httpHandler.ResourceHandler[entities.Message]
	notifications *handlers.NotificationHandler
	ws            *handlers.WSHandler
}

func (s *Server) routes(h routeHandlers, tokens middleware.TokenParser) {
	// Setup CORS middleware
	config := cors.DefaultConfig()
	config.AllowOrigins = s.allowedOrigins()
	config.AllowCredentials = true
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.TraceHeader}
	s.app.Use(cors.New(config), middleware.Trace())

	// Setup healthcheck route
	s.app.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "OK",
		})
	})

	// Public routes
	s.app.POST("/signup", h.auth.Signup)
	s.app.POST("/login", h.auth.Login)
	s.app.POST("/refresh", h.auth.Refresh)
	s.app.POST("/api/refresh", h.auth.Refresh)
	s.app.POST("/api/contact", h.contact.Submit)
	s.app.GET("/maintenance", h.ws.HandleMaintenanceWS)

	admin := middleware.AuthorizeRoles(entities.RoleAdmin)
	owner := middleware.AuthorizeRoles(entities.RoleOwner)

	api := s.app.Group("/api", middleware.AuthenticateToken(tokens))
	{
		maintenance := api.Group("/maintenance")
		{
			maintenance.GET("", h.maintenance.List)
			maintenance.POST("", h.maintenance.Create)
			maintenance.GET("/meta", h.maintenance.Meta)
			maintenance.POST("/link", admin, h.maintenance.Link)
			maintenance.PATCH("/:id", admin, h.maintenance.Update)
			maintenance.PATCH("/:id/request-tag", owner, h.maintenance.RequestTag)
			maintenance.PATCH("/:id/approve-tag", admin, h.maintenance.ApproveTag)
			maintenance.DELETE("/:id", h.maintenance.Delete)
		}

		adminGroup := api.Group("/admin", admin)
		{
			adminGroup.POST("/generate-overwrite-code", h.admin.GenerateOverwriteCode)
			adminGroup.GET("/:adminId/properties", h.admin.AdminProperties)
			adminGroup.POST("/whitelist/upload", h.admin.UploadWhitelist)
			adminGroup.GET("/whitelist", h.admin.Whitelist)
			adminGroup.DELETE("/whitelist/:id", h.admin.RemoveWhitelisted)
			adminGroup.GET("/notifications/stats", h.notifications.GetStats)
			adminGroup.GET("/notifications/pending", h.notifications.GetPending)
			adminGroup.POST("/notifications/flush", h.notifications.Flush)
			adminGroup.GET("/connections", h.ws.GetConnectedClients)
		}

		properties := api.Group("/properties")
		{
			properties.GET("", h.properties.List)
			properties.POST("", admin, h.properties.Create)
			properties.GET("/:id", h.properties.Get)
			properties.PATCH("/:id", admin, h.properties.Update)
			properties.DELETE("/:id", admin, h.properties.Delete)
			properties.GET("/:id/units", h.properties.Units)
		}

		units := api.Group("/units")
		{
			units.GET("", h.units.List)
			units.POST("", admin, h.units.Create)
			units.GET("/:id", h.units.Get)
			units.PATCH("/:id", admin, h.units.Update)
			units.DELETE("/:id", admin, h.units.Delete)
			units.GET("/:id/requests", admin, h.maintenance.ListByUnit)
			units.PUT("/:id/owner", admin, h.units.SetOwner)
		}

		tenants := api.Group("/tenants")
		{
			tenants.GET("", h.tenants.List)
			tenants.POST("", h.tenants.Create)
			tenants.GET("/:id", h.tenants.Get)
			tenants.PUT("/:id/unit", admin, h.tenants.AssignUnit)
			tenants.DELETE("/:id", h.tenants.Delete)
		}

		h.vendors.Register(api.Group("/vendors"))
		h.leases.Register(api.Group("/leases"))
		h.payments.Register(api.Group("/payments"))
		h.expenses.Register(api.Group("/expenses"))
		h.messages.Register(api.Group("/messages"))

		user := api.Group("/user")
		{
			user.GET("", h.users.Me)
			user.PATCH("", h.users.Update)
			user.DELETE("", h.users.Delete)
		}
	}
}

// Router exposes the configured engine, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.app
}

// Start runs the background workers and serves HTTP until ctx is
// cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.dispatcher.Start(ctx)
	s.overdue.Start(ctx)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + s.cfg.Port,
		Handler:           s.app,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
