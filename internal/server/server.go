package server

import (
	"html/template"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/sportsmeet/manager/internal/config"
	"github.com/sportsmeet/manager/internal/handler"
	"github.com/sportsmeet/manager/internal/metrics"
	"github.com/sportsmeet/manager/internal/middleware"
	"github.com/sportsmeet/manager/internal/repository"
	"github.com/sportsmeet/manager/internal/service"
	"github.com/sportsmeet/manager/pkg/cache"
	"github.com/sportsmeet/manager/pkg/display"
	"github.com/sportsmeet/manager/pkg/response"
	"github.com/sportsmeet/manager/pkg/storage"
	"github.com/sportsmeet/manager/pkg/timeutil"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	userRepo := repository.NewUserRepository(db)
	eventRepo := repository.NewEventRepository(db)
	participationRepo := repository.NewParticipationRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	settingRepo := repository.NewSettingRepository(db)

	imageStorage, err := storage.NewCloudinaryStorage()
	if err != nil {
		// Posters are optional; the app runs without upload support.
		log.Printf("cloudinary storage unavailable, poster uploads disabled: %v", err)
		imageStorage = nil
	}

	appCache := cache.New(redisClient, cfg.CacheDir)

	searchSvc := service.NewSearchService(cfg.MeiliSearchHost, cfg.MeiliMasterKey)
	mailer := service.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)

	activitySvc := service.NewActivityService(activityRepo, redisClient)
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.SessionTTLMin)
	userAdminSvc := service.NewUserAdminService(userRepo)
	eventSvc := service.NewEventService(eventRepo, participationRepo, imageStorage, searchSvc, cfg.JoinCapacityTx)
	analyticsSvc := service.NewAnalyticsService(userRepo, eventRepo, participationRepo, appCache)
	settingsSvc := service.NewSettingsService(settingRepo, mailer, appCache)

	authHandler := handler.NewAuthHandler(authSvc, activitySvc)
	dashboardHandler := handler.NewDashboardHandler(userRepo, eventSvc, eventRepo, participationRepo, activityRepo)
	adminUserHandler := handler.NewAdminUserHandler(userAdminSvc, activitySvc)
	adminEventHandler := handler.NewAdminEventHandler(eventSvc, activitySvc)
	adminActivityHandler := handler.NewAdminActivityHandler(activityRepo, redisClient)
	adminAnalyticsHandler := handler.NewAdminAnalyticsHandler(analyticsSvc)
	adminSettingsHandler := handler.NewAdminSettingsHandler(settingsSvc, activitySvc)
	userEventHandler := handler.NewUserEventHandler(eventSvc, searchSvc, activitySvc)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(requestMetrics())

	setupCORS(router, cfg.AllowedOrigins)

	router.SetFuncMap(TemplateFuncs())
	router.LoadHTMLGlob("web/templates/*.tmpl")
	router.Static("/static", "./web/static")

	authMiddleware := middleware.NewAuthMiddleware(userRepo, cfg.JWTSecret)

	router.GET("/", authMiddleware.LoadUser(), func(c *gin.Context) {
		switch {
		case !middleware.IsLoggedIn(c):
			response.Redirect(c, "/auth/login")
		case middleware.IsAdmin(c):
			response.Redirect(c, "/admin/dashboard")
		default:
			response.Redirect(c, "/user/dashboard")
		}
	})

	auth := router.Group("/auth")
	auth.Use(authMiddleware.LoadUser())
	{
		auth.GET("/login", authHandler.ShowLogin)
		auth.POST("/login", authHandler.Login)
		auth.GET("/register", authHandler.ShowRegister)
		auth.POST("/register", authHandler.Register)
		auth.GET("/logout", authHandler.Logout)
		auth.POST("/logout", authHandler.Logout)
	}

	admin := router.Group("/admin")
	admin.Use(authMiddleware.RequireLogin(), authMiddleware.RequireAdmin())
	{
		admin.GET("/dashboard", dashboardHandler.Admin)
		admin.GET("/users", adminUserHandler.Index)
		admin.POST("/users", adminUserHandler.Submit)
		admin.GET("/events", adminEventHandler.Index)
		admin.POST("/events", adminEventHandler.Submit)
		admin.GET("/activity", adminActivityHandler.Index)
		admin.GET("/activity/stream", adminActivityHandler.Stream)
		admin.GET("/analytics", adminAnalyticsHandler.Index)
		admin.GET("/settings", adminSettingsHandler.Index)
		admin.POST("/settings", adminSettingsHandler.Submit)
	}

	user := router.Group("/user")
	user.Use(authMiddleware.RequireLogin())
	{
		user.GET("/dashboard", dashboardHandler.User)
		user.GET("/events", userEventHandler.Browse)
		user.POST("/events", userEventHandler.Join)
		user.GET("/my_events", userEventHandler.MyEvents)
		user.POST("/my_events", userEventHandler.CancelJoin)
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

// Engine exposes the underlying router for handler tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// TemplateFuncs is the func map every rendered template is compiled with.
// Exported so handler tests can load the real templates.
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"displayTime": timeutil.ToDisplayZone,
		"displayDate": timeutil.ToDisplayDate,
		"isoDate": func(v any) string {
			switch t := v.(type) {
			case time.Time:
				return t.Format("2006-01-02")
			case *time.Time:
				if t == nil {
					return ""
				}
				return t.Format("2006-01-02")
			default:
				return ""
			}
		},
		"isoTime": func(t time.Time) string {
			return t.Format("15:04")
		},
		"timeAgo": func(v any) string {
			switch t := v.(type) {
			case time.Time:
				return timeutil.TimeAgo(t, time.Now().UTC())
			case *time.Time:
				if t == nil {
					return ""
				}
				return timeutil.TimeAgo(*t, time.Now().UTC())
			default:
				return ""
			}
		},
		"displayName": display.Name,
		"initials":    display.Initials,
		"sportIcon":   display.SportIcon,
		"sportColor":  display.SportColor,
		"statusBadge": display.StatusBadge,
		"add":         func(a, b int) int { return a + b },
	}
}

func requestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequests.WithLabelValues(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
	}
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	origins := []string{"http://localhost:8080"}
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
