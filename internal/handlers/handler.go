package handlers

import (
	"pacemaker_dcm/internal/logger"
	"pacemaker_dcm/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// Auth endpoints
	h.registerAuthRoutes(router)

	// Versioned API endpoints (protected)
	h.registerAPIRoutes(router)

	// Live electrogram feed (HTTP upgrade) — same port
	router.GET("/ws/egram", h.wsEgram)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.userIdMiddleware)
	{
		h.registerDeviceRoutes(api)
		h.registerParameterRoutes(api)
		h.registerLogRoutes(api)
	}
}

func (h *Handler) registerDeviceRoutes(api *gin.RouterGroup) {
	device := api.Group("/device")
	{
		device.POST("/connect", h.connectDevice)
		device.POST("/disconnect", h.disconnectDevice)
		device.GET("/status", h.deviceStatus)
		device.GET("/ports", h.listPorts)
	}
}

func (h *Handler) registerParameterRoutes(api *gin.RouterGroup) {
	params := api.Group("/parameters")
	{
		// Body example: {"mode":"VVI","lower_rate_limit":60,...}
		params.POST("", h.applyParameters)
		params.POST("/verify", h.verifyParameters)
		params.GET("/:mode", h.storedParameters)
		params.GET("/:mode/device", h.deviceParameters)
	}
}

func (h *Handler) registerLogRoutes(api *gin.RouterGroup) {
	logs := api.Group("/logs")
	{
		logs.GET("/", h.getLogs)
	}
}
