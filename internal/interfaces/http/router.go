package http

import (
	"github.com/gin-gonic/gin"

	appPayment "github.com/orris-inc/paygate/internal/application/payment"
	"github.com/orris-inc/paygate/internal/infrastructure/ratelimit"
	"github.com/orris-inc/paygate/internal/interfaces/http/handlers"
	"github.com/orris-inc/paygate/internal/interfaces/http/middleware"
	"github.com/orris-inc/paygate/internal/shared/config"
	"github.com/orris-inc/paygate/internal/shared/logger"
)

// Router represents the HTTP router configuration
type Router struct {
	engine         *gin.Engine
	paymentHandler *handlers.PaymentHandler
	allowedOrigins []string
	limiter        ratelimit.RateLimiter
	checkoutLimits ratelimit.Limits
	logger         logger.Interface
}

func NewRouter(service *appPayment.Service, cfg *config.ServerConfig, log logger.Interface) *Router {
	engine := gin.New()
	engine.Use(middleware.Logger(log), middleware.Recovery(log))

	return &Router{
		engine:         engine,
		paymentHandler: handlers.NewPaymentHandler(service, log),
		allowedOrigins: cfg.AllowedOrigins,
		logger:         log,
	}
}

// SetRateLimiter enables per-IP limits on checkout requests.
func (r *Router) SetRateLimiter(limiter ratelimit.RateLimiter, limits ratelimit.Limits) {
	r.limiter = limiter
	r.checkoutLimits = limits
}

// SetupRoutes registers every route.
func (r *Router) SetupRoutes() {
	r.engine.GET("/healthz", handlers.Health)

	api := r.engine.Group("/", middleware.CORS(r.allowedOrigins))
	api.GET("/methods", r.paymentHandler.ListMethods)

	checkout := []gin.HandlerFunc{r.paymentHandler.CreatePayment}
	if r.limiter != nil && !r.checkoutLimits.IsZero() {
		checkout = append([]gin.HandlerFunc{middleware.RateLimit(r.limiter, "checkout", r.checkoutLimits, r.logger)}, checkout...)
	}

	payments := api.Group("/payments")
	payments.POST("", checkout...)
	payments.GET("/return", r.paymentHandler.HandleReturn)
	payments.POST("/postback", r.paymentHandler.HandlePostback)
}

func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
