package httpapi

import (
	"context"
	"time"

	"meal-grocer/internal/inventory"
	"meal-grocer/internal/metrics"
	"meal-grocer/internal/planner"
	"meal-grocer/internal/shopping"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Service is the part of the application the HTTP API exposes.
type Service interface {
	Today() time.Time
	DefaultRange(from time.Time) (time.Time, time.Time)
	GenerateShoppingList(ctx context.Context, userID string, from, to time.Time) (shopping.CategorizedList, error)
	MarkPurchased(ctx context.Context, userID, itemID string, purchased bool) error
	SavePlan(ctx context.Context, userID string, plan *planner.MealPlan) (int64, error)
	ListPantry(ctx context.Context, userID string) ([]inventory.Item, error)
	AddPantryItem(ctx context.Context, userID string, item *inventory.Item) error
	DeletePantryItem(ctx context.Context, userID, itemID string) error
	SysHealth() metrics.SysHealth
}

// Options configures the router.
type Options struct {
	JWTSecret   []byte
	CORSOrigins []string
}

// NewRouter builds the gin engine with all API routes.
func NewRouter(svc Service, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     opts.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	h := &handler{svc: svc}

	r.GET("/health", h.health)

	api := r.Group("/api", AuthMiddleware(opts.JWTSecret))
	api.GET("/shopping-list", h.getShoppingList)
	api.PUT("/shopping-list/items/:id", h.markItem)
	api.POST("/plans", h.createPlan)
	api.GET("/pantry", h.listPantry)
	api.POST("/pantry", h.addPantryItem)
	api.DELETE("/pantry/:id", h.deletePantryItem)

	return r
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		evt := log.Info()
		if c.Writer.Status() >= 500 {
			evt = log.Error()
		}
		evt.Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("HTTP request")
	}
}
