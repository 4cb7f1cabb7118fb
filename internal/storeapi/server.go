package storeapi

import (
	"fmt"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/boutiquehq/boutique/config"
	"github.com/boutiquehq/boutique/pkg/metrics"
)

// Server is the storefront HTTP API backed by Postgres. It is the
// authoritative store for products and orders; promo codes and the admin
// password never reach it.
type Server struct {
	cfg *config.AppConfig
	db  *gorm.DB
	e   *echo.Echo
}

func NewServer(cfg *config.AppConfig, db *gorm.DB) *Server {
	s := &Server{cfg: cfg, db: db, e: echo.New()}
	s.e.HideBanner = true
	s.e.HidePort = true
	s.e.Use(middleware.Recover())
	s.e.Use(middleware.CORS())
	s.e.Use(s.countRequests)
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.e.GET("/products", s.listProducts)
	s.e.POST("/products", s.upsertProduct)
	s.e.DELETE("/products/:id", s.deleteProduct)
	s.e.POST("/orders", s.createOrder)
	s.e.POST("/admin/login", s.adminLogin)

	// Admin surface. With no jwt secret configured the group stays open,
	// matching the canonical deployment.
	admin := s.e.Group("")
	if s.cfg.Web.JwtSecret != "" {
		admin.Use(echojwt.WithConfig(echojwt.Config{
			SigningKey: []byte(s.cfg.Web.JwtSecret),
		}))
	}
	admin.GET("/orders", s.listOrders)
	admin.POST("/orders/:id/confirm", s.confirmOrder)
}

func (s *Server) countRequests(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		metrics.Incr(metrics.MetricAPIRequest)
		return next(c)
	}
}

// Echo exposes the router for handler tests.
func (s *Server) Echo() *echo.Echo {
	return s.e
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Web.Host, s.cfg.Web.Port)
	zap.L().Info("storefront api listening", zap.String("addr", addr))
	err := s.e.Start(addr)
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown() error {
	return s.e.Close()
}
