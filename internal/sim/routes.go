package sim

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/time/rate"
)

// Requests per second and burst allowed per client.
const (
	DefaultRate  = rate.Limit(20)
	DefaultBurst = 40
)

// RegisterRoutes mounts the feeder contract on r.
func RegisterRoutes(r *gin.Engine, dev *Device) {
	h := NewHandler(dev)

	api := r.Group("/", RateLimit(DefaultRate, DefaultBurst))
	{
		api.GET("/status", h.GetStatus)
		api.GET("/ip", h.GetNetwork)
		api.GET("/scan-wifi", h.ScanWiFi)
		api.POST("/config-wifi", h.ConfigureWiFi)
		api.POST("/alimentar", h.Feed)
		api.PUT("/configuracoes", h.UpdateConfig)
		api.GET("/historico", h.GetHistory)
		api.GET("/estatisticas", h.GetStatistics)

		api.GET("/agendamento", h.GetSchedule)
		api.POST("/agendamento", h.CreateSchedule)
		api.PUT("/agendamento", h.UpdateSchedule)
		api.DELETE("/agendamento", h.DeleteSchedule)
	}
	r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// NewRouter returns a bare engine serving dev, with recovery but no request logging.
func NewRouter(dev *Device) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	RegisterRoutes(r, dev)
	return r
}
