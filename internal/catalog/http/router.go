package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const healthStatusOK = "ok"

func RegisterRoutes(router *gin.Engine, handler *Handler) {
	api := router.Group("/api")
	api.POST("/generate-description", handler.GenerateDescription)
	api.POST("/publish-product", handler.PublishProduct)
	api.GET("/get-products", handler.GetProducts)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": healthStatusOK})
	})
}
