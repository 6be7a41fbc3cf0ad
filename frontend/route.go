package frontend

import (
	"net/http"
	"path/filepath"

	"esologs_check/analysispool"
	"esologs_check/config"

	"github.com/dpapathanasiou/go-recaptcha"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	websocketUpgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
)

type handler struct {
	pool             *analysispool.Pool
	recaptchaEnabled bool
}

// Route mounts the static site, the websocket and REST analysis endpoints and /metrics.
// An empty recaptcha secret turns the captcha check off.
func Route(g *gin.Engine, cfg config.ServerConfig, recaptchaSecret string, pool *analysispool.Pool) {
	h := &handler{
		pool:             pool,
		recaptchaEnabled: recaptchaSecret != "",
	}
	if h.recaptchaEnabled {
		recaptcha.Init(recaptchaSecret)
	}

	g.Static("/static", filepath.Join(cfg.StaticDir, "static"))

	g.Use(gin.ErrorLogger())
	g.Use(gin.Recovery())

	g.NoMethod(func(c *gin.Context) { c.Redirect(http.StatusTemporaryRedirect, "/") })
	g.NoRoute(func(c *gin.Context) { c.Redirect(http.StatusTemporaryRedirect, "/") })

	g.StaticFile("/", filepath.Join(cfg.StaticDir, "index.htm"))
	g.GET("/analysis", h.routeRequest)
	g.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := g.Group("/api/parse-analysis")
	api.GET("", h.routeInput)
	api.POST("", h.routeAnalyzeURL)
	api.GET("/:reportId", h.routeAnalyze)
	api.GET("/:reportId/:fightId", h.routeAnalyze)
}
