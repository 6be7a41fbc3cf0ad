package frontend

import (
	"strings"
	"time"

	"github.com/dpapathanasiou/go-recaptcha"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func remoteAddr(c *gin.Context) string {
	if v := c.GetHeader("X-Forwarded-For"); v != "" {
		if idx := strings.IndexByte(v, ','); idx >= 0 {
			v = v[:idx]
		}
		return strings.TrimSpace(v)
	}
	if v := c.GetHeader("X-Real-Ip"); v != "" {
		return v
	}
	return c.ClientIP()
}

func (h *handler) confirmCaptcha(c *gin.Context, token string) bool {
	if !h.recaptchaEnabled {
		return true
	}

	ok, err := recaptcha.Confirm(remoteAddr(c), token)
	if err != nil {
		zap.L().Warn("recaptcha", zap.Error(err))
		return false
	}
	return ok
}

// routeRequest upgrades to a websocket. With recaptcha enabled the first message must be the token.
func (h *handler) routeRequest(c *gin.Context) {
	ws, err := websocketUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zap.L().Debug("websocket upgrade", zap.Error(err))
		return
	}
	defer ws.Close()

	////////////////////////////////////////////////////////////////////////////////////////////////////

	if h.recaptchaEnabled {
		ws.SetReadDeadline(time.Now().Add(10 * time.Second))
		_, msg, err := ws.ReadMessage()
		if err != nil {
			zap.L().Debug("no recaptcha token", zap.Error(err))
			return
		}
		if !h.confirmCaptcha(c, string(msg)) {
			return
		}
		ws.SetReadDeadline(time.Time{})
	}

	h.pool.Do(c.Request.Context(), ws)
}
