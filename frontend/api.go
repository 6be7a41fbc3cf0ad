package frontend

import (
	"net/http"
	"strconv"

	"esologs_check/analysispool"
	"esologs_check/esologs"
	"esologs_check/parse"
	"esologs_check/share"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

const stateInput = "input"

func (h *handler) routeInput(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"state": stateInput})
}

func (h *handler) routeAnalyze(c *gin.Context) {
	rd := analysispool.RequestData{
		Request: parse.Request{
			ReportCode: c.Param("reportId"),
		},
	}

	var err error
	if v := c.Param("fightId"); v != "" {
		rd.FightID, err = strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid fight id"})
			return
		}
	}
	if v := c.Query("source"); v != "" {
		rd.SourceID, err = strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid source id"})
			return
		}
	}

	h.analyze(c, &rd)
}

func (h *handler) routeAnalyzeURL(c *gin.Context) {
	var body struct {
		analysispool.RequestData
		Recaptcha string `json:"recaptcha"`
	}
	err := c.ShouldBindJSON(&body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if body.URL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}
	if !h.confirmCaptcha(c, body.Recaptcha) {
		c.JSON(http.StatusForbidden, gin.H{"error": "recaptcha failed"})
		return
	}

	h.analyze(c, &body.RequestData)
}

func (h *handler) analyze(c *gin.Context, rd *analysispool.RequestData) {
	err := rd.Normalize()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	data, err := h.pool.Analyze(c.Request.Context(), rd)
	switch {
	case err == nil:
		c.Data(http.StatusOK, "application/json; charset=utf-8", data)

	case share.IsContextClosedError(err):
		c.Abort()

	case errors.Is(err, esologs.ErrInvalidReportURL):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.Is(err, parse.ErrDataUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})

	default:
		share.Capture(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
