package handler

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/coinctrl/coinctrl/internal/middleware"
	"github.com/coinctrl/coinctrl/internal/notify"
	"github.com/coinctrl/coinctrl/internal/service"
	"github.com/coinctrl/coinctrl/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// DashboardHandler handles dashboard aggregation API requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
	hub              *notify.Hub
	baseHost         string
	upgrader         websocket.Upgrader
}

// NewDashboardHandler creates a new DashboardHandler. baseURL pins the
// origin allowed to open the websocket; auth rides the session cookie, so
// cross-origin upgrades must be refused.
func NewDashboardHandler(dashboardService *service.DashboardService, hub *notify.Hub, baseURL string) *DashboardHandler {
	h := &DashboardHandler{
		dashboardService: dashboardService,
		hub:              hub,
	}
	if u, err := url.Parse(baseURL); err == nil {
		h.baseHost = u.Host
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// checkOrigin accepts same-origin requests (no Origin header, or one whose
// host matches the configured base URL or the request host).
func (h *DashboardHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if h.baseHost != "" && strings.EqualFold(u.Host, h.baseHost) {
		return true
	}
	return strings.EqualFold(u.Host, r.Host)
}

func queryPeriod(c *gin.Context) string {
	period := c.DefaultQuery("period", service.PeriodThisMonth)
	switch period {
	case service.PeriodThisMonth, service.PeriodLastMonth, service.PeriodThisYear, service.PeriodAllTime:
		return period
	}
	return ""
}

// Summary returns income, expense, balance, counts and recent transactions
// for the requested period
// GET /api/v1/dashboard/summary
func (h *DashboardHandler) Summary(c *gin.Context) {
	period := queryPeriod(c)
	if period == "" {
		response.BadRequest(c, "invalid period")
		return
	}

	summary, err := h.dashboardService.GetSummary(middleware.GetUserID(c), period)
	if err != nil {
		response.InternalError(c, "failed to build summary")
		return
	}
	response.Success(c, summary)
}

// ByCategory returns per-category totals for the requested period
// GET /api/v1/dashboard/by-category
func (h *DashboardHandler) ByCategory(c *gin.Context) {
	period := queryPeriod(c)
	if period == "" {
		response.BadRequest(c, "invalid period")
		return
	}

	totals, err := h.dashboardService.GetByCategory(middleware.GetUserID(c), period)
	if err != nil {
		response.InternalError(c, "failed to aggregate by category")
		return
	}
	response.Success(c, totals)
}

// Monthly returns income and expense totals for the last twelve months
// GET /api/v1/dashboard/monthly
func (h *DashboardHandler) Monthly(c *gin.Context) {
	totals, err := h.dashboardService.GetMonthly(middleware.GetUserID(c))
	if err != nil {
		response.InternalError(c, "failed to aggregate by month")
		return
	}
	response.Success(c, totals)
}

// Live upgrades the connection to a websocket that receives change events
// whenever the user's transactions or goals mutate
// GET /api/v1/dashboard/ws
func (h *DashboardHandler) Live(c *gin.Context) {
	userID := middleware.GetUserID(c)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the error response
		middleware.LogError("websocket upgrade failed for user %d: %v", userID, err)
		return
	}

	h.hub.Register(userID, conn)

	// Seed the new client with the current picture
	if summary, err := h.dashboardService.GetSummary(userID, service.PeriodThisMonth); err == nil {
		h.hub.Push(userID, notify.Event{Type: "summary", Payload: summary})
	}
}

// RegisterRoutes registers dashboard routes
func (h *DashboardHandler) RegisterRoutes(rg *gin.RouterGroup) {
	dashboard := rg.Group("/dashboard")
	{
		dashboard.GET("/summary", h.Summary)
		dashboard.GET("/by-category", h.ByCategory)
		dashboard.GET("/monthly", h.Monthly)
		dashboard.GET("/ws", h.Live)
	}
}
