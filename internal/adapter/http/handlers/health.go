package handlers

import (
	"context"
	"net/http"
	"os"
	"time"

	"tasktracker/internal/adapter/http/middleware"

	"github.com/gin-gonic/gin"
)

const (
	StatusOk            = "ok"
	StatusDown          = "down"
	StatusNotConfigured = "not_configured"
	healthPingTimeout   = 2 * time.Second
)

// Pinger is satisfied by *sqlx.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// ClientCounter reports the number of live websocket subscribers.
type ClientCounter interface {
	ClientCount() int
}

// RelayChecker is the notification relay as seen by the health report.
type RelayChecker interface {
	Name() string
	Ping(ctx context.Context) error
}

type HealthBasic struct {
	AppName           string `json:"app_name"`
	AppVersion        string `json:"app_version"`
	CurrentSystemTime string `json:"current_system_time"`
	Message           string `json:"message"`
}

type HealthServices struct {
	Store   string `json:"store"`
	Relay   string `json:"relay"`
	Backend string `json:"relay_backend"`
}

type HealthAdvanced struct {
	AppName           string         `json:"app_name"`
	AppVersion        string         `json:"app_version"`
	CurrentSystemTime string         `json:"current_system_time"`
	Language          string         `json:"language"`
	WebsocketClients  int            `json:"websocket_clients"`
	Status            HealthServices `json:"status"`
}

type HealthHandler struct {
	db    Pinger
	hub   ClientCounter
	relay RelayChecker
}

// NewHealthHandler builds the health endpoints. A nil db means the
// in-memory store is in use and is always reported as up.
func NewHealthHandler(db Pinger, hub ClientCounter, relay RelayChecker) *HealthHandler {
	return &HealthHandler{db: db, hub: hub, relay: relay}
}

func (h *HealthHandler) CheckHealth(c *gin.Context) {
	ctx := c.Request.Context()
	statusCode := http.StatusOK
	message := StatusOk

	if !h.checkStore(ctx) {
		statusCode = http.StatusInternalServerError
		message = StatusDown
	}

	c.JSON(statusCode, HealthBasic{
		AppName:           os.Getenv("APP_NAME"),
		AppVersion:        getAppVersion(),
		CurrentSystemTime: time.Now().Format("2006-01-02 15:04:05"),
		Message:           message,
	})
}

func (h *HealthHandler) CheckHealthReport(c *gin.Context) {
	ctx := c.Request.Context()

	storeStatus := StatusDown
	if h.checkStore(ctx) {
		storeStatus = StatusOk
	}

	relayStatus := StatusNotConfigured
	relayBackend := ""
	if h.relay != nil {
		relayBackend = h.relay.Name()
		relayStatus = StatusDown
		if h.checkRelay(ctx) {
			relayStatus = StatusOk
		}
	}

	clients := 0
	if h.hub != nil {
		clients = h.hub.ClientCount()
	}

	c.JSON(http.StatusOK, HealthAdvanced{
		AppName:           os.Getenv("APP_NAME"),
		AppVersion:        getAppVersion(),
		CurrentSystemTime: time.Now().Format("2006-01-02 15:04:05"),
		Language:          middleware.GetLang(c),
		WebsocketClients:  clients,
		Status: HealthServices{
			Store:   storeStatus,
			Relay:   relayStatus,
			Backend: relayBackend,
		},
	})
}

func (h *HealthHandler) checkStore(ctx context.Context) bool {
	if h.db == nil {
		return true
	}
	// Avoid hanging health checks if the database stalls.
	timeoutCtx, cancel := context.WithTimeout(ctx, healthPingTimeout)
	defer cancel()
	return h.db.PingContext(timeoutCtx) == nil
}

func (h *HealthHandler) checkRelay(ctx context.Context) bool {
	timeoutCtx, cancel := context.WithTimeout(ctx, healthPingTimeout)
	defer cancel()
	return h.relay.Ping(timeoutCtx) == nil
}

func getAppVersion() string {
	version := os.Getenv("APP_VERSION")
	if version == "" {
		return "dev"
	}
	return version
}
