package handler

import (
	"net/http"
	"strings"

	ws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/dafibh/mierunbo/mierunbo-backend/internal/domain"
	"github.com/dafibh/mierunbo/mierunbo-backend/internal/websocket"
)

// WebSocketHandler upgrades change feed connections and registers them with the hub
type WebSocketHandler struct {
	hub            *websocket.Hub
	allowedOrigins map[string]struct{}
	upgrader       ws.Upgrader
	clock          domain.Clock
}

// NewWebSocketHandler creates a new WebSocketHandler
func NewWebSocketHandler(hub *websocket.Hub, allowedOrigins []string) *WebSocketHandler {
	h := &WebSocketHandler{
		hub:            hub,
		allowedOrigins: make(map[string]struct{}, len(allowedOrigins)),
		clock:          domain.SystemClock,
	}
	for _, origin := range allowedOrigins {
		h.allowedOrigins[origin] = struct{}{}
	}
	h.upgrader = ws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// checkOrigin accepts browsers from the configured origins and clients that send no Origin
func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if _, ok := h.allowedOrigins[origin]; ok {
		return true
	}

	log.Warn().Str("origin", origin).Msg("WebSocket connection rejected: origin not allowed")
	return false
}

// initialFilter builds the starting filter from ?entities=budget,expense&month=2024-06.
// month=current resolves to the current month.
func (h *WebSocketHandler) initialFilter(c echo.Context) (websocket.Filter, error) {
	var filter websocket.Filter
	if raw := c.QueryParam("entities"); raw != "" {
		for _, entity := range strings.Split(raw, ",") {
			if entity = strings.TrimSpace(entity); entity != "" {
				filter.Entities = append(filter.Entities, websocket.EntityType(entity))
			}
		}
	}
	filter.Month = c.QueryParam("month")
	if filter.Month == "current" {
		filter.Month = domain.Today(h.clock).YearMonth()
	}
	if err := filter.Validate(); err != nil {
		return websocket.Filter{}, err
	}
	return filter, nil
}

// HandleWS upgrades GET /ws. The optional entities and month query parameters set the
// starting filter; clients change it later by sending {"entities":[...],"month":"YYYY-MM"}.
func (h *WebSocketHandler) HandleWS(c echo.Context) error {
	filter, err := h.initialFilter(c)
	if err != nil {
		return NewValidationError(c, "Invalid feed filter", []ValidationError{
			{Field: "query", Message: err.Error()},
		})
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Error().Err(err).Msg("WebSocket upgrade failed")
		return err
	}

	client := websocket.NewClient(conn, h.hub)
	h.hub.RegisterFiltered(client, filter)

	log.Info().
		Str("client_id", client.ID()).
		Str("month", filter.Month).
		Int("clients", h.hub.ClientCount()).
		Msg("WebSocket client connected")

	go client.WritePump()
	go client.ReadPump()

	return nil
}
