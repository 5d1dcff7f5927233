package controllers

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"testpark-console/pkg/utils"
	appwebsocket "testpark-console/pkg/websocket"
)

type WebSocketController struct {
	hub      *appwebsocket.Hub
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewWebSocketController: allowedOrigins пуст - принимается любой Origin.
func NewWebSocketController(hub *appwebsocket.Hub, allowedOrigins []string, logger *zap.Logger) *WebSocketController {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = true
	}
	return &WebSocketController{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(origins) == 0 || origin == "" || origins[origin]
			},
		},
		logger: logger,
	}
}

// ServeWs стоит за AuthMiddleware: токен приходит в ?token=.
func (c *WebSocketController) ServeWs(ctx echo.Context) error {
	p, err := utils.GetPrincipalFromContext(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	conn, err := c.upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		c.logger.Error("WebSocket: не удалось улучшить соединение", zap.Error(err))
		return nil
	}

	c.logger.Info("WebSocket: клиент подключен", zap.String("actor", p.Actor()))
	appwebsocket.NewClient(c.hub, conn, p.Actor()).Serve()
	c.logger.Info("WebSocket: клиент отключен", zap.String("actor", p.Actor()))
	return nil
}
