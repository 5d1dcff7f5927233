package websocket

import (
	"io"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = time.Minute
	pingPeriod = pongWait * 9 / 10
	// Консоль ничего не пишет в сокет, кроме управляющих кадров.
	inboundLimit = 125
	outboxSize   = 32
)

// Client - одна открытая консоль. Канал односторонний: сервер рассылает
// уведомления, от браузера нужны только pong и close.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	outbox chan []byte
	actor  string
}

func NewClient(hub *Hub, conn *websocket.Conn, actor string) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		outbox: make(chan []byte, outboxSize),
		actor:  actor,
	}
}

// Serve регистрирует консоль в хабе и блокируется до закрытия соединения.
func (c *Client) Serve() {
	c.hub.Join(c)
	go c.deliver()
	c.watch()
}

// watch следит за живостью соединения. Кадры данных от консоли
// не обрабатываются и вычитываются вхолостую.
func (c *Client) watch() {
	defer func() {
		c.hub.leave(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(inboundLimit)
	extend := func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	}
	_ = extend("")
	c.conn.SetPongHandler(extend)

	for {
		kind, r, err := c.conn.NextReader()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("WebSocket: соединение оборвано", zap.String("actor", c.actor), zap.Error(err))
			}
			return
		}
		c.hub.logger.Debug("WebSocket: входящий кадр отброшен", zap.String("actor", c.actor), zap.Int("kind", kind))
		if _, err := io.Copy(io.Discard, r); err != nil {
			return
		}
	}
}

// deliver - единственный писатель в conn: уведомления из outbox и ping.
// Закрытый outbox означает, что хаб отключил консоль.
func (c *Client) deliver() {
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ping.Stop()
		_ = c.conn.Close()
	}()

	for {
		var err error
		select {
		case msg, open := <-c.outbox:
			if !open {
				_ = c.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "reconnect"))
				return
			}
			err = c.write(websocket.TextMessage, msg)
		case <-ping.C:
			err = c.write(websocket.PingMessage, nil)
		}
		if err != nil {
			c.hub.logger.Debug("WebSocket: запись не удалась", zap.String("actor", c.actor), zap.Error(err))
			return
		}
	}
}

func (c *Client) write(kind int, data []byte) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(kind, data)
}
