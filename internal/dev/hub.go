package dev

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// MessageType tells the browser what to do.
type MessageType string

const (
	MessageReload MessageType = "reload"
	MessageCSS    MessageType = "css"
	MessageError  MessageType = "error"
	MessageClear  MessageType = "clear"
)

// Message is one JSON frame sent to browsers.
type Message struct {
	Type  MessageType `json:"type"`
	Error string      `json:"error,omitempty"`
	File  string      `json:"file,omitempty"`
}

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	sendBuffer = 8
)

// client is one browser tab. Only its write loop touches the connection
// for writing.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans reload messages out to every connected page.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
	wg      sync.WaitGroup

	upgrader websocket.Upgrader
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  512,
			WriteBufferSize: 1024,
			// Pages and the endpoint share an origin only when no proxy
			// rewrites the host, which is not guaranteed in dev.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// HandleWebSocket upgrades the request and keeps the page registered until
// it disconnects.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	if !h.register(c) {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
			time.Now().Add(writeWait))
		conn.Close()
		return
	}

	go func() {
		defer h.wg.Done()
		h.writeLoop(c)
	}()

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.unregister(c)
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	h.wg.Add(1)
	return true
}

// unregister drops c and ends its write loop. It is safe to call twice.
func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) writeLoop(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				h.unregister(c)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.unregister(c)
				return
			}
		}
	}
}

// NotifyReload asks every page to reload.
func (h *Hub) NotifyReload() {
	h.broadcast(Message{Type: MessageReload})
}

// NotifyCSS asks every page to refresh its stylesheets.
func (h *Hub) NotifyCSS(file string) {
	h.broadcast(Message{Type: MessageCSS, File: file})
}

// NotifyError shows errMsg in an overlay on every page.
func (h *Hub) NotifyError(errMsg string) {
	h.broadcast(Message{Type: MessageError, Error: errMsg})
}

// ClearError removes the error overlay.
func (h *Hub) ClearError() {
	h.broadcast(Message{Type: MessageClear})
}

// broadcast queues msg for every client. A client whose queue is full is
// too slow to keep and is dropped.
func (h *Hub) broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			delete(h.clients, c)
			close(c.send)
		}
	}
}

// ClientCount returns the number of connected pages.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every page, refuses new ones and waits for the write
// loops to finish.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
	h.wg.Wait()
}

// ClientScript returns the inline script that connects a page to the hub
// mounted at path.
func ClientScript(path string) string {
	return strings.Replace(clientScript, "ENDPOINT", strconv.Quote(path), 1)
}

// The script reconnects with backoff. A page that reconnects after losing
// the server reloads itself, since the process behind it restarted.
const clientScript = `(() => {
  const overlayID = "portfolio-error-overlay";
  let delay = 500;
  let lost = false;

  const clearOverlay = () => document.getElementById(overlayID)?.remove();

  const showOverlay = (text) => {
    clearOverlay();
    const pre = document.createElement("pre");
    pre.id = overlayID;
    pre.style.cssText = "position:fixed;inset:0;margin:0;padding:24px;z-index:2147483647;overflow:auto;white-space:pre-wrap;font:13px/1.5 monospace;color:#ffb4ab;background:rgba(16,31,56,.95)";
    pre.textContent = text;
    document.body.append(pre);
  };

  const refreshStyles = (file) => {
    const name = file ? file.split(/[\\/]/).pop() : "";
    const links = [...document.querySelectorAll('link[rel="stylesheet"]')];
    const matched = links.filter((l) => new URL(l.href).pathname.endsWith("/" + name));
    for (const link of matched.length ? matched : links) {
      const url = new URL(link.href);
      url.searchParams.set("v", Date.now());
      link.href = url.href;
    }
  };

  const connect = () => {
    const scheme = location.protocol === "https:" ? "wss://" : "ws://";
    const ws = new WebSocket(scheme + location.host + ENDPOINT);
    ws.onopen = () => {
      if (lost) location.reload();
      delay = 500;
    };
    ws.onmessage = (event) => {
      let msg;
      try { msg = JSON.parse(event.data); } catch { return; }
      if (msg.type === "reload") location.reload();
      else if (msg.type === "css") refreshStyles(msg.file);
      else if (msg.type === "error") showOverlay(msg.error);
      else if (msg.type === "clear") clearOverlay();
    };
    ws.onclose = () => {
      lost = true;
      setTimeout(connect, delay);
      delay = Math.min(delay * 2, 10000);
    };
  };

  connect();
})();`
