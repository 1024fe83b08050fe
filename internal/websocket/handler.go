package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs handles a websocket upgrade from a viewer tab.
func ServeWs(hub *Hub, c *websocket.Conn) {
	client := &Client{Hub: hub, Conn: c, Send: make(chan []byte, 256)}
	client.Hub.register <- client

	go client.writePump()
	client.readPump() // keeps the fiber handler alive for the connection
}
