package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/0x5c-0x200f/asterraIO-assignment/internal/ws"
)

// SocketModule mounts the WebSocket endpoint at /ws.
type SocketModule struct {
	Hub *ws.Hub
}

func NewSocketModule(hub *ws.Hub) *SocketModule {
	return &SocketModule{Hub: hub}
}

func (m *SocketModule) Register(rg *gin.RouterGroup) {
	rg.GET("/ws", gin.WrapH(m.Hub))
}
