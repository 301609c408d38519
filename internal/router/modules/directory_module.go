package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/0x5c-0x200f/asterraIO-assignment/internal/container"
	handlers "github.com/0x5c-0x200f/asterraIO-assignment/internal/interface/http"
	"github.com/0x5c-0x200f/asterraIO-assignment/internal/interface/middleware"
)

// DirectoryModule wires the record-management endpoints:
// POST /users, POST /hobbies, DELETE /users/:id.
// Mutations carry a per-IP rate limit; local traffic bypasses it.
type DirectoryModule struct {
	Handler *handlers.DirectoryHandler
}

func NewDirectoryModule(h *handlers.DirectoryHandler) *DirectoryModule {
	return &DirectoryModule{Handler: h}
}

func (m *DirectoryModule) Register(rg *gin.RouterGroup) {
	limiter := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())

	rg.POST("/users", limiter, m.Handler.CreateUser)
	rg.POST("/hobbies", limiter, m.Handler.CreateHobby)
	rg.DELETE("/users/:id", limiter, m.Handler.DeleteUser)
}
