package handlers

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/0x5c-0x200f/asterraIO-assignment/internal/application"
	"github.com/0x5c-0x200f/asterraIO-assignment/internal/domain/entity"
	"github.com/0x5c-0x200f/asterraIO-assignment/pkg/response"
	"github.com/0x5c-0x200f/asterraIO-assignment/pkg/validation"
)

// DirectoryService is the slice of the application service the HTTP layer
// needs.
type DirectoryService interface {
	CreateUser(ctx context.Context, in application.CreateUserInput) (*entity.User, error)
	AddHobby(ctx context.Context, userID int64, hobby string) error
	DeleteUser(ctx context.Context, id int64) error
}

type DirectoryHandler struct {
	Svc    DirectoryService
	Logger *logrus.Logger
}

func NewDirectoryHandler(svc DirectoryService, logger *logrus.Logger) *DirectoryHandler {
	return &DirectoryHandler{Svc: svc, Logger: logger}
}

type createUserRequest struct {
	FirstName   string `json:"firstName" binding:"required"`
	LastName    string `json:"lastName" binding:"required"`
	Address     string `json:"address" binding:"required"`
	PhoneNumber string `json:"phoneNumber" binding:"required"`
}

type createHobbyRequest struct {
	UserID int64  `json:"userId" binding:"required"`
	Hobby  string `json:"hobby" binding:"required"`
}

// CreateUser handles POST /users. The success body echoes the generated id;
// the submitted fields reach other clients through the new_user broadcast.
func (h *DirectoryHandler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid payload", validation.ToDetails(err))
		return
	}

	u, err := h.Svc.CreateUser(c.Request.Context(), application.CreateUserInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		h.Logger.WithError(err).Error("create user failed")
		response.ServerError(c, err)
		return
	}

	h.Logger.WithFields(logrus.Fields{"user_id": u.ID}).Info("user created")
	response.OK(c, "User added successfully", gin.H{"userId": u.ID})
}

// CreateHobby handles POST /hobbies. No check that userId refers to an
// existing user happens here; a violated foreign key surfaces as a 500 like
// any other storage error.
func (h *DirectoryHandler) CreateHobby(c *gin.Context) {
	var req createHobbyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid payload", validation.ToDetails(err))
		return
	}

	if err := h.Svc.AddHobby(c.Request.Context(), req.UserID, req.Hobby); err != nil {
		h.Logger.WithError(err).Error("create hobby failed")
		response.ServerError(c, err)
		return
	}

	h.Logger.WithFields(logrus.Fields{"user_id": req.UserID, "hobby": req.Hobby}).Info("hobby added")
	response.OK(c, "Hobby added successfully", nil)
}

// DeleteUser handles DELETE /users/:id. Deleting an id that never existed
// still returns the generic success message; there is no existence check.
// No broadcast accompanies deletion.
func (h *DirectoryHandler) DeleteUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid user id", map[string]string{"id": "must be numeric"})
		return
	}

	if err := h.Svc.DeleteUser(c.Request.Context(), id); err != nil {
		h.Logger.WithError(err).Error("delete user failed")
		response.ServerError(c, err)
		return
	}

	h.Logger.WithFields(logrus.Fields{"user_id": id}).Info("user deleted")
	response.OK(c, "User deleted successfully", nil)
}
