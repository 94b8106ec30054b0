package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path"

	"github.com/aamishhussain23/finacplus-assignment/internal/dto"
	"github.com/aamishhussain23/finacplus-assignment/internal/service"
	"github.com/aamishhussain23/finacplus-assignment/internal/validate"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserHandler struct {
	svc *service.UserService
	log *zap.Logger
}

func NewUserHandler(svc *service.UserService, log *zap.Logger) *UserHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserHandler{svc: svc, log: log}
}

// GetUser godoc
// @Summary      Get one user
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  dto.UserEnvelope
// @Failure      404  {object}  dto.MessageResponse
// @Failure      500  {object}  dto.MessageResponse
// @Router       /user/get-user/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	u, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.UserEnvelope{Success: true, User: dto.UserToResponse(u)})
}

// ListUsers godoc
// @Summary      List all users
// @Tags         users
// @Produce      json
// @Success      200  {object}  dto.UsersEnvelope
// @Failure      500  {object}  dto.MessageResponse
// @Router       /user/get-all-user [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.UsersEnvelope{Success: true, Users: dto.UsersToSummaries(list)})
}

// Genders godoc
// @Summary      List gender options
// @Tags         users
// @Produce      json
// @Success      200  {object}  dto.GendersEnvelope
// @Router       /user/get-gender [get]
func (h *UserHandler) Genders(c *gin.Context) {
	c.JSON(http.StatusOK, dto.GendersEnvelope{Success: true, Genders: h.svc.Genders()})
}

// AddUser godoc
// @Summary      Register a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      dto.UserRequest  true  "New user"
// @Success      201   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.MessageResponse
// @Failure      409   {object}  dto.MessageResponse
// @Failure      500   {object}  dto.MessageResponse
// @Router       /user/add-user [post]
func (h *UserHandler) AddUser(c *gin.Context) {
	var req dto.UserRequest
	if !h.bind(c, &req) {
		return
	}
	u, err := h.svc.Create(c.Request.Context(), req.Input())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Header("Location", path.Join(path.Dir(c.FullPath()), "get-user", u.ID))
	c.JSON(http.StatusCreated, dto.MessageResponse{Success: true, Message: "User added successfully"})
}

// EditUser godoc
// @Summary      Update a user
// @Description  Only the supplied fields change. The current password is required.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path      string           true  "User ID"
// @Param        body  body      dto.UserRequest  true  "Changed fields plus password"
// @Success      200   {object}  dto.UserEnvelope
// @Failure      400   {object}  dto.MessageResponse
// @Failure      401   {object}  dto.MessageResponse
// @Failure      404   {object}  dto.MessageResponse
// @Failure      409   {object}  dto.MessageResponse
// @Failure      500   {object}  dto.MessageResponse
// @Router       /user/edit-user/{id} [put]
func (h *UserHandler) EditUser(c *gin.Context) {
	var req dto.UserRequest
	if !h.bind(c, &req) {
		return
	}
	u, err := h.svc.Update(c.Request.Context(), c.Param("id"), req.Input(), req.PasswordValue())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.UserEnvelope{
		Success: true,
		Message: "User updated successfully",
		User:    dto.UserToResponse(u),
	})
}

// DeleteUser godoc
// @Summary      Delete a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path      string                 true  "User ID"
// @Param        body  body      dto.DeleteUserRequest  true  "Current password"
// @Success      200   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.MessageResponse
// @Failure      401   {object}  dto.MessageResponse
// @Failure      404   {object}  dto.MessageResponse
// @Failure      500   {object}  dto.MessageResponse
// @Router       /user/delete-user/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	var req dto.DeleteUserRequest
	if !h.bind(c, &req) {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), req.Password); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Success: true, Message: "User deleted successfully"})
}

// NoRoute answers every unknown path.
func NoRoute(c *gin.Context) {
	c.JSON(http.StatusNotFound, dto.MessageResponse{Success: false, Message: "Route not found"})
}

// bind decodes the JSON body into dst. An empty body leaves dst zeroed.
func (h *UserHandler) bind(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	var typeErr *json.UnmarshalTypeError
	msg := "Invalid request body"
	if errors.As(err, &typeErr) {
		if m, ok := validate.TypeMessage(typeErr.Field); ok {
			msg = m
		} else {
			msg = "Invalid value for " + typeErr.Field
		}
	}
	c.JSON(http.StatusBadRequest, dto.MessageResponse{Success: false, Message: msg})
	return false
}

func (h *UserHandler) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		status = http.StatusConflict
	}

	msg := "Internal server error"
	var se *service.Error
	if errors.As(err, &se) {
		msg = se.Message
	}
	if status == http.StatusInternalServerError {
		h.log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(errors.Unwrap(err)),
		)
		_ = c.Error(err)
	}
	c.JSON(status, dto.MessageResponse{Success: false, Message: msg})
}
