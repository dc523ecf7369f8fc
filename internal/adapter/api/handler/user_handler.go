package handler

import (
	"github.com/labstack/echo/v4"

	"secretroom/internal/domain/entity"
	"secretroom/internal/usecase"
	"secretroom/pkg/errors"
	"secretroom/pkg/response"
)

type UserHandler struct {
	userUseCase *usecase.UserUseCase
}

func NewUserHandler(userUseCase *usecase.UserUseCase) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
	}
}

func (h *UserHandler) ListAppUsers(c echo.Context) error {
	appUsers, err := h.userUseCase.ListAppUsers(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, appUsers)
}

func (h *UserHandler) SearchAppUsers(c echo.Context) error {
	term := c.QueryParam("q")
	if term == "" {
		return response.Error(c, errors.BadRequest("q is required", nil))
	}

	matches, err := h.userUseCase.SearchAppUsers(c.Request().Context(), term)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, matches)
}

func (h *UserHandler) GetUser(c echo.Context) error {
	user, err := h.userUseCase.GetUser(c.Request().Context(), c.Param("email"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, user)
}

func (h *UserHandler) UploadProfilePicture(c echo.Context) error {
	sess := c.Get("session").(entity.Session)

	fileHeader, err := c.FormFile("picture")
	if err != nil {
		return response.Error(c, errors.BadRequest("picture file is required", err))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.Error(c, errors.BadRequest("failed to read picture", err))
	}
	defer file.Close()

	url, err := h.userUseCase.UploadProfilePicture(c.Request().Context(), sess, file)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, map[string]string{"url": url})
}

func (h *UserHandler) GetProfilePictureURL(c echo.Context) error {
	url, err := h.userUseCase.ProfilePictureURL(c.Request().Context(), c.Param("email"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"url": url})
}
