package handler

import (
	"github.com/labstack/echo/v4"

	"secretroom/internal/domain/entity"
	"secretroom/internal/usecase"
	"secretroom/pkg/errors"
	"secretroom/pkg/response"
)

type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
	}
}

type createChatRequest struct {
	CompanionEmail string `json:"companion_email" validate:"required,email"`
	CompanionName  string `json:"companion_name" validate:"required"`
	FirstMessage   string `json:"first_message" validate:"required"`
	Type           string `json:"type" validate:"omitempty,oneof=text attributed_text photo video location emoji audio contact link_preview custom"`
}

type sendMessageRequest struct {
	CompanionEmail string `json:"companion_email" validate:"required,email"`
	CompanionName  string `json:"companion_name" validate:"required"`
	Content        string `json:"content" validate:"required"`
	Type           string `json:"type" validate:"omitempty,oneof=text attributed_text photo video location emoji audio contact link_preview custom"`
}

func (h *ChatHandler) CreateChat(c echo.Context) error {
	var req createChatRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	sess := c.Get("session").(entity.Session)

	chat, err := h.chatUseCase.CreateChat(c.Request().Context(), sess, usecase.CreateChatInput{
		CompanionEmail: req.CompanionEmail,
		CompanionName:  req.CompanionName,
		FirstMessage:   req.FirstMessage,
		Kind:           entity.MessageKind(req.Type),
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, chat)
}

func (h *ChatHandler) GetUserChats(c echo.Context) error {
	sess := c.Get("session").(entity.Session)

	chats, err := h.chatUseCase.GetUserChats(c.Request().Context(), sess)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, chats)
}

func (h *ChatHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	sess := c.Get("session").(entity.Session)

	message, err := h.chatUseCase.SendMessage(c.Request().Context(), sess, usecase.SendMessageInput{
		ChatID:         c.Param("id"),
		CompanionEmail: req.CompanionEmail,
		CompanionName:  req.CompanionName,
		Content:        req.Content,
		Kind:           entity.MessageKind(req.Type),
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, message)
}

func (h *ChatHandler) GetChatMessages(c echo.Context) error {
	sess := c.Get("session").(entity.Session)

	messages, err := h.chatUseCase.GetChatMessages(c.Request().Context(), sess, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, messages)
}

func (h *ChatHandler) DeleteChat(c echo.Context) error {
	companionEmail := c.QueryParam("companion_email")
	if companionEmail == "" {
		return response.Error(c, errors.BadRequest("companion_email is required", nil))
	}

	sess := c.Get("session").(entity.Session)

	if err := h.chatUseCase.DeleteChat(c.Request().Context(), sess, c.Param("id"), companionEmail); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"status": "deleted"})
}
