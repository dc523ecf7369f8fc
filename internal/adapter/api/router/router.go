package router

import (
	"github.com/labstack/echo/v4"

	"secretroom/internal/adapter/api/handler"
	"secretroom/internal/adapter/api/middleware"
	"secretroom/internal/observability"
)

func Setup(
	e *echo.Echo,
	authMiddleware *middleware.AuthMiddleware,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	chatHandler *handler.ChatHandler,
	wsHandler *handler.WebSocketHandler,
) {
	e.GET("/health", handler.Health)
	e.GET("/metrics", observability.Handler())

	setupAuthRoutes(e, authHandler, authMiddleware)
	setupUserRoutes(e, userHandler, authMiddleware)
	setupChatRoutes(e, chatHandler, authMiddleware)

	e.GET("/v1/ws", wsHandler.HandleConnection, authMiddleware.Authenticate)
}

func setupAuthRoutes(e *echo.Echo, h *handler.AuthHandler, m *middleware.AuthMiddleware) {
	auth := e.Group("/v1/auth")
	auth.POST("/register", h.Register)
	auth.POST("/login", h.Login)
	auth.POST("/logout", h.Logout, m.Authenticate)
}

func setupUserRoutes(e *echo.Echo, h *handler.UserHandler, m *middleware.AuthMiddleware) {
	users := e.Group("/v1/users", m.Authenticate)
	users.GET("", h.ListAppUsers)
	users.GET("/search", h.SearchAppUsers)
	users.POST("/me/picture", h.UploadProfilePicture)
	users.GET("/:email", h.GetUser)
	users.GET("/:email/picture", h.GetProfilePictureURL)
}

func setupChatRoutes(e *echo.Echo, h *handler.ChatHandler, m *middleware.AuthMiddleware) {
	chats := e.Group("/v1/chats", m.Authenticate)
	chats.POST("", h.CreateChat)
	chats.GET("", h.GetUserChats)
	chats.DELETE("/:id", h.DeleteChat)
	chats.GET("/:id/messages", h.GetChatMessages)
	chats.POST("/:id/messages", h.SendMessage)
}
