package api

import (
	"github.com/gin-gonic/gin"
)

// BasePath 认证接口根路径
const BasePath = "/api/authentication"

// RegisterRoutes 注册认证路由
func RegisterRoutes(router gin.IRouter, h *Handlers) {
	group := router.Group(BasePath)
	{
		group.POST("/sign-in", h.SignIn())
		group.GET("/authorize", h.Authorize)
		group.GET("/refresh", h.Refresh)
		group.POST("/sign-out", h.SignOut)
		group.POST("/sign-out-all-devices", h.SignOutAll)
		group.GET("/sign-in/google", h.GoogleSignIn)
		group.GET("/callback/google", h.GoogleRedirect)
	}
}
