package middlewares

import (
	"strings"

	"github.com/gin-gonic/gin"
	"vericlass.io/application/interfaces"
	"vericlass.io/application/middlewares"
)

func StudentAuthenticationMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authToken := strings.TrimPrefix(ctx.Request.Header.Get("Authorization"), "Bearer ")
		appContext, next := middlewares.StudentAuthenticationMiddleware(&interfaces.ApplicationContext[any]{
			Ctx:      ctx,
			Keys:     ctx.Keys,
			Header:   ctx.Request.Header,
			DeviceID: ctx.Request.Header.Get("X-Device-Id"),
		}, authToken)
		if next {
			ctx.Set("AppContext", appContext)
			ctx.Next()
		}
	}
}
