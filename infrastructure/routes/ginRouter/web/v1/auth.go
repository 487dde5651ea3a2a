package routev1

import (
	apperrors "vericlass.io/application/appErrors"
	"vericlass.io/application/controller"
	"vericlass.io/application/controller/dto"
	"vericlass.io/application/interfaces"
	"vericlass.io/application/utils"

	"github.com/gin-gonic/gin"
)

func AuthRouter(router *gin.RouterGroup) {
	authRouter := router.Group("/auth")
	{
		authRouter.POST("/token", func(ctx *gin.Context) {
			var body dto.LoginStudentDTO
			if err := ctx.ShouldBindJSON(&body); err != nil {
				apperrors.ErrorProcessingPayload(ctx, utils.GetStringPointer(ctx.Request.Header.Get("X-Device-Id")))
				return
			}
			controller.LoginStudent(&interfaces.ApplicationContext[dto.LoginStudentDTO]{
				Ctx:      ctx,
				Body:     &body,
				Header:   ctx.Request.Header,
				DeviceID: ctx.Request.Header.Get("X-Device-Id"),
			})
		})
	}
}
