package routev1

import (
	apperrors "vericlass.io/application/appErrors"
	"vericlass.io/application/controller"
	"vericlass.io/application/controller/dto"
	"vericlass.io/application/interfaces"

	"github.com/gin-gonic/gin"
)

func ClassSessionRouter(router *gin.RouterGroup) {
	sessionRouter := router.Group("/sessions")
	{
		sessionRouter.POST("/", func(ctx *gin.Context) {
			appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
			var body dto.CreateClassSessionDTO
			if err := ctx.ShouldBindJSON(&body); err != nil {
				apperrors.ErrorProcessingPayload(ctx, appContext.GetHeader("X-Device-Id"))
				return
			}
			controller.CreateClassSession(&interfaces.ApplicationContext[dto.CreateClassSessionDTO]{
				Ctx:      ctx,
				Body:     &body,
				Keys:     appContext.Keys,
				DeviceID: appContext.DeviceID,
			})
		})

		sessionRouter.GET("/:id/qr", func(ctx *gin.Context) {
			appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
			requestContext := &interfaces.ApplicationContext[any]{
				Ctx:      ctx,
				Keys:     appContext.Keys,
				DeviceID: appContext.DeviceID,
			}
			requestContext.SetContextData("ClassSessionID", ctx.Param("id"))
			controller.GetClassSessionTicket(requestContext)
		})
	}
}
