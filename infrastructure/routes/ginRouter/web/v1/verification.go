package routev1

import (
	apperrors "vericlass.io/application/appErrors"
	"vericlass.io/application/controller"
	"vericlass.io/application/controller/dto"
	"vericlass.io/application/interfaces"

	"github.com/gin-gonic/gin"
)

func VerificationRouter(router *gin.RouterGroup) {
	verificationRouter := router.Group("/verification")
	{
		verificationRouter.POST("/sessions", func(ctx *gin.Context) {
			appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
			controller.StartVerificationSession(&interfaces.ApplicationContext[any]{
				Ctx:      ctx,
				Keys:     appContext.Keys,
				DeviceID: appContext.DeviceID,
			})
		})

		verificationRouter.POST("/sessions/:id/frames", func(ctx *gin.Context) {
			appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
			var body dto.SubmitFrameDTO
			if err := ctx.ShouldBindJSON(&body); err != nil {
				apperrors.ErrorProcessingPayload(ctx, appContext.GetHeader("X-Device-Id"))
				return
			}
			requestContext := &interfaces.ApplicationContext[dto.SubmitFrameDTO]{
				Ctx:      ctx,
				Body:     &body,
				Keys:     appContext.Keys,
				DeviceID: appContext.DeviceID,
			}
			requestContext.SetContextData("SessionID", ctx.Param("id"))
			controller.SubmitVerificationFrame(requestContext)
		})

		verificationRouter.GET("/sessions/:id", func(ctx *gin.Context) {
			appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
			requestContext := &interfaces.ApplicationContext[any]{
				Ctx:      ctx,
				Keys:     appContext.Keys,
				DeviceID: appContext.DeviceID,
			}
			requestContext.SetContextData("SessionID", ctx.Param("id"))
			controller.GetVerificationSession(requestContext)
		})
	}
}
