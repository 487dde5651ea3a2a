package routev1

import (
	apperrors "vericlass.io/application/appErrors"
	"vericlass.io/application/controller"
	"vericlass.io/application/controller/dto"
	"vericlass.io/application/interfaces"

	"github.com/gin-gonic/gin"
)

func FaceProfileRouter(router *gin.RouterGroup) {
	faceProfileRouter := router.Group("/face-profile")
	{
		faceProfileRouter.PUT("/", func(ctx *gin.Context) {
			appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
			var body dto.EnrollFaceProfileDTO
			if err := ctx.ShouldBindJSON(&body); err != nil {
				apperrors.ErrorProcessingPayload(ctx, appContext.GetHeader("X-Device-Id"))
				return
			}
			controller.EnrollFaceProfile(&interfaces.ApplicationContext[dto.EnrollFaceProfileDTO]{
				Ctx:      ctx,
				Body:     &body,
				Keys:     appContext.Keys,
				DeviceID: appContext.DeviceID,
			})
		})
	}
}
