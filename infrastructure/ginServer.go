package infrastructure

import (
	"fmt"
	"net/http"
	"os"
	"time"

	apperrors "vericlass.io/application/appErrors"
	"vericlass.io/infrastructure/logger"
	middlewares "vericlass.io/infrastructure/middleware"
	ratelimit "vericlass.io/infrastructure/ratelimit"
	webRoutev1 "vericlass.io/infrastructure/routes/ginRouter/web/v1"
	server_response "vericlass.io/infrastructure/serverResponse"
	startup "vericlass.io/infrastructure/startUp"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

type ginServer struct{}

func (s *ginServer) Start() {
	err := godotenv.Load()

	if err != nil {
		logger.Info("error loading env variables")
	}

	startup.StartServices()
	defer startup.CleanUpServices()

	server := gin.Default()
	origins := []string{}
	if os.Getenv("GIN_MODE") == "debug" {
		origins = append(origins, "http://localhost:5174")
	} else if os.Getenv("GIN_MODE") == "release" {
		origins = append(origins, "https://app.vericlass.io", "https://www.vericlass.io")
	}
	corsConfig := cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Device-Id", "User-Agent"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	server.Use(cors.New(corsConfig))
	server.Use(ratelimit.TokenBucketPerIP())
	server.MaxMultipartMemory = 15 << 20

	v1 := server.Group("/api")

	routerV1 := v1.Group("/v1")
	webRoutev1.AuthRouter(routerV1)

	protectedV1 := v1.Group("/v1")
	protectedV1.Use(middlewares.StudentAuthenticationMiddleware())
	{
		webRoutev1.FaceProfileRouter(protectedV1)
		webRoutev1.VerificationRouter(protectedV1)
		webRoutev1.AttendanceRouter(protectedV1)
		webRoutev1.ClassSessionRouter(protectedV1)
	}

	server.GET("/ping", func(ctx *gin.Context) {
		server_response.Responder.Respond(ctx, http.StatusOK, "pong!", nil, nil, nil, nil)
	})

	server.NoRoute(func(ctx *gin.Context) {
		apperrors.NotFoundError(ctx, fmt.Sprintf("%s %s does not exist", ctx.Request.Method, ctx.Request.URL), nil)
	})

	gin_mode := os.Getenv("GIN_MODE")
	port := os.Getenv("PORT")
	if gin_mode == "debug" || gin_mode == "release" {
		logger.Info(fmt.Sprintf("Server starting on PORT %s", port))
		server.Run(fmt.Sprintf(":%s", port))
	} else {
		panic(fmt.Sprintf("invalid gin mode used - %s", gin_mode))
	}
}
