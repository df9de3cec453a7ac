// Package main 是应用程序的入口点。
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"roomie-match-go/internal/config"
	"roomie-match-go/internal/handler"
	"roomie-match-go/internal/middleware"
	"roomie-match-go/internal/model"
	"roomie-match-go/internal/repository"
	"roomie-match-go/internal/service"
	"roomie-match-go/internal/store"
	"roomie-match-go/pkg/database"
	"roomie-match-go/pkg/es"
	"roomie-match-go/pkg/kafka"
	"roomie-match-go/pkg/log"
	"roomie-match-go/pkg/storage"
	"roomie-match-go/pkg/token"
)

func main() {
	// 1. 初始化配置
	config.Init("./configs/config.yaml")
	cfg := config.Conf

	// 2. 初始化日志记录器
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync() // 确保在程序退出时刷新所有缓冲的日志条目
	log.Info("日志记录器初始化成功")

	// 3. 初始化数据库与外部依赖
	database.InitMySQL(cfg.Database.MySQL.DSN)
	database.InitRedis(cfg.Database.Redis.Addr, cfg.Database.Redis.Password, cfg.Database.Redis.DB)
	storage.InitMinIO(cfg.MinIO)
	if err := es.InitES(cfg.Elasticsearch); err != nil {
		log.Errorf("es 初始化失败 %s", err)
		return
	}
	kafka.InitProducer(cfg.Kafka)
	defer kafka.Close()

	// 4. 初始化存储契约与 Repository
	docs, err := store.NewGormDocumentStore(database.DB)
	if err != nil {
		log.Fatalf("初始化文档存储失败: %v", err)
	}
	stream := store.NewRedisKeyedStream(database.RDB)

	userRepo := repository.NewUserRepository(docs)
	quizRepo := repository.NewQuizRepository(docs)
	moodRepo := repository.NewMoodRepository(docs)
	chatRepo := repository.NewChatRepository(docs, stream)

	// 5. 初始化 Service (依赖注入)
	jwtManager := token.NewJWTManager(cfg.JWT.Secret, cfg.JWT.TokenExpireHours)
	userService := service.NewUserService(userRepo)
	quizService := service.NewQuizService(quizRepo, userRepo)
	moodService := service.NewMoodService(moodRepo, userRepo)
	chatService := service.NewChatService(chatRepo, userRepo)

	// 6. 设置 Gin 模式并创建路由引擎
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.Recovery())

	// 7. 注册路由
	userHandler := handler.NewUserHandler(userService)
	quizHandler := handler.NewQuizHandler(quizService)
	moodHandler := handler.NewMoodHandler(moodService)
	chatHandler := handler.NewChatHandler(chatService)

	api := r.Group("/api")
	{
		// 健康检查，无需认证
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":    "OK",
				"message":   "Server is running",
				"timestamp": model.NowISO(),
			})
		})

		// Auth 路由组：档案读写带本人或管理员限制
		auth := api.Group("/auth")
		auth.Use(middleware.AuthMiddleware(jwtManager))
		{
			auth.GET("/users", userHandler.ListUsers)
			user := auth.Group("/user/:userId")
			user.Use(middleware.SelfOrAdmin())
			{
				user.GET("", userHandler.GetUser)
				user.PUT("", userHandler.UpdateUser)
				user.POST("/photo", userHandler.UploadPhoto)
			}
		}

		// Quiz 路由组
		quiz := api.Group("/quiz")
		{
			quiz.GET("/questions", quizHandler.GetQuestions)

			authed := quiz.Group("")
			authed.Use(middleware.AuthMiddleware(jwtManager))
			{
				authed.POST("/:userId", quizHandler.SubmitQuiz)
				authed.GET("/compatibility/:userId", quizHandler.GetCompatibility)
			}
		}

		// Mood 路由组
		mood := api.Group("/mood")
		{
			mood.GET("/options", moodHandler.GetMoodOptions)

			authed := mood.Group("")
			authed.Use(middleware.AuthMiddleware(jwtManager))
			{
				authed.GET("", moodHandler.GetAllMoods)
				authed.POST("/:userId", moodHandler.UpdateMood)
				authed.GET("/:userId", moodHandler.GetUserMood)
			}
		}

		// Chat 路由组
		chat := api.Group("/chat")
		chat.Use(middleware.AuthMiddleware(jwtManager))
		{
			chat.POST("/:chatId/messages", chatHandler.SendMessage)
			chat.GET("/:chatId/messages", chatHandler.GetMessages)
			chat.GET("/user/:userId", chatHandler.GetUserChats)
			chat.PUT("/:chatId/read/:userId", chatHandler.MarkAsRead)
			chat.GET("/:chatId/ws", chatHandler.StreamMessages)
		}
	}

	// 启动 HTTP 服务器并实现优雅停机
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("服务启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP 服务监听失败: %s\n", err)
		}
	}()

	// 等待中断信号以实现优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("接收到停机信号，正在关闭服务...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("HTTP 服务器关闭失败: %v", err)
	}
	log.Info("服务已优雅关闭")
}
