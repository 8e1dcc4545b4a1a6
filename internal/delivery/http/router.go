package http

import (
	"time"

	"github.com/vikramkatyani/lmsBox-sub000/internal/delivery/http/controllers"
	"github.com/vikramkatyani/lmsBox-sub000/internal/delivery/http/controllers/middleware"
	"github.com/vikramkatyani/lmsBox-sub000/internal/service"
	"github.com/vikramkatyani/lmsBox-sub000/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func InitRoutes(l logger.Log, u service.Collection, allowOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	config := cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	r.Use(cors.New(config))

	statusController := controllers.NewStatusHandler("progress-engine")
	progressController := controllers.NewProgressHandler(l, u.ProgressService)
	quizController := controllers.NewQuizHandler(l, u.QuizService)
	courseController := controllers.NewCourseHandler(l, u.CourseService, u.CertificateService)
	surveyController := controllers.NewSurveyHandler(l, u.SurveyService)

	authProvider := middleware.NewAuthMiddlewareProvider(l, u.TokenManager)

	v1 := r.Group("/v1", middleware.LoggingMiddleware(l))
	{
		v1.GET("/status", statusController.Status)

		learner := v1.Group("", authProvider.AuthMiddleware)
		{
			lessons := learner.Group("/lessons")
			{
				lessons.POST("/:lesson_id/events", progressController.PostEvent)
				lessons.GET("/:lesson_id/progress", progressController.Record)
			}

			quizzes := learner.Group("/quizzes")
			{
				quizzes.POST("/:quiz_id/attempts/start", quizController.StartAttempt)
				quizzes.POST("/:quiz_id/attempts", quizController.Submit)
				quizzes.GET("/:quiz_id/attempts", quizController.Attempts)
			}

			courses := learner.Group("/courses")
			{
				courses.GET("/:course_id/summary", courseController.Summary)
				courses.GET("/:course_id/certificate", courseController.Certificate)
				courses.GET("/:course_id/surveys", surveyController.GateState)
				courses.POST("/:course_id/surveys/:phase", surveyController.SubmitResponse)
			}
		}
	}
	return r
}
