package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/lms/internal/app/controllers"
	"github.com/yigit/lms/internal/middleware"
)

// Controllers bundles the handlers mounted by SetupRouter
type Controllers struct {
	Auth   *controllers.AuthController
	User   *controllers.UserController
	Course *controllers.CourseController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, ctrl Controllers, authMiddleware *middleware.AuthMiddleware) {
	router.GET("/health", controllers.Health)

	// API version group
	v1 := router.Group("/api/v1")
	v1.GET("/health", controllers.Health)

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", ctrl.Auth.Register)
		auth.POST("/login", ctrl.Auth.Login)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/auth/me", ctrl.Auth.Me)
		authenticated.GET("/users", ctrl.User.ListUsers)

		// Role and ownership checks live in the course service, not in route middleware
		courses := authenticated.Group("/courses")
		{
			courses.POST("", ctrl.Course.CreateCourse)
			courses.GET("", ctrl.Course.ListCourses)
			courses.GET("/mentor/:mentorId", ctrl.Course.ListMentorCourses)
			courses.GET("/:id", ctrl.Course.GetCourse)
			courses.PUT("/:id", ctrl.Course.UpdateCourse)
			courses.DELETE("/:id", ctrl.Course.DeleteCourse)
			courses.PUT("/:id/approve", ctrl.Course.ApproveCourse)
		}
	}
}
