package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"uni-guide/backend/config"
	"uni-guide/backend/internal/api/handler"
	"uni-guide/backend/internal/api/middleware"
	"uni-guide/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
// rdb 为 nil 时不启用限流
func Setup(cfg *config.Config, h *handler.Handler, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimitBytes))

	// ── 健康检查 ──
	r.GET("/health", h.Health.Health)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	if rl := cfg.Server.RateLimit; rl.Enabled && rdb != nil {
		v1.Use(middleware.RateLimit(rdb, rl.Requests, rl.Window, logger))
	}
	{
		// 课程目录
		catalog := v1.Group("/catalog")
		{
			catalog.GET("/courses", h.Catalog.ListCourses)
			catalog.GET("/courses/:id", h.Catalog.GetCourse)
			catalog.GET("/integrity", h.Catalog.Integrity)
		}

		// 学生档案
		profile := v1.Group("/profile")
		{
			profile.GET("", h.Profile.GetProfile)
			profile.POST("/onboarding", h.Profile.Onboard)
			profile.POST("/completed", h.Profile.AddCompleted)
			profile.DELETE("/completed/:courseId", h.Profile.RemoveCompleted)
			profile.POST("/undo", h.Profile.Undo)
			profile.POST("/transcript", h.Profile.ImportTranscript)
		}

		// 学期计划
		plans := v1.Group("/plans")
		{
			plans.GET("", h.Plan.ListPlans)
			plans.POST("", h.Plan.CreatePlan)
			plans.GET("/:id", h.Plan.GetPlan)
			plans.PUT("/:id", h.Plan.UpdatePlan)
			plans.DELETE("/:id", h.Plan.DeletePlan)
			plans.PUT("/:id/current", h.Plan.SetCurrentPlan)
			plans.POST("/:id/courses", h.Plan.AddCourse)
			plans.DELETE("/:id/courses/:courseId", h.Plan.RemoveCourse)
			plans.GET("/:id/validation", h.Plan.ValidatePlan)
			plans.GET("/:id/timetable", h.Timetable.GetWeekly)
			plans.GET("/:id/timetable.ics", h.Timetable.ExportICS)
		}

		// 课程网格
		curriculum := v1.Group("/curriculum")
		{
			curriculum.GET("", h.Curriculum.GetCurriculum)
			curriculum.POST("/assign", h.Curriculum.Assign)
			curriculum.POST("/unassign", h.Curriculum.Unassign)
			curriculum.POST("/move", h.Curriculum.Move)
			curriculum.POST("/lock", h.Curriculum.ToggleLock)
			curriculum.PUT("/current", h.Curriculum.SetCurrent)
			curriculum.POST("/saved", h.Curriculum.AddSaved)
			curriculum.DELETE("/saved/:courseId", h.Curriculum.RemoveSaved)
			curriculum.POST("/reset", h.Curriculum.Reset)
			curriculum.GET("/validation", h.Curriculum.Validate)
			curriculum.GET("/export", h.Export.ExportCurriculum)
		}

		// 毕业进度
		v1.GET("/progress", h.Progress.GetProgress)
		v1.GET("/recommendations", h.Progress.Recommendations)

		// 规划向导
		wizard := v1.Group("/wizard")
		{
			wizard.GET("", h.Wizard.GetState)
			wizard.POST("/career", h.Wizard.SelectCareer)
			wizard.POST("/mode", h.Wizard.SelectMode)
			wizard.POST("/selection", h.Wizard.SelectCourses)
			wizard.POST("/apply", h.Wizard.Apply)
			wizard.POST("/back", h.Wizard.Back)
			wizard.POST("/reset", h.Wizard.Reset)
		}
	}

	return r
}
