package routers

import (
	"github.com/GrainArc/TossMap/services"
	"github.com/GrainArc/TossMap/views"
	"github.com/gin-gonic/gin"
)

func TossRouters(r *gin.Engine) {
	tossService := services.NewTossService()
	TossController := views.NewTossController(tossService)
	throwTrackHandler := views.NewThrowTrackHandler(tossService)

	tossRouter := r.Group("/toss")
	{
		tossRouter.POST("/AddLandscape", TossController.AddLandscape)
		tossRouter.POST("/AddLandscapeZip", TossController.AddLandscapeZip)
		tossRouter.GET("/GetLandscapeList", TossController.GetLandscapeList)
		tossRouter.GET("/GetLandscapeGeo", TossController.GetLandscapeGeo)
		tossRouter.GET("/DelLandscape", TossController.DelLandscape)
		tossRouter.POST("/GetHeight", TossController.GetHeight)
		tossRouter.POST("/Throw", TossController.Throw)
		tossRouter.GET("/GetThrowRecords", TossController.GetThrowRecords)
		tossRouter.GET("/DownloadLandscape", TossController.DownloadLandscape)
		tossRouter.Static("/OutFile", "./OutFile")
	}
	TrackRouter := r.Group("/track")
	{
		TrackRouter.GET("/InitThrow", throwTrackHandler.InitThrow)
	}
}
