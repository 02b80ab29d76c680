package main

import (
	"log"
	"net/http"
	"time"

	"vbs/src/common"
	"vbs/src/config"
	"vbs/src/db"
	"vbs/src/models"
	"vbs/src/types"

	"github.com/gin-gonic/gin"
)

func venueHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/venues", func(ctx *gin.Context) {
			db := db.GetDb()
			var venues []models.Venue
			if err := db.
				Model(&models.Venue{}).
				Preload("Equipment").
				Limit(100).
				Find(&venues).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": venues, "count": len(venues)})
		}).
		GET("/venues/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			db := db.GetDb()
			var venue models.Venue
			if err := db.
				Model(&models.Venue{}).
				Where("id = ?", params.ID).
				Preload("Equipment").
				Preload("Tariffs").
				First(&venue).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": venue})
		}).
		GET("/venues/:id/slots", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var query types.ListSlotsQuery
			if err := ctx.BindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			date, err := time.Parse(config.DATE_PARSE_FORMAT, query.Date)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			duration := query.Duration
			if duration == 0 {
				duration = config.DefaultSlotMinutes
			}
			engine := common.GetCoordinator().Availability
			seq, err := engine.ListFreeSlots(params.ID, date, duration)
			if err != nil {
				log.Printf("Error listing slots for venue %d: %s\n", params.ID, err.Error())
				ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			slots := []types.Slot{}
			for slot := range seq {
				slots = append(slots, slot)
			}
			ctx.JSON(http.StatusOK, gin.H{"data": slots, "count": len(slots)})
		})
	return g
}
