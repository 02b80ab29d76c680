package main

import (
	"fmt"
	"log"
	"net/http"

	"vbs/src/common"
	"vbs/src/db"
	"vbs/src/lib"
	"vbs/src/models"
	"vbs/src/types"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func bookingHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/bookings", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var bookings []models.Booking
			err := db.Transaction(func(tx *gorm.DB) error {
				err := tx.
					Model(&models.Booking{}).
					Where("customer_id = ?", userId).
					Preload("Venue").
					Preload("Equipment").
					Order("start_time desc").
					Limit(100).
					Find(&bookings).
					Error
				if err != nil {
					return err
				}
				return nil
			})
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": bookings, "count": len(bookings)})
		}).
		GET("/bookings/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var booking models.Booking
			ss := db.Session(&gorm.Session{PrepareStmt: true})
			if err := ss.
				Model(&models.Booking{}).
				Where("id = ? AND customer_id = ?", params.ID, userId).
				Preload("Venue").
				Preload("Coach").
				Preload("Equipment").
				First(&booking).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": booking})
		}).
		PUT("/bookings/:id/cancel", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var booking models.Booking
			err := db.Transaction(func(tx *gorm.DB) error {
				err := tx.
					Model(&models.Booking{}).
					Where("id = ? AND customer_id = ?", params.ID, userId).
					First(&booking).
					Error
				if err != nil {
					return err
				}
				// Only a confirmed booking may be cancelled; the flip frees
				// the slot for rebooking.
				res := tx.
					Model(&models.Booking{}).
					Where("id = ? AND status = ?", params.ID, types.BOOKING_CONFIRMED).
					Updates(&models.Booking{Status: types.BOOKING_CANCELED})
				if res.Error != nil {
					return res.Error
				}
				if res.RowsAffected == 0 {
					return fmt.Errorf("booking [%d] is not in a cancellable state", params.ID)
				}
				return nil
			})
			if err != nil {
				log.Printf("Error cancelling booking %d: %s\n", params.ID, err.Error())
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			go notifyBookingStatus(&booking, "booking.cancelled", fmt.Sprintf("Booking %s was cancelled", booking.Reference))
			ctx.JSON(http.StatusOK, gin.H{"data": gin.H{"id": params.ID, "status": types.BOOKING_CANCELED}})
		}).
		PUT("/bookings/:id/complete", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var booking models.Booking
			err := db.Transaction(func(tx *gorm.DB) error {
				err := tx.
					Model(&models.Booking{}).
					Where("id = ?", params.ID).
					Preload("Venue").
					First(&booking).
					Error
				if err != nil {
					return err
				}
				if booking.Venue == nil || booking.Venue.OwnerID != userId {
					return fmt.Errorf("booking [%d] does not belong to a venue you manage", params.ID)
				}
				if lib.GetClock().Now().Before(booking.EndTime) {
					return fmt.Errorf("booking [%d] has not ended yet", params.ID)
				}
				res := tx.
					Model(&models.Booking{}).
					Where("id = ? AND status = ?", params.ID, types.BOOKING_CONFIRMED).
					Updates(&models.Booking{Status: types.BOOKING_COMPLETED})
				if res.Error != nil {
					return res.Error
				}
				if res.RowsAffected == 0 {
					return fmt.Errorf("booking [%d] is not in a completable state", params.ID)
				}
				return nil
			})
			if err != nil {
				log.Printf("Error completing booking %d: %s\n", params.ID, err.Error())
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			go notifyBookingStatus(&booking, "booking.completed", fmt.Sprintf("Booking %s is complete", booking.Reference))
			ctx.JSON(http.StatusOK, gin.H{"data": gin.H{"id": params.ID, "status": types.BOOKING_COMPLETED}})
		})
	return g
}

func notifyBookingStatus(booking *models.Booking, category, message string) {
	notifier := common.GetCoordinator().Notifier
	link := fmt.Sprintf("/bookings/%d", booking.ID)
	notifier.Notify(fmt.Sprintf("user:%d", booking.CustomerID), message, category, link)
}
