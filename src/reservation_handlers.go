package main

import (
	"errors"
	"log"
	"net/http"
	"time"

	"vbs/src/common"
	"vbs/src/config"
	"vbs/src/db"
	"vbs/src/models"
	"vbs/src/types"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func reservationHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/reservations", func(ctx *gin.Context) {
			var body types.CreateReservationRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			startTime, err := time.Parse(config.TIME_PARSE_FORMAT, body.StartTime)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			endTime, err := time.Parse(config.TIME_PARSE_FORMAT, body.EndTime)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			result, err := common.GetCoordinator().Initiate(common.InitiateInput{
				CustomerID:   userId,
				VenueID:      body.VenueID,
				StartTime:    startTime,
				EndTime:      endTime,
				CoachID:      body.CoachID,
				EquipmentIDs: body.EquipmentIDs,
				QuotedAmount: body.QuotedAmount,
			})
			if err != nil {
				log.Printf("Error initiating reservation for user %d: %s\n", userId, err.Error())
				status, payload := reservationErrorResponse(err)
				ctx.JSON(status, payload)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": result})
		}).
		POST("/reservations/:id/confirm", func(ctx *gin.Context) {
			var params types.PendingURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			pendingId := uuid.MustParse(params.ID)
			userId := ctx.GetUint("id")
			bookingId, err := common.GetCoordinator().Confirm(userId, pendingId)
			if err != nil {
				log.Printf("Error confirming reservation %s for user %d: %s\n", pendingId, userId, err.Error())
				status, payload := reservationErrorResponse(err)
				ctx.JSON(status, payload)
				return
			}
			db := db.GetDb()
			var booking models.Booking
			if err := db.
				Model(&models.Booking{}).
				Where("id = ?", bookingId).
				First(&booking).
				Error; err != nil {
				ctx.JSON(http.StatusOK, gin.H{"data": gin.H{"booking_id": bookingId}})
				return
			}
			email := ctx.GetString("email")
			go common.SendBookingReceipt(email, booking.Reference, booking.TotalAmount, booking.Currency)
			ctx.JSON(http.StatusOK, gin.H{"data": booking})
		}).
		GET("/reservations", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var pending []models.PendingReservation
			if err := db.
				Model(&models.PendingReservation{}).
				Where("payer_id = ?", userId).
				Order("created_at desc").
				Limit(100).
				Find(&pending).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": pending, "count": len(pending)})
		}).
		GET("/reservations/:id", func(ctx *gin.Context) {
			var params types.PendingURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var pending models.PendingReservation
			if err := db.
				Model(&models.PendingReservation{}).
				Where("id = ? AND payer_id = ?", params.ID, userId).
				Preload("Booking").
				First(&pending).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": pending})
		})
	return g
}

// reservationErrorResponse maps coordinator failures onto HTTP statuses. The
// paid-but-unbookable case gets a distinguished payload so clients can route
// the customer to a refund flow instead of a retry.
func reservationErrorResponse(err error) (int, gin.H) {
	var unbookable *common.PaidUnbookableError
	if errors.As(err, &unbookable) {
		return http.StatusConflict, gin.H{
			"error":                  unbookable.Error(),
			"pending_reservation_id": unbookable.PendingID,
			"refund_required":        true,
		}
	}
	var conflict *common.ConflictError
	if errors.As(err, &conflict) {
		return http.StatusConflict, gin.H{"error": conflict.Error(), "resource": conflict.Key}
	}
	switch {
	case errors.Is(err, common.ErrInvalidInterval), errors.Is(err, common.ErrDuplicateEquipment):
		return http.StatusBadRequest, gin.H{"error": err.Error()}
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound, gin.H{"error": err.Error()}
	case errors.Is(err, common.ErrForbidden):
		return http.StatusForbidden, gin.H{"error": err.Error()}
	case errors.Is(err, common.ErrInvalidState), errors.Is(err, common.ErrContended):
		return http.StatusConflict, gin.H{"error": err.Error()}
	case errors.Is(err, common.ErrAmountMismatch):
		return http.StatusUnprocessableEntity, gin.H{"error": err.Error()}
	case errors.Is(err, common.ErrGateway):
		return http.StatusBadGateway, gin.H{"error": err.Error()}
	}
	return http.StatusUnprocessableEntity, gin.H{"error": err.Error()}
}
