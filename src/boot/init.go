package boot

import (
	"log"

	"vbs/src/common"
	"vbs/src/db"
	"vbs/src/lib"
	"vbs/src/models"

	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.User{},
		&models.Venue{},
		&models.Coach{},
		&models.Equipment{},
		&models.Tariff{},
		&models.Booking{},
		&models.PendingReservation{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return db
}

func InitScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	store := &common.GormStore{DB: db.GetDb()}
	if err := common.StartPendingSweep(store); err != nil {
		log.Printf("Error scheduling pending reservation sweep: %s\n", err.Error())
	}
	jobsWaitingInQueue := len(sched.Jobs())
	log.Println("Jobs in queue:", jobsWaitingInQueue)
	sched.Start()
}

func StopScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("Error retrieving Scheduler. Check logs for info")
		return
	}
	err = sched.Shutdown()
	if err != nil {
		log.Println("An error has occurred while shutting stopping Scheduler. Check logs for info")
		return
	}
}
