package services

import (
	"time"

	"git.solsynth.dev/hypernet/polls/pkg/internal/database"
	"git.solsynth.dev/hypernet/polls/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func DoAutoDatabaseCleanup() {
	retention := viper.GetDuration("database.vote_retention")
	if retention <= 0 {
		retention = 30 * 24 * time.Hour
	}
	deadline := time.Now().Add(-retention)

	log.Debug().Time("deadline", deadline).Msg("Now cleaning up entire database...")

	var count int64
	for _, model := range database.AutoMaintainRange {
		tx := database.C.Unscoped().Where("deleted_at IS NOT NULL").Delete(model)
		if tx.Error != nil {
			log.Error().Err(tx.Error).Msg("An error occurred when running auto database cleanup...")
		}
		count += tx.RowsAffected
	}

	tx := database.C.Unscoped().Where("created_at < ?", deadline.UTC()).Delete(&models.Vote{})
	if tx.Error != nil {
		log.Error().Err(tx.Error).Msg("An error occurred when purging expired votes...")
	}
	count += tx.RowsAffected

	log.Debug().Int64("affected", count).Msg("Clean up entire database accomplished.")
}
