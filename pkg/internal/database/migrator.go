package database

import (
	"fmt"

	"git.solsynth.dev/hypernet/scribe/pkg/internal/models"
	"gorm.io/gorm"
)

var AutoMaintainRange = []any{
	&models.Account{},
	&models.AuthSession{},
	&models.Profile{},
	&models.Category{},
	&models.Tag{},
	&models.Post{},
	&models.Comment{},
	&models.PostLike{},
	&models.Bookmark{},
	&models.Follow{},
	&models.Notification{},
}

func RunMigration(source *gorm.DB, channel string) error {
	if err := source.AutoMigrate(AutoMaintainRange...); err != nil {
		return err
	}

	statements, err := triggerStatements(channel)
	if err != nil {
		return err
	}
	for _, statement := range statements {
		if err := source.Exec(statement).Error; err != nil {
			return fmt.Errorf("unable to install trigger: %v", err)
		}
	}

	return nil
}
