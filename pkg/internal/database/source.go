package database

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var C *gorm.DB

func NewGorm() error {
	dsn := viper.GetString("database.dsn")

	var err error
	C, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger: logger.New(&log.Logger, logger.Config{
			Colorful: true,
			LogLevel: lo.Ternary(viper.GetBool("debug.database"), logger.Info, logger.Silent),
		}),
	})

	return err
}

func Ping(ctx context.Context) error {
	conn, err := C.DB()
	if err != nil {
		return err
	}
	return conn.PingContext(ctx)
}
