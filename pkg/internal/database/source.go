package database

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

var C *gorm.DB

func NewGorm() error {
	dialector, err := newDialector(viper.GetString("database.dialect"), viper.GetString("database.dsn"))
	if err != nil {
		return err
	}

	C, err = gorm.Open(dialector, &gorm.Config{
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		NamingStrategy: schema.NamingStrategy{
			TablePrefix: viper.GetString("database.prefix"),
		},
		Logger: logger.New(&log.Logger, logger.Config{
			Colorful:                  true,
			IgnoreRecordNotFoundError: true,
			LogLevel:                  lo.Ternary(viper.GetBool("debug.database"), logger.Info, logger.Silent),
		}),
	})

	return err
}

func newDialector(dialect, dsn string) (gorm.Dialector, error) {
	switch dialect {
	case "", "postgres":
		return postgres.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database dialect %q", dialect)
	}
}
