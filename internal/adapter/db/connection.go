package db

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"tasktracker/internal/config"
)

const (
	connectTimeout  = 10 * time.Second
	maxOpenConns    = 20
	maxIdleConns    = 10
	connMaxLifetime = 5 * time.Minute
)

// ConnectDB opens the MySQL pool and pings it.
func ConnectDB(ctx context.Context, conf *config.Config) (*sqlx.DB, error) {
	mysqlConf, err := mysqlConfig(conf)
	if err != nil {
		return nil, err
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	db, err := sqlx.ConnectContext(connectCtx, "mysql", mysqlConf.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("connect to mysql at %s: %w", mysqlConf.Addr, err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	zap.L().Info("connected to mysql", zap.String("addr", mysqlConf.Addr), zap.String("database", mysqlConf.DBName))
	return db, nil
}

// mysqlConfig builds the driver config. Extra options come from
// MYSQL_PARAMS. parseTime is always on and the session runs in UTC so
// CURRENT_TIMESTAMP values are written in the zone they are read back in.
func mysqlConfig(conf *config.Config) (*mysql.Config, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s)/%s",
		conf.DbUser,
		conf.DbPassword,
		net.JoinHostPort(conf.DbHost, conf.DbPort),
		conf.DbName,
	)
	if conf.DbParams != "" {
		dsn += "?" + conf.DbParams
	}

	mysqlConf, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse mysql dsn: %w", err)
	}
	mysqlConf.ParseTime = true
	mysqlConf.Loc = time.UTC
	if mysqlConf.Params == nil {
		mysqlConf.Params = make(map[string]string)
	}
	mysqlConf.Params["time_zone"] = "'+00:00'"
	if mysqlConf.Timeout == 0 {
		mysqlConf.Timeout = connectTimeout
	}

	return mysqlConf, nil
}
