package config

import (
	"context"
	"fmt"
	"net"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type Database struct {
	Driver   string `yaml:"driver" json:"driver,omitempty"`
	Host     string `yaml:"host" json:"host,omitempty"`
	Port     int64  `yaml:"port" json:"port,omitempty"`
	User     string `yaml:"user" json:"user,omitempty"`
	Password string `yaml:"password" json:"password,omitempty"`
	DbName   string `yaml:"db-name" json:"db-name,omitempty"`
	// MaxOpenConns 为 0 时使用默认值 100
	MaxOpenConns int `yaml:"max-open-conns" json:"max-open-conns,omitempty"`
}

// InitDB 按 driver 选择 mysql / postgres / sqlite 建立连接
func InitDB(database Database, proxyConfig ProxyConfig) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	switch database.Driver {
	case "postgres":
		db, err = InitPg(database)
	case "sqlite":
		db, err = gorm.Open(sqlite.Open(database.DbName), gormConfig())
	case "", "mysql":
		db, err = InitMysql(database, proxyConfig)
	default:
		return nil, fmt.Errorf("不支持的数据库类型: %s", database.Driver)
	}
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	maxOpen := database.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 100
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

func InitPg(database Database) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=disable password=%s TimeZone=UTC",
		database.Host, database.Port, database.User, database.DbName, database.Password)

	// PostgreSQL 驱动不支持自定义 dialer，代理需在网络层配置
	return gorm.Open(postgres.Open(dsn), gormConfig())
}

func InitMysql(database Database, proxyConfig ProxyConfig) (*gorm.DB, error) {
	network := "tcp"

	if proxyConfig.Enabled {
		// 注册自定义dialer到MySQL驱动
		network = fmt.Sprintf("proxy_%d", time.Now().UnixNano())
		dialer := proxyConfig.GetDialer()

		mysqldriver.RegisterDialContext(network, func(ctx context.Context, addr string) (net.Conn, error) {
			return dialer.Dial("tcp", addr)
		})
	}

	dsn := fmt.Sprintf("%s:%s@%s(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		database.User, database.Password, network, database.Host, database.Port, database.DbName)

	return gorm.Open(mysql.Open(dsn), gormConfig())
}

// gormConfig 统一使用 UTC 时间戳
func gormConfig() *gorm.Config {
	return &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
	}
}
