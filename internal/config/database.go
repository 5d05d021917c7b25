package config

import (
	"fmt"
	"log"
	"net"
	"net/url"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB is the global database instance
var DB *gorm.DB

// ConnectDatabase opens the configured MySQL or Postgres database
func ConnectDatabase(cfg *Config) (*gorm.DB, error) {
	dialector, err := Dialector(cfg.Database)
	if err != nil {
		return nil, err
	}

	// Configure GORM logger based on mode
	var gormLogger logger.Interface
	if cfg.IsDev() {
		gormLogger = logger.Default.LogMode(logger.Info)
	} else {
		gormLogger = logger.Default.LogMode(logger.Error)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true, // Better performance
		TranslateError:         true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB for connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Set global DB instance
	DB = db

	log.Printf("✅ Database connected successfully [%s %s:%s/%s]",
		cfg.Database.Driver,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
	)

	return db, nil
}

// Dialector returns the GORM dialector for the configured driver
func Dialector(d DatabaseConfig) (gorm.Dialector, error) {
	switch d.Driver {
	case DriverMySQL:
		return mysql.Open(MySQLDSN(d)), nil
	case DriverPostgres:
		return postgres.Open(PostgresDSN(d)), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", d.Driver)
	}
}

// MySQLDSN returns the MySQL connection string
func MySQLDSN(d DatabaseConfig) string {
	c := mySQLConfig(d)
	c.ParseTime = true
	c.Loc = time.Local
	c.Params = map[string]string{"charset": "utf8mb4"}
	return c.FormatDSN()
}

// PostgresDSN returns the Postgres connection string
func PostgresDSN(d DatabaseConfig) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, d.Port),
		Path:     "/" + d.DBName,
		RawQuery: url.Values{"sslmode": {d.SSLMode}}.Encode(),
	}
	return u.String()
}

// MigrateURL returns the golang-migrate database URL
func MigrateURL(d DatabaseConfig) string {
	if d.Driver == DriverPostgres {
		return PostgresDSN(d)
	}
	c := mySQLConfig(d)
	c.MultiStatements = true
	return "mysql://" + c.FormatDSN()
}

// mySQLConfig lets the driver format credentials so that reserved
// characters in the password survive parsing.
func mySQLConfig(d DatabaseConfig) *gomysql.Config {
	c := gomysql.NewConfig()
	c.User = d.User
	c.Passwd = d.Password
	c.Net = "tcp"
	c.Addr = net.JoinHostPort(d.Host, d.Port)
	c.DBName = d.DBName
	return c
}

// CloseDatabase closes the database connection
func CloseDatabase() error {
	if DB == nil {
		return nil
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

// HealthCheck checks if database is healthy
func HealthCheck() error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	return sqlDB.Ping()
}
