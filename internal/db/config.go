package db

import (
	"fmt"
	"os"
)

type Config struct {
	Driver     string // "mysql" or "sqlite"
	MySQLDSN   string
	SQLitePath string
}

func LoadConfig() *Config {
	driver := os.Getenv("DB_DRIVER")
	if driver == "" {
		driver = "mysql"
	}
	cfg := &Config{Driver: driver}
	switch driver {
	case "sqlite":
		cfg.SQLitePath = os.Getenv("SQLITE_PATH")
		if cfg.SQLitePath == "" {
			cfg.SQLitePath = "innerbloom.db"
		}
	default:
		cfg.MySQLDSN = os.Getenv("MYSQL_DSN")
		if cfg.MySQLDSN == "" {
			panic("ENV OF MYSQL_DSN IS EMPTY")
		}
	}
	return cfg
}

func (c *Config) Print() {
	if c.Driver == "sqlite" {
		fmt.Println("SQLite path:", c.SQLitePath)
		return
	}
	fmt.Println("MySQL DSN:", c.MySQLDSN)
}
