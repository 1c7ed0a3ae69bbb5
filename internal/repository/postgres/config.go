package postgres

import "fmt"

type Config struct {
	Host     string `yaml:"host" env:"PG_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"PG_PORT" env-default:"5432"`
	DBName   string `yaml:"database_name" env:"PG_DATABASE" env-default:"auction_shop"`
	User     string `yaml:"username" env:"PG_USER" env-default:"postgres"`
	Pass     string `yaml:"password" env:"PG_PASSWORD" env-default:"postgres"`
	MaxConns int    `yaml:"max_connections" env:"PG_MAX_CONNECTIONS" env-default:"10"`
}

func (c *Config) ConnString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s",
		c.User,
		c.Pass,
		c.Host,
		c.Port,
		c.DBName,
	)
}
