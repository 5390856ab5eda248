package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SysConfig holds system level settings.
type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

// WebConfig holds the HTTP server settings.
type WebConfig struct {
	Host string `yaml:"host" json:"host"`
	Port int    `yaml:"port" json:"port"`
}

// DBConfig holds the database connection settings. Type selects the gorm
// driver: "postgres" or "sqlite".
type DBConfig struct {
	Type     string `yaml:"type" json:"type"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

// CatalogEntry is one configured menu product.
type CatalogEntry struct {
	Name  string  `yaml:"name" json:"name"`
	Price float64 `yaml:"price" json:"price"`
}

// AppConfig is the root application configuration.
type AppConfig struct {
	System   SysConfig      `yaml:"system" json:"system"`
	Web      WebConfig      `yaml:"web" json:"web"`
	Database DBConfig       `yaml:"database" json:"database"`
	Logger   LogConfig      `yaml:"logger" json:"logger"`
	Catalog  []CatalogEntry `yaml:"catalog" json:"catalog"`
}

// WebListen returns the host:port the web server binds to.
func (c *AppConfig) WebListen() string {
	return fmt.Sprintf("%s:%d", c.Web.Host, c.Web.Port)
}

// PostgresDSN assembles a gorm postgres DSN from the database section.
func (c *AppConfig) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=%s",
		c.Database.Host, c.Database.Port, c.Database.User, c.Database.Passwd, c.Database.Name, c.System.Location)
}

// SqliteDSN returns the sqlite database file path.
func (c *AppConfig) SqliteDSN() string {
	if c.Database.Name == "" {
		return "comandero.db"
	}
	return c.Database.Name
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "Comandero",
		Location: "UTC",
		Workdir:  "/var/comandero",
		Debug:    true,
	},
	Web: WebConfig{
		Host: "0.0.0.0",
		Port: 8000,
	},
	Database: DBConfig{
		Type:     "sqlite",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "comandero",
		User:     "postgres",
		Passwd:   "myroot",
		MaxConn:  100,
		IdleConn: 10,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: false,
		Filename:   "/var/comandero/comandero.log",
	},
}

func setEnvValue(name string, f func(v string)) {
	if v, ok := os.LookupEnv(name); ok {
		f(v)
	}
}

func setEnvInt64Value(name string, f func(v int64)) {
	if v, ok := os.LookupEnv(name); ok {
		var n int64
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			f(n)
		}
	}
}

// LoadConfig reads the YAML configuration file and applies environment
// overrides. A missing or empty path yields the default configuration.
func LoadConfig(cfile string) *AppConfig {
	appConfig := new(AppConfig)
	*appConfig = *DefaultAppConfig
	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			if err := yaml.Unmarshal(data, appConfig); err != nil {
				panic(fmt.Errorf("parse config %s: %w", cfile, err))
			}
		}
	}

	setEnvValue("COMANDERO_SYSTEM_WORKDIR", func(v string) { appConfig.System.Workdir = v })
	setEnvValue("COMANDERO_SYSTEM_DEBUG", func(v string) { appConfig.System.Debug = v == "true" })
	setEnvValue("COMANDERO_WEB_HOST", func(v string) { appConfig.Web.Host = v })
	setEnvInt64Value("COMANDERO_WEB_PORT", func(v int64) { appConfig.Web.Port = int(v) })
	setEnvValue("COMANDERO_DB_TYPE", func(v string) { appConfig.Database.Type = v })
	setEnvValue("COMANDERO_DB_HOST", func(v string) { appConfig.Database.Host = v })
	setEnvInt64Value("COMANDERO_DB_PORT", func(v int64) { appConfig.Database.Port = int(v) })
	setEnvValue("COMANDERO_DB_NAME", func(v string) { appConfig.Database.Name = v })
	setEnvValue("COMANDERO_DB_USER", func(v string) { appConfig.Database.User = v })
	setEnvValue("COMANDERO_DB_PWD", func(v string) { appConfig.Database.Passwd = v })
	setEnvValue("COMANDERO_LOGGER_MODE", func(v string) { appConfig.Logger.Mode = v })

	return appConfig
}
