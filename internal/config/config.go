package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server      ServerConfig      `mapstructure:"server" validate:"required"`
	Database    DatabaseConfig    `mapstructure:"database" validate:"required"`
	Catalog     CatalogConfig     `mapstructure:"catalog" validate:"required"`
	Maintenance MaintenanceConfig `mapstructure:"maintenance" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// CORSAllowedOrigins lists the origins allowed by the CORS middleware.
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins" validate:"required,min=1,dive,required"`
}

// DatabaseConfig contains the document store connection settings.
type DatabaseConfig struct {
	URL                    string `mapstructure:"url" validate:"required,url"`
	MaxOpenConns           int    `mapstructure:"max_open_conns" validate:"gt=0"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes" validate:"gt=0"`
	// AutoMigrate applies pending schema migrations when the server starts.
	AutoMigrate bool `mapstructure:"auto_migrate"`
}

// CatalogConfig contains query defaults and bounds for the catalog endpoints.
type CatalogConfig struct {
	DefaultLimit int `mapstructure:"default_limit" validate:"gt=0,ltefield=MaxLimit"`
	MaxLimit     int `mapstructure:"max_limit" validate:"gt=0"`
	MaxPage      int `mapstructure:"max_page" validate:"gt=0"`
}

// MaintenanceConfig contains settings for batch maintenance routines.
type MaintenanceConfig struct {
	Workers   int `mapstructure:"workers" validate:"gt=0,lte=64"`
	BatchSize int `mapstructure:"batch_size" validate:"gt=0,lte=5000"`
}
