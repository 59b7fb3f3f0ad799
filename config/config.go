// server/config/config.go
package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// --- Các struct con, phản ánh cấu trúc của YAML ---

type ServerConfig struct {
	Port string `mapstructure:"port"`
	// Thời gian chờ tối đa khi tắt server (giây)
	ShutdownTimeout int `mapstructure:"shutdownTimeout"`
}

type StorageConfig struct {
	Driver string `mapstructure:"driver"` // memory | mongo | postgres | sqlite
	Seed   bool   `mapstructure:"seed"`
}

type MongoConfig struct {
	URI    string `mapstructure:"uri"`
	DBName string `mapstructure:"dbName"`
}

type PostgresConfig struct {
	DSN           string `mapstructure:"dsn"`
	RunMigrations bool   `mapstructure:"runMigrations"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type JWTConfig struct {
	Secret     string `mapstructure:"secret"`
	Expiration string `mapstructure:"expiration"`
}

type S3Config struct {
	Bucket           string `mapstructure:"bucket"`
	Region           string `mapstructure:"region"`
	AccessKeyID      string `mapstructure:"accessKeyID"`
	SecretAccessKey  string `mapstructure:"secretAccessKey"`
	CloudFrontDomain string `mapstructure:"cloudFrontDomain"`
}

// Enabled cho biết S3 đã được cấu hình đủ để upload hay chưa.
func (c S3Config) Enabled() bool {
	return c.Bucket != "" && c.Region != ""
}

type RabbitMQConfig struct {
	URL   string `mapstructure:"url"`
	Queue string `mapstructure:"queue"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Encoding    string `mapstructure:"encoding"`
	Development bool   `mapstructure:"development"`
}

type LocaleConfig struct {
	Default    string   `mapstructure:"default"`
	Supported  []string `mapstructure:"supported"`
	CookieName string   `mapstructure:"cookieName"`
}

type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allowOrigins"`
}

type AdminConfig struct {
	Email    string `mapstructure:"email"`
	Name     string `mapstructure:"name"`
	Password string `mapstructure:"password"`
}

// --- Struct Config chính, bao gồm tất cả các struct con ---

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Mongo    MongoConfig    `mapstructure:"mongo"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	SQLite   SQLiteConfig   `mapstructure:"sqlite"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	S3       S3Config       `mapstructure:"s3"`
	RabbitMQ RabbitMQConfig `mapstructure:"rabbitmq"`
	Log      LogConfig      `mapstructure:"log"`
	Locale   LocaleConfig   `mapstructure:"locale"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Admin    AdminConfig    `mapstructure:"admin"`
}

var envBindings = map[string]string{
	"server.port":            "SERVER_PORT",
	"storage.driver":         "STORAGE_DRIVER",
	"storage.seed":           "STORAGE_SEED",
	"mongo.uri":              "MONGO_URI",
	"mongo.dbName":           "MONGO_DBNAME",
	"postgres.dsn":           "POSTGRES_DSN",
	"postgres.runMigrations": "POSTGRES_RUN_MIGRATIONS",
	"sqlite.path":            "SQLITE_PATH",
	"jwt.secret":             "JWT_SECRET",
	"jwt.expiration":         "JWT_EXPIRATION",
	"s3.bucket":              "S3_BUCKET",
	"s3.region":              "S3_REGION",
	"s3.accessKeyID":         "S3_ACCESS_KEY_ID",
	"s3.secretAccessKey":     "S3_SECRET_ACCESS_KEY",
	"s3.cloudFrontDomain":    "S3_CLOUDFRONT_DOMAIN",
	"rabbitmq.url":           "RABBITMQ_URL",
	"rabbitmq.queue":         "RABBITMQ_QUEUE",
	"log.level":              "LOG_LEVEL",
	"log.encoding":           "LOG_ENCODING",
	"log.development":        "LOG_DEVELOPMENT",
	"locale.default":         "LOCALE_DEFAULT",
	"admin.email":            "ADMIN_EMAIL",
	"admin.password":         "ADMIN_PASSWORD",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.shutdownTimeout", 10)
	v.SetDefault("storage.driver", "memory")
	v.SetDefault("storage.seed", true)
	v.SetDefault("mongo.dbName", "inbound_wms")
	v.SetDefault("postgres.runMigrations", true)
	v.SetDefault("sqlite.path", "inbound.db")
	v.SetDefault("jwt.expiration", "24h")
	v.SetDefault("rabbitmq.queue", "inbound.status")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "json")
	v.SetDefault("locale.default", "ko")
	v.SetDefault("locale.supported", []string{"ko", "en", "vi"})
	v.SetDefault("locale.cookieName", "NEXT_LOCALE")
	v.SetDefault("cors.allowOrigins", []string{"http://localhost:3000"})
	v.SetDefault("admin.email", "superadmin@example.com")
	v.SetDefault("admin.name", "Super Admin")
	v.SetDefault("admin.password", "superadminpassword")
	v.SetDefault("jwt.secret", "YOUR_SUPER_SECRET_KEY")
}

// LoadConfig đọc cấu hình từ file và ghi đè bằng các biến môi trường.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	setDefaults(v)
	v.AutomaticEnv()
	for key, env := range envBindings {
		if err = v.BindEnv(key, env); err != nil {
			return
		}
	}

	// Nếu file không tồn tại, Viper sẽ chỉ sử dụng các biến môi trường.
	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return
		}
		err = nil
	}

	if err = v.Unmarshal(&config); err != nil {
		return
	}

	config.Storage.Driver = strings.ToLower(strings.TrimSpace(config.Storage.Driver))
	return
}
