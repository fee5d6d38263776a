package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// 秘密情報を設定ファイルより優先して上書きする環境変数です。
const (
	EnvDatabasePassword = "ATTENDANCE_DATABASE_PASSWORD"
	EnvJWTSecret        = "ATTENDANCE_JWT_SECRET"
	EnvRedisPassword    = "ATTENDANCE_REDIS_PASSWORD"
	EnvS3SecretKey      = "ATTENDANCE_S3_SECRET_ACCESS_KEY"

	defaultWorkingDaysPerMonth = 22
	defaultCompanyName         = "Attendance Payroll"
	minJWTSecretLength         = 32
)

// Config はアプリケーション全体の設定を表現します。
type Config struct {
	Server         ServerConfig         `yaml:"server"`
	Database       DatabaseConfig       `yaml:"database"`
	Auth           AuthConfig           `yaml:"auth"`
	Redis          RedisConfig          `yaml:"redis"`
	Payroll        PayrollConfig        `yaml:"payroll"`
	PayslipStorage PayslipStorageConfig `yaml:"payslip_storage"`
}

// ServerConfig は gRPC サーバーと運用用 HTTP サーバーに関する設定です。
type ServerConfig struct {
	ListenAddr         string        `yaml:"listen_addr"`
	OpsAddr            string        `yaml:"ops_addr"`
	ShutdownTimeout    time.Duration `yaml:"-"`
	ShutdownTimeoutRaw string        `yaml:"shutdown_timeout"`
}

// DatabaseConfig は PostgreSQL 接続に関する設定です。
type DatabaseConfig struct {
	Host               string        `yaml:"host"`
	Port               int           `yaml:"port"`
	User               string        `yaml:"user"`
	Password           string        `yaml:"password"`
	Name               string        `yaml:"name"`
	SSLMode            string        `yaml:"ssl_mode"`
	MaxOpenConns       int           `yaml:"max_open_conns"`
	MaxIdleConns       int           `yaml:"max_idle_conns"`
	ConnMaxLifetime    time.Duration `yaml:"-"`
	ConnMaxIdleTime    time.Duration `yaml:"-"`
	ConnMaxLifetimeRaw string        `yaml:"conn_max_lifetime"`
	ConnMaxIdleTimeRaw string        `yaml:"conn_max_idle_time"`
}

// AuthConfig はアクセストークンに関する設定です。
type AuthConfig struct {
	JWTSecret   string        `yaml:"jwt_secret"`
	Issuer      string        `yaml:"issuer"`
	TokenTTL    time.Duration `yaml:"-"`
	TokenTTLRaw string        `yaml:"token_ttl"`
}

// RedisConfig はロールキャッシュに関する設定です。Addr が空の場合はキャッシュを使いません。
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"-"`
	TTLRaw   string        `yaml:"ttl"`
}

// Enabled は Redis が設定されているかを返します。
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// PayrollConfig は給与計算に関する設定です。
type PayrollConfig struct {
	WorkingDaysPerMonth int    `yaml:"working_days_per_month"`
	CompanyName         string `yaml:"company_name"`
}

// PayslipStorageConfig は給与明細の保管先 (S3 互換ストレージ) の設定です。Bucket が空の場合は保管しません。
type PayslipStorageConfig struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	Prefix          string `yaml:"prefix"`
}

// Enabled は保管先が設定されているかを返します。
func (p PayslipStorageConfig) Enabled() bool {
	return p.Bucket != ""
}

// Load は指定されたパスから設定ファイルを読み込みます。
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	cfg.applyEnv(os.Getenv)

	if err := cfg.validateAndNormalize(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv(EnvDatabasePassword); v != "" {
		c.Database.Password = v
	}
	if v := getenv(EnvJWTSecret); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := getenv(EnvRedisPassword); v != "" {
		c.Redis.Password = v
	}
	if v := getenv(EnvS3SecretKey); v != "" {
		c.PayslipStorage.SecretAccessKey = v
	}
}

func (c *Config) validateAndNormalize() error {
	if err := c.Server.validateAndNormalize(); err != nil {
		return err
	}
	if err := c.Database.validateAndNormalize(); err != nil {
		return err
	}
	if err := c.Auth.validateAndNormalize(); err != nil {
		return err
	}
	if err := c.Redis.validateAndNormalize(); err != nil {
		return err
	}
	if err := c.PayslipStorage.validateAndNormalize(); err != nil {
		return err
	}

	if c.Payroll.WorkingDaysPerMonth < 0 || c.Payroll.WorkingDaysPerMonth > 31 {
		return fmt.Errorf("config: payroll.working_days_per_month must be between 1 and 31")
	}
	if c.Payroll.WorkingDaysPerMonth == 0 {
		c.Payroll.WorkingDaysPerMonth = defaultWorkingDaysPerMonth
	}
	if c.Payroll.CompanyName == "" {
		c.Payroll.CompanyName = defaultCompanyName
	}

	return nil
}

func (s *ServerConfig) validateAndNormalize() error {
	if s.ListenAddr == "" {
		return fmt.Errorf("config: server.listen_addr must be set")
	}

	timeout, err := parseDurationAllowEmpty(s.ShutdownTimeoutRaw)
	if err != nil {
		return fmt.Errorf("config: server.shutdown_timeout: %w", err)
	}
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	s.ShutdownTimeout = timeout

	return nil
}

func (d *DatabaseConfig) validateAndNormalize() error {
	if d.Host == "" {
		return fmt.Errorf("config: database.host must be set")
	}
	if d.Port == 0 {
		return fmt.Errorf("config: database.port must be set")
	}
	if d.User == "" {
		return fmt.Errorf("config: database.user must be set")
	}
	if d.Password == "" {
		return fmt.Errorf("config: database.password must be set (or %s)", EnvDatabasePassword)
	}
	if d.Name == "" {
		return fmt.Errorf("config: database.name must be set")
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}

	lifetime, err := parseDurationAllowEmpty(d.ConnMaxLifetimeRaw)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_lifetime: %w", err)
	}
	d.ConnMaxLifetime = lifetime

	idleTime, err := parseDurationAllowEmpty(d.ConnMaxIdleTimeRaw)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_idle_time: %w", err)
	}
	d.ConnMaxIdleTime = idleTime

	return nil
}

func (a *AuthConfig) validateAndNormalize() error {
	if len(a.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf("config: auth.jwt_secret must be at least %d bytes (or %s)", minJWTSecretLength, EnvJWTSecret)
	}
	if a.Issuer == "" {
		a.Issuer = "attendance-payroll"
	}

	ttl, err := parseDurationAllowEmpty(a.TokenTTLRaw)
	if err != nil {
		return fmt.Errorf("config: auth.token_ttl: %w", err)
	}
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	a.TokenTTL = ttl

	return nil
}

func (r *RedisConfig) validateAndNormalize() error {
	if !r.Enabled() {
		return nil
	}
	if r.DB < 0 {
		return fmt.Errorf("config: redis.db must not be negative")
	}

	ttl, err := parseDurationAllowEmpty(r.TTLRaw)
	if err != nil {
		return fmt.Errorf("config: redis.ttl: %w", err)
	}
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	r.TTL = ttl

	return nil
}

func (p *PayslipStorageConfig) validateAndNormalize() error {
	if !p.Enabled() {
		return nil
	}
	if p.Region == "" {
		p.Region = "us-east-1"
	}
	if (p.AccessKeyID == "") != (p.SecretAccessKey == "") {
		return fmt.Errorf("config: payslip_storage.access_key_id and secret_access_key must be set together")
	}
	return nil
}

func parseDurationAllowEmpty(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	return d, nil
}

// DSN は pgx 用の接続文字列を返します。ユーザー名とパスワードはエスケープされます。
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     d.Host + ":" + strconv.Itoa(d.Port),
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}
