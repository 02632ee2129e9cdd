// Package config loads the device record and the optional sink settings from a
// JSON file, with NETWORK_RRD_* environment variables taking precedence.
package config

import (
	"fmt"
	"strings"
	"time"

	model_snmp "network-rrd/models/snmp"

	"github.com/spf13/viper"
)

const EnvPrefix = "NETWORK_RRD"

// DefaultPath is read when no -config flag is given.
const DefaultPath = "config.json"

var requiredKeys = []string{"community", "hostname", "port", "timeout"}

type Logging struct {
	Level      string
	Format     string
	File       string
	MaxSize    int
	MaxBackups int
	Compress   bool
}

type Redis struct {
	Network string
	Addr    string
	DB      int
	Prefix  string
	TTL     time.Duration
}

func (r Redis) Enabled() bool { return r.Addr != "" }

type RabbitMQ struct {
	URL        string
	Queue      string
	CACert     string
	ClientCert string
	ClientKey  string
}

func (r RabbitMQ) Enabled() bool { return r.URL != "" }

type RRD struct {
	Dir     string
	Command string
	Step    int
}

func (r RRD) Enabled() bool { return r.Dir != "" }

type Config struct {
	Device    model_snmp.SNMPConnectionConfig
	Workers   int
	PingCheck bool
	Logging   Logging
	Redis     Redis
	RabbitMQ  RabbitMQ
	RRD       RRD
}

// New returns a viper instance with defaults and environment binding applied.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigType("json")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("version", "2c")
	v.SetDefault("workers", 1)
	v.SetDefault("ping_check", false)

	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.max_size", 100)
	v.SetDefault("logging.max_backups", 30)
	v.SetDefault("logging.compress", true)

	v.SetDefault("redis.network", "tcp")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "ifstat")
	v.SetDefault("redis.ttl", "0s")

	v.SetDefault("rabbitmq.url", "")
	v.SetDefault("rabbitmq.queue", "network-rrd")
	v.SetDefault("rabbitmq.ca_cert", "")
	v.SetDefault("rabbitmq.client_cert", "")
	v.SetDefault("rabbitmq.client_key", "")

	v.SetDefault("rrd.dir", "")
	v.SetDefault("rrd.command", "rrdtool")
	v.SetDefault("rrd.step", 300)
	return v
}

// Load reads the JSON file at path.
func Load(path string) (*Config, error) {
	v := New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return FromViper(v)
}

func FromViper(v *viper.Viper) (*Config, error) {
	for _, key := range requiredKeys {
		if !v.IsSet(key) {
			return nil, fmt.Errorf("config: missing required field %q", key)
		}
	}

	hostname := v.GetString("hostname")
	if hostname == "" {
		return nil, fmt.Errorf("config: hostname must not be empty")
	}

	port := v.GetInt("port")
	if port < 1 || port > 65535 {
		return nil, fmt.Errorf("config: port %d out of range", port)
	}

	seconds := v.GetFloat64("timeout")
	if seconds <= 0 {
		return nil, fmt.Errorf("config: timeout must be a positive number of seconds, got %q", v.GetString("timeout"))
	}

	version := v.GetString("version")
	if version != "1" && version != "2c" {
		return nil, fmt.Errorf("config: unsupported snmp version %q", version)
	}

	cfg := &Config{
		Device: model_snmp.SNMPConnectionConfig{
			Hostname:  hostname,
			Port:      port,
			Community: v.GetString("community"),
			Version:   version,
			Timeout:   time.Duration(seconds * float64(time.Second)),
		},
		Workers:   v.GetInt("workers"),
		PingCheck: v.GetBool("ping_check"),
		Logging:   LoggingFromViper(v),
		Redis: Redis{
			Network: v.GetString("redis.network"),
			Addr:    v.GetString("redis.addr"),
			DB:      v.GetInt("redis.db"),
			Prefix:  v.GetString("redis.prefix"),
			TTL:     v.GetDuration("redis.ttl"),
		},
		RabbitMQ: RabbitMQ{
			URL:        v.GetString("rabbitmq.url"),
			Queue:      v.GetString("rabbitmq.queue"),
			CACert:     v.GetString("rabbitmq.ca_cert"),
			ClientCert: v.GetString("rabbitmq.client_cert"),
			ClientKey:  v.GetString("rabbitmq.client_key"),
		},
		RRD: RRD{
			Dir:     v.GetString("rrd.dir"),
			Command: v.GetString("rrd.command"),
			Step:    v.GetInt("rrd.step"),
		},
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return cfg, nil
}

func LoggingFromViper(v *viper.Viper) Logging {
	return Logging{
		Level:      v.GetString("logging.level"),
		Format:     v.GetString("logging.format"),
		File:       v.GetString("logging.file"),
		MaxSize:    v.GetInt("logging.max_size"),
		MaxBackups: v.GetInt("logging.max_backups"),
		Compress:   v.GetBool("logging.compress"),
	}
}
