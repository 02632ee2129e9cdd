package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"network-rrd/connection"
	"network-rrd/db"
	"network-rrd/lib"
	model_entry "network-rrd/models/if_entry"
	model_device "network-rrd/models/network_device"
	"network-rrd/pkg/config"
	"network-rrd/pkg/logger"
	"network-rrd/pkg/rabbitmq"
	"network-rrd/pkg/report"
	"network-rrd/pkg/rrd"
	"network-rrd/pkg/system"
	"network-rrd/services"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	pingCount       = 3
	pingMinReceived = 1
)

// dialer opens the sessions a run polls through. Tests replace it.
var dialer = func(cfg *config.Config, local bool) (connection.Dialer, error) {
	if local {
		agent, err := system.NewLocalAgent(nil)
		if err != nil {
			return nil, err
		}
		return func() (connection.Session, error) { return agent, nil }, nil
	}

	var debug = logger.StdLog()
	if !logger.L().Core().Enabled(zapcore.DebugLevel) {
		debug = nil
	}
	return connection.SNMPDialer(cfg.Device, debug), nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, stdout io.Writer) int {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "无法加载 .env 文件:", err)
	}

	fs := flag.NewFlagSet("network-rrd", flag.ContinueOnError)
	configPath := fs.String("config", config.DefaultPath, "path to the JSON device config")
	local := fs.Bool("local", false, "poll this host's own interfaces instead of an SNMP agent")
	workers := fs.Int("workers", 0, "concurrent per-interface readers (overrides config)")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	cfg, err := loadConfig(*configPath, *local)
	if err != nil {
		fmt.Fprintln(stdout, err.Error())
		return 1
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}

	log, err := logger.New(cfg.Logging)
	if err != nil {
		fmt.Fprintln(stdout, err.Error())
		return 1
	}
	logger.SetDefault(log)
	defer logger.Sync()

	ctx := context.Background()
	device, err := poll(ctx, cfg, *local, report.NewWriter(stdout))
	if err != nil {
		fmt.Fprintln(stdout, err.Error())
		log.Error("poll failed", zap.String("host", cfg.Device.Hostname), zap.Error(err))
		return 1
	}

	closeSinks, err := registerSinks(ctx, cfg)
	defer closeSinks()
	if err != nil {
		fmt.Fprintln(stdout, err.Error())
		log.Error("sink setup failed", zap.Error(err))
		return 1
	}

	for _, sink := range services.Sinks() {
		if err := sink.Write(ctx, device); err != nil {
			fmt.Fprintln(stdout, err.Error())
			log.Error("sink failed", zap.String("sink", sink.Name()), zap.Error(err))
			return 1
		}
		log.Info("sink written", zap.String("sink", sink.Name()), zap.Int("interfaces", len(device.Interfaces)))
	}
	logger.Printf("polled %d interfaces on %s:%d", len(device.Interfaces), device.Hostname, device.Port)
	return 0
}

// loadConfig reads path. In local mode the file is optional and the device
// defaults to this host.
func loadConfig(path string, local bool) (*config.Config, error) {
	if !local {
		return config.Load(path)
	}

	v := config.New()
	v.SetDefault("hostname", "localhost")
	v.SetDefault("port", 161)
	v.SetDefault("community", "public")
	v.SetDefault("timeout", 1)
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	return config.FromViper(v)
}

func poll(ctx context.Context, cfg *config.Config, local bool, out *report.Writer) (*model_device.NetworkDevice, error) {
	log := logger.L()

	if cfg.PingCheck && !local {
		if err := connection.PingHost(cfg.Device.Hostname, pingCount, pingMinReceived, cfg.Device.Timeout*pingCount); err != nil {
			return nil, err
		}
	}

	dial, err := dialer(cfg, local)
	if err != nil {
		return nil, err
	}

	size := 1
	if cfg.Workers > 1 {
		size = cfg.Workers + 1
	}
	pool, err := connection.NewSNMPConnectionPool(size, dial)
	if err != nil {
		return nil, err
	}
	defer pool.Close()

	conn, err := pool.GetConnection(ctx)
	if err != nil {
		return nil, err
	}
	defer pool.ReleaseConnection(conn)

	collector := lib.NewCollector(conn, log.With(zap.String("host", cfg.Device.Hostname)))
	if cfg.Workers > 1 {
		collector.WithPool(pool, cfg.Workers)
	}

	records, err := collector.Collect(ctx, func(r model_entry.InterfaceRecord) error {
		return out.Write(r)
	})
	if err != nil {
		return nil, err
	}

	return &model_device.NetworkDevice{
		Hostname:   cfg.Device.Hostname,
		Port:       cfg.Device.Port,
		Interfaces: records,
		Time:       time.Now(),
	}, nil
}

// registerSinks connects every sink enabled in cfg. The returned func closes
// whatever was opened and empties the registry; it is never nil.
func registerSinks(ctx context.Context, cfg *config.Config) (func(), error) {
	var closers []func() error
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			logger.LogIfErr(closers[i]())
		}
		services.ResetSinks()
	}

	if cfg.Redis.Enabled() {
		client, err := db.GetRedisConnection(ctx, cfg.Redis)
		if err != nil {
			return closeAll, err
		}
		closers = append(closers, client.Close)
		services.RegisterSink(db.NewRedisStore(client, cfg.Redis.Prefix, cfg.Redis.TTL))
	}

	if cfg.RabbitMQ.Enabled() {
		mqConfig, err := rabbitmq.ConfigFromFiles(cfg.RabbitMQ.URL, cfg.RabbitMQ.CACert, cfg.RabbitMQ.ClientCert, cfg.RabbitMQ.ClientKey)
		if err != nil {
			return closeAll, err
		}
		conn, err := rabbitmq.NewConnection(mqConfig)
		if err != nil {
			return closeAll, err
		}
		closers = append(closers, conn.Conn.Close)
		ctrl := rabbitmq.NewCtrl()
		if err := ctrl.OpenChannel(cfg.RabbitMQ.Queue, conn.Conn); err != nil {
			return closeAll, err
		}
		closers = append(closers, ctrl.Close)
		services.RegisterSink(ctrl)
	}

	if cfg.RRD.Enabled() {
		services.RegisterSink(rrd.NewUpdater(cfg.RRD))
	}
	return closeAll, nil
}
