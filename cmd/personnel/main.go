// Command personnel reads and writes employees and departments from the
// command line and can follow the change events they publish.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gartstein/personnel/internal/personnel/controller"
	"github.com/gartstein/personnel/internal/personnel/db"
	e "github.com/gartstein/personnel/internal/personnel/errors"
	"github.com/gartstein/personnel/internal/personnel/events"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Config struct for YAML configuration
type Config struct {
	DBDriver       string   `yaml:"DB_DRIVER"`
	DBHost         string   `yaml:"DB_HOST"`
	DBPort         int      `yaml:"DB_PORT"`
	DBUser         string   `yaml:"DB_USER"`
	DBPassword     string   `yaml:"DB_PASSWORD"`
	DBName         string   `yaml:"DB_NAME"`
	DBSSLMode      string   `yaml:"DB_SSLMODE"`
	DBPath         string   `yaml:"DB_PATH"`
	DBMaxIdleConns int      `yaml:"DB_MAX_IDLE_CONNS"`
	DBLogLevel     string   `yaml:"DB_LOG_LEVEL"`
	DBSlowQuery    string   `yaml:"DB_SLOW_QUERY"`
	LogLevel       string   `yaml:"LOG_LEVEL"`
	KafkaBrokers   []string `yaml:"KAFKA_BROKERS"`
	Topic          string   `yaml:"TOPIC"`
	GroupID        string   `yaml:"GROUP_ID"`
	StartupTimeout string   `yaml:"STARTUP_TIMEOUT"`
}

// app holds what the subcommands share. It is filled in by the root
// command's PersistentPreRunE.
type app struct {
	configPath string
	cfg        *Config
	logger     *zap.Logger
	source     *db.Source
	producer   *events.Producer
	service    *controller.Service
}

func main() {
	a := &app{}
	root := a.rootCommand()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := root.ExecuteContext(ctx)
	stop()
	a.shutdown()
	if err != nil {
		fmt.Fprintln(os.Stderr, "personnel:", err)
		os.Exit(1)
	}
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "personnel",
		Short:         "Manage employees and departments",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Context())
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "config.yaml", "path to the YAML config file")

	root.AddCommand(a.departmentCommand(), a.employeeCommand(), a.watchCommand())
	return root
}

// setup loads config and logger, then waits for the store and, when brokers
// are configured, the Kafka producer.
func (a *app) setup(ctx context.Context) error {
	if err := a.initBase(); err != nil {
		return err
	}
	cfg, logger := a.cfg, a.logger

	a.source = db.NewSource(initDatabase(cfg), logger)
	startup := parseDuration(cfg.StartupTimeout, 30*time.Second)
	err := waitFor(ctx, startup, func() error {
		err := a.source.Ping(ctx)
		if errors.Is(err, e.ErrInvalidInput) {
			return backoff.Permanent(err)
		}
		return err
	})
	if err != nil {
		logger.Error("database is not reachable", zap.Error(err))
		return err
	}

	if len(cfg.KafkaBrokers) > 0 {
		err := waitFor(ctx, startup, func() error {
			p, err := events.NewProducer(cfg.KafkaBrokers, logger, cfg.Topic)
			if err != nil {
				return err
			}
			a.producer = p
			return nil
		})
		if err != nil {
			logger.Error("failed to initialize Kafka producer", zap.Error(err))
			return err
		}
	}

	employees := db.NewEmployeeRepository(a.source)
	departments := db.NewDepartmentRepository(a.source)
	if a.producer != nil {
		a.service = controller.NewService(employees, departments, a.producer, logger)
	} else {
		a.service = controller.NewService(employees, departments, nil, logger)
	}
	return nil
}

// initBase loads the config file and builds the logger.
func (a *app) initBase() error {
	cfg, err := loadConfig(a.configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		return err
	}
	a.cfg = cfg

	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to init logger:", err)
		return err
	}
	a.logger = logger
	return nil
}

func (a *app) shutdown() {
	if a.producer != nil {
		a.producer.Close()
	}
	if a.source != nil {
		if err := a.source.Close(); err != nil {
			a.logger.Error("failed to close database", zap.Error(err))
		}
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// initLogger initializes a Zap production logger at the given level.
func initLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if level != "" {
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, err
		}
		cfg.Level = lvl
	}
	return cfg.Build()
}

// loadConfig reads the YAML config file at path.
func loadConfig(path string) (*Config, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(file, &cfg); err != nil {
		return nil, err
	}
	if cfg.Topic == "" {
		cfg.Topic = "personnel.changes"
	}
	if cfg.GroupID == "" {
		cfg.GroupID = "personnel-watch"
	}
	return &cfg, nil
}

// initDatabase builds the database config.
func initDatabase(cfg *Config) *db.Config {
	return &db.Config{
		Driver:        cfg.DBDriver,
		Host:          cfg.DBHost,
		Port:          cfg.DBPort,
		User:          cfg.DBUser,
		Password:      cfg.DBPassword,
		DBName:        cfg.DBName,
		SSLMode:       cfg.DBSSLMode,
		Path:          cfg.DBPath,
		MaxIdleConns:  cfg.DBMaxIdleConns,
		LogLevel:      cfg.DBLogLevel,
		SlowThreshold: parseDuration(cfg.DBSlowQuery, 200*time.Millisecond),
	}
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

// waitFor retries op with exponential backoff until it succeeds, ctx ends or
// maxElapsed passes.
func waitFor(ctx context.Context, maxElapsed time.Duration, op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = maxElapsed
	return backoff.Retry(op, backoff.WithContext(b, ctx))
}
