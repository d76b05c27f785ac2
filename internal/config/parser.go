package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"service-request-form/internal/logger"
	"service-request-form/internal/remote/client"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

const (
	defaultListen      = ":8080"
	defaultMaxUploadMB = 32
	defaultSessionTTL  = 2 * time.Hour
	defaultResetDelay  = 4 * time.Second
)

// GetConfig reads the yaml file, then applies .env and environment overrides.
func GetConfig(configPath string) (*Conf, error) {
	logger.Debug("Loading configuration", configPath)

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warning("Cannot read .env:", err)
	}

	cnf := &Conf{}

	input, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", configPath, err)
	}
	defer input.Close()

	if err := yaml.NewDecoder(input).Decode(cnf); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", configPath, err)
	}

	if err := applyEnv(cnf); err != nil {
		return nil, err
	}
	setDefaults(cnf)

	if _, err := cnf.Remote.ClientSettings(); err != nil {
		return nil, err
	}
	if cnf.Session.Backend != BackendMemory && cnf.Session.Backend != BackendRedis {
		return nil, fmt.Errorf("unknown session backend %q", cnf.Session.Backend)
	}
	if cnf.Session.Backend == BackendRedis && cnf.Session.Redis.Addr == "" {
		return nil, errors.New("session backend redis needs session.redis.addr")
	}

	return cnf, nil
}

func applyEnv(cnf *Conf) error {
	overrides := map[string]*string{
		"SERVER_LISTEN":   &cnf.Server.Listen,
		"REMOTE_ENDPOINT": &cnf.Remote.Endpoint,
		"REMOTE_MODE":     &cnf.Remote.Mode,
		"SESSION_BACKEND": &cnf.Session.Backend,
		"REDIS_ADDR":      &cnf.Session.Redis.Addr,
		"REDIS_PASSWORD":  &cnf.Session.Redis.Password,
	}
	for env, target := range overrides {
		if v, ok := os.LookupEnv(env); ok {
			*target = v
		}
	}

	if v, ok := os.LookupEnv("REMOTE_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("REMOTE_TIMEOUT: %w", err)
		}
		cnf.Remote.Timeout = d
	}
	if v, ok := os.LookupEnv("REDIS_DB"); ok {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("REDIS_DB: %w", err)
		}
		cnf.Session.Redis.DB = db
	}
	return nil
}

func setDefaults(cnf *Conf) {
	if cnf.Server.Listen == "" {
		cnf.Server.Listen = defaultListen
	}
	if cnf.Server.MaxUploadMB <= 0 {
		cnf.Server.MaxUploadMB = defaultMaxUploadMB
	}
	if cnf.Remote.Mode == "" {
		cnf.Remote.Mode = string(client.ModeConfirmed)
	}
	if cnf.Remote.Timeout <= 0 {
		cnf.Remote.Timeout = client.DefaultTimeout
	}
	if cnf.Session.Backend == "" {
		cnf.Session.Backend = BackendMemory
	}
	if cnf.Session.TTL <= 0 {
		cnf.Session.TTL = defaultSessionTTL
	}
	if cnf.Form.StatusResetDelay <= 0 {
		cnf.Form.StatusResetDelay = defaultResetDelay
	}
}
