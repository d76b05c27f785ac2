package config

import (
	"time"

	"service-request-form/internal/remote/client"

	"github.com/gin-gonic/gin"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

type (
	// Conf contains the application settings
	Conf struct {
		Server  Server  `yaml:"server"`
		Remote  Remote  `yaml:"remote"`
		Session Session `yaml:"session"`
		Form    Form    `yaml:"form"`
		Cors    Cors    `yaml:"cors"`

		RunInDebug bool `yaml:"-"`
	}

	Server struct {
		Host   string `yaml:"host"`
		Listen string `yaml:"listen"`
		// multipart memory limit for photo uploads
		MaxUploadMB int64 `yaml:"max_upload_mb"`
	}

	// Remote is the endpoint receiving the requests.
	Remote struct {
		Endpoint string        `yaml:"endpoint"`
		Mode     string        `yaml:"mode"`
		Timeout  time.Duration `yaml:"timeout"`
	}

	Session struct {
		Backend string        `yaml:"backend"`
		TTL     time.Duration `yaml:"ttl"`
		Redis   Redis         `yaml:"redis"`
	}

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	}

	Form struct {
		// how long SUCCESS / ERROR stay before going back to IDLE
		StatusResetDelay time.Duration `yaml:"status_reset_delay"`
	}

	Cors struct {
		AllowOrigins []string `yaml:"allow_origins"`
	}
)

func (r Remote) ClientSettings() (client.Settings, error) {
	mode, err := client.ParseMode(r.Mode)
	if err != nil {
		return client.Settings{}, err
	}
	return client.Settings{
		Endpoint: r.Endpoint,
		Mode:     mode,
		Timeout:  r.Timeout,
	}, nil
}

func Inject(key string, cnf *Conf) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(key, cnf)
	}
}
