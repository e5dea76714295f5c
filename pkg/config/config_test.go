package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
server:
  port: 9000
  mode: debug
  api_key: secret
redis:
  addr: 127.0.0.1:6379
  db: 2
logger:
  level: debug
agent_service:
  base_url: http://cello-api:8080
  token: t0ken
  timeout: 5s
form:
  session_store: redis
  session_ttl: 10m
  default_language: zh-CN
  max_config_file_size: 1024
notification:
  feishu_webhook_url: https://open.feishu.cn/hook/abc
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, "secret", cfg.Server.APIKey)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, "console", cfg.Logger.Output)
	assert.Equal(t, "http://cello-api:8080", cfg.AgentService.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.AgentService.Timeout)
	assert.Equal(t, "redis", cfg.Form.SessionStore)
	assert.Equal(t, 10*time.Minute, cfg.Form.SessionTTL)
	assert.Equal(t, "zh-CN", cfg.Form.DefaultLanguage)
	assert.Equal(t, int64(1024), cfg.Form.MaxConfigFileSize)
	assert.Equal(t, "https://open.feishu.cn/hook/abc", cfg.Notification.FeishuWebhookURL)
}

func TestDefault(t *testing.T) {
	t.Setenv("FEISHU_WEBHOOK_URL", "")
	cfg := Default()

	assert.Equal(t, DefaultPort, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, DefaultAgentServiceURL, cfg.AgentService.BaseURL)
	assert.Equal(t, DefaultSessionStore, cfg.Form.SessionStore)
	assert.Equal(t, DefaultLanguage, cfg.Form.DefaultLanguage)
	assert.Equal(t, int64(DefaultMaxConfigFileSize), cfg.Form.MaxConfigFileSize)
	assert.Empty(t, cfg.Notification.FeishuWebhookURL)
}

func TestDefault_FeishuFromEnv(t *testing.T) {
	t.Setenv("FEISHU_WEBHOOK_URL", "https://example.com/hook")
	assert.Equal(t, "https://example.com/hook", Default().Notification.FeishuWebhookURL)
}

func TestParse_UnknownSessionStore(t *testing.T) {
	cfg, err := Parse([]byte("form:\n  session_store: etcd\n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSessionStore, cfg.Form.SessionStore)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("server: [1, 2"))
	assert.Error(t, err)
}

func TestInit_FromEnvPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0644))
	t.Setenv("CONFIG_PATH", path)

	previous := GlobalConfig
	defer func() { GlobalConfig = previous }()

	require.NoError(t, Init())
	assert.Equal(t, 9000, GlobalConfig.Server.Port)
}

func TestInit_MissingFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, Init())
}
