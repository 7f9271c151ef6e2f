package openai

import (
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"time"
)

// Config for the OpenAI-compatible client.
type Config struct {
	APIKey      string        // if empty, falls back to env AI_API_KEY
	BaseURL     string        // default https://api.openai.com/v1
	Model       string        // e.g. "gpt-4-turbo-preview"
	ProxyURL    string        // optional outbound proxy
	Temperature float32       // 0..2
	Timeout     time.Duration // http client timeout
}

type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("AI_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4-turbo-preview"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 90 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	hc := &http.Client{Timeout: cfg.Timeout}
	if cfg.ProxyURL != "" {
		if proxy, err := url.Parse(cfg.ProxyURL); err == nil {
			hc.Transport = &http.Transport{Proxy: http.ProxyURL(proxy)}
		} else {
			logger.Warn("openai.proxy_ignored", "proxy", cfg.ProxyURL, "error", err)
		}
	}

	return &Client{
		cfg:    cfg,
		http:   hc,
		logger: logger,
	}
}
