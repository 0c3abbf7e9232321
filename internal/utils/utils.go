package utils

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ParseSeconds reads a duration from an env value. A bare integer counts
// seconds ("10" is 10s); anything else goes through time.ParseDuration.
// Surrounding quotes left by .env loaders are ignored.
func ParseSeconds(raw string) (time.Duration, error) {
	s := strings.Trim(strings.TrimSpace(raw), `"'`)
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("duration must be like 10s, 5m or a number of seconds: %w", err)
	}
	return d, nil
}

// RedisTarget is the connection part of a Redis URL.
type RedisTarget struct {
	Addr     string
	Password string
	DB       int
}

// ParseRedisURL splits redis://[user:password@]host:port[/db]. rediss is
// accepted too; TLS settings are not carried over.
func ParseRedisURL(raw string) (RedisTarget, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return RedisTarget{}, err
	}
	switch u.Scheme {
	case "redis", "rediss":
	default:
		return RedisTarget{}, fmt.Errorf("scheme must be redis or rediss, got %q", u.Scheme)
	}
	if u.Host == "" {
		return RedisTarget{}, fmt.Errorf("missing host in Redis URL")
	}

	t := RedisTarget{Addr: u.Host}
	if u.User != nil {
		t.Password, _ = u.User.Password()
	}
	if db := strings.Trim(u.Path, "/"); db != "" {
		if t.DB, err = strconv.Atoi(db); err != nil {
			return RedisTarget{}, fmt.Errorf("redis db must be a number, got %q", db)
		}
	}
	return t, nil
}

// NormalizeBaseURL turns "host:port" or "http://host:port/" into a base URL
// with a scheme and no trailing slash.
func NormalizeBaseURL(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("empty server address")
	}
	if !strings.Contains(s, "://") {
		s = "http://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("server scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("missing host in %q", raw)
	}
	return strings.TrimRight(u.String(), "/"), nil
}
