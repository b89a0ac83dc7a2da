// Package config loads process-level settings (AppConfig, env/.env) and the
// game rules (GameConfig, YAML file) used to construct a Tournament Manager.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds process wiring: network ports, serial device paths, and
// the opaque schedule provider's address.
type AppConfig struct {
	// TCP surface (spec §6): binary and JSON listener ports, each opened on
	// both IPv4 0.0.0.0 and IPv6 ::.
	BinaryPort int
	JSONPort   int

	// Serial surface: preconfigured list of serial device paths opened at
	// startup. Baud/framing are fixed by the panel hardware.
	SerialDevices []string
	SerialBaud    int

	// Optional debug WebSocket mirror (internal/core/monitor).
	MonitorAddr string

	// Opaque schedule provider (internal/adapters/schedule).
	ScheduleBaseURL  string
	SchedulePollSec  int
	ScheduleAttempts int

	// Local completed-game ledger (internal/adapters/history).
	HistoryDBPath string

	GameConfigPath string
	LogLevel       string
}

func Load() *AppConfig {
	_ = godotenv.Load()

	return &AppConfig{
		BinaryPort: envInt("REFBOX_BINARY_PORT", 4000),
		JSONPort:   envInt("REFBOX_JSON_PORT", 4001),

		SerialDevices: envList("REFBOX_SERIAL_DEVICES", nil),
		SerialBaud:    envInt("REFBOX_SERIAL_BAUD", 115200),

		MonitorAddr: envStr("REFBOX_MONITOR_ADDR", ":4002"),

		ScheduleBaseURL:  envStr("REFBOX_SCHEDULE_URL", ""),
		SchedulePollSec:  envInt("REFBOX_SCHEDULE_POLL_SEC", 60),
		ScheduleAttempts: envInt("REFBOX_SCHEDULE_ATTEMPTS", 6),

		HistoryDBPath: envStr("REFBOX_HISTORY_DB_PATH", "data/game_history.db"),

		GameConfigPath: envStr("REFBOX_GAME_CONFIG_PATH", "internal/config/game_config.yaml"),
		LogLevel:       envStr("LOG_LEVEL", "info"),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// PollInterval returns SchedulePollSec as a time.Duration.
func (c *AppConfig) PollInterval() time.Duration {
	return time.Duration(c.SchedulePollSec) * time.Second
}
