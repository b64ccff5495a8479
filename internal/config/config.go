package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

var ErrInvalidServerURL = errors.New("server url must use ws:// or wss://")

const (
	DefaultServerURL = "ws://localhost:8080/lobby"
	DefaultLocale    = "en"
	DefaultMap       = "maps/alpine assault/alpine assault.map"
	DefaultChatRate  = 2.0
	DefaultChatBurst = 5
)

// Config holds everything the lobby client reads from its environment.
type Config struct {
	ServerURL     string
	PlayerName    string
	Locale        string
	MapDir        string
	DefaultMap    string
	ExeCRC        uint32
	IniCRC        uint32
	DebugCommands bool
	ChatRate      float64
	ChatBurst     int
	LogLevel      string
	Debug         bool
}

// Load reads an optional .env file and then the process environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from an environment lookup function.
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key, fallback string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return fallback
	}

	cfg := &Config{
		ServerURL:  get("LOBBY_SERVER_URL", DefaultServerURL),
		PlayerName: get("LOBBY_PLAYER_NAME", ""),
		Locale:     get("LOBBY_LOCALE", DefaultLocale),
		MapDir:     get("LOBBY_MAP_DIR", "."),
		DefaultMap: get("LOBBY_DEFAULT_MAP", DefaultMap),
		LogLevel:   get("LOG_LEVEL", ""),
		Debug:      get("DEBUG", "") == "1",
		ChatRate:   DefaultChatRate,
		ChatBurst:  DefaultChatBurst,
	}

	if err := validateServerURL(cfg.ServerURL); err != nil {
		return nil, err
	}

	var err error
	if cfg.ExeCRC, err = parseCRC(get("LOBBY_EXE_CRC", "0")); err != nil {
		return nil, fmt.Errorf("LOBBY_EXE_CRC: %w", err)
	}
	if cfg.IniCRC, err = parseCRC(get("LOBBY_INI_CRC", "0")); err != nil {
		return nil, fmt.Errorf("LOBBY_INI_CRC: %w", err)
	}

	if v := get("LOBBY_DEBUG_COMMANDS", ""); v != "" {
		if cfg.DebugCommands, err = strconv.ParseBool(v); err != nil {
			return nil, fmt.Errorf("LOBBY_DEBUG_COMMANDS: %w", err)
		}
	}

	if v := get("LOBBY_CHAT_RATE", ""); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil || rate <= 0 {
			return nil, fmt.Errorf("LOBBY_CHAT_RATE: invalid value %q", v)
		}
		cfg.ChatRate = rate
	}

	return cfg, nil
}

func validateServerURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidServerURL, err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("%w: got %q", ErrInvalidServerURL, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: missing host", ErrInvalidServerURL)
	}
	return nil
}

// parseCRC accepts 0x-prefixed hex or decimal.
func parseCRC(s string) (uint32, error) {
	base := 10
	if strings.HasPrefix(strings.ToLower(s), "0x") {
		s = s[2:]
		base = 16
	}
	v, err := strconv.ParseUint(s, base, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}
