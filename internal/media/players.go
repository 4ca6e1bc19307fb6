package media

import (
	_ "embed"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"

	"github.com/pelletier/go-toml/v2"

	"github.com/pders01/mymeals/internal/debuglog"
)

//go:embed players.toml
var playersTOML []byte

// PlayerDefinition defines how a viewer should be invoked
type PlayerDefinition struct {
	Description string                 `toml:"description"`
	Platforms   []string               `toml:"platforms"`
	Video       *PlayerMediaTypeConfig `toml:"video,omitempty"`
	Image       *PlayerMediaTypeConfig `toml:"image,omitempty"`
}

// PlayerMediaTypeConfig holds the arguments for one media type
type PlayerMediaTypeConfig struct {
	Args        []string `toml:"args,omitempty"`
	ArgsDarwin  []string `toml:"args_darwin,omitempty"`
	ArgsLinux   []string `toml:"args_linux,omitempty"`
	ArgsWindows []string `toml:"args_windows,omitempty"`
}

type PlayersConfig struct {
	Players map[string]PlayerDefinition `toml:"players"`
}

// PlayerRegistry manages player definitions
type PlayerRegistry struct {
	players map[string]PlayerDefinition
}

// NewPlayerRegistry loads the embedded definitions and merges the user's
// overrides from ~/.config/mymeals/players.toml when present.
func NewPlayerRegistry() (*PlayerRegistry, error) {
	var config PlayersConfig
	if err := toml.Unmarshal(playersTOML, &config); err != nil {
		return nil, fmt.Errorf("parsing players.toml: %w", err)
	}

	registry := &PlayerRegistry{players: config.Players}
	if home, err := os.UserHomeDir(); err == nil {
		registry.merge(filepath.Join(home, ".config", "mymeals", "players.toml"))
	}
	return registry, nil
}

// merge overlays definitions from a user file. A missing file is fine;
// a malformed one is logged and ignored.
func (r *PlayerRegistry) merge(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	var userConfig PlayersConfig
	if err := toml.Unmarshal(data, &userConfig); err != nil {
		debuglog.Warnf("ignoring %s: %v", path, err)
		return
	}
	if r.players == nil {
		r.players = make(map[string]PlayerDefinition)
	}
	for name, def := range userConfig.Players {
		r.players[name] = def
	}
}

// GetCommand builds the command for a specific player and media type
func (r *PlayerRegistry) GetCommand(playerName string, mediaType Type, url string) (*exec.Cmd, error) {
	player, exists := r.players[playerName]
	if !exists {
		return exec.Command(playerName, url), nil
	}

	if !slices.Contains(player.Platforms, runtime.GOOS) {
		return nil, fmt.Errorf("%s not supported on %s", playerName, runtime.GOOS)
	}

	var config *PlayerMediaTypeConfig
	switch mediaType {
	case TypeVideo:
		config = player.Video
	case TypeImage:
		config = player.Image
	}
	if config == nil {
		return nil, fmt.Errorf("%s doesn't support %s links", playerName, mediaType)
	}

	args := append(slices.Clone(argsForPlatform(config)), url)
	return exec.Command(playerName, args...), nil
}

func argsForPlatform(config *PlayerMediaTypeConfig) []string {
	switch runtime.GOOS {
	case "darwin":
		if len(config.ArgsDarwin) > 0 {
			return config.ArgsDarwin
		}
	case "linux":
		if len(config.ArgsLinux) > 0 {
			return config.ArgsLinux
		}
	case "windows":
		if len(config.ArgsWindows) > 0 {
			return config.ArgsWindows
		}
	}
	return config.Args
}
