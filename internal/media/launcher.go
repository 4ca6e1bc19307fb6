package media

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/pders01/mymeals/internal/config"
	"github.com/pders01/mymeals/internal/debuglog"
	"github.com/pders01/mymeals/internal/plugins"
	"github.com/pders01/mymeals/internal/validation"
)

// Launcher opens meal links (photos, videos, source pages) with external
// programs.
type Launcher struct {
	videoPlayer   string
	imageViewer   string
	defaultOpener string
	registry      *PlayerRegistry
	detector      *TypeDetector
	validator     *validation.URLValidator

	lookPath func(string) (string, error)
	start    func(*exec.Cmd) error
}

func NewLauncher(cfg *config.Config) *Launcher {
	registry, err := NewPlayerRegistry()
	if err != nil {
		debuglog.Warnf("player definitions unavailable: %v", err)
		registry = &PlayerRegistry{players: make(map[string]PlayerDefinition)}
	}

	detector, err := NewTypeDetector()
	if err != nil {
		debuglog.Warnf("media type definitions unavailable: %v", err)
		detector = &TypeDetector{config: &TypesConfig{}}
	}

	l := &Launcher{
		registry:  registry,
		detector:  detector,
		validator: validation.NewLinkValidator(),
		lookPath:  exec.LookPath,
		start:     startDetached,
	}
	l.configure(cfg)
	return l
}

func (l *Launcher) configure(cfg *config.Config) {
	l.defaultOpener = cfg.Media.DefaultOpener
	if l.defaultOpener == "" {
		l.defaultOpener = l.detector.GetDefaultOpener()
	}

	var players config.MediaPlayers
	switch runtime.GOOS {
	case "linux":
		players = cfg.Media.Linux
	case "windows":
		players = cfg.Media.Windows
	default:
		players = cfg.Media.Darwin
	}

	l.videoPlayer = l.findCommand(players.Video...)
	if l.videoPlayer == "" {
		l.videoPlayer = l.defaultOpener
	}
	l.imageViewer = l.findCommand(players.Image...)
	if l.imageViewer == "" {
		l.imageViewer = l.defaultOpener
	}
}

// OpenLink opens a link described by a plugin, trusting its kind when set
// and guessing it from the URL otherwise.
func (l *Launcher) OpenLink(info *plugins.LinkInfo) error {
	if info == nil {
		return fmt.Errorf("no link to open")
	}
	t := TypeFromKind(info.Kind)
	if t == TypeUnknown {
		t = l.detector.DetectType(info.URL)
	}
	return l.open(info.URL, t)
}

func (l *Launcher) open(rawURL string, mediaType Type) error {
	url, err := l.validator.ValidateAndNormalize(rawURL)
	if err != nil {
		return fmt.Errorf("refusing to open link: %w", err)
	}

	playerName := l.playerFor(mediaType)
	if playerName == "" {
		return fmt.Errorf("no application found to open URL")
	}

	cmd, err := l.registry.GetCommand(playerName, mediaType, url)
	if err != nil {
		cmd = exec.Command(playerName, url)
	}

	debuglog.WithFields(map[string]interface{}{
		"player": playerName,
		"type":   mediaType.String(),
	}).Infof("opening %s", url)

	if err := l.start(cmd); err != nil {
		return fmt.Errorf("failed to start %s: %w", playerName, err)
	}
	return nil
}

func (l *Launcher) playerFor(mediaType Type) string {
	switch mediaType {
	case TypeVideo:
		return l.videoPlayer
	case TypeImage:
		return l.imageViewer
	default:
		if l.defaultOpener != "" {
			return l.defaultOpener
		}
		return l.detector.GetDefaultOpener()
	}
}

func (l *Launcher) findCommand(commands ...string) string {
	for _, cmd := range commands {
		if _, err := l.lookPath(cmd); err == nil {
			return cmd
		}
	}
	return ""
}

// startDetached starts a GUI program without waiting for it to exit.
func startDetached(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}
