package media

import (
	_ "embed"
	"net/url"
	"path"
	"runtime"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/pders01/mymeals/internal/plugins"
)

//go:embed media_types.toml
var mediaTypesTOML []byte

type Type int

const (
	TypeUnknown Type = iota
	TypeVideo
	TypeImage
)

func (t Type) String() string {
	switch t {
	case TypeVideo:
		return "video"
	case TypeImage:
		return "image"
	default:
		return "page"
	}
}

// TypeFromKind maps a plugin link kind to a media type.
func TypeFromKind(k plugins.Kind) Type {
	switch k {
	case plugins.KindVideo:
		return TypeVideo
	case plugins.KindImage:
		return TypeImage
	default:
		return TypeUnknown
	}
}

type TypeConfig struct {
	Extensions  []string `toml:"extensions"`
	URLPatterns []string `toml:"url_patterns"`
}

type TypesConfig struct {
	Video     TypeConfig                `toml:"video"`
	Image     TypeConfig                `toml:"image"`
	Platforms map[string]PlatformConfig `toml:"platforms"`
}

type PlatformConfig struct {
	DefaultOpener string `toml:"default_opener"`
}

type TypeDetector struct {
	config *TypesConfig
}

func NewTypeDetector() (*TypeDetector, error) {
	var config TypesConfig
	if err := toml.Unmarshal(mediaTypesTOML, &config); err != nil {
		return nil, err
	}
	return &TypeDetector{config: &config}, nil
}

// DetectType classifies a URL by file extension first, then by URL pattern.
func (d *TypeDetector) DetectType(rawURL string) Type {
	lower := strings.ToLower(strings.TrimSpace(rawURL))

	p := lower
	if u, err := url.Parse(lower); err == nil {
		p = u.Path
	}
	if ext := strings.TrimPrefix(path.Ext(p), "."); ext != "" {
		if slices.Contains(d.config.Video.Extensions, ext) {
			return TypeVideo
		}
		if slices.Contains(d.config.Image.Extensions, ext) {
			return TypeImage
		}
	}

	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		if matchesPattern(lower, d.config.Video.URLPatterns) {
			return TypeVideo
		}
		if matchesPattern(lower, d.config.Image.URLPatterns) {
			return TypeImage
		}
	}

	return TypeUnknown
}

func (d *TypeDetector) GetDefaultOpener() string {
	if platformConfig, ok := d.config.Platforms[runtime.GOOS]; ok {
		return platformConfig.DefaultOpener
	}
	if fallback, ok := d.config.Platforms["fallback"]; ok {
		return fallback.DefaultOpener
	}
	return "open"
}

func matchesPattern(u string, patterns []string) bool {
	for _, pattern := range patterns {
		if strings.Contains(u, pattern) {
			return true
		}
	}
	return false
}
