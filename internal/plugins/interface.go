package plugins

import (
	"context"
	"net/url"
	"path"
	"strings"
)

// Kind classifies what a link points at.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
	KindPage  Kind = "page"
)

// LinkInfo describes one openable link of a meal.
type LinkInfo struct {
	// URL to open, possibly canonicalised by the plugin
	URL string
	// Original URL as found in the meal record
	OriginalURL string
	Kind        Kind
	// Title is a short label such as "YouTube video"
	Title string
	// Description of the link
	Description string
	// Additional metadata that plugins can provide
	Metadata map[string]string
}

// Plugin defines the interface that host-specific plugins must implement
type Plugin interface {
	// Name returns the plugin name for identification
	Name() string

	// CanHandle returns true if this plugin can handle the given URL
	CanHandle(url string) bool

	// Describe returns display information for url.
	Describe(ctx context.Context, url string) (*LinkInfo, error)

	// Priority returns the priority of this plugin (higher = higher priority)
	// Useful when multiple plugins can handle the same URL
	Priority() int
}

// Registry manages all registered plugins
type Registry struct {
	plugins []Plugin
}

// NewRegistry creates a registry holding the built-in image plugin.
func NewRegistry() *Registry {
	r := &Registry{plugins: make([]Plugin, 0, 2)}
	r.Register(NewImagePlugin())
	return r
}

// Register adds a plugin to the registry
func (r *Registry) Register(plugin Plugin) {
	r.plugins = append(r.plugins, plugin)
}

// FindPlugin returns the best plugin for handling a given URL
// Returns the plugin with highest priority that can handle the URL
func (r *Registry) FindPlugin(url string) Plugin {
	var bestPlugin Plugin
	highestPriority := -1

	for _, plugin := range r.plugins {
		if plugin.CanHandle(url) && plugin.Priority() > highestPriority {
			bestPlugin = plugin
			highestPriority = plugin.Priority()
		}
	}

	return bestPlugin
}

// Describe describes url with the best plugin, or as a plain web page when
// no plugin handles it or the plugin fails.
func (r *Registry) Describe(ctx context.Context, rawURL string) *LinkInfo {
	if plugin := r.FindPlugin(rawURL); plugin != nil {
		if info, err := plugin.Describe(ctx, rawURL); err == nil && info != nil {
			return info
		}
	}
	return pageInfo(rawURL)
}

// DescribeAll describes every link in order.
func (r *Registry) DescribeAll(ctx context.Context, urls []string) []*LinkInfo {
	out := make([]*LinkInfo, 0, len(urls))
	for _, u := range urls {
		out = append(out, r.Describe(ctx, u))
	}
	return out
}

// ListPlugins returns all registered plugins
func (r *Registry) ListPlugins() []Plugin {
	return append([]Plugin(nil), r.plugins...)
}

func pageInfo(rawURL string) *LinkInfo {
	title := "Recipe source"
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		title = "Recipe source (" + strings.TrimPrefix(u.Hostname(), "www.") + ")"
	}
	return &LinkInfo{
		URL:         rawURL,
		OriginalURL: rawURL,
		Kind:        KindPage,
		Title:       title,
		Metadata:    map[string]string{},
	}
}

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

// ImagePlugin recognises meal photos by file extension.
type ImagePlugin struct{}

func NewImagePlugin() *ImagePlugin {
	return &ImagePlugin{}
}

func (p *ImagePlugin) Name() string {
	return "image"
}

func (p *ImagePlugin) CanHandle(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return imageExtensions[strings.ToLower(path.Ext(u.Path))]
}

func (p *ImagePlugin) Priority() int {
	return 10
}

func (p *ImagePlugin) Describe(_ context.Context, rawURL string) (*LinkInfo, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	// The API serves reduced sizes under <photo>/preview.
	return &LinkInfo{
		URL:         rawURL,
		OriginalURL: rawURL,
		Kind:        KindImage,
		Title:       "Photo",
		Description: path.Base(u.Path),
		Metadata: map[string]string{
			"plugin":  "image",
			"preview": strings.TrimRight(rawURL, "/") + "/preview",
		},
	}, nil
}
