package user

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/pders01/mymeals/internal/plugins"
)

// YouTubePlugin recognises recipe videos and canonicalises their URLs.
type YouTubePlugin struct{}

// NewYouTubePlugin creates a new YouTube plugin
func NewYouTubePlugin() *YouTubePlugin {
	return &YouTubePlugin{}
}

// Name returns the plugin name
func (p *YouTubePlugin) Name() string {
	return "youtube"
}

// CanHandle returns true for youtube.com watch links and youtu.be short links
func (p *YouTubePlugin) CanHandle(rawURL string) bool {
	return videoID(rawURL) != ""
}

// Priority returns the plugin priority
func (p *YouTubePlugin) Priority() int {
	return 50
}

// Describe returns the canonical watch URL of the video.
func (p *YouTubePlugin) Describe(_ context.Context, rawURL string) (*plugins.LinkInfo, error) {
	id := videoID(rawURL)
	if id == "" {
		return nil, fmt.Errorf("not a YouTube video URL: %s", rawURL)
	}

	return &plugins.LinkInfo{
		URL:         "https://www.youtube.com/watch?v=" + url.QueryEscape(id),
		OriginalURL: rawURL,
		Kind:        plugins.KindVideo,
		Title:       "YouTube video",
		Description: "Video walkthrough (" + id + ")",
		Metadata: map[string]string{
			"plugin":    "youtube",
			"video_id":  id,
			"thumbnail": "https://img.youtube.com/vi/" + id + "/hqdefault.jpg",
		},
	}, nil
}

func videoID(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	host = strings.TrimPrefix(host, "m.")
	switch host {
	case "youtube.com":
		if u.Path == "/watch" {
			return u.Query().Get("v")
		}
		if id, ok := strings.CutPrefix(u.Path, "/embed/"); ok {
			return strings.Trim(id, "/")
		}
	case "youtu.be":
		return strings.Trim(u.Path, "/")
	}
	return ""
}
