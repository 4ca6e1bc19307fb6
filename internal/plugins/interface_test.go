package plugins

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockPlugin struct {
	name      string
	priority  int
	canHandle func(string) bool
	describe  func(context.Context, string) (*LinkInfo, error)
}

func (p *mockPlugin) Name() string {
	return p.name
}

func (p *mockPlugin) CanHandle(url string) bool {
	if p.canHandle != nil {
		return p.canHandle(url)
	}
	return false
}

func (p *mockPlugin) Describe(ctx context.Context, url string) (*LinkInfo, error) {
	if p.describe != nil {
		return p.describe(ctx, url)
	}
	return &LinkInfo{URL: url, OriginalURL: url, Kind: KindPage, Title: "Mock"}, nil
}

func (p *mockPlugin) Priority() int {
	return p.priority
}

func TestNewRegistryHasImagePlugin(t *testing.T) {
	registry := NewRegistry()
	require.Len(t, registry.plugins, 1)
	assert.Equal(t, "image", registry.plugins[0].Name())
}

func TestRegistry_FindPlugin(t *testing.T) {
	registry := NewRegistry()

	low := &mockPlugin{
		name:      "low-priority",
		priority:  20,
		canHandle: func(url string) bool { return url == "https://cooking.test/a" },
	}
	high := &mockPlugin{
		name:      "high-priority",
		priority:  100,
		canHandle: func(url string) bool { return url == "https://cooking.test/a" },
	}
	other := &mockPlugin{
		name:      "different-url",
		priority:  200,
		canHandle: func(url string) bool { return url == "https://other.test" },
	}

	registry.Register(low)
	registry.Register(high)
	registry.Register(other)

	t.Run("finds highest priority plugin", func(t *testing.T) {
		assert.Equal(t, high, registry.FindPlugin("https://cooking.test/a"))
	})

	t.Run("finds specific plugin", func(t *testing.T) {
		assert.Equal(t, other, registry.FindPlugin("https://other.test"))
	})

	t.Run("built-in image plugin", func(t *testing.T) {
		p := registry.FindPlugin("https://www.themealdb.com/images/media/meals/abc.JPG")
		require.NotNil(t, p)
		assert.Equal(t, "image", p.Name())
	})

	t.Run("returns nil for no matching plugin", func(t *testing.T) {
		assert.Nil(t, registry.FindPlugin("https://nomatch.test"))
	})
}

func TestRegistry_Describe(t *testing.T) {
	ctx := context.Background()

	t.Run("with matching plugin", func(t *testing.T) {
		registry := NewRegistry()
		registry.Register(&mockPlugin{
			name:      "test",
			priority:  50,
			canHandle: func(url string) bool { return url == "https://cooking.test" },
			describe: func(_ context.Context, url string) (*LinkInfo, error) {
				return &LinkInfo{URL: url + "/canonical", OriginalURL: url, Kind: KindVideo, Title: "Described"}, nil
			},
		})

		info := registry.Describe(ctx, "https://cooking.test")
		assert.Equal(t, "https://cooking.test/canonical", info.URL)
		assert.Equal(t, KindVideo, info.Kind)
		assert.Equal(t, "Described", info.Title)
	})

	t.Run("plugin failure falls back to page", func(t *testing.T) {
		registry := NewRegistry()
		registry.Register(&mockPlugin{
			name:      "broken",
			priority:  50,
			canHandle: func(string) bool { return true },
			describe: func(context.Context, string) (*LinkInfo, error) {
				return nil, errors.New("boom")
			},
		})

		info := registry.Describe(ctx, "https://www.bbcgoodfood.com/recipes/fish-pie")
		assert.Equal(t, KindPage, info.Kind)
		assert.Equal(t, "Recipe source (bbcgoodfood.com)", info.Title)
	})

	t.Run("without matching plugin", func(t *testing.T) {
		info := NewRegistry().Describe(ctx, "https://nomatch.test/recipe")
		assert.Equal(t, "https://nomatch.test/recipe", info.URL)
		assert.Equal(t, KindPage, info.Kind)
		assert.NotNil(t, info.Metadata)
	})
}

func TestRegistry_DescribeAll(t *testing.T) {
	infos := NewRegistry().DescribeAll(context.Background(), []string{
		"https://www.themealdb.com/images/media/meals/wvpsxx1468256321.jpg",
		"https://food.test/recipe",
	})
	require.Len(t, infos, 2)
	assert.Equal(t, KindImage, infos[0].Kind)
	assert.Equal(t, "Photo", infos[0].Title)
	assert.Equal(t, "wvpsxx1468256321.jpg", infos[0].Description)
	assert.Equal(t, "https://www.themealdb.com/images/media/meals/wvpsxx1468256321.jpg/preview", infos[0].Metadata["preview"])
	assert.Equal(t, KindPage, infos[1].Kind)
}

func TestRegistry_ListPlugins(t *testing.T) {
	registry := NewRegistry()
	plugin := &mockPlugin{name: "plugin1", priority: 10}
	registry.Register(plugin)

	plugins := registry.ListPlugins()
	assert.Len(t, plugins, 2)
	assert.Contains(t, plugins, plugin)

	// Returned slice is a copy
	plugins[0] = nil
	assert.NotNil(t, registry.plugins[0])
}

func TestImagePluginCanHandle(t *testing.T) {
	p := NewImagePlugin()
	assert.True(t, p.CanHandle("https://x.test/a.png"))
	assert.True(t, p.CanHandle("https://x.test/a.jpeg?w=300"))
	assert.False(t, p.CanHandle("https://x.test/a.html"))
	assert.False(t, p.CanHandle("://bad"))
}
