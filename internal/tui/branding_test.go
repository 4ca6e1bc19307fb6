package tui

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/pders01/mymeals/internal/config"
)

func TestShowBanner(t *testing.T) {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	outC := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	ShowBanner("1.0.0-test")

	w.Close()
	os.Stdout = old
	out := <-outC

	if !strings.Contains(out, "Recipe Browser") {
		t.Errorf("Expected banner to contain 'Recipe Browser', got: %s", out)
	}
	if !strings.Contains(out, "╔") || !strings.Contains(out, "╝") {
		t.Errorf("Expected banner to contain border characters, got: %s", out)
	}
	if !strings.Contains(out, "◆") {
		t.Errorf("Expected banner to contain separator symbols, got: %s", out)
	}
	if !strings.Contains(out, "v1.0.0-test") {
		t.Errorf("Expected banner to contain version 'v1.0.0-test', got: %s", out)
	}
}

func TestGetCompactBanner(t *testing.T) {
	message := "Test message"
	result := GetCompactBanner(message)

	if !strings.Contains(result, message) {
		t.Errorf("Expected compact banner to contain '%s', got: %s", message, result)
	}
	if !strings.Contains(result, "█▀▄▀█") {
		t.Errorf("Expected compact banner to contain logo elements, got: %s", result)
	}
}

func TestGetWelcomeMessage(t *testing.T) {
	result := GetWelcomeMessage()

	for _, want := range []string{Tagline, "Get Started", WelcomeFooter} {
		if !strings.Contains(result, want) {
			t.Errorf("Expected welcome message to contain %q, got: %s", want, result)
		}
	}
}

func TestLogoConstants(t *testing.T) {
	if len(LogoLines) != 2 {
		t.Errorf("Expected 2 logo lines, got %d", len(LogoLines))
	}
	if len(BannerColors) != 5 {
		t.Errorf("Expected 5 banner colors, got %d", len(BannerColors))
	}
}

func TestApplyTheme(t *testing.T) {
	saved := []lipgloss.Color{PrimaryColor, MutedColor}
	t.Cleanup(func() {
		PrimaryColor, MutedColor = saved[0], saved[1]
		buildStyles()
	})

	ApplyTheme(config.UIColors{Primary: "#123456"})

	assert.Equal(t, lipgloss.Color("#123456"), PrimaryColor)
	assert.Equal(t, saved[1], MutedColor, "empty entries keep the built-in color")
	assert.Equal(t, lipgloss.Color("#123456"), LogoStyle.GetForeground())
}
