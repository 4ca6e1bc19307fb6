package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:       "http://127.0.0.1:0/api/json/v1/1",
			DefaultLetter: "a",
			HTTPTimeout:   5 * time.Second,
			UserAgent:     "mymeals-test/1.0",
		},
		Search: SearchConfig{
			Debounce:     300 * time.Millisecond,
			FilterEngine: FilterEngineToken,
		},
		UI:    defaultConfig().UI,
		Media: defaultConfig().Media,
		Keys:  defaultConfig().Keys,
		Log:   LogConfig{Level: "off"},
	}
}
