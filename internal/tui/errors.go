package tui

import "fmt"

// wrapErr prefixes err with what the UI was doing.
func wrapErr(action string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", action, err)
}
