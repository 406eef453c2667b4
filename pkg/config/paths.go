package config

import (
	"fmt"
	"github.com/adrg/xdg"
)

const appDir = "ongeul"

func DefaultPath() (string, error) {
	path, err := xdg.ConfigFile(appDir + "/config.toml")
	if err != nil {
		return "", fmt.Errorf("resolve config file: %w", err)
	}
	return path, nil
}

// StatePath returns the default location of the state file for backend,
// creating its directory.
func StatePath(backend string) (string, error) {
	name := "state.db"
	if backend == StoreJSON {
		name = "state.json"
	}

	path, err := xdg.DataFile(appDir + "/" + name)
	if err != nil {
		return "", fmt.Errorf("resolve state file: %w", err)
	}
	return path, nil
}
