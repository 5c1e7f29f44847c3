package manager

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

var (
	once sync.Once
	v    *viper.Viper
)

// Defaults applied before the config file and LIGHTROOM_* variables.
var Defaults = map[string]any{
	"tool":    "xrandr",
	"label":   "Brightness",
	"ipc":     true,
	"dbus":    true,
	"dialogs": true,
}

type ConfigManager struct{}

var Config = &ConfigManager{}

func ConfigPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}
	return filepath.Join(configDir, "lightroom", "lightroom.yaml")
}

// Load reads the config file once. A missing file leaves the defaults in
// place.
func (c *ConfigManager) Load() *viper.Viper {
	once.Do(func() {
		v = newViper(ConfigPath())
	})

	return v
}

func newViper(path string) *viper.Viper {
	nv := viper.New()
	for key, value := range Defaults {
		nv.SetDefault(key, value)
	}

	nv.SetEnvPrefix("lightroom")
	nv.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	nv.AutomaticEnv()

	nv.SetConfigFile(path)
	nv.SetConfigType("yaml")

	if err := nv.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			log.Printf("config: %v", fmt.Errorf("failed to read %s: %w", path, err))
		}
	}
	return nv
}

// Settings is a copy of the values that may change while the window runs.
type Settings struct {
	Label string
}

var settingsMu sync.Mutex

func snapshot(cv *viper.Viper) Settings {
	settingsMu.Lock()
	defer settingsMu.Unlock()

	return Settings{
		Label: cv.GetString("label"),
	}
}

// Watch calls onChange with fresh Settings after every write to the config
// file. The settings are read once per event on the watcher goroutine, so
// onChange never touches viper.
func (c *ConfigManager) Watch(onChange func(Settings)) {
	if v.ConfigFileUsed() == "" {
		return
	}
	if _, err := os.Stat(v.ConfigFileUsed()); err != nil {
		return
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if e.Has(fsnotify.Write) || e.Has(fsnotify.Create) {
			onChange(snapshot(v))
		}
	})
	v.WatchConfig()
}
