package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hoppxi/lightroom/internal/manager"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Tool    string `yaml:"tool"`
	Label   string `yaml:"label"`
	IPC     bool   `yaml:"ipc"`
	DBus    bool   `yaml:"dbus"`
	Dialogs bool   `yaml:"dialogs"`
}

func defaultConfig() Config {
	return Config{
		Tool:    manager.Defaults["tool"].(string),
		Label:   manager.Defaults["label"].(string),
		IPC:     manager.Defaults["ipc"].(bool),
		DBus:    manager.Defaults["dbus"].(bool),
		Dialogs: manager.Defaults["dialogs"].(bool),
	}
}

var generateConfigCmd = &cobra.Command{
	Use:   "generate-config",
	Short: "Write lightroom.yaml with the default settings",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		reader := bufio.NewReader(cmd.InOrStdin())
		path := manager.ConfigPath()

		if _, err := os.Stat(path); !os.IsNotExist(err) {
			if !confirm(reader, cmd.OutOrStdout(), path+" already exists. Overwrite with defaults?") {
				return
			}
		}

		if err := writeConfig(path, defaultConfig()); err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "Error: %v\n", err)
			return
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Config written to", path)
	},
}

func writeConfig(path string, conf Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	d, err := yaml.Marshal(&conf)
	if err != nil {
		return err
	}
	return os.WriteFile(path, d, 0644)
}

func confirm(r *bufio.Reader, w io.Writer, message string) bool {
	fmt.Fprintf(w, "%s (y/N): ", message)
	input, _ := r.ReadString('\n')
	input = strings.ToLower(strings.TrimSpace(input))
	return input == "y" || input == "yes"
}
