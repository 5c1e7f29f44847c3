package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"fyne.io/fyne/v2/app"
	"github.com/hoppxi/lightroom/internal/manager"
	"github.com/hoppxi/lightroom/internal/state"
	"github.com/hoppxi/lightroom/internal/ui"
	"github.com/hoppxi/lightroom/pkg/command"
	"github.com/ncruces/zenity"
	"github.com/spf13/cobra"
)

var Version = "0.2.0"

const appID = "io.github.hoppxi.lightroom"

var rootCmd = &cobra.Command{
	Use:     "lightroom",
	Version: Version,
	Short:   "Single-slider monitor brightness control",
	Long:    "Lightroom opens a small window with one slider that sets the brightness of the primary output through xrandr",
	Args:    cobra.NoArgs,

	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		runWindow()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(outputCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(generateConfigCmd)
}

func runWindow() {
	cfg := manager.Config.Load()
	tool := cfg.GetString("tool")

	if cfg.GetBool("ipc") {
		if _, err := manager.Manage.SendIPCCommand("SHOW"); err == nil {
			fmt.Println("Lightroom is already running")
			return
		}
	}

	st, err := state.New(context.Background(), command.Exec, tool, cfg.GetString("label"))
	if err != nil {
		fail(err)
	}

	surface := ui.New(app.NewWithID(appID), st, command.Exec, tool, nil)

	if cfg.GetBool("ipc") {
		if err := manager.Manage.StartIPCServer(surface); err != nil {
			log.Printf("ipc: %v", err)
		}
	}
	if cfg.GetBool("dbus") {
		if err := manager.Manage.StartDBusService(surface); err != nil {
			log.Printf("dbus: %v", err)
		}
	}

	manager.Config.Watch(func(settings manager.Settings) {
		surface.SetLabel(settings.Label)
	})

	surface.ShowAndRun()
	manager.Manage.StopAll()
}

// fail reports an error that keeps the window from opening and exits.
func fail(err error) {
	log.Printf("ERROR: %v", err)

	if manager.Config.Load().GetBool("dialogs") {
		if derr := zenity.Error(err.Error(), zenity.Title(ui.Title), zenity.ErrorIcon); derr != nil && derr != zenity.ErrCanceled {
			log.Printf("dialog: %v", derr)
		}
	}
	os.Exit(1)
}
