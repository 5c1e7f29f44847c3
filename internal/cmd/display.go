package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/hoppxi/lightroom/internal/manager"
	"github.com/hoppxi/lightroom/pkg/command"
	"github.com/hoppxi/lightroom/pkg/displayinfo"
	"github.com/hoppxi/lightroom/pkg/operation"
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the primary output and its brightness",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tool := manager.Config.Load().GetString("tool")

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			data, err := displayinfo.GetDisplayInfoJSON(cmd.Context(), command.Exec, tool)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		}

		info, err := displayinfo.GetDisplayInfo(cmd.Context(), command.Exec, tool)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", info.Output, operation.FormatBrightness(info.Level))
		return nil
	},
}

var setCmd = &cobra.Command{
	Use:   "set <level>",
	Short: "Set the brightness of the primary output",
	Long:  "Set the brightness of the primary output. Levels outside (0.4, 1.0] are sent as 0.4. A running window is moved along with the display.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid level %q", args[0])
		}

		cfg := manager.Config.Load()
		if cfg.GetBool("ipc") {
			if conn, err := manager.Manage.ConnectIPC(); err == nil {
				conn.Close()
				_, err := manager.Manage.SendIPCCommand("SET " + operation.FormatBrightness(level))
				return err
			}
		}

		return setDirect(cmd.Context(), command.Exec, cfg.GetString("tool"), level)
	},
}

func setDirect(ctx context.Context, exec command.Executor, tool string, level float64) error {
	output, err := displayinfo.ResolveOutput(ctx, exec, tool)
	if err != nil {
		return err
	}
	return operation.Display.SetBrightness(exec, tool, output, level)
}

var outputCmd = &cobra.Command{
	Use:   "output",
	Short: "Print the name of the primary output",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		output, err := displayinfo.ResolveOutput(cmd.Context(), command.Exec, manager.Config.Load().GetString("tool"))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), output)
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report whether a Lightroom window is running",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		reply, err := manager.Manage.SendIPCCommand("STATUS")
		if err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), "not running")
			return
		}
		fmt.Fprintln(cmd.OutOrStdout(), reply)
	},
}

func init() {
	getCmd.Flags().Bool("json", false, "Print as JSON")
}
