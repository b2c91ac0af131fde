package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Seeyong/pyowm/internal/app"
	"github.com/Seeyong/pyowm/pkg/stations"
)

func newStationsCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stations",
		Short: "Manage weather stations",
		Long: `Create, inspect, update and delete your weather stations.

Stations created here are remembered locally by external id, so get, update
and delete accept either the API id or the external id.

Examples:
  owm stations list
  owm stations create -f station.yaml
  owm stations delete SF_TEST001`,
	}

	cmd.AddCommand(
		newStationsListCmd(o),
		newStationsGetCmd(o),
		newStationsCreateCmd(o),
		newStationsUpdateCmd(o),
		newStationsDeleteCmd(o),
		newStationsIndexCmd(o),
	)
	return cmd
}

func newStationsListCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all stations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.withApp(cmd, func(a *app.App) error {
				list, err := a.ListStations(cmd.Context())
				if err != nil {
					return err
				}
				if list == nil {
					list = []stations.Station{}
				}
				return printResult(cmd.OutOrStdout(), o.output, list)
			})
		},
	}
}

func newStationsGetCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id|external_id>",
		Short: "Show one station",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.withApp(cmd, func(a *app.App) error {
				st, err := a.GetStation(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printResult(cmd.OutOrStdout(), o.output, st)
			})
		},
	}
}

func newStationsCreateCmd(o *options) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a station from a YAML or JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := stations.LoadNewStation(file)
			if err != nil {
				return err
			}
			return o.withApp(cmd, func(a *app.App) error {
				st, err := a.CreateStation(cmd.Context(), def)
				if err != nil {
					return err
				}
				return printResult(cmd.OutOrStdout(), o.output, st)
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Station definition file (.yaml, .yml or .json)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newStationsUpdateCmd(o *options) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "update <id|external_id>",
		Short: "Replace the fields of a station from a YAML or JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := stations.LoadNewStation(file)
			if err != nil {
				return err
			}
			return o.withApp(cmd, func(a *app.App) error {
				st, err := a.UpdateStation(cmd.Context(), args[0], def)
				if err != nil {
					return err
				}
				return printResult(cmd.OutOrStdout(), o.output, st)
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Station definition file (.yaml, .yml or .json)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newStationsDeleteCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id|external_id>",
		Short: "Delete a station",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.withApp(cmd, func(a *app.App) error {
				id, err := a.DeleteStation(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printResult(cmd.OutOrStdout(), o.output, map[string]string{"deleted": id})
			})
		},
	}
}

func newStationsIndexCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Show the local external id to station id index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.withApp(cmd, func(a *app.App) error {
				index, err := a.StationIndex()
				if err != nil {
					return fmt.Errorf("read station index: %w", err)
				}
				return printResult(cmd.OutOrStdout(), o.output, index)
			})
		},
	}
}
