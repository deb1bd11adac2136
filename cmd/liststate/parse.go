package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/devconsole/liststate/pkg/api"
	"github.com/devconsole/liststate/pkg/liststate"
	"github.com/devconsole/liststate/pkg/listsync"
	"github.com/devconsole/liststate/pkg/router"
)

func parseCmd(flags *globalFlags) *cobra.Command {
	var (
		perPage   int
		basePath  string
		canonical bool
	)

	cmd := &cobra.Command{
		Use:   "parse <resource> <location>",
		Short: "Parse a location into a list state",
		Long: `Parse a console location into the list state of a resource
and print it as JSON. With --canonical the output is an object holding
the resource, the canonical location and the state, as served by the
inspector API.

Examples:
  liststate parse devices '/devices?page=2&status=accepted'
  liststate parse releases /releases/rel-42 --canonical
  liststate parse auditlogs '/auditlogs?from=2024-01-01' --per-page 50`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return usageError(cmd, "parse takes a resource and a location")
			}
			k, err := liststate.ParseKind(args[0])
			if err != nil {
				return err
			}
			loc, err := router.ParseLocation(args[1])
			if err != nil {
				return usageError(cmd, "invalid location "+args[1]+": "+err.Error())
			}

			cfg, err := loadConfig(cmd.Context(), flags)
			if err != nil {
				return err
			}
			logger := newLogger(cmd.ErrOrStderr(), flags.verbose)

			f := listsync.New(router.NewMemoryHistory(loc.String()),
				listsync.WithDefaults(cfg.Defaults()),
				listsync.WithLogger(logger),
			)
			extras := liststate.Extras{PerPage: perPage, BasePath: basePath}
			state, err := f.ReadWith(k, extras)
			if err != nil {
				return err
			}

			var v any = state
			if canonical {
				target, err := f.Target(k, state, extras)
				if err != nil {
					return err
				}
				v = api.StateResponse{Resource: k, Location: target, State: state}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(v)
		},
	}

	cmd.Flags().IntVar(&perPage, "per-page", 0, "Default page size (default from config)")
	cmd.Flags().StringVar(&basePath, "base-path", "", "Resource base path (default from config)")
	cmd.Flags().BoolVar(&canonical, "canonical", false, "Wrap the state with its canonical location")

	return cmd
}
