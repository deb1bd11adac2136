package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/devconsole/liststate/pkg/liststate"
	"github.com/devconsole/liststate/pkg/listsync"
	"github.com/devconsole/liststate/pkg/router"
)

func formatCmd(flags *globalFlags) *cobra.Command {
	var (
		location string
		perPage  int
		basePath string
	)

	cmd := &cobra.Command{
		Use:   "format <resource> [state.json]",
		Short: "Format a list state into a location",
		Long: `Format a JSON list state into the location the console would
navigate to. The state is read from the file argument, or from
stdin when the argument is omitted or "-".

The current location (--location) decides the path for resources
whose state does not determine it.

Examples:
  echo '{"page":2,"filters":{"status":"accepted"}}' | liststate format devices
  liststate format releases state.json
  liststate format devices state.json --location /devices/accepted`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 || len(args) > 2 {
				return usageError(cmd, "format takes a resource and an optional state file")
			}
			k, err := liststate.ParseKind(args[0])
			if err != nil {
				return err
			}

			data, err := readInput(cmd.InOrStdin(), args[1:])
			if err != nil {
				return err
			}

			cfg, err := loadConfig(cmd.Context(), flags)
			if err != nil {
				return err
			}
			logger := newLogger(cmd.ErrOrStderr(), flags.verbose)
			defaults := cfg.Defaults()

			if location == "" {
				location = defaults.Extras(k, router.Location{}).BasePath
			}
			loc, err := router.ParseLocation(location)
			if err != nil {
				return usageError(cmd, "invalid --location "+location+": "+err.Error())
			}

			extras := liststate.Extras{PerPage: perPage, BasePath: basePath}
			resolved := defaults.Extras(k, loc)
			if perPage > 0 {
				resolved.PerPage = perPage
			}
			if basePath != "" {
				resolved.BasePath = basePath
			}
			state, err := liststate.DecodeState(k, data, resolved)
			if err != nil {
				return err
			}

			nav := router.NewMemoryHistory(loc.String())
			f := listsync.New(nav, listsync.WithDefaults(defaults), listsync.WithLogger(logger))
			if err := f.WriteWith(k, state, extras); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), nav.Location().String())
			return nil
		},
	}

	cmd.Flags().StringVarP(&location, "location", "l", "", "Current location (default: the resource base path)")
	cmd.Flags().IntVar(&perPage, "per-page", 0, "Default page size (default from config)")
	cmd.Flags().StringVar(&basePath, "base-path", "", "Resource base path (default from config)")

	return cmd
}

// readInput reads the named file, or stdin for no name or "-".
func readInput(stdin io.Reader, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(args[0])
}
