package cli

import (
	"bufio"
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophnotes/internal/buildinfo"
	"github.com/dmitrijs2005/gophnotes/internal/client/config"
	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/spf13/cobra"
)

// newAppFn is a test seam for NewApp.
var newAppFn = NewApp

// NewRootCmd builds the command tree. cfg already holds defaults and the
// config file; the flags registered here override it when parsed.
func NewRootCmd(cfg *config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "gophnotes",
		Short:         "Local-first notes with best-effort server sync",
		Long:          "Without a subcommand gophnotes signs in and starts an interactive prompt.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, cfg, func(ctx context.Context, a *App) error {
				return a.Run(ctx)
			})
		},
	}
	config.BindFlags(root.PersistentFlags(), cfg)

	root.AddCommand(
		newListCmd(cfg),
		newAddCmd(cfg),
		newExportCmd(cfg),
		newVersionCmd(),
	)
	return root
}

// withApp builds an App wired to the command's streams, runs fn and closes
// the App.
func withApp(cmd *cobra.Command, cfg *config.Config, fn func(context.Context, *App) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogPretty)
	if err != nil {
		return err
	}

	app, err := newAppFn(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := app.Close(); cerr != nil {
			logger.Warn(ctx, "close failed", "error", cerr)
		}
	}()

	app.out = cmd.OutOrStdout()
	app.reader = bufio.NewReader(cmd.InOrStdin())
	return fn(ctx, app)
}

func newListCmd(cfg *config.Config) *cobra.Command {
	var archived, trash, asJSON bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"l"},
		Short:   "Print the notes of a collection",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			coll := common.CollectionActive
			switch {
			case archived && trash:
				return fmt.Errorf("--archived and --trash are mutually exclusive")
			case archived:
				coll = common.CollectionArchived
			case trash:
				coll = common.CollectionTrashed
			}

			return withApp(cmd, cfg, func(ctx context.Context, a *App) error {
				if !asJSON {
					return a.List(ctx, coll)
				}
				list, err := a.store.List(coll)
				if err != nil {
					return err
				}
				return renderJSON(a.out, list)
			})
		},
	}
	cmd.Flags().BoolVar(&archived, "archived", false, "list archived notes")
	cmd.Flags().BoolVar(&trash, "trash", false, "list trashed notes")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func newAddCmd(cfg *config.Config) *cobra.Command {
	var heading, text string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a note to the active collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, cfg, func(ctx context.Context, a *App) error {
				n, err := a.store.Add(ctx, heading, text)
				if err != nil {
					return err
				}
				fmt.Fprintln(a.out, n.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&heading, "heading", "", "note heading")
	cmd.Flags().StringVar(&text, "text", "", "note text")
	return cmd
}

func newExportCmd(cfg *config.Config) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every collection of the local database to a JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, cfg, func(ctx context.Context, a *App) error {
				return a.Export(ctx, []string{out})
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", DefaultExportFile, "output file")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			buildinfo.PrintBuildData(cmd.OutOrStdout())
		},
	}
}
