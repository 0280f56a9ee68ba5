package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/sproutnotes/sprout/internal/config"
	"github.com/sproutnotes/sprout/internal/errors"
	"github.com/sproutnotes/sprout/internal/idea"
	"github.com/sproutnotes/sprout/internal/ops"
	"github.com/sproutnotes/sprout/internal/settings"
	"github.com/sproutnotes/sprout/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, cfg *config.Config, mgr *settings.Manager) *cli.App {
	app := &cli.App{
		Name:    "sprout",
		Usage:   "Startup idea notebook with an AI advisor",
		Version: Version,
		Commands: []*cli.Command{
			addCmd(db),
			showCmd(db),
			listCmd(db),
			deleteCmd(db),
			moveCmd(db),
			foldersCmd(db),
			chatCmd(db, cfg, mgr),
			keywordsCmd(db, cfg, mgr),
			planCmd(db, cfg, mgr),
			exportCmd(db, mgr),
			importCmd(db, mgr),
			settingsCmd(mgr),
			serveCmd(db, cfg, mgr),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

func newAdvisor(cfg *config.Config, mgr *settings.Manager) *ops.Advisor {
	return &ops.Advisor{
		Settings: mgr,
		Timeout:  cfg.CompletionTimeout(),
	}
}

// addCmd creates the add command.
func addCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Capture a new idea",
		ArgsUsage: "<title>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "details", Aliases: []string{"d"}, Usage: "Idea details"},
			&cli.StringFlag{Name: "status", Aliases: []string{"s"}, Usage: "Lifecycle status: draft|validation|mvp|completed|archived"},
			&cli.StringFlag{Name: "folder", Aliases: []string{"f"}, Usage: "Folder id"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("title is required"))
			}

			output, err := ops.Create(db, ops.CreateInput{
				Title:    strings.Join(c.Args().Slice(), " "),
				Details:  c.String("details"),
				Status:   idea.Status(c.String("status")),
				FolderID: c.String("folder"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// showCmd creates the show command.
func showCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show one idea by id",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("id is required"))
			}

			output, err := ops.Fetch(db, c.Args().First())
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// listCmd creates the list command.
func listCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List ideas",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "search", Aliases: []string{"q"}, Usage: "Search title, details, keywords"},
			&cli.StringFlag{Name: "status", Aliases: []string{"s"}, Usage: "Filter by status"},
			&cli.StringFlag{Name: "folder", Aliases: []string{"f"}, Usage: "Folder id, 'all', or 'uncategorized'"},
			&cli.StringFlag{Name: "sort", Usage: "Sort order: newest|oldest|az"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.List(db, ops.ListInput{
				Search: c.String("search"),
				Status: c.String("status"),
				Folder: c.String("folder"),
				Sort:   idea.SortOption(c.String("sort")),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete an idea",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "Skip confirmation"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("id is required"))
			}
			id := c.Args().First()

			if !c.Bool("yes") {
				fmt.Fprintf(os.Stderr, "Delete idea %s? [y/N] ", id)
				var answer string
				fmt.Fscanln(os.Stdin, &answer)
				if answer != "y" && answer != "Y" {
					fmt.Fprintln(os.Stderr, "aborted")
					return nil
				}
			}

			if err := ops.Delete(db, id); err != nil {
				return outputError(err)
			}

			return outputJSON(map[string]string{"deleted": id})
		},
	}
}

// moveCmd creates the move command.
func moveCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "move",
		Usage:     "Move an idea into a folder (empty folder id clears it)",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "folder", Aliases: []string{"f"}, Usage: "Target folder id"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("id is required"))
			}

			output, err := ops.AssignFolder(db, c.Args().First(), c.String("folder"))
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// foldersCmd creates the folders command group.
func foldersCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "folders",
		Usage: "Manage folders",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List all folders",
				Action: func(c *cli.Context) error {
					output, err := ops.ListFolders(db)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(map[string]any{"folders": output})
				},
			},
			{
				Name:      "add",
				Usage:     "Create a folder",
				ArgsUsage: "<name>",
				Action: func(c *cli.Context) error {
					if c.NArg() < 1 {
						return outputError(errors.NewInvalidRequest("name is required"))
					}
					output, err := ops.CreateFolder(db, strings.Join(c.Args().Slice(), " "))
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:      "rm",
				Usage:     "Delete a folder (ideas inside become uncategorized)",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					if c.NArg() < 1 {
						return outputError(errors.NewInvalidRequest("id is required"))
					}
					id := c.Args().First()
					if err := ops.DeleteFolder(db, id); err != nil {
						return outputError(err)
					}
					return outputJSON(map[string]string{"deleted": id})
				},
			},
		},
	}
}

// chatCmd creates the chat command.
func chatCmd(db *sql.DB, cfg *config.Config, mgr *settings.Manager) *cli.Command {
	return &cli.Command{
		Name:      "chat",
		Usage:     "Send one advisor chat message about an idea",
		ArgsUsage: "<id> <message...>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 2 {
				return outputError(errors.NewInvalidRequest("id and message are required"))
			}

			output, err := ops.SendMessage(c.Context, db, newAdvisor(cfg, mgr), ops.SendMessageInput{
				ID:      c.Args().First(),
				Message: strings.Join(c.Args().Tail(), " "),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// keywordsCmd creates the keywords command.
func keywordsCmd(db *sql.DB, cfg *config.Config, mgr *settings.Manager) *cli.Command {
	return &cli.Command{
		Name:      "keywords",
		Usage:     "Extract concept keywords for an idea",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("id is required"))
			}

			output, err := ops.ExtractKeywords(c.Context, db, newAdvisor(cfg, mgr), c.Args().First())
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// planCmd creates the plan command.
func planCmd(db *sql.DB, cfg *config.Config, mgr *settings.Manager) *cli.Command {
	return &cli.Command{
		Name:      "plan",
		Usage:     "Generate an implementation plan for an idea",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("id is required"))
			}

			output, err := ops.GeneratePlan(c.Context, db, newAdvisor(cfg, mgr), c.Args().First())
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// exportCmd creates the export command.
func exportCmd(db *sql.DB, mgr *settings.Manager) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export all ideas, folders, and settings as a backup",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Output file (default stdout)"},
		},
		Action: func(c *cli.Context) error {
			data, err := ops.ExportJSON(db, mgr)
			if err != nil {
				return outputError(err)
			}

			if out := c.String("out"); out != "" {
				if err := os.WriteFile(out, data, 0600); err != nil {
					return outputError(errors.NewInternal(err))
				}
				return outputJSON(map[string]string{"exported": out})
			}

			fmt.Println(string(data))
			return nil
		},
	}
}

// importCmd creates the import command.
func importCmd(db *sql.DB, mgr *settings.Manager) *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Import a backup file",
		ArgsUsage: "<path>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("path is required"))
			}

			data, err := os.ReadFile(c.Args().First())
			if err != nil {
				return outputError(errors.NewInvalidRequest(err.Error()))
			}

			backup, err := ops.ImportBackup(db, mgr, data)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(map[string]any{
				"imported_ideas":   len(backup.Ideas),
				"imported_folders": len(backup.Folders),
			})
		},
	}
}

// settingsCmd creates the settings command.
func settingsCmd(mgr *settings.Manager) *cli.Command {
	return &cli.Command{
		Name:  "settings",
		Usage: "Show or change provider settings",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "provider", Usage: "Completion provider: gemini|ollama"},
			&cli.StringFlag{Name: "gemini-key", Usage: "Gemini API key"},
			&cli.StringFlag{Name: "ollama-endpoint", Usage: "Ollama base URL"},
			&cli.StringFlag{Name: "ollama-model", Usage: "Ollama model name"},
		},
		Action: func(c *cli.Context) error {
			s := mgr.Get()

			changed := false
			if v := c.String("provider"); v != "" {
				s.Provider = v
				changed = true
			}
			if c.IsSet("gemini-key") {
				s.GeminiKey = c.String("gemini-key")
				changed = true
			}
			if v := c.String("ollama-endpoint"); v != "" {
				s.OllamaEndpoint = v
				changed = true
			}
			if v := c.String("ollama-model"); v != "" {
				s.OllamaModel = v
				changed = true
			}

			if changed {
				if err := mgr.Set(s); err != nil {
					return outputError(err)
				}
			}

			return outputJSON(&s)
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(db *sql.DB, cfg *config.Config, mgr *settings.Manager) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the REST API server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Usage: "Bind address (overrides config)"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "Port (overrides config)"},
		},
		Action: func(c *cli.Context) error {
			logger, err := zap.NewProduction()
			if err != nil {
				return outputError(errors.NewInternal(err))
			}
			defer logger.Sync()

			serveCfg := *cfg
			if bind := c.String("bind"); bind != "" {
				serveCfg.BindAddr = bind
			}
			if port := c.Int("port"); port != 0 {
				serveCfg.Port = port
			}

			srv := web.NewServer(db, &serveCfg, mgr, logger, Version)
			return web.Run(srv, logger)
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if sErr, ok := err.(*errors.SproutError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", sErr.Code, sErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}
