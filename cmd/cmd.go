// submodule cmd contains command definitions
package main

import (
	"time"

	"github.com/urfave/cli/v3"
)

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{Name: "json", Usage: "Output raw JSON"}
}

// setupCommand handles setup operations for configuration and the local database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write a config file from the built-in template",
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:   "status",
				Usage:  "Show applied and pending migrations",
				Action: r.SetupStatus,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the most recent migration",
				Action: r.SetupRollback,
			},
		},
	}
}

// goalsCommand handles goal tracker operations
func goalsCommand(r *Runner) *cli.Command {
	goalFlags := func() []cli.Flag {
		return []cli.Flag{
			&cli.StringFlag{Name: "type", Aliases: []string{"t"}, Usage: "Goal type ID or name"},
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Goal name"},
			&cli.StringFlag{Name: "summary", Usage: "Short summary"},
			&cli.StringFlag{Name: "description", Usage: "Markdown description"},
			&cli.StringFlag{Name: "priority", Aliases: []string{"p"}, Usage: "High, Medium, Low or None"},
			&cli.StringFlag{Name: "due", Usage: "Due date (YYYY-MM-DD or RFC 3339 timestamp)"},
			&cli.BoolFlag{Name: "notify", Usage: "Remind when the goal is due"},
		}
	}

	return &cli.Command{
		Name:    "goals",
		Aliases: []string{"goal", "g"},
		Usage:   "Goal tracker operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List goals",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "type", Aliases: []string{"t"}, Usage: "Only goals of this type ID"},
					&cli.StringFlag{Name: "filter", Aliases: []string{"f"}, Usage: "Case-insensitive name filter"},
					&cli.StringFlag{Name: "sort", Usage: "priority-desc or priority-asc", Value: "priority-desc"},
					jsonFlag(),
				},
				Action: r.GoalsList,
			},
			{
				Name:   "add",
				Usage:  "Create a goal",
				Flags:  goalFlags(),
				Action: r.GoalsAdd,
			},
			{
				Name:      "update",
				Usage:     "Update fields of a goal",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags: append(goalFlags(),
					&cli.StringFlag{Name: "status", Usage: "active or done"},
				),
				Action: r.GoalsUpdate,
			},
			{
				Name:      "done",
				Usage:     "Mark a goal done",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Action:    r.GoalsDone,
			},
			{
				Name:      "reopen",
				Usage:     "Mark a goal active again",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Action:    r.GoalsReopen,
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Delete a goal",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Action:    r.GoalsDelete,
			},
			{
				Name:  "export",
				Usage: "Export goals as text, markdown, csv or json",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "format", Usage: "text, markdown, csv or json", Value: "markdown"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output file path"},
					&cli.StringFlag{Name: "sort", Usage: "priority-desc or priority-asc", Value: "priority-desc"},
				},
				Action: r.GoalsExport,
			},
			{
				Name:  "types",
				Usage: "Goal type operations",
				Commands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List goal types",
						Flags:  []cli.Flag{jsonFlag()},
						Action: r.GoalTypesList,
					},
					{
						Name:      "add",
						Usage:     "Create a goal type",
						Arguments: []cli.Argument{&cli.StringArg{Name: "name"}},
						Flags:     []cli.Flag{&cli.StringFlag{Name: "color", Usage: "Display color, e.g. #ff0000"}},
						Action:    r.GoalTypesAdd,
					},
					{
						Name:      "update",
						Usage:     "Rename or recolor a goal type",
						Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "name", Usage: "New name"},
							&cli.StringFlag{Name: "color", Usage: "Display color"},
						},
						Action: r.GoalTypesUpdate,
					},
					{
						Name:      "delete",
						Aliases:   []string{"rm"},
						Usage:     "Delete a goal type",
						Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
						Action:    r.GoalTypesDelete,
					},
				},
			},
		},
	}
}

// mediaCommand handles video library operations
func mediaCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "media",
		Aliases: []string{"videos", "m"},
		Usage:   "Video library operations",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List videos in the library",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.MediaList,
			},
			{
				Name:  "add",
				Usage: "Add a video to the library",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Video title", Required: true},
					&cli.StringFlag{Name: "link", Aliases: []string{"l"}, Usage: "Video URL", Required: true},
				},
				Action: r.MediaAdd,
			},
			{
				Name:      "process",
				Usage:     "Process a video link into structured text",
				Arguments: []cli.Argument{&cli.StringArg{Name: "link"}},
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "refresh", Usage: "Ignore the local transcript cache"},
					&cli.BoolFlag{Name: "no-cache", Usage: "Do not read or write the local transcript cache"},
					jsonFlag(),
				},
				Action: r.MediaProcess,
			},
			{
				Name:  "process-all",
				Usage: "Process every video in the library",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Usage: "Concurrent workers (max 10)"},
					&cli.FloatFlag{Name: "rate", Usage: "Backend requests per second"},
					&cli.BoolFlag{Name: "refresh", Usage: "Ignore the local transcript cache"},
					&cli.BoolFlag{Name: "no-cache", Usage: "Do not read or write the local transcript cache"},
				},
				Action: r.MediaProcessAll,
			},
			{
				Name:      "print",
				Usage:     "Render processed text as a printable page and open it in the browser",
				Arguments: []cli.Argument{&cli.StringArg{Name: "link"}},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Usage: "Page title (defaults to the library name)"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Write HTML to a file instead of serving it"},
					&cli.DurationFlag{Name: "timeout", Usage: "How long to wait for the browser", Value: defaultPrintTimeout},
					&cli.BoolFlag{Name: "no-cache", Usage: "Do not read or write the local transcript cache"},
				},
				Action: r.MediaPrint,
			},
			{
				Name:  "cache",
				Usage: "Local transcript cache operations",
				Commands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List cached transcripts",
						Action: r.MediaCacheList,
					},
					{
						Name:      "clear",
						Usage:     "Remove a cached transcript",
						Arguments: []cli.Argument{&cli.StringArg{Name: "link"}},
						Action:    r.MediaCacheClear,
					},
				},
			},
		},
	}
}

// portfolioCommand handles portfolio profile operations
func portfolioCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "portfolio",
		Aliases: []string{"profile", "p"},
		Usage:   "Portfolio profile operations",
		Commands: []*cli.Command{
			{
				Name:      "show",
				Usage:     "Show your profile, or another user's profile by ID",
				Arguments: []cli.Argument{&cli.StringArg{Name: "user-id"}},
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "markdown", Usage: "Render as markdown"},
					&cli.BoolFlag{Name: "create", Usage: "Write a profile template when you have no profile yet"},
					&cli.StringFlag{Name: "template", Usage: "Template path used with --create", Value: "profile.json"},
					jsonFlag(),
				},
				Action: r.PortfolioShow,
			},
			{
				Name:   "status",
				Usage:  "Report whether you have a profile",
				Action: r.PortfolioStatus,
			},
			{
				Name:  "save",
				Usage: "Create or update your profile from a JSON file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "Profile JSON", Value: "profile.json"},
				},
				Action: r.PortfolioSave,
			},
			{
				Name:  "template",
				Usage: "Write an empty profile template",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output file path (stdout when empty)"},
				},
				Action: r.PortfolioTemplate,
			},
			{
				Name:  "picture",
				Usage: "Profile picture operations",
				Commands: []*cli.Command{
					{
						Name:      "upload",
						Usage:     "Upload a profile picture",
						Arguments: []cli.Argument{&cli.StringArg{Name: "file"}},
						Action:    r.PortfolioPictureUpload,
					},
					{
						Name:      "get",
						Usage:     "Download a user's profile picture",
						Arguments: []cli.Argument{&cli.StringArg{Name: "user-id"}},
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output file path", Required: true},
						},
						Action: r.PortfolioPictureGet,
					},
				},
			},
			{
				Name:      "upload",
				Usage:     "Upload a media item to your profile",
				Arguments: []cli.Argument{&cli.StringArg{Name: "file"}},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Usage: "Media title"},
					&cli.StringFlag{Name: "description", Usage: "Media description"},
				},
				Action: r.PortfolioMediaUpload,
			},
			{
				Name:    "discover",
				Aliases: []string{"search"},
				Usage:   "List public profiles",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "search", Aliases: []string{"s"}, Usage: "Search term"},
					jsonFlag(),
				},
				Action: r.PortfolioDiscover,
			},
		},
	}
}

// apiCommand handles direct API calls
func apiCommand(r *Runner) *cli.Command {
	appFlag := func() cli.Flag {
		return &cli.StringFlag{
			Name:    "app",
			Aliases: []string{"a"},
			Usage:   "Backend to call: goals, media or portfolio",
			Value:   "goals",
		}
	}

	return &cli.Command{
		Name:  "api",
		Usage: "Direct API calls to a backend",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					appFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output compact JSON",
						Value: true,
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST with JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					appFlag(),
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON body to send",
						Required: true,
					},
				},
				Action: r.APIPost,
			},
		},
	}
}

// remindCommand runs the reminder loop in the foreground.
func remindCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "remind",
		Usage: "Watch goals and send reminders when they fall due",
		Flags: []cli.Flag{
			&cli.DurationFlag{Name: "interval", Usage: "Time between checks (default from config)"},
			&cli.DurationFlag{Name: "window", Usage: "How long after its due time a goal still fires (default from config)"},
			&cli.BoolFlag{Name: "once", Usage: "Check once and exit"},
			&cli.BoolFlag{Name: "no-desktop", Usage: "Never send desktop notifications"},
			&cli.BoolFlag{Name: "no-ledger", Usage: "Do not record fired reminders"},
		},
		Action: r.Remind,
		Commands: []*cli.Command{
			{
				Name:   "permission",
				Usage:  "Request desktop notification permission",
				Action: r.RemindPermission,
			},
			{
				Name:  "history",
				Usage: "List reminders recorded in the ledger",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "goal", Usage: "Only reminders for this goal ID"},
				},
				Action: r.RemindHistory,
			},
			{
				Name:  "purge",
				Usage: "Forget recorded reminders older than a duration",
				Flags: []cli.Flag{
					&cli.DurationFlag{Name: "older-than", Usage: "Age cutoff", Value: 30 * 24 * time.Hour},
				},
				Action: r.RemindPurge,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive goal management.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for goals with live reminders",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-file", Usage: "Log file path", Value: "./tmp/brain-tui.log"},
			&cli.BoolFlag{Name: "no-desktop", Usage: "Show reminders as in-app toasts only"},
		},
		Action: r.TUI,
	}
}

// healthCommand checks every configured backend.
func healthCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "health",
		Usage:  "Check that each backend is reachable",
		Action: r.Health,
	}
}
