// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles config and database initialization.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create a config file and initialize the database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// serveCommand starts the REST API server.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the REST API server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to bind (overrides config)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to bind (overrides config)",
			},
		},
		Action: r.Serve,
	}
}

// channelCommand handles channel operations.
func channelCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "channels",
		Aliases: []string{"ch"},
		Usage:   "Manage saved channels",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Save a channel and sync its playlists and videos",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "url"},
				},
				Action: r.ChannelAdd,
			},
			{
				Name:  "list",
				Usage: "List saved channels",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.ChannelList,
			},
			{
				Name:  "sync",
				Usage: "Discover playlists added upstream since onboarding",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "channel-id"},
				},
				Action: r.ChannelSync,
			},
			{
				Name:  "delete",
				Usage: "Delete a channel and all cached data under it",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "channel-id"},
				},
				Action: r.ChannelDelete,
			},
		},
	}
}

// playlistCommand handles playlist operations.
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlists",
		Aliases: []string{"pl"},
		Usage:   "Browse and sync stored playlists",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List a channel's stored playlists",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "channel-id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.PlaylistList,
			},
			{
				Name:  "videos",
				Usage: "List a playlist's videos in order",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "playlist-id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.PlaylistVideos,
			},
			{
				Name:  "sync",
				Usage: "Re-sync one playlist's membership and video details",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "playlist-id"},
				},
				Action: r.PlaylistSync,
			},
		},
	}
}

// watchCommand handles the watch later queue.
func watchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "watch-later",
		Aliases: []string{"wl"},
		Usage:   "Manage the watch later queue",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Add a stored video to the queue",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "video-id"},
				},
				Action: r.WatchAdd,
			},
			{
				Name:   "list",
				Usage:  "List the queue in the order videos were added",
				Action: r.WatchList,
			},
			{
				Name:  "remove",
				Usage: "Remove a video from the queue",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "video-id"},
				},
				Action: r.WatchRemove,
			},
		},
	}
}

// searchCommand proxies a free-text search to the provider.
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search YouTube for videos, channels or playlists",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "query"},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "type",
				Aliases: []string{"t"},
				Usage:   "Result kind: video, channel or playlist",
				Value:   "video",
			},
			&cli.BoolFlag{
				Name:    "local",
				Aliases: []string{"l"},
				Usage:   "Search the stored library instead of YouTube",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Search,
	}
}

// exportCommand writes a channel's playlists to files.
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export a channel's playlists to json or csv files",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "channel-id"},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Export format: json or csv",
				Value:   "json",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent export workers",
				Value: 4,
			},
		},
		Action: r.Export,
	}
}

// tuiCommand returns the top-level TUI command for browsing the library.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive library browser",
		Action:  r.TUI,
	}
}
