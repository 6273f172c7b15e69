// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// pageFlags are shared by every command scoped to a wishlist page.
func pageFlags(extra ...cli.Flag) []cli.Flag {
	return append([]cli.Flag{
		&cli.StringFlag{
			Name:    "page",
			Aliases: []string{"p"},
			Usage:   "Wishlist page URL, including its token",
		},
		&cli.StringFlag{
			Name:    "link",
			Aliases: []string{"l"},
			Usage:   "Name of a saved link (see 'wishctl links')",
		},
		&cli.StringFlag{
			Name:  "base-url",
			Usage: "Wishlist service URL (default: the page's host)",
		},
		&cli.StringFlag{
			Name:  "policy",
			Usage: "Failure policy: best_effort or report (default: config)",
		},
	}, extra...)
}

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
			Value: true,
		},
	}
}

// setupCommand handles setup operations for configuration and database.
func setupCommand(r *Runner) *cli.Command {
	configFlag := &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}

	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write a default configuration file",
				Flags:  []cli.Flag{configFlag},
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize the saved link database and run migrations",
				Flags:  []cli.Flag{configFlag},
				Action: r.SetupDatabase,
			},
		},
	}
}

func createCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "create",
		Usage: "Create a wishlist; the management link is emailed to you",
		Flags: pageFlags(
			&cli.StringFlag{Name: "name", Usage: "Wishlist name", Required: true},
			&cli.StringFlag{Name: "username", Usage: "Your name", Required: true},
			&cli.StringFlag{Name: "email", Usage: "Where to send the management link", Required: true},
		),
		Action: r.Create,
	}
}

func recoverCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "recover",
		Usage: "Re-send the management links of your wishlists",
		Flags: pageFlags(
			&cli.StringFlag{Name: "email", Usage: "Email address used to create the wishlists", Required: true},
		),
		Action: r.Recover,
	}
}

func itemsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "items",
		Aliases: []string{"ls"},
		Usage:   "List the items of a wishlist",
		Flags: pageFlags(append(outputFlags(),
			&cli.BoolFlag{Name: "html", Usage: "Print the fragment as the service rendered it"},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "text, csv or markdown", Value: "text"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Write the export to a file"},
		)...),
		Action: r.Items,
	}
}

func addCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "Add an item to a wishlist",
		Flags: pageFlags(
			&cli.StringFlag{Name: "name", Usage: "Item name", Required: true},
			&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "Item description"},
			&cli.StringFlag{Name: "url", Usage: "Where to find the item"},
		),
		Action: r.Add,
	}
}

func markCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "mark",
		Usage:     "Mark an item as gotten",
		Arguments: []cli.Argument{&cli.StringArg{Name: "item"}},
		Flags: pageFlags(
			&cli.BoolFlag{Name: "undo", Usage: "Mark the item as not gotten"},
		),
		Action: r.Mark,
	}
}

func deleteCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Aliases:   []string{"rm"},
		Usage:     "Delete an item by id or name",
		Arguments: []cli.Argument{&cli.StringArg{Name: "item"}},
		Flags:     pageFlags(),
		Action:    r.Delete,
	}
}

func shareCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "share",
		Usage: "Email the share link of a wishlist",
		Flags: pageFlags(
			&cli.StringFlag{Name: "email", Usage: "Recipient", Required: true},
		),
		Action: r.Share,
	}
}

func copyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "copy",
		Usage: "Copy the page link to the clipboard",
		Flags: pageFlags(
			&cli.StringFlag{Name: "url", Usage: "Copy this link instead of the page's"},
		),
		Action: r.Copy,
	}
}

func openCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "open",
		Usage:  "Open the page in a browser",
		Flags:  pageFlags(),
		Action: r.Open,
	}
}

// linksCommand manages saved page links
func linksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "links",
		Usage: "Manage saved wishlist links",
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Save a wishlist page URL under a name",
				Arguments: []cli.Argument{&cli.StringArg{Name: "name"}},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "page", Aliases: []string{"p"}, Usage: "Wishlist page URL", Required: true},
					&cli.StringFlag{Name: "role", Usage: "owner or share", Value: "owner"},
				},
				Action: r.LinksAdd,
			},
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List saved links",
				Flags:   outputFlags(),
				Action:  r.LinksList,
			},
			{
				Name:      "rm",
				Usage:     "Remove a saved link",
				Arguments: []cli.Argument{&cli.StringArg{Name: "name"}},
				Action:    r.LinksRemove,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive wishlist management.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive wishlist page",
		Flags:   pageFlags(),
		Action:  r.TUI,
	}
}
