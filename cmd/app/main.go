package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/othala/internal"
	"github.com/starford/othala/internal/models"
	"github.com/starford/othala/internal/recordservice"
	"github.com/starford/othala/internal/repo"
	pkgconfig "github.com/starford/othala/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if _, err := pkgconfig.LoadIfPresent(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func runInteractive(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.Run(ctx, internal.WithConfig(cfg))
}

func runMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.RunMCP(ctx, internal.WithConfig(cfg))
}

// do runs fn against a bootstrapped record service; the one-shot subcommands
// go through it.
func do(ctx context.Context, cmd *cli.Command, fn func(context.Context, *recordservice.Service) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.Do(ctx, fn, internal.WithConfig(cfg))
}

func main() {
	cmd := &cli.Command{
		Name:   "othala",
		Usage:  "Personal keeper for categorized appointment note templates",
		Action: runInteractive,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Start the interactive menu (default)",
				Action: runInteractive,
			},
			{
				Name:   "mcp",
				Usage:  "Serve the template tools over MCP stdio transport",
				Action: runMCP,
			},
			{
				Name:  "add",
				Usage: "Add a note template",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "category", Aliases: []string{"t"}, Required: true, Usage: "Registered category name"},
					&cli.StringFlag{Name: "note", Aliases: []string{"n"}, Usage: "Template body text"},
					&cli.StringFlag{Name: "key", Aliases: []string{"k"}, Usage: "Explicit key (generated when omitted)"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return do(ctx, cmd, func(ctx context.Context, svc *recordservice.Service) error {
						var rec models.Record
						var err error
						if raw := cmd.String("key"); raw != "" {
							var key int
							if key, err = repo.ParseKey(raw); err != nil {
								return err
							}
							rec, err = svc.CreateWithKey(ctx, cmd.String("category"), key, cmd.String("note"))
						} else {
							rec, err = svc.Create(ctx, cmd.String("category"), cmd.String("note"))
						}
						if err != nil {
							return err
						}
						if err := svc.Save(ctx); err != nil {
							return err
						}
						fmt.Println(rec.Display())
						return nil
					})
				},
			},
			{
				Name:      "show",
				Usage:     "Show a note template by key",
				ArgsUsage: "<key>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return do(ctx, cmd, func(ctx context.Context, svc *recordservice.Service) error {
						key, err := repo.ParseKey(cmd.Args().First())
						if err != nil {
							return err
						}
						rec, err := svc.Get(ctx, key)
						if err != nil {
							return err
						}
						fmt.Println(rec.Display())
						return nil
					})
				},
			},
			{
				Name:      "list",
				Usage:     "List all note templates of a category",
				ArgsUsage: "<category>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return do(ctx, cmd, func(ctx context.Context, svc *recordservice.Service) error {
						records, err := svc.List(ctx, cmd.Args().First())
						if err != nil {
							return err
						}
						for _, rec := range records {
							fmt.Printf("%s\n\n", rec.Display())
						}
						fmt.Printf("%d template(s)\n", len(records))
						return nil
					})
				},
			},
			{
				Name:  "edit",
				Usage: "Replace a template's body, optionally moving it to another category",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "category", Aliases: []string{"t"}, Required: true, Usage: "Target category name"},
					&cli.StringFlag{Name: "key", Aliases: []string{"k"}, Required: true, Usage: "Template key"},
					&cli.StringFlag{Name: "note", Aliases: []string{"n"}, Usage: "New template body text"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return do(ctx, cmd, func(ctx context.Context, svc *recordservice.Service) error {
						key, err := repo.ParseKey(cmd.String("key"))
						if err != nil {
							return err
						}
						rec, err := svc.Edit(ctx, cmd.String("category"), key, cmd.String("note"))
						if err != nil {
							return err
						}
						if err := svc.Save(ctx); err != nil {
							return err
						}
						fmt.Println(rec.Display())
						return nil
					})
				},
			},
			{
				Name:      "rm",
				Usage:     "Delete a note template by key",
				ArgsUsage: "<key>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return do(ctx, cmd, func(ctx context.Context, svc *recordservice.Service) error {
						key, err := repo.ParseKey(cmd.Args().First())
						if err != nil {
							return err
						}
						if err := svc.Delete(ctx, key); err != nil {
							return err
						}
						if err := svc.Save(ctx); err != nil {
							return err
						}
						fmt.Printf("deleted %d\n", key)
						return nil
					})
				},
			},
			{
				Name:      "search",
				Usage:     "Full-text search through template bodies",
				ArgsUsage: "<query>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return do(ctx, cmd, func(ctx context.Context, svc *recordservice.Service) error {
						results, err := svc.Search(ctx, cmd.Args().First(), 20)
						if err != nil {
							return err
						}
						for _, r := range results {
							fmt.Printf("%d  %-18s %s\n", r.Key, r.Category, r.Snippet)
						}
						return nil
					})
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
