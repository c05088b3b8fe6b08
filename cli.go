package main

import (
	"context"

	"github.com/urfave/cli/v3"
)

// Applicator defines the interface for the core application logic.
// This allows the CLI to be tested independently of the main app implementation.
type Applicator interface {
	Serve(ctx context.Context, cfgPath string) error
	InitDB(ctx context.Context, cfgPath string) error
	ImportCatalog(ctx context.Context, cfgPath, path string) error
	SampleCatalog(ctx context.Context, path string) error
	ExportCatalog(ctx context.Context, cfgPath, path string) error
}

// BuildCLI creates the full CLI command structure for the application.
// It injects the core application logic (the Applicator) into the command actions.
func BuildCLI(app Applicator) *cli.Command {
	// Define flags that are common across multiple commands.
	configFlag := &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Value:   "config.yaml",
		Usage:   "path to the configuration file",
	}

	fileFlag := &cli.StringFlag{
		Name:    "file",
		Aliases: []string{"f"},
		Usage:   "path to a catalog file (.csv or .xlsx)",
	}

	// Define all application commands.
	serveCmd := &cli.Command{
		Name:  "serve",
		Usage: "Run the quotation web server",
		Flags: []cli.Flag{configFlag},
		Action: func(ctx context.Context, c *cli.Command) error {
			return app.Serve(ctx, c.String("config"))
		},
	}

	initDBCmd := &cli.Command{
		Name:  "initdb",
		Usage: "Create the database file and schema",
		Flags: []cli.Flag{configFlag},
		Action: func(ctx context.Context, c *cli.Command) error {
			return app.InitDB(ctx, c.String("config"))
		},
	}

	importCatalogCmd := &cli.Command{
		Name:    "import-catalog",
		Usage:   "Sync products from a catalog file into the database",
		Aliases: []string{"import"},
		Flags:   []cli.Flag{configFlag, fileFlag},
		Action: func(ctx context.Context, c *cli.Command) error {
			return app.ImportCatalog(ctx, c.String("config"), c.String("file"))
		},
	}

	sampleCatalogCmd := &cli.Command{
		Name:  "sample-catalog",
		Usage: "Write a starter catalog file showing the expected layout",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Value:   "products.csv",
				Usage:   "path for the sample catalog file (.csv or .xlsx)",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return app.SampleCatalog(ctx, c.String("file"))
		},
	}

	exportCatalogCmd := &cli.Command{
		Name:    "export-catalog",
		Usage:   "Write the stored product catalog to a csv or xlsx file",
		Aliases: []string{"export"},
		Flags: []cli.Flag{
			configFlag,
			&cli.StringFlag{
				Name:     "file",
				Aliases:  []string{"f"},
				Usage:    "path for the export file (.csv or .xlsx)",
				Required: true,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return app.ExportCatalog(ctx, c.String("config"), c.String("file"))
		},
	}

	// Assemble the root command.
	rootCmd := &cli.Command{
		Name:     "cotizador",
		Usage:    "A quotation and invoicing tool for industrial warehouse projects",
		Commands: []*cli.Command{serveCmd, initDBCmd, importCatalogCmd, sampleCatalogCmd, exportCatalogCmd},
	}

	return rootCmd
}
