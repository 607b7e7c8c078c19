package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/discograph/pkg/catalog"
	"github.com/matzehuels/discograph/pkg/config"
)

type importOpts struct {
	uri      string
	database string
	dryRun   bool
}

// importCommand creates the import command loading a JSON dataset into the
// MongoDB catalog.
func (c *CLI) importCommand() *cobra.Command {
	var opts importOpts

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import a discovery dataset into MongoDB",
		Long: `Import reads a JSON array of discovery records and upserts them into the
MongoDB catalog. Records are matched by id, so importing the same file twice
changes nothing.

With --dry-run the file is only parsed and summarized.`,
		Example: `  discograph import discoveries.json
  discograph import --dry-run discoveries.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if opts.uri != "" {
				cfg.Catalog.MongoURI = opts.uri
			}
			if opts.database != "" {
				cfg.Catalog.Database = opts.database
			}
			return c.runImport(cmd.Context(), newPrinter(cmd.OutOrStdout()), cfg, args[0], opts.dryRun)
		},
	}

	cmd.Flags().StringVar(&opts.uri, "mongo-uri", "", "MongoDB connection string (default from config)")
	cmd.Flags().StringVar(&opts.database, "database", "", "MongoDB database (default from config)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "parse and summarize without writing")

	return cmd
}

func (c *CLI) runImport(ctx context.Context, p *printer, cfg config.Config, path string, dryRun bool) error {
	records, err := catalog.ReadRecordsFile(path)
	if err != nil {
		return err
	}

	// The in-memory catalog applies the same normalization and dedup rules.
	mem, err := catalog.NewMemory(records)
	if err != nil {
		return err
	}
	topics, err := mem.Topics(ctx)
	if err != nil {
		return err
	}
	p.info("Read %d records in %d topics from %s", len(records), len(topics), path)

	if dryRun {
		p.keyValue("records", fmt.Sprint(mem.Len()))
		p.keyValue("topics", fmt.Sprint(len(topics)))
		return nil
	}

	mcfg := catalog.DefaultMongoConfig()
	mcfg.URI = cfg.Catalog.MongoURI
	mcfg.Database = cfg.Catalog.Database

	spin := newSpinnerWithContext(ctx, "Importing into "+mcfg.Database+"...")
	spin.Start()
	store, err := catalog.NewMongo(ctx, mcfg)
	if err != nil {
		spin.StopWithError("Connection failed")
		return err
	}
	defer store.Close()

	prog := newProgress(c.Logger)
	n, err := store.Import(ctx, records)
	if err != nil {
		spin.StopWithError("Import failed")
		return err
	}
	spin.StopWithSuccess(fmt.Sprintf("Imported %d records", n))
	prog.done("import complete", "records", n, "topics", len(topics), "database", mcfg.Database)
	return nil
}
