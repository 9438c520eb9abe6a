// Command buildcontours reads a year × age population table, builds the
// contour levels of its stereogram and writes them as JSON for the renderer.
//
// With no flags it reads ./config/isolines.toml; every path in that file is
// relative to the working directory.
package main

import (
	"context"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/isolines/contourio"
	"github.com/katalvlaran/isolines/field"
	"github.com/katalvlaran/isolines/override"
	"github.com/katalvlaran/isolines/pipeline"
)

const version = "0.4.0"

var logger = logrus.StandardLogger()

func init() {
	logger.Out = os.Stdout
	logger.Formatter = &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
		DisableSorting:  true,
	}

	Root.PersistentFlags().String("config", "./config/isolines.toml", "path to the TOML configuration file")
	Root.AddCommand(versionCmd)
}

// Root builds the contours.
var Root = &cobra.Command{
	Use:   "buildcontours",
	Short: "Build stereogram contour levels from a population table.",
	Long: `buildcontours reads the tidy year,age,value table named in the
configuration, extracts, stitches and repairs one isoline per contour level,
and writes the levels as a JSON array of {level, points} or {level, runs}
records. It exits non-zero on any invalid input or invariant violation.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := cmd.Flags().GetString("config")
		if err != nil {
			return err
		}
		cfg, err := pipeline.LoadConfig(path)
		if err != nil {
			return err
		}

		return build(cmd.Context(), cfg, logger)
	},
	DisableAutoGenTag: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("buildcontours v%s\n", version)
	},
	DisableAutoGenTag: true,
}

// build runs the whole job described by cfg.
func build(ctx context.Context, cfg pipeline.Config, log logrus.FieldLogger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	f, err := field.LoadCSVFile(cfg.InputCSV)
	if err != nil {
		return err
	}

	var table *override.Table
	if cfg.OverridesFile != "" {
		if table, err = override.LoadFile(cfg.OverridesFile); err != nil {
			return err
		}
	}

	p, err := pipeline.New(cfg, table)
	if err != nil {
		return err
	}
	p.Log = log
	log.WithFields(logrus.Fields{
		"dataset":  cfg.Dataset,
		"input":    cfg.InputCSV,
		"rows":     f.Rows(),
		"cols":     f.Cols(),
		"step":     cfg.Step,
		"strategy": cfg.Strategy,
	}).Info("building contours")

	res, err := p.Run(f)
	if err != nil {
		return err
	}
	for _, d := range res.Diagnostics {
		log.Warn(d.String())
	}

	if err := contourio.WriteFile(cfg.OutputJSON, res.Contours); err != nil {
		return err
	}
	if cfg.SQLitePath != "" {
		if err := contourio.SaveSQLite(ctx, cfg.SQLitePath, cfg.Dataset, res.Contours); err != nil {
			return err
		}
	}
	log.WithFields(logrus.Fields{
		"output": cfg.OutputJSON,
		"levels": len(res.Contours),
		"sqlite": cfg.SQLitePath,
	}).Info("wrote contours")

	return nil
}

func main() {
	if err := Root.Execute(); err != nil {
		logger.WithError(err).Error("build failed")
		os.Exit(1)
	}
}
