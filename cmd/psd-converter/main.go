package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	charmlog "github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	psdconverter "github.com/hellenic-development/psd-converter"
	"github.com/hellenic-development/psd-converter/pkg/flatten"
)

// Build information, injected via -ldflags at release time:
//
//	go build -ldflags "-X main.version=v1.2.3 -X main.commit=$(git rev-parse --short HEAD) -X main.date=$(date -u +%Y-%m-%d)"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	configFile  string
	flattenPath bool
	maxWidth    int
	maxHeight   int
	preview     bool
	verbose     bool
)

// fileConfig holds CLI defaults read from a TOML file; every explicit
// flag wins over it.
type fileConfig struct {
	OutputDir string `toml:"output_dir"`
	Flatten   bool   `toml:"flatten"`
	MaxWidth  int    `toml:"max_width"`
	MaxHeight int    `toml:"max_height"`
	Preview   bool   `toml:"preview"`
}

func main() {
	rootCmd := &cobra.Command{
		Use:          "psd-converter",
		Short:        "Convert layered Photoshop documents into JSON layout trees and image assets",
		Long:         "A tool to convert layered documents (.psd or pre-parsed .json layer trees) into a JSON layout tree plus one cropped PNG per visible raster layer",
		SilenceUsage: true,
	}

	convertCmd := &cobra.Command{
		Use:   "convert <document> [outputDir]",
		Short: "Convert a document; without outputDir the layout JSON goes to stdout",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  runConvert,
	}

	convertCmd.Flags().StringVarP(&configFile, "config", "c", "", "TOML config file with defaults (output_dir, flatten, max_width, max_height, preview)")
	convertCmd.Flags().BoolVar(&flattenPath, "flatten", false, "Write all images into one directory under path-derived names")
	convertCmd.Flags().IntVar(&maxWidth, "max-width", 0, "Crop layers to this canvas width (0 = unconstrained)")
	convertCmd.Flags().IntVar(&maxHeight, "max-height", 0, "Crop layers to this canvas height (0 = unconstrained)")
	convertCmd.Flags().BoolVar(&preview, "preview", false, "Also write the merged composite, scaled to the maximum resolution")
	convertCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("psd-converter %s\ncommit: %s\nbuilt: %s\n", version, commit, date)
		},
	}

	rootCmd.AddCommand(convertCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runConvert(cmd *cobra.Command, args []string) error {
	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)
	cyan := color.New(color.FgCyan)

	documentPath := args[0]
	outputDir := ""
	if len(args) == 2 {
		outputDir = args[1]
	}

	if configFile != "" {
		var cfg fileConfig
		if _, err := toml.DecodeFile(configFile, &cfg); err != nil {
			red.Printf("Error: read config %s: %v\n", configFile, err)
			return err
		}
		if outputDir == "" {
			outputDir = cfg.OutputDir
		}
		if !cmd.Flags().Changed("flatten") {
			flattenPath = cfg.Flatten
		}
		if !cmd.Flags().Changed("max-width") {
			maxWidth = cfg.MaxWidth
		}
		if !cmd.Flags().Changed("max-height") {
			maxHeight = cfg.MaxHeight
		}
		if !cmd.Flags().Changed("preview") {
			preview = cfg.Preview
		}
	}

	opts := psdconverter.Options{
		FlattenImagePath: flattenPath,
		PreviewImage:     preview,
		Logger:           newCLILogger(verbose),
	}
	if outputDir != "" {
		opts.OutJSONDir = outputDir
		opts.OutImgDir = outputDir
	}
	if maxWidth > 0 || maxHeight > 0 {
		opts.MaxResolution = &psdconverter.MaxResolution{
			Width:  maxWidth,
			Height: maxHeight,
		}
	}

	result, err := psdconverter.Convert(documentPath, opts)
	if err != nil {
		red.Printf("Error: %v\n", err)
		return err
	}

	if outputDir == "" {
		fmt.Println(result.JSON)
		return nil
	}

	groups, images, texts := flatten.Count(result.Layout)
	cyan.Println("\nConversion Summary:")
	fmt.Printf("  • Document: %s (%dx%d)\n", result.Document.Name, result.Document.Width, result.Document.Height)
	fmt.Printf("  • Groups: %d\n", groups)
	fmt.Printf("  • Images: %d\n", images)
	fmt.Printf("  • Text layers: %d\n", texts)
	fmt.Printf("  • Layout tree: %s\n", result.JSONPath)

	green.Printf("\n✨ Successfully converted %s into %s\n\n", documentPath, outputDir)
	return nil
}

// cliLogger implements psdconverter.Logger on top of a timestamped
// charmbracelet logger writing to stderr.
type cliLogger struct {
	l *charmlog.Logger
}

func newCLILogger(verbose bool) *cliLogger {
	level := charmlog.WarnLevel
	if verbose {
		level = charmlog.InfoLevel
	}
	return &cliLogger{l: charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})}
}

func (c *cliLogger) Infof(format string, args ...any)  { c.l.Infof(format, args...) }
func (c *cliLogger) Warnf(format string, args ...any)  { c.l.Warnf(format, args...) }
func (c *cliLogger) Errorf(format string, args ...any) { c.l.Errorf(format, args...) }
