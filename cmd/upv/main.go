package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := buildRoot()
	if err := root.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// GlobalFlags holds the persistent flags shared by every subcommand.
type GlobalFlags struct {
	ConfigPath string
	LogLevel   string
}

// ExtractFlags holds flags for the extract command.
type ExtractFlags struct {
	Yes bool
}

// GenerateFlags holds flags for the generate command.
type GenerateFlags struct {
	URL string
}

// ViewFlags holds flags for the view command.
type ViewFlags struct {
	Listen string
}

// HistoryFlags holds flags for the history command.
type HistoryFlags struct {
	Tool  string
	Limit int
	JSON  bool
}

// InitFlags holds flags for the init command.
type InitFlags struct {
	Kind   string
	Output string
	Force  bool
}

// buildRoot assembles the root command and its subcommands.
func buildRoot() *cobra.Command {
	globalFlags := &GlobalFlags{}
	extractFlags := &ExtractFlags{}
	generateFlags := &GenerateFlags{}
	viewFlags := &ViewFlags{}
	historyFlags := &HistoryFlags{}
	initFlags := &InitFlags{}

	upvCommand := newCommand(globalFlags)

	root := createRootCommand(globalFlags)
	root.AddCommand(
		createInitCommand(upvCommand, initFlags),
		createDiagnoseCommand(upvCommand),
		createExtractCommand(upvCommand, extractFlags),
		createGenerateCommand(upvCommand, generateFlags),
		createEnrichCommand(upvCommand),
		createViewCommand(upvCommand, viewFlags),
		createHistoryCommand(upvCommand, historyFlags),
	)
	return root
}

// createRootCommand creates the root command with the persistent flags.
func createRootCommand(flags *GlobalFlags) *cobra.Command {
	root := &cobra.Command{
		Use:   "upv",
		Short: "Inspect Uma Musume veteran sparks",
		Long: `upv inspects the veteran (trained character) list of a local
Uma Musume: Pretty Derby install. It runs UmaExtractor to export the
raw list, builds English reference tables from community text data,
enriches the records with readable names and serves the result in a
local web viewer.

The usual pipeline:
  upv generate            # build reference tables from community text data
  upv extract             # run UmaExtractor to export data.json
  upv enrich              # decorate data.json -> enriched_data.json
  upv view                # browse the result at http://127.0.0.1:8765

Examples:
  upv diagnose                      # check console encoding setup
  upv enrich custom.json out.json   # explicit input and output
  upv history --tool=extract        # past extractor runs`,
	}

	root.PersistentFlags().StringVar(&flags.ConfigPath, "config", "", "path to TOML config file (default upv.toml if present)")
	root.PersistentFlags().StringVar(&flags.LogLevel, "log-level", "", "override configured log level (debug, info, warn, error)")

	return root
}

// createInitCommand creates the init subcommand.
func createInitCommand(upvCommand *command, initFlags *InitFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter upv.toml",
		Long: `Write a commented starter configuration file. Kinds:

  default   everything relative to the working directory (the defaults)
  batch     unattended runs: no prompts, quiet console, long retention
  shared    viewer reachable from other machines under /uma

Examples:
  upv init
  upv init --kind=batch
  upv init --kind=shared --output=/etc/upv/upv.toml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return upvCommand.Init(InitFlags{
				Kind:   initFlags.Kind,
				Output: initFlags.Output,
				Force:  initFlags.Force,
			})
		},
	}

	cmd.Flags().StringVar(&initFlags.Kind, "kind", "default", "template kind (default, batch, shared)")
	cmd.Flags().StringVar(&initFlags.Output, "output", "", "where to write the file (default upv.toml)")
	cmd.Flags().BoolVar(&initFlags.Force, "force", false, "overwrite an existing file")

	return cmd
}

// createDiagnoseCommand creates the diagnose subcommand.
func createDiagnoseCommand(upvCommand *command) *cobra.Command {
	return &cobra.Command{
		Use:   "diagnose",
		Short: "Report console and encoding environment",
		Long: `Collect the runtime, path and console-encoding facts that matter
when CJK names turn into mojibake, and print them in a form that can be
pasted into a bug report.

Examples:
  upv diagnose`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return upvCommand.Diagnose()
		},
	}
}

// createExtractCommand creates the extract subcommand.
func createExtractCommand(upvCommand *command, extractFlags *ExtractFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Run UmaExtractor to export the veteran list",
		Long: `Locate a local UmaExtractor install and run it to export the
veteran list as data.json in the output directory.

The game must be running with the full veteran list loaded before the
extractor can read it; the command explains this and asks for
confirmation first.

Examples:
  upv extract
  upv extract --yes           # skip the confirmation prompt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return upvCommand.Extract(ExtractFlags{Yes: extractFlags.Yes})
		},
	}

	cmd.Flags().BoolVarP(&extractFlags.Yes, "yes", "y", false, "skip the preflight confirmation prompt")

	return cmd
}

// createGenerateCommand creates the generate subcommand.
func createGenerateCommand(upvCommand *command, generateFlags *GenerateFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Build reference tables from community text data",
		Long: `Download the community translation dump and generate the English
reference tables (spark names, race names, outfit names, support card
names, race titles, nicknames) under the data directory. The enrich
command reads these tables.

Examples:
  upv generate
  upv generate --url=https://example.com/text_data_dict.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return upvCommand.Generate(GenerateFlags{URL: generateFlags.URL})
		},
	}

	cmd.Flags().StringVar(&generateFlags.URL, "url", "", "text data dump URL (overrides config)")

	return cmd
}

// createEnrichCommand creates the enrich subcommand.
func createEnrichCommand(upvCommand *command) *cobra.Command {
	return &cobra.Command{
		Use:   "enrich [input] [output]",
		Short: "Decorate extracted records with English names",
		Long: `Read the extractor output and add English names for characters,
skills, sparks, races, nicknames and support cards using the generated
reference tables. Fields the tool does not know about pass through
untouched.

Input defaults to data.json in the output directory (or one directory
up); output defaults to enriched_data.json next to it.

Examples:
  upv enrich
  upv enrich data.json enriched_data.json`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return upvCommand.Enrich(args)
		},
	}
}

// createViewCommand creates the view subcommand.
func createViewCommand(upvCommand *command, viewFlags *ViewFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view [data-file]",
		Short: "Serve the enriched records in a local web viewer",
		Long: `Start a local HTTP server over the enriched records. The viewer
page lists every veteran; the JSON API underneath serves summaries,
full records and collection statistics. The data file is re-read
automatically when the pipeline rewrites it.

Examples:
  upv view
  upv view --listen=127.0.0.1:9000
  upv view path/to/enriched_data.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return upvCommand.View(ViewFlags{Listen: viewFlags.Listen}, args)
		},
	}

	cmd.Flags().StringVar(&viewFlags.Listen, "listen", "", "listen address (overrides config, default 127.0.0.1:8765)")

	return cmd
}

// createHistoryCommand creates the history subcommand.
func createHistoryCommand(upvCommand *command, historyFlags *HistoryFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded tool runs",
		Long: `List recent tool runs from the run journal, newest first. Runs
older than the configured retention are purged on the way.

Examples:
  upv history
  upv history --tool=extract --limit=10
  upv history --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return upvCommand.History(HistoryFlags{
				Tool:  historyFlags.Tool,
				Limit: historyFlags.Limit,
				JSON:  historyFlags.JSON,
			})
		},
	}

	cmd.Flags().StringVar(&historyFlags.Tool, "tool", "", "only show runs of this tool")
	cmd.Flags().IntVar(&historyFlags.Limit, "limit", 20, "maximum number of runs to show")
	cmd.Flags().BoolVar(&historyFlags.JSON, "json", false, "print runs as JSON")

	return cmd
}
