package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	figmaprototype "github.com/kataras/figma-prototype"
	"github.com/kataras/figma-prototype/pkg/figma"
	"github.com/kataras/figma-prototype/pkg/formatter"
	"github.com/kataras/figma-prototype/pkg/sink"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const version = figma.Version

var (
	figmaURL     string
	accessToken  string
	inputFile    string
	nodeIDs      string
	pageName     string
	projectName  string
	outputDir    string
	concurrency  int
	reportFile   string
	useS3        bool
	outputFormat string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "figma-prototype",
		Short: "Export clickable prototypes from Figma files",
		Long:  "A tool to export the frames, hotspots and screens of a Figma prototype into a single .fig2u archive",
		Run:   run,
	}

	addSourceFlags(rootCmd)
	rootCmd.Flags().StringVarP(&outputDir, "out", "o", ".", "Output directory for the archive")
	rootCmd.Flags().StringVarP(&reportFile, "report", "r", "", "Write a markdown export report to this file (optional)")
	rootCmd.Flags().BoolVar(&useS3, "s3", false, "Upload the archive to the S3 bucket configured by PROTOTYPE_S3_* instead of --out")

	inspectCmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the prototype graph and warnings without writing an archive",
		Run:   inspect,
	}
	addSourceFlags(inspectCmd)
	inspectCmd.Flags().StringVarP(&outputFormat, "format", "f", "yaml", "Output format: yaml, json")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("figma-prototype version %s\n", version)
		},
	}

	rootCmd.AddCommand(inspectCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&figmaURL, "url", "u", "", "Figma file URL")
	cmd.Flags().StringVarP(&accessToken, "token", "t", "", "Figma Personal Access Token (default $FIGMA_TOKEN)")
	cmd.Flags().StringVarP(&inputFile, "input", "i", "", "Saved file response (.json, .yaml) to export offline instead of --url")
	cmd.Flags().StringVarP(&nodeIDs, "node-ids", "n", "", "Comma-separated frame IDs to export (optional, defaults to every top-level frame of the page)")
	cmd.Flags().StringVarP(&pageName, "page", "p", "", "Page to export (optional, defaults to the first page)")
	cmd.Flags().StringVar(&projectName, "project", "", "Project name, used as the archive name (optional, defaults to the file name)")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", 1, "Number of frames rendered at once")

	cmd.MarkFlagsOneRequired("url", "input")
	cmd.MarkFlagsMutuallyExclusive("url", "input")
}

func options(env envConfig) figmaprototype.Options {
	token := accessToken
	if token == "" {
		token = env.Token
	}

	var parsedNodeIDs []string
	if nodeIDs != "" {
		parsedNodeIDs = figmaprototype.ParseNodeIDs(nodeIDs)
	}

	return figmaprototype.Options{
		AccessToken: token,
		FileURL:     figmaURL,
		InputFile:   inputFile,
		NodeIDs:     parsedNodeIDs,
		PageName:    pageName,
		ProjectName: projectName,
		OutputDir:   outputDir,
		Concurrency: concurrency,
		Logger:      &cliLogger{},
	}
}

func run(cmd *cobra.Command, args []string) {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	cyan := color.New(color.FgCyan)

	cyan.Println("\n🎨 Figma Prototype Exporter")
	cyan.Println("===========================")
	cyan.Println()

	env := loadEnv()
	opts := options(env)

	if useS3 {
		s3, err := sink.NewS3(env.S3)
		if err != nil {
			red.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		opts.Sink = s3
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := figmaprototype.Run(ctx, opts)
	if err != nil {
		red.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if result.Status == figmaprototype.StatusNothingToExport {
		cyan.Printf("\n%s\n\n", result.Status)
		return
	}

	// Display export stats.
	p := result.Payload
	hotspots := 0
	for _, f := range p.PrototypeGraph.Frames {
		hotspots += len(f.Hotspots)
	}

	cyan.Println("\n📊 Export Summary:")
	fmt.Printf("  • Project: %s\n", p.ProjectName)
	if p.PageName != "" {
		fmt.Printf("  • Page: %s\n", p.PageName)
	}
	if p.PrototypeGraph.StartingFrame != "" {
		fmt.Printf("  • Starting Frame: %s\n", p.PrototypeGraph.StartingFrame)
	}
	fmt.Printf("  • Frames: %d\n", len(p.PrototypeGraph.Frames))
	fmt.Printf("  • Hotspots: %d\n", hotspots)
	if n := len(p.ValidationErrors); n > 0 {
		color.New(color.FgYellow).Printf("  • Warnings: %d\n", n)
	}

	if reportFile != "" {
		green.Printf("\n💾 Writing report to %s... ", reportFile)
		if err := os.WriteFile(reportFile, []byte(result.Markdown), 0644); err != nil {
			red.Printf("✗\n")
			red.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		green.Println("✓")
	}

	green.Printf("\n✨ %s: %s\n\n", result.Status, result.Location)
}

func inspect(cmd *cobra.Command, args []string) {
	red := color.New(color.FgRed)

	env := loadEnv()
	opts := options(env)
	opts.SkipWrite = true
	opts.Logger = nil

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := figmaprototype.Run(ctx, opts)
	if err != nil {
		red.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if result.Payload == nil {
		fmt.Fprintln(os.Stderr, result.Status)
		return
	}

	if err := formatter.WriteSummary(os.Stdout, result.Payload, formatter.Format(outputFormat)); err != nil {
		red.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// cliLogger implements figmaprototype.Logger with colored terminal output.
type cliLogger struct{}

func (l *cliLogger) Infof(format string, args ...any) {
	color.New(color.FgYellow).Printf(format+"\n", args...)
}

func (l *cliLogger) Warnf(format string, args ...any) {
	color.New(color.FgYellow).Printf("⚠ "+format+"\n", args...)
}

func (l *cliLogger) Errorf(format string, args ...any) {
	color.New(color.FgRed).Printf("✗ "+format+"\n", args...)
}
