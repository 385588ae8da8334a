package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"slidegen/agent"
	"slidegen/config"
	"slidegen/database"
	"slidegen/logger"
	"slidegen/template"
	"slidegen/workflow"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "slidegen.json", "path to the config file")
	output := flag.String("o", "", "output pptx path (auto-generated when empty)")
	templatesDir := flag.String("templates", "", "templates directory (overrides config)")
	history := flag.Bool("history", false, "list recent runs and exit")
	debug := flag.Bool("debug", false, "echo log output to stderr")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if *templatesDir != "" {
		cfg.TemplatesDir = *templatesDir
	}

	log := logger.NewLogger(*debug || cfg.DetailedLog)
	if err := log.Init(cfg.LogDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	defer log.Close()

	if *history {
		return listHistory(cfg)
	}

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: slidegen [flags] <input.md>")
		flag.PrintDefaults()
		return 1
	}
	inputFile := flag.Arg(0)

	if cfg.APIKey == "" {
		fmt.Fprintln(os.Stderr, "Error: OPENAI_API_KEY environment variable is not set.")
		fmt.Fprintln(os.Stderr, "Set it, or put an apiKey into the config file.")
		return 1
	}

	content, err := os.ReadFile(inputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to read input file: %v\n", err)
		return 1
	}

	ctx := context.Background()

	registry := template.NewRegistry(cfg.TemplatesDir, log.Log)
	if err := registry.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	delegate, err := agent.NewLLMDelegate(ctx, cfg, log.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	wf, err := workflow.New(cfg, log.Log, delegate, registry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if store, err := database.OpenHistory(cfg.DataDir); err != nil {
		log.Logf("Run history unavailable: %v", err)
	} else {
		defer store.Close()
		wf.SetRecorder(store)
	}

	fmt.Printf("スライド生成を開始します: %s\n", inputFile)
	result := wf.Run(ctx, inputFile, string(content), *output)

	if !result.Success {
		fmt.Fprintf(os.Stderr, "❌ エラーが発生しました: %s\n", result.ErrorMessage)
		printIntermediates(result.IntermediateFiles)
		return 1
	}

	fmt.Println("✅ PowerPointファイルが正常に生成されました!")
	fmt.Printf("📁 出力ファイル: %s\n", result.OutputFile)
	printIntermediates(result.IntermediateFiles)
	return 0
}

func printIntermediates(files []string) {
	if len(files) == 0 {
		return
	}
	fmt.Printf("\n📋 中間ファイル (%d個):\n", len(files))
	for _, f := range files {
		fmt.Printf("   - %s\n", f)
	}
}

func listHistory(cfg config.Config) int {
	store, err := database.OpenHistory(cfg.DataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer store.Close()

	runs, err := store.ListRuns(20)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return 0
	}

	for _, r := range runs {
		line := fmt.Sprintf("%s  %s  %-7s  %s", r.StartedAt.Format("2006-01-02 15:04:05"), r.ID[:8], r.Status, r.InputFile)
		if r.Status == "success" {
			line += "  -> " + r.OutputFile
		} else if r.ErrorMessage != "" {
			line += "  (" + r.ErrorMessage + ")"
		}
		fmt.Println(line)
	}
	return 0
}
