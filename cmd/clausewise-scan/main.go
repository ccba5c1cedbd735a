// clausewise-scan analyzes a single document from the command line and
// prints the result JSON, bypassing the HTTP layer. Handy for rule
// development and for batch checks in CI.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/clausewise-ai/clausewise/internal/analysis"
	"github.com/clausewise-ai/clausewise/internal/config"
	"github.com/clausewise-ai/clausewise/internal/document"
	"github.com/clausewise-ai/clausewise/internal/rules"
)

func main() {
	configPath := flag.String("config", "clausewise.yaml", "Path to Clausewise config file")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [-config file] <document>\n", os.Args[0])
		os.Exit(2)
	}
	path := flag.Arg(0)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	catalog := rules.NewCatalog(rules.Options{
		InterestRateThreshold: cfg.Engine.InterestRateThreshold,
	})
	if cfg.Engine.RulesFile != "" {
		if err := catalog.LoadFile(cfg.Engine.RulesFile); err != nil {
			log.Fatalf("failed to load rules file: %v", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("failed to read %s: %v", path, err)
	}

	doc, err := document.Extract(path, data)
	if err != nil {
		log.Fatalf("failed to extract text: %v", err)
	}

	engine := analysis.New(catalog, analysis.Config{
		MinClauseLength: cfg.Engine.MinClauseLength,
		MaxClauseText:   cfg.Engine.MaxClauseTextLength,
	})
	result := engine.Analyze(doc.Text)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		log.Fatalf("failed to encode result: %v", err)
	}
}
