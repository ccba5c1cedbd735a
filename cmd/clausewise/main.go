package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clausewise-ai/clausewise/internal/analysis"
	"github.com/clausewise-ai/clausewise/internal/audit"
	"github.com/clausewise-ai/clausewise/internal/config"
	"github.com/clausewise-ai/clausewise/internal/rules"
	"github.com/clausewise-ai/clausewise/internal/server"
)

func main() {
	addrFlag := flag.String("addr", "", "HTTP listen address (overrides config)")
	configPath := flag.String("config", "clausewise.yaml", "Path to Clausewise config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	addr := cfg.Server.Addr
	if *addrFlag != "" {
		addr = *addrFlag
	}

	catalog, err := buildCatalog(cfg)
	if err != nil {
		log.Fatalf("failed to build rule catalog: %v", err)
	}
	log.Printf("rule catalog loaded: %d rules", catalog.Len())

	engine := analysis.New(catalog, analysis.Config{
		MinClauseLength: cfg.Engine.MinClauseLength,
		MaxClauseText:   cfg.Engine.MaxClauseTextLength,
	})

	emitter, err := buildAuditEmitter(cfg)
	if err != nil {
		log.Fatalf("failed to set up audit sinks: %v", err)
	}
	if emitter != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			emitter.Close(ctx)
		}()

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sig
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			emitter.Close(ctx)
			os.Exit(0)
		}()
	}

	srv := server.New(cfg, engine, emitter)

	log.Printf("Starting Clausewise on %s...", addr)
	if err := srv.Start(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// buildCatalog assembles the built-in catalog plus any deployment rules
// file, once, before the first request is served.
func buildCatalog(cfg *config.Config) (*rules.Catalog, error) {
	catalog := rules.NewCatalog(rules.Options{
		InterestRateThreshold: cfg.Engine.InterestRateThreshold,
	})
	if cfg.Engine.RulesFile != "" {
		if err := catalog.LoadFile(cfg.Engine.RulesFile); err != nil {
			return nil, err
		}
	}
	return catalog, nil
}

func buildAuditEmitter(cfg *config.Config) (*audit.Emitter, error) {
	if len(cfg.Audit.Sinks) == 0 {
		return nil, nil
	}

	sinks := make([]audit.Sink, 0, len(cfg.Audit.Sinks))
	for _, sc := range cfg.Audit.Sinks {
		switch sc.Type {
		case "file_jsonl":
			s, err := audit.NewFileSink(sc.Path)
			if err != nil {
				return nil, err
			}
			sinks = append(sinks, s)
		case "webhook":
			s, err := audit.NewWebhookSink(sc.URL, sc.Headers, time.Duration(sc.TimeoutMS)*time.Millisecond)
			if err != nil {
				return nil, err
			}
			sinks = append(sinks, s)
		}
	}
	return audit.NewEmitter(audit.EmitterConfig{}, sinks), nil
}
