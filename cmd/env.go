package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/vendamais/followup-cli/internal/knowledge"
	"github.com/vendamais/followup-cli/internal/pipeline"
	"github.com/vendamais/followup-cli/internal/report"
	"github.com/vendamais/followup-cli/internal/schema"
	"github.com/vendamais/followup-cli/internal/strategy"
	"github.com/vendamais/followup-cli/pkg/groq"
)

// env bundles the shared components built from config, used by every command.
type env struct {
	Schema   *schema.Schema
	Pipeline *pipeline.Pipeline
	Store    *report.SQLiteStore
}

func initEnv(ctx context.Context) (*env, error) {
	sch := schema.Default()
	if cfg.Schema.Path != "" {
		loaded, err := schema.LoadFile(cfg.Schema.Path)
		if err != nil {
			return nil, eris.Wrapf(err, "load schema %s", cfg.Schema.Path)
		}
		sch = loaded
	}

	extractor := knowledge.NewPdfToText(cfg.Knowledge.PdfToTextPath)
	kb := knowledge.Load(ctx, cfg.Knowledge.Dir, extractor)

	client := groq.NewClient(cfg.Groq.Key, groq.WithBaseURL(cfg.Groq.BaseURL))
	gen := strategy.NewGenerator(client, cfg.Generator, cfg.Groq.Model, kb.Text(), cfg.Knowledge.MaxChars)

	store, err := report.NewSQLite(cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, err
	}

	return &env{
		Schema:   sch,
		Pipeline: pipeline.New(sch, gen, cfg.Batch),
		Store:    store,
	}, nil
}

func (e *env) Close() {
	e.Store.Close()
}
