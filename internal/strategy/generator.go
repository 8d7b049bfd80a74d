package strategy

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/vendamais/followup-cli/internal/config"
	"github.com/vendamais/followup-cli/internal/deal"
	"github.com/vendamais/followup-cli/pkg/groq"
)

// Terminal messages returned in place of a recommendation. They are report
// content, not errors: the batch still completes and the reader sees exactly
// which rows could not be analyzed.
const (
	msgAllModelsRetired = "Erro: Modelo de IA descontinuado. Por favor, atualize groq.model na configuração para 'llama-3.3-70b-versatile'."
	msgRetriesExceeded  = "Não foi possível gerar a análise para este item (limite de tentativas excedido)."
)

// Generator produces coaching recommendations for resolved deal records.
type Generator struct {
	client     groq.Client
	cfg        config.GeneratorConfig
	startModel string
	kbText     string
	kbMaxChars int
	cache      *Cache

	// sleep is swapped out in tests.
	sleep func(ctx context.Context, d time.Duration)
}

// NewGenerator creates a Generator. model is the preferred starting model;
// if it is not on the known-good list the first list entry is used. kbText
// is the loaded knowledge base, possibly empty.
func NewGenerator(client groq.Client, cfg config.GeneratorConfig, model, kbText string, kbMaxChars int) *Generator {
	start := validModels[0]
	for _, m := range validModels {
		if m == model {
			start = model
			break
		}
	}

	return &Generator{
		client:     client,
		cfg:        cfg,
		startModel: start,
		kbText:     kbText,
		kbMaxChars: kbMaxChars,
		cache:      NewCache(),
		sleep:      sleepCtx,
	}
}

// Advise generates a recommendation for a resolved record. It retries on
// rate limits and too-short output with exponential backoff, advances to the
// next model when the active one is decommissioned, and converts terminal
// failures into readable Portuguese messages. The returned error is non-nil
// only for failures outside the retry policy, such as context cancellation;
// the caller substitutes a deterministic fallback in that case.
func (g *Generator) Advise(ctx context.Context, r *deal.Record) (string, error) {
	key := r.Fingerprint()
	if !g.cfg.NoCache {
		if cached, ok := g.cache.Get(key); ok {
			zap.L().Debug("strategy: cache hit", zap.String("business", r.BusinessName))
			return cached, nil
		}
	}

	prompt := buildPrompt(r, g.kbText, g.kbMaxChars)
	model := g.startModel

	for attempt := 1; attempt <= g.cfg.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		out, err := g.client.Generate(ctx, groq.GenerateRequest{
			Model:       model,
			Prompt:      prompt,
			MaxTokens:   g.cfg.MaxOutputTokens,
			Temperature: g.cfg.Temperature,
			TopP:        g.cfg.TopP,
			TopK:        g.cfg.TopK,
		})

		if err == nil {
			if utf8.RuneCountInString(strings.TrimSpace(out)) < g.cfg.MinOutputChars {
				zap.L().Warn("strategy: output too short, retrying",
					zap.String("business", r.BusinessName),
					zap.Int("attempt", attempt),
					zap.Int("chars", utf8.RuneCountInString(out)),
				)
				g.backoff(ctx, attempt)
				continue
			}

			g.cache.Set(key, out)
			zap.L().Info("strategy: recommendation generated",
				zap.String("business", r.BusinessName),
				zap.String("model", model),
				zap.Int("attempt", attempt),
			)
			return out, nil
		}

		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		switch groq.Classify(err) {
		case groq.ClassDecommissioned:
			next, ok := nextModel(model)
			if !ok {
				zap.L().Error("strategy: every known model is retired")
				return msgAllModelsRetired, nil
			}
			zap.L().Warn("strategy: model retired, switching",
				zap.String("from", model),
				zap.String("to", next),
			)
			model = next
			// A retired model is a config problem, not a transient
			// failure: switching does not consume an attempt.
			attempt--

		case groq.ClassRateLimited:
			zap.L().Warn("strategy: rate limited",
				zap.String("business", r.BusinessName),
				zap.Int("attempt", attempt),
				zap.Int("max_retries", g.cfg.MaxRetries),
			)
			if attempt < g.cfg.MaxRetries {
				g.backoff(ctx, attempt)
			}

		default:
			zap.L().Error("strategy: generation failed",
				zap.String("business", r.BusinessName),
				zap.Error(err),
			)
			return "Erro na análise desta linha: " + err.Error(), nil
		}
	}

	zap.L().Error("strategy: retries exhausted", zap.String("business", r.BusinessName))
	return msgRetriesExceeded, nil
}

// backoff sleeps RetryDelay doubled per prior attempt.
func (g *Generator) backoff(ctx context.Context, attempt int) {
	d := g.cfg.RetryDelay * time.Duration(1<<(attempt-1))
	zap.L().Warn("strategy: backing off", zap.Duration("delay", d))
	g.sleep(ctx, d)
}

func nextModel(current string) (string, bool) {
	for i, m := range validModels {
		if m == current && i < len(validModels)-1 {
			return validModels[i+1], true
		}
	}
	return "", false
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
