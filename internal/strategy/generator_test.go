package strategy

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendamais/followup-cli/internal/config"
	"github.com/vendamais/followup-cli/internal/deal"
	"github.com/vendamais/followup-cli/pkg/groq"
)

// scriptedClient replays a fixed sequence of generation outcomes and records
// every request it saw.
type scriptedClient struct {
	script   []scriptStep
	requests []groq.GenerateRequest
}

type scriptStep struct {
	out string
	err error
}

func (c *scriptedClient) Generate(ctx context.Context, req groq.GenerateRequest) (string, error) {
	c.requests = append(c.requests, req)
	if len(c.script) == 0 {
		return "", &groq.APIError{StatusCode: http.StatusInternalServerError, Message: "script exhausted"}
	}
	step := c.script[0]
	c.script = c.script[1:]
	return step.out, step.err
}

func testGenCfg() config.GeneratorConfig {
	return config.GeneratorConfig{
		MaxRetries:      3,
		RetryDelay:      time.Second,
		MinOutputChars:  20,
		MaxOutputTokens: 8192,
		Temperature:     0.8,
		TopP:            0.95,
		TopK:            40,
	}
}

func newTestGenerator(client groq.Client, cfg config.GeneratorConfig) (*Generator, *[]time.Duration) {
	g := NewGenerator(client, cfg, "llama-3.3-70b-versatile", "", 10000)
	var sleeps []time.Duration
	g.sleep = func(ctx context.Context, d time.Duration) {
		sleeps = append(sleeps, d)
	}
	return g, &sleeps
}

func testRecord() *deal.Record {
	r := &deal.Record{
		BusinessName: "Projeto Alfa",
		Company:      "Acme",
		Phase:        "Proposta",
		Owner:        "Carlos",
		Descriptions: [deal.Steps]string{"primeiro contato", "", "", "", ""},
		Temperatures: [deal.Steps]string{"Morno", "", "", "", ""},
	}
	deal.Resolve(r)
	return r
}

const goodOutput = "1. **SITUAÇÃO:** análise longa o suficiente para passar no corte mínimo."

func rateLimitErr() error {
	return &groq.APIError{StatusCode: http.StatusTooManyRequests, Message: "rate limit reached"}
}

func TestAdvise_FirstTrySuccess(t *testing.T) {
	client := &scriptedClient{script: []scriptStep{{out: goodOutput}}}
	g, sleeps := newTestGenerator(client, testGenCfg())

	out, err := g.Advise(context.Background(), testRecord())
	require.NoError(t, err)
	assert.Equal(t, goodOutput, out)
	assert.Empty(t, *sleeps)
	require.Len(t, client.requests, 1)
	assert.Equal(t, "llama-3.3-70b-versatile", client.requests[0].Model)
	assert.Contains(t, client.requests[0].Prompt, "Projeto Alfa")
	assert.Contains(t, client.requests[0].Prompt, "Follow-up #2")
}

func TestAdvise_RateLimitedThenSuccess(t *testing.T) {
	client := &scriptedClient{script: []scriptStep{
		{err: rateLimitErr()},
		{err: rateLimitErr()},
		{out: goodOutput},
	}}
	g, sleeps := newTestGenerator(client, testGenCfg())

	out, err := g.Advise(context.Background(), testRecord())
	require.NoError(t, err)
	assert.Equal(t, goodOutput, out)
	// Exponential backoff: 1s after the first failure, 2s after the second.
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, *sleeps)
	assert.Len(t, client.requests, 3)
}

func TestAdvise_RetriesExhausted(t *testing.T) {
	client := &scriptedClient{script: []scriptStep{
		{err: rateLimitErr()},
		{err: rateLimitErr()},
		{err: rateLimitErr()},
	}}
	g, sleeps := newTestGenerator(client, testGenCfg())

	out, err := g.Advise(context.Background(), testRecord())
	require.NoError(t, err)
	assert.Equal(t, msgRetriesExceeded, out)
	assert.Len(t, client.requests, 3)
	// No backoff after the final attempt.
	assert.Len(t, *sleeps, 2)
}

func TestAdvise_GenericErrorTerminatesImmediately(t *testing.T) {
	client := &scriptedClient{script: []scriptStep{
		{err: &groq.APIError{StatusCode: http.StatusBadRequest, Message: "invalid request payload"}},
	}}
	g, sleeps := newTestGenerator(client, testGenCfg())

	out, err := g.Advise(context.Background(), testRecord())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Erro na análise desta linha:"))
	assert.Contains(t, out, "invalid request payload")
	assert.Len(t, client.requests, 1)
	assert.Empty(t, *sleeps)
}

func TestAdvise_DecommissionedAdvancesModel(t *testing.T) {
	client := &scriptedClient{script: []scriptStep{
		{err: &groq.APIError{StatusCode: http.StatusBadRequest, Code: "model_decommissioned", Message: "model decommissioned"}},
		{out: goodOutput},
	}}
	g, sleeps := newTestGenerator(client, testGenCfg())

	out, err := g.Advise(context.Background(), testRecord())
	require.NoError(t, err)
	assert.Equal(t, goodOutput, out)
	// Switching models neither sleeps nor consumes a retry attempt.
	assert.Empty(t, *sleeps)
	require.Len(t, client.requests, 2)
	assert.Equal(t, "llama-3.3-70b-versatile", client.requests[0].Model)
	assert.Equal(t, "llama-3.1-8b-instruct", client.requests[1].Model)
}

func TestAdvise_AllModelsRetired(t *testing.T) {
	retired := scriptStep{err: &groq.APIError{StatusCode: http.StatusBadRequest, Code: "model_decommissioned", Message: "model decommissioned"}}
	client := &scriptedClient{script: []scriptStep{retired, retired, retired, retired}}
	g, _ := newTestGenerator(client, testGenCfg())

	out, err := g.Advise(context.Background(), testRecord())
	require.NoError(t, err)
	assert.Equal(t, msgAllModelsRetired, out)
	// One attempt per model on the preference list.
	assert.Len(t, client.requests, len(validModels))
}

func TestAdvise_ShortOutputRetried(t *testing.T) {
	client := &scriptedClient{script: []scriptStep{
		{out: "curto"},
		{out: goodOutput},
	}}
	g, sleeps := newTestGenerator(client, testGenCfg())

	out, err := g.Advise(context.Background(), testRecord())
	require.NoError(t, err)
	assert.Equal(t, goodOutput, out)
	assert.Len(t, *sleeps, 1)
	assert.Len(t, client.requests, 2)
}

func TestAdvise_CachesByFingerprint(t *testing.T) {
	client := &scriptedClient{script: []scriptStep{{out: goodOutput}}}
	g, _ := newTestGenerator(client, testGenCfg())

	r := testRecord()
	first, err := g.Advise(context.Background(), r)
	require.NoError(t, err)
	second, err := g.Advise(context.Background(), r)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, client.requests, 1)
}

func TestAdvise_NoCacheDisablesReuse(t *testing.T) {
	cfg := testGenCfg()
	cfg.NoCache = true
	client := &scriptedClient{script: []scriptStep{{out: goodOutput}, {out: goodOutput}}}
	g, _ := newTestGenerator(client, cfg)

	r := testRecord()
	_, err := g.Advise(context.Background(), r)
	require.NoError(t, err)
	_, err = g.Advise(context.Background(), r)
	require.NoError(t, err)

	assert.Len(t, client.requests, 2)
}

func TestAdvise_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := &scriptedClient{}
	g, _ := newTestGenerator(client, testGenCfg())

	_, err := g.Advise(ctx, testRecord())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, client.requests)
}

func TestAdvise_UnknownStartModelFallsBack(t *testing.T) {
	client := &scriptedClient{script: []scriptStep{{out: goodOutput}}}
	g := NewGenerator(client, testGenCfg(), "modelo-inexistente", "", 10000)
	g.sleep = func(context.Context, time.Duration) {}

	_, err := g.Advise(context.Background(), testRecord())
	require.NoError(t, err)
	require.Len(t, client.requests, 1)
	assert.Equal(t, validModels[0], client.requests[0].Model)
}
