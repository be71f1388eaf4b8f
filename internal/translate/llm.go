package translate

import (
	"context"
	"fmt"
)

// completer sends one prompt to a chat model and returns the reply text.
type completer interface {
	complete(ctx context.Context, prompt string) (string, error)
}

// LLMTranslator translates batches of items through a chat model. It
// implements ConcurrentTranslator.
type LLMTranslator struct {
	provider Provider
	llm      completer
	options  Options
}

func (t *LLMTranslator) Provider() Provider {
	return t.provider
}

func (t *LLMTranslator) Translate(
	ctx context.Context,
	items []TranslationItem,
) ([]TranslationResult, error) {
	return runBatches(ctx, items, t.options.BatchSize, 1, t.translateBatch)
}

// Items are split into batches of BatchSize (default 50). Each batch becomes
// one API request with up to concurrency requests in flight.
func (t *LLMTranslator) TranslateWithConcurrency(
	ctx context.Context,
	items []TranslationItem,
	concurrency int,
) ([]TranslationResult, error) {
	return runBatches(ctx, items, t.options.BatchSize, concurrency, t.translateBatch)
}

func (t *LLMTranslator) translateBatch(
	ctx context.Context,
	items []TranslationItem,
) ([]TranslationResult, error) {
	reply, err := t.llm.complete(ctx, BuildPrompt(t.options, items))
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", t.provider, err)
	}
	if reply == "" {
		return nil, fmt.Errorf("empty response from %s", t.provider)
	}
	return decodeResults(reply, len(items))
}
