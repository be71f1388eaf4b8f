package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mgpai22/captioner/internal/cue"
)

const (
	DefaultBatchSize   = 50
	defaultConcurrency = 3
)

// single text item to translate
type TranslationItem struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// translated text item
type TranslationResult struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// interface for text translation
type Translator interface {
	Translate(
		ctx context.Context,
		items []TranslationItem,
	) ([]TranslationResult, error)
}

// optional interface for translators that support concurrent batch processing
type ConcurrentTranslator interface {
	Translator
	TranslateWithConcurrency(
		ctx context.Context,
		items []TranslationItem,
		concurrency int,
	) ([]TranslationResult, error)
}

// translation service provider
type Provider string

const (
	ProviderGemini    Provider = "gemini"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

type Options struct {
	InputLanguage  string
	TargetLanguage string
	Model          string
	Prompt         string
	BatchSize      int // items per API request (default 50)
}

type batchFunc func(ctx context.Context, items []TranslationItem) ([]TranslationResult, error)

// runBatches splits items into batches of batchSize and runs up to
// concurrency of them at once. Results come back sorted by item index; the
// first failing batch cancels the others.
func runBatches(
	ctx context.Context,
	items []TranslationItem,
	batchSize, concurrency int,
	fn batchFunc,
) ([]TranslationResult, error) {
	if len(items) == 0 {
		return []TranslationResult{}, nil
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	var (
		mu  sync.Mutex
		all []TranslationResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for start := 0; start < len(items); start += batchSize {
		end := min(start+batchSize, len(items))
		batch := items[start:end]
		n := start / batchSize
		g.Go(func() error {
			results, err := fn(gctx, batch)
			if err != nil {
				return fmt.Errorf("batch %d failed: %w", n, err)
			}
			mu.Lock()
			all = append(all, results...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].Index < all[j].Index
	})
	return all, nil
}

// Cues translates cue text and returns the new text keyed by cue id. Cues
// with blank text are not sent. Translators implementing
// ConcurrentTranslator get concurrency batches in flight.
func Cues(
	ctx context.Context,
	tr Translator,
	cues []cue.Cue,
	concurrency int,
) (map[string]string, error) {
	items := make([]TranslationItem, 0, len(cues))
	ids := make(map[int]string, len(cues))
	for i, c := range cues {
		if strings.TrimSpace(c.Text) == "" {
			continue
		}
		items = append(items, TranslationItem{Index: i, Text: c.Text})
		ids[i] = c.ID
	}
	if len(items) == 0 {
		return map[string]string{}, nil
	}

	var (
		results []TranslationResult
		err     error
	)
	if ct, ok := tr.(ConcurrentTranslator); ok && concurrency > 1 {
		results, err = ct.TranslateWithConcurrency(ctx, items, concurrency)
	} else {
		results, err = tr.Translate(ctx, items)
	}
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, len(results))
	for _, r := range results {
		id, ok := ids[r.Index]
		if !ok {
			return nil, fmt.Errorf("translation returned unknown index %d", r.Index)
		}
		out[id] = r.Text
	}
	return out, nil
}

// Factory builds a translator for the provider. Every provider shares the
// same batching, prompt and response parsing; only the completion call differs.
func Factory(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
) (Translator, error) {
	if opts.TargetLanguage == "" {
		return nil, fmt.Errorf("target language is required")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	var (
		llm completer
		err error
	)
	switch provider {
	case ProviderGemini:
		llm, err = newGeminiCompleter(ctx, apiKey, opts.Model)
	case ProviderOpenAI:
		llm = newOpenAICompleter(apiKey, opts.Model)
	case ProviderAnthropic:
		llm = newAnthropicCompleter(apiKey, opts.Model)
	default:
		return nil, fmt.Errorf("unsupported translation provider: %s", provider)
	}
	if err != nil {
		return nil, err
	}
	return &LLMTranslator{provider: provider, llm: llm, options: opts}, nil
}

// BuildPrompt asks for a JSON array of {index, text} matching the input.
func BuildPrompt(opts Options, items []TranslationItem) string {
	var sb strings.Builder

	source := ""
	if opts.InputLanguage != "" {
		source = opts.InputLanguage + " "
	}
	fmt.Fprintf(&sb, "Translate the following %ssubtitle texts to %s.\n\n", source, opts.TargetLanguage)

	sb.WriteString("Rules:\n")
	for i, rule := range promptRules {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, rule)
	}
	sb.WriteString("\n")

	if opts.Prompt != "" {
		fmt.Fprintf(&sb, "Additional instructions: %s\n\n", opts.Prompt)
	}

	input, _ := json.MarshalIndent(items, "", "  ")
	sb.WriteString("Input JSON:\n")
	sb.Write(input)
	sb.WriteString("\n\nOutput the translated JSON array only:")
	return sb.String()
}

var promptRules = []string{
	"Translate only the text, keeping the meaning and tone of each line.",
	`Leave formatting tags such as {\pos} or {\an8} untouched.`,
	`Keep line breaks (\N or newlines) where they are.`,
	`Answer with a JSON array of objects with "index" and "text" fields.`,
	"Use exactly the input indices, one object per input item.",
	"No explanations and no markdown.",
}
