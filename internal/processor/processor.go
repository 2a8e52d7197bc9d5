package processor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"codeberg.org/snonux/dowel/internal/aiclient"
	"codeberg.org/snonux/dowel/internal/apperr"
	"codeberg.org/snonux/dowel/internal/batch"
	"codeberg.org/snonux/dowel/internal/cli"
	"codeberg.org/snonux/dowel/internal/config"
	"codeberg.org/snonux/dowel/internal/hotkey"
	"codeberg.org/snonux/dowel/internal/models"
	"codeberg.org/snonux/dowel/internal/storage"
	"codeberg.org/snonux/dowel/internal/translation"
	"codeberg.org/snonux/dowel/internal/transport"
	"codeberg.org/snonux/dowel/internal/webpage"
)

// Processor runs the dowel subcommands
type Processor struct {
	flags      *cli.Flags
	port       storage.Port
	store      *config.Store
	transport  transport.Port
	translator *translation.Service
	cache      *translation.Cache
	ai         *aiclient.Client
	clipboard  hotkey.Clipboard
	archiveDir string
	out        io.Writer
	errOut     io.Writer
	log        *slog.Logger
}

// Option configures a Processor
type Option func(*Processor)

// WithOutput redirects result and progress output
func WithOutput(out, errOut io.Writer) Option {
	return func(p *Processor) {
		p.out = out
		p.errOut = errOut
	}
}

// WithClipboard replaces the system clipboard
func WithClipboard(c hotkey.Clipboard) Option {
	return func(p *Processor) { p.clipboard = c }
}

// WithArchiveDir sets where document backups are written before
// destructive changes
func WithArchiveDir(dir string) Option {
	return func(p *Processor) { p.archiveDir = dir }
}

// WithLogger sets the logger handed to every component
func WithLogger(log *slog.Logger) Option {
	return func(p *Processor) { p.log = log }
}

// NewProcessor wires the components on top of a storage port and a
// transport
func NewProcessor(flags *cli.Flags, port storage.Port, tp transport.Port, opts ...Option) *Processor {
	p := &Processor{
		flags:     flags,
		port:      port,
		transport: tp,
		cache:     translation.NewCache(),
		clipboard: hotkey.SystemClipboard{},
		out:       os.Stdout,
		errOut:    os.Stderr,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}

	p.store = config.NewStore(port, config.WithLogger(p.log))
	p.translator = translation.NewService(p.store, tp,
		translation.WithLogger(p.log),
		translation.WithCache(p.cache))
	p.ai = aiclient.New(p.store, tp,
		aiclient.WithLogger(p.log),
		aiclient.WithResolver(webpage.NewResolver(tp, p.log)))
	return p
}

// Store returns the config store
func (p *Processor) Store() *config.Store {
	return p.store
}

// target returns the --to flag or the configured clipboard locale
func (p *Processor) target(ctx context.Context) string {
	if p.flags.To != "" {
		return p.flags.To
	}
	doc, err := p.store.Read(ctx)
	if err != nil || doc.TranslationConfig.Locale == "" {
		return config.DefaultTarget
	}
	return doc.TranslationConfig.Locale
}

// TranslateText translates one text with the --provider account, or with
// every enabled account plus the enabled AI profile when none is given
func (p *Processor) TranslateText(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("nothing to translate")
	}
	to := p.target(ctx)

	if p.flags.Provider != "" {
		r, err := p.translator.Translate(ctx, p.flags.Provider, text, p.flags.From, to)
		if err != nil {
			return err
		}
		fmt.Fprintln(p.out, r.Translated)
		return nil
	}

	outcomes := p.fanOut(ctx, text, to)
	if len(outcomes) == 0 {
		return apperr.ConfigurationMissing("", "no translation account or AI profile is enabled")
	}

	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			fmt.Fprintf(p.errOut, "[%s] Error: %v\n", o.Name, o.Err)
			failed++
			continue
		}
		fmt.Fprintf(p.out, "[%s] %s\n", o.Name, o.Result.Translated)
	}
	if failed == len(outcomes) {
		return fmt.Errorf("all %d translations failed", failed)
	}
	return nil
}

// fanOut queries every enabled account and, when it is switched on, the
// AI profile at the same time. The AI answer comes last and fails on its
// own like any account.
func (p *Processor) fanOut(ctx context.Context, text, to string) []translation.Outcome {
	profile, ok := p.store.AIProfile(ctx, p.flags.Profile)
	if !ok || !profile.On {
		return p.translator.TranslateEnabled(ctx, text, p.flags.From, to)
	}

	ai := make(chan translation.Outcome, 1)
	go func() {
		o := translation.Outcome{Name: "ai:" + profile.Name}
		translated, err := p.ai.SingleCompletion(ctx, profile.Name, aiclient.FormatUserMessage(to, text))
		o.Result = translation.Result{Original: text, Translated: translated, From: p.flags.From, To: to}
		o.Err = err
		ai <- o
	}()

	outcomes := p.translator.TranslateEnabled(ctx, text, p.flags.From, to)
	return append(outcomes, <-ai)
}

// TranslateBatch translates every entry of the --batch file. Entries fail
// independently; the summary counts them.
func (p *Processor) TranslateBatch(ctx context.Context) error {
	entries, err := batch.ReadBatchFile(p.flags.BatchFile)
	if err != nil {
		return err
	}

	provider := p.flags.Provider
	if provider == "" {
		enabled := p.store.EnabledTranslations(ctx)
		if len(enabled) == 0 {
			return apperr.ConfigurationMissing("", "no translation account is enabled")
		}
		provider = enabled[0].Name
	}
	defaultTarget := p.target(ctx)

	processedCount := 0
	errorCount := 0
	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		to := defaultTarget
		if entry.Target != "" {
			to = entry.Target
		}

		fmt.Fprintf(p.errOut, "Translating %d/%d: %s\n", i+1, len(entries), entry.Text)
		r, err := p.translator.Translate(ctx, provider, entry.Text, p.flags.From, to)
		if err != nil {
			fmt.Fprintf(p.errOut, "Error translating '%s': %v\n", entry.Text, err)
			errorCount++
			continue
		}
		fmt.Fprintf(p.out, "%s = %s\n", entry.Text, r.Translated)
		processedCount++
	}

	fmt.Fprintf(p.errOut, "\n=== Batch Translation Summary ===\n")
	fmt.Fprintf(p.errOut, "Provider: %s\n", provider)
	fmt.Fprintf(p.errOut, "Total texts: %d\n", len(entries))
	fmt.Fprintf(p.errOut, "Translated: %d\n", processedCount)
	if errorCount > 0 {
		fmt.Fprintf(p.errOut, "Errors: %d\n", errorCount)
	}
	fmt.Fprintf(p.errOut, "=================================\n")
	return nil
}

// Complete translates text with the --profile AI profile in one request
func (p *Processor) Complete(ctx context.Context, text string) error {
	msg := aiclient.FormatUserMessage(p.target(ctx), text)
	if msg == "" {
		return fmt.Errorf("nothing to translate")
	}
	result, err := p.ai.SingleCompletion(ctx, p.flags.Profile, msg)
	if err != nil {
		return err
	}
	fmt.Fprintln(p.out, result)
	return nil
}

// Stream prints an AI translation as it arrives. A URL is fetched and the
// profile's selector decides which part of the page is translated.
// Cancelling ctx stops the stream; what was printed so far stays.
func (p *Processor) Stream(ctx context.Context, message string) error {
	wrote := false
	for chunk, err := range p.ai.Stream(ctx, p.flags.Profile, p.target(ctx), message) {
		if err != nil {
			if wrote {
				fmt.Fprintln(p.out)
			}
			return err
		}
		fmt.Fprint(p.out, chunk)
		wrote = true
	}
	if err := ctx.Err(); err != nil {
		fmt.Fprintln(p.out)
		return err
	}
	fmt.Fprintln(p.out)
	return nil
}

// ListModels prints the models of an AI provider account
func (p *Processor) ListModels(ctx context.Context, providerName string) error {
	return models.NewLister(p.store, p.ai).List(ctx, providerName, p.out)
}

// Clipboard translates the clipboard in place the way the hotkey does
func (p *Processor) Clipboard(ctx context.Context) error {
	flow := &hotkey.Flow{
		Store:        p.store,
		AI:           p.ai,
		Translations: p.translator,
		Clipboard:    p.clipboard,
		Notifier:     hotkey.WriterNotifier{W: p.errOut},
		Logger:       p.log,
	}
	return flow.Run(ctx)
}
