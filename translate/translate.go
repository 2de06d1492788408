// Package translate drives incremental translation of a String Catalog:
// it selects the (entry, language) pairs that still need work, assembles
// per-unit requests with terminology hints, calls the translation
// service, and merges results back into the catalog.
package translate

import (
	"context"
	"strings"
	"unicode"

	"github.com/lkzhao/AITranslate/catalog"
	"github.com/lkzhao/AITranslate/glossary"
)

// Request carries everything the translation service needs for one unit.
// It is built per call and never persisted.
type Request struct {
	SourceLanguage string
	TargetLanguage string
	// Context is the entry comment plus any extra context, for
	// disambiguation only.
	Context string
	// Hints maps glossary terms to their approved translations; an empty
	// value means the term matters but has no approved translation yet.
	Hints map[string]string
}

// Service is the external translation provider.
type Service interface {
	Translate(ctx context.Context, text string, req Request) (string, error)
}

// ---------------------------------------------------------------------------
// Entry selection
// ---------------------------------------------------------------------------

// Decision is the outcome of selecting one (entry, language) pair.
type Decision int

const (
	// Translate means the pair needs a translation.
	Translate Decision = iota
	// SkipFilteredOut means the entry key is not in the configured allowlist.
	SkipFilteredOut
	// SkipUnsupportedFormat means the existing localization uses
	// variations/substitutions and must not be overwritten.
	SkipUnsupportedFormat
	// SkipAlreadyTranslated means a translated unit exists and force is off.
	SkipAlreadyTranslated
)

// Select decides whether an entry needs translation into lang.
// allow is the optional key allowlist (nil means every key is eligible).
// The returned string is the source text when the decision is Translate.
func Select(cat *catalog.Catalog, key, lang string, allow map[string]bool, force bool) (Decision, string) {
	if allow != nil && !allow[key] {
		return SkipFilteredOut, ""
	}

	e := cat.Strings[key]
	if loc := e.Localizations[lang]; loc.Unsupported() {
		return SkipUnsupportedFormat, ""
	}
	if u := e.UnitFor(lang); u != nil && u.State == catalog.StateTranslated && !force {
		return SkipAlreadyTranslated, ""
	}
	return Translate, cat.SourceText(key)
}

// IsTranslatable reports whether text has linguistic content. Text that is
// empty or consists only of whitespace, symbols, punctuation, or control
// characters after trimming is passed through verbatim; the service is
// never invoked for it.
func IsTranslatable(text string) bool {
	for _, r := range strings.TrimSpace(text) {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Orchestration
// ---------------------------------------------------------------------------

// Options controls a translation run.
type Options struct {
	// Service is the external translation provider.
	Service Service
	// Languages is the list of target language codes.
	Languages []string
	// Keys is an optional allowlist of entry keys.
	Keys []string
	// HintKeys are explicit glossary keys resolved for every request,
	// unioned with extracted terms; explicit keys win on conflict.
	HintKeys []string
	// ExtraContext is appended to each entry's comment in the request.
	ExtraContext string
	// Force re-translates units that are already translated.
	Force bool
	// Verbose enables detailed logging.
	Verbose bool
	// OnLog emits log messages during translation.
	OnLog func(format string, args ...any)
	// OnError emits error messages during translation.
	OnError func(format string, args ...any)
	// OnProgress is called after each (entry, language) unit is processed.
	OnProgress func(done, total int)
	// OnPercent is called once per 10% boundary crossed.
	OnPercent func(percent int)
}

func (o *Options) log(format string, args ...any) {
	if o.OnLog != nil {
		o.OnLog(format, args...)
	}
}

func (o *Options) logError(format string, args ...any) {
	if o.OnError != nil {
		o.OnError(format, args...)
	} else if o.OnLog != nil {
		o.OnLog(format, args...)
	}
}

// Summary reports what a run did.
type Summary struct {
	Translated    int
	PassedThrough int
	Failed        int
	Unsupported   int
	Skipped       int
}

// Run iterates every entry × target language pair in key order and merges
// translation results into the catalog in place. Service failures are
// isolated per pair: the unit is recorded with state "error" and the run
// continues. Only context cancellation stops the loop early.
func Run(ctx context.Context, cat *catalog.Catalog, opts Options) (Summary, error) {
	var sum Summary

	var allow map[string]bool
	if len(opts.Keys) > 0 {
		allow = make(map[string]bool, len(opts.Keys))
		for _, k := range opts.Keys {
			allow[k] = true
		}
	}

	keys := cat.SortedKeys()
	total := len(keys) * len(opts.Languages)
	reporter := NewProgressReporter(total, opts.OnPercent)
	reporter.Report(0)

	processed := 0
	for _, key := range keys {
		entry := cat.Strings[key]
		for _, lang := range opts.Languages {
			select {
			case <-ctx.Done():
				return sum, ctx.Err()
			default:
			}

			decision, sourceText := Select(cat, key, lang, allow, opts.Force)
			switch decision {
			case SkipFilteredOut, SkipAlreadyTranslated:
				sum.Skipped++

			case SkipUnsupportedFormat:
				sum.Unsupported++
				opts.logError("Skipping %q (%s): unsupported variation format", key, lang)

			case Translate:
				if !IsTranslatable(sourceText) {
					// Non-linguistic content: pass through verbatim.
					entry.SetUnit(lang, catalog.StateTranslated, sourceText)
					sum.PassedThrough++
					break
				}

				req := Request{
					SourceLanguage: cat.SourceLanguage,
					TargetLanguage: lang,
					Context:        joinContext(entry.Comment, opts.ExtraContext),
					Hints:          buildHints(cat, sourceText, entry.Comment, opts.HintKeys, lang),
				}

				translated, err := opts.Service.Translate(ctx, sourceText, req)
				if err != nil {
					entry.SetUnit(lang, catalog.StateError, "")
					sum.Failed++
					opts.logError("Translating %q (%s): %v", key, lang, err)
					break
				}
				entry.SetUnit(lang, catalog.StateTranslated, translated)
				sum.Translated++
				if opts.Verbose {
					opts.log("  %q (%s): %q", key, lang, translated)
				}
			}

			processed++
			reporter.Report(processed)
			if opts.OnProgress != nil {
				opts.OnProgress(processed, total)
			}
		}
	}

	return sum, nil
}

// buildHints extracts glossary terms from the source text and the entry
// comment, resolves them against the catalog, then layers the explicit
// hint keys on top so they win on conflict. Returns nil when there is
// nothing to hint, so callers omit the glossary from the request.
func buildHints(cat *catalog.Catalog, sourceText, comment string, hintKeys []string, lang string) map[string]string {
	terms := glossary.Extract(sourceText)
	for term := range glossary.Extract(comment) {
		terms[term] = true
	}
	hints := glossary.ResolveHints(terms, cat, lang)

	if len(hintKeys) > 0 {
		explicit := make(map[string]bool, len(hintKeys))
		for _, k := range hintKeys {
			explicit[k] = true
		}
		for key, translation := range glossary.ResolveHints(explicit, cat, lang) {
			hints[key] = translation
		}
	}

	if len(hints) == 0 {
		return nil
	}
	return hints
}

// joinContext concatenates the entry comment and the run-level extra
// context, either of which may be empty.
func joinContext(comment, extra string) string {
	switch {
	case comment == "":
		return extra
	case extra == "":
		return comment
	default:
		return comment + "\n" + extra
	}
}
