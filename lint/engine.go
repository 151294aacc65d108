// Package lint wires the tree-sitter frontend to the visibility checker:
// it assembles one class hierarchy from a set of source files, replays
// every extracted member access through the access rules and reports the
// denials.
package lint

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gobwas/glob"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"trespass/access"
	"trespass/config"
	"trespass/hierarchy"
	coreerrors "trespass/internal/core/errors"
	"trespass/internal/observability"
	"trespass/parser"
)

// Source is one in-memory file to lint.
type Source struct {
	Path    string
	Content []byte
}

type Engine struct {
	parser    *parser.Parser
	languages map[string]bool // empty: all languages
}

func NewEngine(p *parser.Parser) *Engine {
	return &Engine{parser: p, languages: make(map[string]bool)}
}

// NewEngineFromConfig builds an engine honoring the config's language
// allow-list.
func NewEngineFromConfig(cfg *config.Config) *Engine {
	e := NewEngine(parser.Default())
	for _, lang := range cfg.Languages {
		e.languages[lang] = true
	}
	return e
}

// Run parses the sources, builds the hierarchy and checks every access
// site. Files that fail to parse are skipped with a warning; a hierarchy
// that fails to build (duplicate classes, inheritance cycles) fails the
// whole run since no access verdict would be trustworthy.
func (e *Engine) Run(ctx context.Context, sources []Source) (*Result, error) {
	ctx, span := observability.Tracer.Start(ctx, "lint.Run",
		trace.WithAttributes(attribute.Int("sources", len(sources))))
	defer span.End()

	started := time.Now()
	result := &Result{
		RunID:       uuid.NewString(),
		PerLanguage: make(map[string]int),
		StartedAt:   started,
	}

	files := e.parseAll(ctx, sources, result)

	h, err := buildHierarchy(files)
	if err != nil {
		return nil, err
	}

	e.evaluate(ctx, h, files, result)

	result.Duration = time.Since(started)
	observability.LintDuration.Observe(result.Duration.Seconds())

	slog.Info("lint run finished",
		"run_id", result.RunID,
		"files", result.Files,
		"checks", result.Checks,
		"findings", len(result.Findings),
		"duration", result.Duration)

	return result, nil
}

// RunPaths lints every supported file under the config's include paths,
// honoring its exclude globs.
func (e *Engine) RunPaths(ctx context.Context, cfg *config.Config) (*Result, error) {
	sources, err := CollectSources(cfg)
	if err != nil {
		return nil, err
	}
	return e.Run(ctx, sources)
}

func (e *Engine) parseAll(ctx context.Context, sources []Source, result *Result) []*parser.File {
	_, span := observability.Tracer.Start(ctx, "lint.parse")
	defer span.End()

	files := make([]*parser.File, 0, len(sources))
	for _, src := range sources {
		lang := parser.DetectLanguage(src.Path)
		if lang == "" || (len(e.languages) > 0 && !e.languages[lang]) {
			continue
		}

		parseStart := time.Now()
		file, err := e.parser.ParseFile(src.Path, src.Content)
		if err != nil {
			slog.Warn("failed to parse file", "path", src.Path, "error", err)
			observability.ParseErrors.Inc()
			result.Skipped++
			continue
		}
		observability.ParsingDuration.WithLabelValues(lang).Observe(time.Since(parseStart).Seconds())
		observability.FilesParsed.WithLabelValues(lang).Inc()

		result.Files++
		result.PerLanguage[file.Language]++
		files = append(files, file)
	}
	return files
}

func buildHierarchy(files []*parser.File) (*hierarchy.Hierarchy, error) {
	b := hierarchy.NewBuilder()
	for _, file := range files {
		for _, decl := range file.Classes {
			members := make([]hierarchy.MemberDecl, 0, len(decl.Members))
			for _, m := range decl.Members {
				members = append(members, hierarchy.MemberDecl{
					Name:       m.Name,
					Kind:       m.Kind,
					Visibility: m.Visibility,
				})
			}
			b.Declare(hierarchy.ClassDecl{
				Name:    decl.Name,
				Parent:  decl.Parent,
				Members: members,
			})
		}
	}
	h, err := b.Build()
	if err != nil {
		return nil, coreerrors.AddContext(err, "stage", "hierarchy")
	}
	return h, nil
}

func (e *Engine) evaluate(ctx context.Context, h *hierarchy.Hierarchy, files []*parser.File, result *Result) {
	_, span := observability.Tracer.Start(ctx, "lint.evaluate")
	defer span.End()

	for _, file := range files {
		bindings := make(map[string]string, len(file.Bindings))
		for _, b := range file.Bindings {
			if _, ok := h.Class(b.Class); ok {
				bindings[b.Var] = b.Class
			}
		}

		for _, site := range file.Accesses {
			runtime, ok := receiverClass(h, bindings, site)
			if !ok {
				slog.Debug("receiver not bound to a class", "receiver", site.Receiver, "path", file.Path)
				continue
			}

			var ctxClass *hierarchy.Class
			if site.Enclosing != "" {
				ctxClass, _ = h.Class(site.Enclosing)
			}

			outcome := access.Check(h, access.Attempt{
				Member:  site.Member,
				Runtime: runtime,
				Context: access.Context{Class: ctxClass},
			})
			result.Checks++
			observability.ChecksEvaluated.Inc()

			switch outcome.Decision {
			case access.Allowed:
				result.Allowed++
			case access.Denied:
				result.Denied++
				observability.Denials.WithLabelValues(outcome.Member.Visibility().String()).Inc()
				result.Findings = append(result.Findings, denialFinding(outcome, runtime, site))
			case access.MemberNotFound:
				result.Unknown++
				observability.UnknownMembers.Inc()
				result.Findings = append(result.Findings, Finding{
					Rule:     RuleUnknownMember,
					Message:  fmt.Sprintf("no member %q reachable from class %s", site.Member, runtime.Name()),
					Member:   site.Member,
					Class:    runtime.Name(),
					Context:  site.Enclosing,
					Location: site.Location,
				})
			}
		}
	}
}

// receiverClass maps an access site's receiver to a runtime class: the
// self-reference receivers resolve to the enclosing class, a receiver that
// names a class is taken as-is (static access), anything else goes through
// the file's constructor bindings.
func receiverClass(h *hierarchy.Hierarchy, bindings map[string]string, site parser.Access) (*hierarchy.Class, bool) {
	switch site.Receiver {
	case "this", "self":
		if site.Enclosing == "" {
			return nil, false
		}
		return h.Class(site.Enclosing)
	}
	if c, ok := h.Class(site.Receiver); ok {
		return c, true
	}
	if class, ok := bindings[site.Receiver]; ok {
		return h.Class(class)
	}
	return nil, false
}

func denialFinding(outcome access.Outcome, runtime *hierarchy.Class, site parser.Access) Finding {
	rule := RuleProtectedAccess
	if outcome.Member.Visibility() == hierarchy.Private {
		rule = RulePrivateAccess
	}
	return Finding{
		Rule: rule,
		Message: fmt.Sprintf("cannot access %s %s %s.%s: %s",
			outcome.Member.Visibility(), outcome.Member.Kind(),
			outcome.Declaring.Name(), site.Member, outcome.Reason),
		Member:    site.Member,
		Class:     runtime.Name(),
		Declaring: outcome.Declaring.Name(),
		Context:   site.Enclosing,
		Location:  site.Location,
	}
}

// CollectSources reads every file under the config's include paths that
// survives the exclude globs. Contents are read eagerly; the didactic
// snippets this tool works on are small.
func CollectSources(cfg *config.Config) ([]Source, error) {
	excludeDirs := cfg.ExcludeDirGlobs()
	excludeFiles := cfg.ExcludeFileGlobs()

	var sources []Source
	for _, root := range cfg.IncludePaths {
		err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				if matchAny(excludeDirs, filepath.Base(path)) {
					return filepath.SkipDir
				}
				return nil
			}
			if matchAny(excludeFiles, filepath.Base(path)) {
				return nil
			}
			if parser.DetectLanguage(path) == "" {
				return nil
			}
			content, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			sources = append(sources, Source{Path: path, Content: content})
			return nil
		})
		if err != nil {
			return nil, coreerrors.AddContext(
				coreerrors.Wrap(err, coreerrors.CodeInternal, "walking include path"),
				coreerrors.CtxPath, root)
		}
	}
	return sources, nil
}

func matchAny(globs []glob.Glob, value string) bool {
	for _, g := range globs {
		if g.Match(value) {
			return true
		}
	}
	return false
}
