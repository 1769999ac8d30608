package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/goccy/go-json"

	"github.com/goliatone/go-formkit"
	"github.com/goliatone/go-formkit/internal/config"
	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/format"
	"github.com/goliatone/go-formkit/pkg/ident"
	"github.com/goliatone/go-formkit/pkg/openapi"
	"github.com/goliatone/go-formkit/pkg/prompt"
	"github.com/goliatone/go-formkit/pkg/ruleset"
	"github.com/goliatone/go-formkit/pkg/server"
	"github.com/goliatone/go-formkit/pkg/storage"
)

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "Usage: %s [-config file] <command> [flags]\n\n", filepath.Base(os.Args[0]))
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  validate  check a JSON values file against a form")
	fmt.Fprintln(out, "  fill      fill a form interactively")
	fmt.Fprintln(out, "  serve     serve forms over HTTP")
	fmt.Fprintln(out, "  lint      report every problem in the rule files")
}

// errInvalid reports that a command ran to completion but found invalid input.
// Its findings have already been printed.
var errInvalid = errors.New("invalid input")

func main() {
	os.Exit(run())
}

// run executes the selected command and returns the process exit code, so
// deferred cleanup completes before main exits.
func run() int {
	configPath := flag.String("config", "", "YAML config file (defaults to $FORMKIT_CONFIG or ./formkit.yaml)")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("load config: %v", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	args := flag.Args()
	switch args[0] {
	case "validate":
		err = runValidate(ctx, cfg, args[1:])
	case "fill":
		err = runFill(ctx, cfg, args[1:])
	case "serve":
		err = runServe(ctx, cfg, args[1:])
	case "lint":
		err = runLint(cfg, args[1:])
	default:
		usage()
		return 2
	}
	return exitCode(args[0], err)
}

func exitCode(command string, err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errInvalid):
		return 1
	default:
		log.Printf("%s: %v", command, err)
		return 1
	}
}

func loadCatalog(ctx context.Context, cfg config.Config) (*ruleset.Store, error) {
	opts := formkit.CatalogOptions{
		OpenAPI: cfg.Rules.OpenAPI,
		Loader:  openapi.NewLoader(openapi.WithHTTPFallback(10 * time.Second)),
	}
	if cfg.Rules.Dir != "" {
		if info, err := os.Stat(cfg.Rules.Dir); err == nil && info.IsDir() {
			opts.Rules = os.DirFS(cfg.Rules.Dir)
		} else if cfg.Rules.OpenAPI == "" {
			return nil, fmt.Errorf("rules directory %q not found", cfg.Rules.Dir)
		}
	}
	return formkit.LoadCatalog(ctx, opts)
}

func controllerOptions(cfg config.Config) []form.Option {
	opts := []form.Option{form.WithValidationOptions(cfg.ValidationOptions()...)}
	if cfg.Validation.Sanitize {
		opts = append(opts, form.WithSanitizer(format.SanitizeValue))
	}
	return opts
}

func runValidate(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	formID := fs.String("form", "", "form id")
	input := fs.String("values", "-", "JSON file with field values (- for stdin)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := loadCatalog(ctx, cfg)
	if err != nil {
		return err
	}
	f, err := store.MustForm(*formID)
	if err != nil {
		return err
	}

	var data []byte
	if *input == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(*input)
	}
	if err != nil {
		return fmt.Errorf("read values: %w", err)
	}
	values := form.Values{}
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("decode values: %w", err)
	}

	c := formkit.NewController(f, controllerOptions(cfg)...)
	for field, value := range values {
		c.SetValue(field, value)
	}
	valid := c.Validate()

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(map[string]any{"valid": valid, "errors": c.Errors()}); err != nil {
		return err
	}
	if !valid {
		return errInvalid
	}
	return nil
}

func runFill(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("fill", flag.ExitOnError)
	formID := fs.String("form", "", "form id")
	draft := fs.String("draft", "", "draft key to resume from and save to")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := loadCatalog(ctx, cfg)
	if err != nil {
		return err
	}
	f, err := store.MustForm(*formID)
	if err != nil {
		return err
	}

	drafts, closeDrafts, err := cfg.OpenStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeDrafts(); err != nil {
			log.Printf("close drafts: %v", err)
		}
	}()

	key := *draft
	if key == "" {
		key = ident.WithPrefix(f.ID)
	}
	initial, err := storage.Restore(ctx, drafts, key, form.Values(f.Defaults))
	if err != nil {
		return err
	}
	f.Defaults = initial

	opts := controllerOptions(cfg)
	opts = append(opts,
		form.WithListener(storage.Persist(drafts, key, log.Default())),
		form.WithSubmit(func(_ context.Context, values form.Values) error {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(values)
		}),
	)
	c := formkit.NewController(f, opts...)

	ok, err := prompt.New(prompt.NewSurveyDriver()).Fill(ctx, c)
	if err != nil {
		if errors.Is(err, prompt.ErrAborted) || errors.Is(err, prompt.ErrDeclined) {
			log.Printf("draft saved as %q", key)
			return nil
		}
		return err
	}
	if ok {
		return drafts.Delete(ctx, key)
	}
	return nil
}

func runServe(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", cfg.Server.Addr, "listen address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := loadCatalog(ctx, cfg)
	if err != nil {
		return err
	}
	drafts, closeDrafts, err := cfg.OpenStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeDrafts(); err != nil {
			log.Printf("close drafts: %v", err)
		}
	}()

	opts := []server.Option{
		server.WithDrafts(drafts),
		server.WithLogger(log.Default()),
		server.WithValidationOptions(cfg.ValidationOptions()...),
		server.WithSubmitHandler(func(_ context.Context, formID string, values form.Values) error {
			log.Printf("submission %s for %s: %d fields", ident.New(), formID, len(values))
			return nil
		}),
	}
	if cfg.Validation.Sanitize {
		opts = append(opts, server.WithSanitizer(format.SanitizeValue))
	}
	if cfg.Server.LogRequest {
		opts = append(opts, server.WithRequestLogging())
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           server.New(store, opts...).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("serving %d forms on %s", len(store.IDs()), *addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func runLint(cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("lint", flag.ExitOnError)
	dir := fs.String("dir", cfg.Rules.Dir, "rules directory")
	if err := fs.Parse(args); err != nil {
		return err
	}

	issues, err := ruleset.Lint(os.DirFS(*dir))
	if err != nil {
		return err
	}
	for _, issue := range issues {
		fmt.Fprintln(os.Stderr, issue)
	}
	if len(issues) > 0 {
		return fmt.Errorf("%d issue(s): %w", len(issues), errInvalid)
	}
	fmt.Printf("%s: ok\n", *dir)
	return nil
}
