// Command generate is an interactive terminal client for the generation
// tools. It runs against the configured backend and storage, so results can
// be saved straight into the document library.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"quill/internal/capabilities"
	"quill/internal/config"
	"quill/internal/domain"
	"quill/internal/domain/models"
	"quill/internal/domain/models/docsystem"
	"quill/internal/domain/models/generation"
	docsysSvc "quill/internal/domain/services/docsystem"
	domainllm "quill/internal/domain/services/llm"
	"quill/internal/repository"
	"quill/internal/repository/kv"
	"quill/internal/service"
	serviceDocsys "quill/internal/service/docsystem"
	"quill/internal/service/docsystem/converter"
	"quill/internal/service/docsystem/converter/sanitizer"
	serviceLLM "quill/internal/service/llm"
	llmgen "quill/internal/service/llm/generation"
	"quill/internal/service/llm/tools"
	"quill/internal/service/usage"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorBlue   = "\033[34m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

type CLI struct {
	ctx        context.Context
	catalog    *tools.Catalog
	controller domainllm.GenerationController
	docs       docsysSvc.DocumentService
	model      *serviceLLM.ModelInfo
	scanner    *bufio.Scanner
	logger     *slog.Logger
}

// setupLogger creates a logger that writes warnings to the console and
// everything to a log file
func setupLogger(dir string, maxFiles int) (*slog.Logger, string, error) {
	if dir == "" {
		dir = "logs"
	}
	logFile, err := config.SetupLogFile(dir, "generate", maxFiles)
	if err != nil {
		return nil, "", err
	}

	// Console: WARN level so it does not interleave with streamed output
	consoleHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})

	// File: DEBUG level, formatted text for readability
	fileHandler := slog.NewTextHandler(logFile, &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: true,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					return slog.String(slog.TimeKey, t.Format("2006-01-02 15:04:05"))
				}
			}
			if a.Key == slog.SourceKey {
				if src, ok := a.Value.Any().(*slog.Source); ok {
					return slog.String(slog.SourceKey, fmt.Sprintf("%s:%d", filepath.Base(src.File), src.Line))
				}
			}
			return a
		},
	})

	logger := slog.New(&multiHandler{
		handlers: []slog.Handler{consoleHandler, fileHandler},
	})
	return logger, logFile.Name(), nil
}

// multiHandler writes to multiple handlers
type multiHandler struct {
	handlers []slog.Handler
}

func (h *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *multiHandler) Handle(ctx context.Context, record slog.Record) error {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, record.Level) {
			if err := handler.Handle(ctx, record.Clone()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (h *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithAttrs(attrs)
	}
	return &multiHandler{handlers: handlers}
}

func (h *multiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithGroup(name)
	}
	return &multiHandler{handlers: handlers}
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger, logFile, err := setupLogger(cfg.LogDir, cfg.LogMaxFiles)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}

	ctx := context.Background()

	store, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer func() { _ = store.Close() }() // Error ignored: CLI exiting

	txManager := kv.NewTransactionManager(store)
	ns := kv.Namespace(cfg.StorageNS)
	docRepo := kv.NewDocumentRepository(txManager, ns, logger)
	folderRepo := kv.NewFolderRepository(txManager, ns, logger)
	profiles := service.NewProfileService(kv.NewProfileRepository(txManager, ns), logger)

	catalog, err := tools.LoadCatalog()
	if err != nil {
		log.Fatalf("Failed to load tool catalog: %v", err)
	}
	caps, err := capabilities.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to load capabilities: %v", err)
	}

	factory := serviceLLM.NewProviderFactory(cfg)
	modelInfo, err := factory.Resolve()
	if err != nil {
		log.Fatalf("Failed to resolve model: %v", err)
	}
	backend, err := factory.GetBackend(modelInfo.Provider)
	if err != nil {
		log.Fatalf("Failed to create backend: %v", err)
	}

	// The CLI has no billing backend, the gate fails open
	gate := usage.NewGate(nil, cfg.EntitlementTTL, logger)
	controller := llmgen.NewController(
		tools.NewPayloadBuilder(catalog, caps, profiles, modelInfo.Provider, modelInfo.Model),
		backend,
		gate,
		sanitizer.NewHTMLSanitizer(),
		llmgen.Options{RPS: cfg.GenerationRPS, Burst: cfg.GenerationBurst, Timeout: cfg.GenerationTimeout},
		logger,
	)

	cli := &CLI{
		ctx:        ctx,
		catalog:    catalog,
		controller: controller,
		docs:       serviceDocsys.NewDocumentService(docRepo, folderRepo, txManager, converter.NewConverterRegistry(), catalog, logger),
		model:      modelInfo,
		scanner:    bufio.NewScanner(os.Stdin),
		logger:     logger,
	}
	fmt.Printf("%sLogging to %s%s\n", colorBlue, logFile, colorReset)
	cli.run()
}

func (cli *CLI) run() {
	cli.logger.Info("CLI started", "provider", cli.model.Provider, "model", cli.model.Model)

	fmt.Printf("\n%s╔══════════════════════════════════════╗%s\n", colorCyan, colorReset)
	fmt.Printf("%s║        Quill generation CLI          ║%s\n", colorCyan, colorReset)
	fmt.Printf("%s╚══════════════════════════════════════╝%s\n", colorCyan, colorReset)
	fmt.Printf("%sProvider: %s | Model: %s%s\n\n", colorBlue, cli.model.Provider, cli.model.Model, colorReset)

	for {
		fmt.Println("\n" + strings.Repeat("─", 40))
		fmt.Println("Main Menu:")
		fmt.Println("1. Run a tool")
		fmt.Println("2. List recent documents")
		fmt.Println("3. Exit")
		fmt.Print("\nSelect option (1-3): ")

		choice := cli.readLine()
		fmt.Println()

		switch choice {
		case "1":
			cli.runToolFlow()
		case "2":
			cli.listDocuments()
		case "3", "":
			cli.logger.Info("CLI exiting")
			fmt.Printf("%s✓ Goodbye!%s\n", colorGreen, colorReset)
			return
		default:
			fmt.Printf("%s⚠ Invalid choice. Please enter 1-3.%s\n", colorYellow, colorReset)
		}
	}
}

func (cli *CLI) runToolFlow() {
	tool := cli.selectTool()
	if tool == nil {
		return
	}

	values := cli.readFields(tool.Fields, "")
	inputs := &generation.Inputs{Values: values}

	fmt.Print("Voice hint (optional): ")
	voice := cli.readLine()

	fmt.Printf("\n%s⏳ Generating with %s (Ctrl+C cancels)...%s\n\n", colorBlue, tool.Name, colorReset)
	start := time.Now()

	// Ctrl+C aborts the request instead of the CLI
	ctx, stop := signal.NotifyContext(cli.ctx, os.Interrupt)
	defer stop()

	var content string
	var err error
	if tool.Streaming {
		content, err = cli.stream(ctx, tool.ID, inputs, voice)
	} else {
		var result *generation.Result
		if result, err = cli.controller.Generate(ctx, tool.ID, inputs, voice); err == nil {
			content = result.Content
			fmt.Println(content)
		}
	}
	fmt.Println()

	stop()
	if err != nil {
		cli.printError(err)
		return
	}
	cli.logger.Info("generation finished", "tool_id", tool.ID, "duration", time.Since(start), "chars", len(content))
	fmt.Printf("%s✓ Done in %s%s\n", colorGreen, time.Since(start).Round(time.Millisecond), colorReset)

	fmt.Print("Save as document? (y/N): ")
	if strings.EqualFold(cli.readLine(), "y") {
		fmt.Print("Title (blank for default): ")
		doc, err := cli.docs.CreateDocument(cli.ctx, &docsysSvc.CreateDocumentRequest{
			Title:   cli.readLine(),
			Content: content,
			ToolID:  tool.ID,
		})
		if err != nil {
			cli.printError(err)
			return
		}
		fmt.Printf("%s✓ Saved %q (ID: %s)%s\n", colorGreen, doc.Title, doc.ID, colorReset)
	}
}

// stream prints cumulative content as it grows. Sanitizing can rewrite the
// tail of earlier chunks, in which case the whole text is printed again.
func (cli *CLI) stream(ctx context.Context, toolID string, inputs *generation.Inputs, voice string) (string, error) {
	var printed string
	err := cli.controller.GenerateStreamingFunc(ctx, toolID, inputs, func(content string) {
		if strings.HasPrefix(content, printed) {
			fmt.Print(content[len(printed):])
		} else {
			fmt.Print("\n" + content)
		}
		printed = content
	}, voice)
	return printed, err
}

func (cli *CLI) selectTool() *generation.Tool {
	list := cli.catalog.List()
	fmt.Println("Available tools:")
	for i, tool := range list {
		badge := ""
		if tool.Premium {
			badge = colorYellow + " [premium]" + colorReset
		}
		fmt.Printf("%d. %s - %s%s\n", i+1, tool.Name, tool.Description, badge)
	}
	fmt.Printf("\nSelect tool (1-%d): ", len(list))

	n, err := strconv.Atoi(cli.readLine())
	if err != nil || n < 1 || n > len(list) {
		fmt.Printf("%s⚠ Invalid selection%s\n", colorYellow, colorReset)
		return nil
	}
	return &list[n-1]
}

// readFields prompts for every field. Blank answers leave optional fields
// unset so validation reports missing required ones.
func (cli *CLI) readFields(specs []generation.FieldSpec, indent string) models.FormValues {
	values := models.FormValues{}
	for _, spec := range specs {
		label := spec.Label
		if spec.Required {
			label += "*"
		}

		switch spec.Kind {
		case generation.FieldGroup:
			fmt.Printf("%s%s - how many entries? ", indent, label)
			count, _ := strconv.Atoi(cli.readLine())
			var group []models.FormValues
			for i := 0; i < count; i++ {
				fmt.Printf("%s  Entry %d:\n", indent, i+1)
				group = append(group, cli.readFields(spec.Fields, indent+"    "))
			}
			if count > 0 {
				values[spec.Name] = models.GroupValue(group...)
			}

		case generation.FieldChoice:
			fmt.Printf("%s%s [%s]: ", indent, label, strings.Join(spec.Options, "/"))
			if answer := cli.readLine(); answer != "" {
				values[spec.Name] = models.TextValue(answer)
			}

		case generation.FieldToggle:
			fmt.Printf("%s%s (y/n): ", indent, label)
			switch strings.ToLower(cli.readLine()) {
			case "y", "yes":
				values[spec.Name] = models.BoolValue(true)
			case "n", "no":
				values[spec.Name] = models.BoolValue(false)
			}

		case generation.FieldNumber:
			fmt.Printf("%s%s: ", indent, label)
			answer := cli.readLine()
			if answer == "" {
				continue
			}
			if n, err := strconv.ParseFloat(answer, 64); err == nil {
				values[spec.Name] = models.NumberValue(n)
			} else {
				// Let validation report the wrong type
				values[spec.Name] = models.TextValue(answer)
			}

		default:
			fmt.Printf("%s%s: ", indent, label)
			if answer := cli.readLine(); answer != "" {
				values[spec.Name] = models.TextValue(answer)
			}
		}
	}
	return values
}

func (cli *CLI) listDocuments() {
	docs, err := cli.docs.ListDocuments(cli.ctx, &docsystem.DocumentFilter{})
	if err != nil {
		cli.printError(err)
		return
	}
	if len(docs) == 0 {
		fmt.Println("No documents yet.")
		return
	}
	for i, doc := range docs {
		if i == 10 {
			fmt.Printf("... and %d more\n", len(docs)-10)
			break
		}
		fmt.Printf("%s%s%s  %s  (%s)\n", colorCyan, doc.LastModified.Local().Format("2006-01-02 15:04"), colorReset, doc.Title, doc.TemplateID)
	}
}

func (cli *CLI) printError(err error) {
	if notice := domain.NoticeFor(err); notice != nil {
		cli.logger.Warn("request failed", "error", err)
		fmt.Printf("%s✗ %s%s\n", colorRed, notice.Message, colorReset)
		return
	}
	if domain.IsCancelled(err) || errors.Is(err, context.Canceled) {
		fmt.Printf("%s⚠ Cancelled%s\n", colorYellow, colorReset)
		return
	}
	cli.logger.Error("request failed", "error", err)
	fmt.Printf("%s✗ %v%s\n", colorRed, err, colorReset)
}

func (cli *CLI) readLine() string {
	if !cli.scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(cli.scanner.Text())
}
