package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"

	"github.com/tangzhangming/typeinfer/internal/config"
	"github.com/tangzhangming/typeinfer/internal/diag"
	"github.com/tangzhangming/typeinfer/internal/infer"
	"github.com/tangzhangming/typeinfer/internal/logging"
	"github.com/tangzhangming/typeinfer/internal/types"
)

const (
	Version = "0.1.0"
)

// 全局参数
var (
	globalLang   string
	globalConfig string
)

func main() {
	args := preprocessArgs(os.Args[1:])

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, Msg().ErrLoadConfig+"\n", err)
		os.Exit(1)
	}
	cfg.Diagnostics.Language = resolveLanguage(globalLang, cfg.Diagnostics.Language)
	setMessages(cfg.Diagnostics.Language)
	cfg.Apply(nil)

	if len(args) < 1 {
		printUsage(os.Stdout)
		os.Exit(0)
	}

	command := args[0]

	switch command {
	case "sample":
		os.Exit(cmdSample(cfg, args[1:]))
	case "stdlib":
		os.Exit(cmdStdlib(os.Stdout, args[1:]))
	case "codes":
		cmdCodes(os.Stdout)
	case "config":
		os.Exit(cmdConfig(os.Stdout, cfg))
	case "version", "-v", "--version":
		cmdVersion()
	case "help", "-h", "--help":
		printUsage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, Msg().ErrUnknownCmd+"\n\n", command)
		printUsage(os.Stderr)
		os.Exit(1)
	}
}

// preprocessArgs 提取全局 --lang 与 --config 参数
func preprocessArgs(args []string) []string {
	var result []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--lang" || arg == "-lang":
			if i+1 < len(args) {
				globalLang = args[i+1]
				i++
				continue
			}
		case strings.HasPrefix(arg, "--lang="):
			globalLang = strings.TrimPrefix(arg, "--lang=")
			continue
		case arg == "--config" || arg == "-config":
			if i+1 < len(args) {
				globalConfig = args[i+1]
				i++
				continue
			}
		case strings.HasPrefix(arg, "--config="):
			globalConfig = strings.TrimPrefix(arg, "--config=")
			continue
		}
		result = append(result, arg)
	}
	return result
}

// loadConfig 显式指定的配置文件必须存在；否则从当前目录向上查找
func loadConfig() (*config.Config, error) {
	if globalConfig != "" {
		return config.LoadConfig(globalConfig)
	}
	wd, err := os.Getwd()
	if err != nil {
		return config.Default(), nil
	}
	return config.Load(wd)
}

func printUsage(w io.Writer) {
	m := Msg()
	fmt.Fprintf(w, m.VersionTitle+"\n\n", Version)
	fmt.Fprintln(w, m.HelpUsage)
	fmt.Fprintln(w, "  typeinfer [--lang <en|zh>] [--config <file>] <command> [arguments]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, m.HelpCommands)
	fmt.Fprintf(w, "  sample [-lsp]     %s\n", m.CmdSample)
	fmt.Fprintf(w, "  stdlib [class]    %s\n", m.CmdStdlib)
	fmt.Fprintf(w, "  codes             %s\n", m.CmdCodes)
	fmt.Fprintf(w, "  config            %s\n", m.CmdConfig)
	fmt.Fprintf(w, "  version           %s\n", m.CmdVersion)
	fmt.Fprintf(w, "  help              %s\n", m.CmdHelp)
	fmt.Fprintln(w)
	fmt.Fprintln(w, m.HelpOptions)
	fmt.Fprintf(w, "  --config <file>   %s\n", m.OptConfig)
	fmt.Fprintf(w, "  --lang <en|zh>    %s\n", m.OptLang)
	fmt.Fprintln(w)
	fmt.Fprintln(w, m.HelpExamples)
	fmt.Fprintln(w, "  typeinfer sample")
	fmt.Fprintln(w, "  typeinfer --lang zh sample -lsp")
	fmt.Fprintln(w, "  typeinfer stdlib String")
}

// ============================================================================
// 命令
// ============================================================================

func cmdSample(cfg *config.Config, args []string) int {
	m := Msg()
	fs := flag.NewFlagSet("sample", flag.ExitOnError)
	asLSP := fs.Bool("lsp", false, m.OptLSP)
	fs.Parse(args)

	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, m.ErrInitLogger+"\n", err)
		return 1
	}
	defer logger.Close()

	engine := infer.New(diag.NewCollector(),
		infer.WithLogger(logger.Logger.With(zap.String("file", sampleFile))),
		infer.WithOptions(cfg.EngineOptions()),
	)

	results, err := runSamples(engine, cfg.Diagnostics.WarningsAsErrors)
	if err != nil {
		logger.Error("inference failed", zap.Error(err))
		var ni *diag.NotImplementedError
		if errors.As(err, &ni) {
			fmt.Fprintf(os.Stderr, "%s ", ni.Code())
		}
		fmt.Fprintf(os.Stderr, m.ErrInference+"\n", err)
		return 1
	}

	if *asLSP {
		return printLSP(os.Stdout, results)
	}
	return printResults(os.Stdout, results)
}

func printResults(w io.Writer, results []sampleResult) int {
	var errorCount, warnings int
	for _, r := range results {
		t := "<none>"
		if r.typ != nil {
			t = r.typ.String()
		}
		fmt.Fprintf(w, "%-40s : %s\n", r.expr.String(), t)
		for _, d := range r.diagnostics {
			fmt.Fprintf(w, "    %s %s: %s\n", d.Code, d.Level, d.Message)
			if d.IsError() {
				errorCount++
			} else {
				warnings++
			}
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, Msg().SampleSummary+"\n", len(results), errorCount, warnings)
	if errorCount > 0 {
		return 1
	}
	return 0
}

func printLSP(w io.Writer, results []sampleResult) int {
	var all []*diag.Diagnostic
	for _, r := range results {
		all = append(all, r.diagnostics...)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(diag.PublishParams(sampleFile, 1, all)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func cmdStdlib(w io.Writer, args []string) int {
	lib := types.Standard()
	if len(args) == 0 {
		for _, name := range lib.Classifiers().ClassifierNames() {
			fmt.Fprintln(w, name)
		}
		return 0
	}

	c, ok := lib.Classifier(args[0]).(*types.ClassDescriptor)
	if !ok {
		fmt.Fprintf(os.Stderr, Msg().ErrUnknownClass+"\n", args[0])
		return 1
	}
	fmt.Fprintln(w, c.DefaultType())
	for _, name := range c.Members.PropertyNames() {
		p := c.Members.Property(name)
		kind := "val"
		if p.InType != nil {
			kind = "var"
		}
		out := p.OutType
		if out == nil {
			out = p.InType
		}
		fmt.Fprintf(w, "  %s %s : %s\n", kind, name, out)
	}
	for _, name := range c.Members.FunctionNames() {
		for _, f := range c.Members.Functions(name) {
			fmt.Fprintf(w, "  %s\n", f)
		}
	}
	return 0
}

func cmdCodes(w io.Writer) {
	for _, info := range diag.Codes() {
		fmt.Fprintf(w, "%s  %-8s %-20s %s\n", info.Code, info.Level, info.Kind, info.Category)
	}
}

func cmdConfig(w io.Writer, cfg *config.Config) int {
	data, err := toml.Marshal(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	w.Write(data)
	return 0
}

func cmdVersion() {
	fmt.Printf(Msg().VersionTitle+"\n", Version)
}
