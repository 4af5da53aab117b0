package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	ob2gfm "github.com/alnah/go-ob2gfm"
	"github.com/alnah/go-ob2gfm/internal/config"
	"github.com/alnah/go-ob2gfm/internal/render"
)

// ErrDoctorFailed is returned when a diagnostic check reports an error.
var ErrDoctorFailed = errors.New("doctor found errors")

// probeMarkdown is rendered to check the preview path end to end.
const probeMarkdown = "# ob2gfm doctor\n\nInline math $E = mc^2$ and a list:\n- one\n- two\n"

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string     `json:"status"` // "ready", "warnings", "errors"
	Render   renderInfo `json:"render"`
	Env      envInfo    `json:"environment"`
	System   systemInfo `json:"system"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

// renderInfo holds the render probe outcome.
type renderInfo struct {
	Mode    string `json:"mode"` // "remote" or "local"
	URL     string `json:"url,omitempty"`
	OK      bool   `json:"ok"`
	Latency string `json:"latency,omitempty"`
	Math    bool   `json:"math"` // Probe math reached the typesetter
}

// envInfo holds runtime environment details.
type envInfo struct {
	OS         string `json:"os"`
	Arch       string `json:"arch"`
	GOMAXPROCS int    `json:"gomaxprocs"`
	Workers    int    `json:"workers"`
	RenderURL  string `json:"ob2gfm_render_url,omitempty"`
}

// systemInfo holds filesystem check results.
type systemInfo struct {
	TempWritable   bool   `json:"temp_writable"`
	OutputDir      string `json:"output_dir,omitempty"`
	OutputWritable bool   `json:"output_writable"`
}

// runDoctorCmd runs the diagnostics and prints a report.
func runDoctorCmd(ctx context.Context, args []string, env *Environment) error {
	f := &convertFlags{}
	var jsonOutput, showConfig bool

	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	fs.StringVarP(&f.common.config, "config", "c", "", "config file name or path")
	addRenderFlags(fs, &f.render)
	fs.BoolVar(&jsonOutput, "json", false, "print the report as JSON")
	fs.BoolVar(&showConfig, "show-config", false, "print the effective settings as YAML")
	fs.Usage = func() { printDoctorUsage(env.Stderr) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	cfg, timeout, err := resolveSettings(f, loadEnvConfig())
	if err != nil {
		return err
	}

	result := runDoctor(ctx, cfg, timeout, env)

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if showConfig {
		if err := printSettings(env.Stdout, cfg, timeout); err != nil {
			return err
		}
	}

	if result.Status == "errors" {
		return ErrDoctorFailed
	}
	return nil
}

// runDoctor performs all diagnostic checks.
func runDoctor(ctx context.Context, cfg *config.Config, timeout time.Duration, env *Environment) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			GOMAXPROCS: runtime.GOMAXPROCS(0),
			Workers:    ob2gfm.ResolvePoolSize(0),
			RenderURL:  os.Getenv("OB2GFM_RENDER_URL"),
		},
	}

	checkRender(ctx, result, cfg, timeout, env)
	checkSystem(result, cfg.Output.DefaultDir)

	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}
	return result
}

// checkRender renders probeMarkdown through the configured renderer.
func checkRender(ctx context.Context, result *doctorResult, cfg *config.Config, timeout time.Duration, env *Environment) {
	if cfg.Render.Local {
		result.Render.Mode = "local"
	} else {
		result.Render.Mode = "remote"
		result.Render.URL = cfg.Render.URL
		if result.Render.URL == "" {
			result.Render.URL = render.DefaultURL
		}
	}

	conv, err := newConverter(cfg, timeout, slog.New(slog.DiscardHandler), env)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Converter setup failed: %v", err))
		return
	}

	start := time.Now()
	res, err := conv.Convert(ctx, ob2gfm.Input{Markdown: probeMarkdown, Preview: true, Title: "doctor"})
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Render probe failed: %v", err))
		return
	}
	if res.RenderErr != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Render probe failed: %v", res.RenderErr))
		return
	}

	result.Render.OK = true
	result.Render.Latency = time.Since(start).Round(time.Millisecond).String()
	result.Render.Math = strings.Contains(res.HTML, `class="math inline"`)

	if !result.Render.Math && !cfg.Preview.NoMath {
		result.Warnings = append(result.Warnings,
			"Inline math was not recognized in the rendered HTML; previews will show it untypeset")
	}
}

// checkSystem verifies the temp and output directories accept files.
func checkSystem(result *doctorResult, outputDir string) {
	if err := probeWritable(os.TempDir()); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", os.TempDir()))
	} else {
		result.System.TempWritable = true
	}

	if outputDir == "" {
		return
	}
	result.System.OutputDir = outputDir

	info, err := os.Stat(outputDir)
	switch {
	case os.IsNotExist(err):
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Output directory %s does not exist; it will be created", outputDir))
	case err != nil:
		result.Errors = append(result.Errors, fmt.Sprintf("Output directory: %v", err))
	case !info.IsDir():
		result.Errors = append(result.Errors, fmt.Sprintf("Output path %s is not a directory", outputDir))
	default:
		if err := probeWritable(outputDir); err != nil {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Output directory not writable: %s", outputDir))
		} else {
			result.System.OutputWritable = true
		}
	}
}

// probeWritable creates and removes a temporary file in dir.
func probeWritable(dir string) error {
	f, err := os.CreateTemp(dir, tempFilePrefix+"doctor-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}

// printSettings writes cfg after flag, environment and file merging.
func printSettings(w io.Writer, cfg *config.Config, timeout time.Duration) error {
	effective := *cfg
	effective.Render.Timeout = config.Duration(timeout)

	out, err := config.Marshal(&effective)
	if err != nil {
		return fmt.Errorf("printing settings: %w", err)
	}
	fmt.Fprintln(w, "Settings")
	_, err = w.Write(out)
	return err
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "ob2gfm doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Render")
	if r.Render.Mode == "local" {
		fmt.Fprintln(w, "  [OK] Mode: local")
	} else {
		fmt.Fprintf(w, "  [OK] Mode: remote (%s)\n", r.Render.URL)
	}
	if r.Render.OK {
		fmt.Fprintf(w, "  [OK] Probe rendered in %s\n", r.Render.Latency)
		if r.Render.Math {
			fmt.Fprintln(w, "  [OK] Math: ready for MathJax")
		} else {
			fmt.Fprintln(w, "  [WARN] Math: not recognized")
		}
	} else {
		fmt.Fprintln(w, "  [ERROR] Probe failed")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	fmt.Fprintf(w, "  [OK] Workers: %d (GOMAXPROCS %d)\n", r.Env.Workers, r.Env.GOMAXPROCS)
	if r.Env.RenderURL != "" {
		fmt.Fprintf(w, "  [OK] OB2GFM_RENDER_URL: %s\n", r.Env.RenderURL)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	if r.System.OutputDir != "" && r.System.OutputWritable {
		fmt.Fprintf(w, "  [OK] Output directory: %s writable\n", r.System.OutputDir)
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to convert")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
