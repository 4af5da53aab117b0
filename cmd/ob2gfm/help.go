package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: ob2gfm <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert    Convert Obsidian notes to GitHub Markdown")
	fmt.Fprintln(w, "  sample     Convert the built-in sample note")
	fmt.Fprintln(w, "  doctor     Check the render service and output setup")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'ob2gfm help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: ob2gfm convert <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert Obsidian Markdown to GitHub-flavored Markdown.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Markdown file, directory, or - for stdin")
	fmt.Fprintln(w, "           (optional if config has input.defaultDir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output naming:")
	fmt.Fprintln(w, "  With -o <dir>   <dir>/<name>.md, keeping subdirectories")
	fmt.Fprintln(w, "  Without -o      <name>.gfm.md next to each input")
	fmt.Fprintln(w, "  Stdin           stdout, or the file named by -o")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output directory, or .md file for one input")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "      --image-dir <dir>     Folder prefix for local images (default: Docs)")
	fmt.Fprintln(w, "      --watch               Convert again when inputs change")
	fmt.Fprintln(w)
	printPreviewFlagUsage(w)
	printOutputControlUsage(w)
}

// printSampleUsage prints usage for the sample command.
func printSampleUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: ob2gfm sample [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert the built-in sample note and print it, or write it to -o.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <file>       Output .md file (required with --preview)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --image-dir <dir>     Folder prefix for local images (default: Docs)")
	fmt.Fprintln(w)
	printPreviewFlagUsage(w)
	printOutputControlUsage(w)
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: ob2gfm doctor [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render a probe document and check the output directory.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --render-url <url>    Render service endpoint")
	fmt.Fprintln(w, "      --local               Check the offline renderer instead")
	fmt.Fprintln(w, "  -t, --timeout <d>         Probe timeout (default: 30s)")
	fmt.Fprintln(w, "      --json                Print the report as JSON")
	fmt.Fprintln(w, "      --show-config         Print the effective settings as YAML")
}

func printPreviewFlagUsage(w io.Writer) {
	fmt.Fprintln(w, "Preview:")
	fmt.Fprintln(w, "      --preview             Write <name>.html next to each output")
	fmt.Fprintln(w, "      --title <s>           Preview title (default: file name)")
	fmt.Fprintln(w, "      --style <s>           Style name (github, dark) or CSS file path")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom asset directory")
	fmt.Fprintln(w, "      --no-math             Skip MathJax typesetting")
	fmt.Fprintln(w, "      --render-url <url>    Render service endpoint")
	fmt.Fprintln(w, "      --local               Render offline with the built-in renderer")
	fmt.Fprintln(w, "  -t, --timeout <d>         Render timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w)
}

func printOutputControlUsage(w io.Writer) {
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show timing and debug logs")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) error {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return nil
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "sample":
		printSampleUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: ob2gfm version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: ob2gfm help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return fmt.Errorf("%w: %q", ErrUnknownCommand, args[0])
	}
	return nil
}
