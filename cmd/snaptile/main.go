package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/1broseidon/snaptile/internal/ipc"
	"github.com/1broseidon/snaptile/internal/snap"
	"github.com/1broseidon/snaptile/internal/update"
	"github.com/rs/zerolog"
)

// version is overridden at build time with -ldflags "-X main.version=v1.2.3".
var version = "dev"

func init() {
	// The tray and the AppKit run loop need the main thread.
	runtime.LockOSThread()
}

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		os.Exit(runDaemon(os.Args[2:]))
	case "snap":
		os.Exit(runSnap(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "displays":
		os.Exit(runDisplays(os.Args[2:]))
	case "dualsnap":
		os.Exit(runDualSnap(os.Args[2:]))
	case "rearm":
		os.Exit(runRearm(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "update":
		os.Exit(runUpdate(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "version", "--version":
		fmt.Println("snaptile", version)
		os.Exit(0)
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: snaptile <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the snaptile daemon (menu bar + hotkeys)")
	fmt.Fprintln(w, "  snap <command>      Run left, right, maximize, reset or next-display")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "  displays            List displays and their visible frames")
	fmt.Fprintln(w, "  dualsnap <on|off|toggle>")
	fmt.Fprintln(w, "                      Change the dual snap setting")
	fmt.Fprintln(w, "  rearm               Reinstall the hotkey tap")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config path         Print the configuration file path")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  update              Check for a newer release")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "  version             Print the version")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'snaptile <command> --help' for command-specific options.")
}

// parseNoArgs parses a flag set for a command that takes no positional
// arguments. It returns -1 to continue or an exit code.
func parseNoArgs(fs *flag.FlagSet, args []string) int {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintf(os.Stderr, "%s takes no arguments\n", fs.Name())
		fs.Usage()
		return 2
	}
	return -1
}

func runSnap(args []string) int {
	fs := flag.NewFlagSet("snap", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: snaptile snap <left|right|maximize|reset|next-display>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Run a window command in the daemon, exactly as its hotkey would.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	cmd, err := snap.ParseCommand(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	res, err := ipc.NewClient().Snap(cmd)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if res.Note != "" {
		fmt.Printf("%s: %s\n", res.Command, res.Note)
		return 0
	}
	fmt.Printf("%s: %d window(s) on %s\n", res.Command, res.Windows, res.Screen)
	return 0
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	jsonOut := fs.Bool("json", false, "Print JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: snaptile status [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show daemon status via IPC.")
	}
	if code := parseNoArgs(fs, args); code >= 0 {
		return code
	}

	status, err := ipc.NewClient().GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *jsonOut {
		return printJSON(status)
	}
	fmt.Print(renderStatus(status, stdoutIsTerminal()))
	return 0
}

func runDisplays(args []string) int {
	fs := flag.NewFlagSet("displays", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	jsonOut := fs.Bool("json", false, "Print JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: snaptile displays [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List displays in system order. Frames use a bottom-left origin.")
	}
	if code := parseNoArgs(fs, args); code >= 0 {
		return code
	}

	data, err := ipc.NewClient().GetDisplays()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *jsonOut {
		return printJSON(data)
	}
	fmt.Print(renderDisplays(data.Displays, stdoutIsTerminal()))
	return 0
}

func runDualSnap(args []string) int {
	usage := func(w io.Writer) {
		fmt.Fprintln(w, "Usage: snaptile dualsnap <on|off|toggle>")
		fmt.Fprintln(w, "")
		fmt.Fprintln(w, "When on, left/right also snap the second frontmost window to the other half.")
	}
	if len(args) == 1 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		usage(os.Stdout)
		return 0
	}
	if len(args) != 1 {
		usage(os.Stderr)
		return 2
	}

	client := ipc.NewClient()
	var (
		enabled bool
		err     error
	)
	switch args[0] {
	case "on":
		enabled, err = client.SetDualSnap(true)
	case "off":
		enabled, err = client.SetDualSnap(false)
	case "toggle":
		enabled, err = client.ToggleDualSnap()
	default:
		fmt.Fprintf(os.Stderr, "Unknown dualsnap value: %s\n\n", args[0])
		usage(os.Stderr)
		return 2
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("dual_snap: %s\n", onOff(enabled))
	return 0
}

func runRearm(args []string) int {
	fs := flag.NewFlagSet("rearm", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: snaptile rearm")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Tear down and reinstall the daemon's hotkey tap.")
	}
	if code := parseNoArgs(fs, args); code >= 0 {
		return code
	}

	if err := ipc.NewClient().Rearm(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println("hotkeys: reinstalled")
	return 0
}

func runUpdate(args []string) int {
	fs := flag.NewFlagSet("update", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: snaptile update")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Check the releases page for a newer version.")
	}
	if code := parseNoArgs(fs, args); code >= 0 {
		return code
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	rel, err := update.NewChecker(zerolog.Nop()).Latest(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if !rel.NewerThan(version) {
		fmt.Printf("snaptile %s is up to date (latest: %s)\n", version, rel.Version)
		return 0
	}
	fmt.Printf("snaptile %s is available (running %s)\n%s\n", rel.Version, version, rel.URL)
	return 0
}

func printJSON(v any) int {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
