package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/v3dqpu/qpuasm/api"
	"github.com/v3dqpu/qpuasm/asm"
	"github.com/v3dqpu/qpuasm/codec"
	"github.com/v3dqpu/qpuasm/disasm"
	"github.com/v3dqpu/qpuasm/gui"
	"github.com/v3dqpu/qpuasm/inspector"
	"github.com/v3dqpu/qpuasm/isa"
	"github.com/v3dqpu/qpuasm/validator"
)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

var deviceVersions = map[string]isa.Version{
	"3.3": isa.Ver33,
	"4.0": isa.Ver40,
	"4.1": isa.Ver41,
	"4.2": isa.Ver42,
	"7.1": isa.Ver71,
}

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		showHelp    = flag.Bool("help", false, "Show help information")
		deviceVer   = flag.String("device", "4.2", "Target QPU ISA version (3.3, 4.0, 4.1, 4.2, 7.1)")
		apiServer   = flag.Bool("api-server", false, "Start HTTP API server mode")
		apiPort     = flag.Int("port", 8787, "API server port (used with -api-server)")
		tuiMode     = flag.Bool("tui", false, "Start the interactive TUI inspector")
		cliMode     = flag.Bool("inspect", false, "Start the line-oriented CLI inspector")
		guiMode     = flag.Bool("gui", false, "Start the graphical inspector")
		disassemble = flag.Bool("disassemble", false, "Treat the input file as packed hex words, one per line")
		doValidate  = flag.Bool("validate", false, "Run the validator over the assembled/disassembled program")
		outFile     = flag.String("o", "", "Output file (default: stdout)")
	)

	flag.Parse()

	if *showVersion {
		fmt.Printf("qpuasm %s\n", Version)
		if Commit != "unknown" {
			fmt.Printf("Commit: %s\n", Commit)
		}
		if Date != "unknown" {
			fmt.Printf("Built: %s\n", Date)
		}
		os.Exit(0)
	}

	if *showHelp {
		printHelp()
		os.Exit(0)
	}

	ver, ok := deviceVersions[*deviceVer]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown device version %q (want one of 3.3, 4.0, 4.1, 4.2, 7.1)\n", *deviceVer)
		os.Exit(1)
	}
	dev := isa.NewDevice(ver)

	if *apiServer {
		runAPIServer(*apiPort)
		return
	}

	if *guiMode {
		if err := gui.RunInspector(dev); err != nil {
			fmt.Fprintf(os.Stderr, "GUI error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *tuiMode || *cliMode {
		sess := inspector.NewSession(dev)
		if flag.NArg() > 0 {
			loadInitialProgram(sess, flag.Arg(0), *disassemble)
		}
		runInspectorMode(sess, *tuiMode)
		return
	}

	if flag.NArg() == 0 {
		printHelp()
		os.Exit(0)
	}

	runBatchMode(dev, flag.Arg(0), *disassemble, *doValidate, *outFile)
}

// runAPIServer starts the diagnostics HTTP+WS server and blocks until a
// shutdown signal arrives, mirroring the teacher's process-monitor-backed
// graceful shutdown for GUI-spawned backends.
func runAPIServer(port int) {
	server := api.NewServer(port)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var shutdownOnce sync.Once
	performShutdown := func() {
		shutdownOnce.Do(func() {
			fmt.Println("\nShutting down API server...")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "Error during shutdown: %v\n", err)
				os.Exit(1)
			}
			fmt.Println("API server stopped")
			os.Exit(0)
		})
	}

	monitor := api.NewProcessMonitor(performShutdown)
	monitor.Start()

	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "API server error: %v\n", err)
			os.Exit(1)
		}
	}()

	<-sigChan
	performShutdown()
}

func loadInitialProgram(sess *inspector.Session, path string, asWords bool) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-specified input path
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", path, err)
		os.Exit(1)
	}
	if asWords {
		for _, line := range strings.Split(string(data), "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			if err := sess.ExecuteCommand("disasm " + line); err != nil {
				fmt.Fprintf(os.Stderr, "Error decoding %q: %v\n", line, err)
				os.Exit(1)
			}
			sess.GetOutput()
		}
		return
	}
	p := asm.New(sess.Dev, path)
	insts, errs := p.ParseProgram(string(data))
	if errs != nil && errs.HasErrors() {
		fmt.Fprint(os.Stderr, errs.Error())
		os.Exit(1)
	}
	sess.Program = insts
	sess.Source = make([]string, len(insts))
	sess.Cursor = len(insts) - 1
}

func runInspectorMode(sess *inspector.Session, tui bool) {
	if tui {
		if err := inspector.RunTUI(sess); err != nil {
			fmt.Fprintf(os.Stderr, "TUI error: %v\n", err)
			os.Exit(1)
		}
		return
	}
	fmt.Println("qpuasm inspector - type 'help' for commands")
	if err := inspector.RunCLI(sess); err != nil {
		fmt.Fprintf(os.Stderr, "Inspector error: %v\n", err)
		os.Exit(1)
	}
}

// runBatchMode assembles or disassembles a file non-interactively,
// optionally validating the result, and writes the output to stdout or
// -o, the way a classic one-shot assembler/disassembler CLI behaves.
func runBatchMode(dev isa.Device, path string, asWords, doValidate bool, outPath string) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-specified input path
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", path, err)
		os.Exit(1)
	}

	var insts []isa.Instruction
	if asWords {
		for i, line := range strings.Split(string(data), "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			word, err := strconvParseHex(line)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Line %d: %v\n", i+1, err)
				os.Exit(1)
			}
			inst, err := codec.Unpack(dev, word)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Line %d: decode failed: %v\n", i+1, err)
				os.Exit(1)
			}
			insts = append(insts, inst)
		}
	} else {
		p := asm.New(dev, path)
		parsed, errs := p.ParseProgram(string(data))
		if errs != nil && errs.HasErrors() {
			fmt.Fprint(os.Stderr, errs.Error())
			os.Exit(1)
		}
		insts = parsed
	}

	if doValidate {
		v := validator.NewValidator(dev)
		ok, res := v.Validate(insts)
		if !ok {
			fmt.Fprintf(os.Stderr, "validation failed at instruction %d: %s (%s)\n", res.Index, res.Message, res.Kind)
			os.Exit(1)
		}
	}

	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath) // #nosec G304 -- user-specified output path
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating %s: %v\n", outPath, err)
			os.Exit(1)
		}
		defer func() {
			if err := f.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close output file: %v\n", err)
			}
		}()
		out = f
	}

	w := bufio.NewWriter(out)
	defer w.Flush()

	if asWords {
		d := disasm.New(dev, disasm.DefaultOptions())
		for _, inst := range insts {
			fmt.Fprintln(w, d.Line(inst))
		}
		return
	}
	for _, inst := range insts {
		word, err := codec.Pack(dev, inst)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error packing instruction: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(w, "0x%016x\n", word)
	}
}

func strconvParseHex(text string) (uint64, error) {
	text = strings.TrimPrefix(strings.TrimPrefix(text, "0x"), "0X")
	var word uint64
	_, err := fmt.Sscanf(text, "%x", &word)
	if err != nil {
		return 0, fmt.Errorf("bad hex word %q: %w", text, err)
	}
	return word, nil
}

func printHelp() {
	fmt.Printf(`qpuasm %s - V3D QPU instruction assembler/disassembler

Usage: qpuasm [options] <file>
       qpuasm -api-server [-port N]
       qpuasm -tui [file]
       qpuasm -inspect [file]
       qpuasm -gui

Options:
  -help              Show this help message
  -version           Show version information
  -device VER        Target QPU ISA version: 3.3, 4.0, 4.1, 4.2, 7.1 (default 4.2)
  -disassemble       Treat <file> as packed hex words, one per line, and print assembly
  -validate          Run the validator over the result before printing it
  -o FILE            Write output to FILE instead of stdout
  -api-server        Start the HTTP+WebSocket diagnostics server
  -port N            API server port (default: 8787, used with -api-server)
  -tui               Start the interactive TUI inspector, optionally preloaded from a file
  -inspect           Start the line-oriented CLI inspector, optionally preloaded from a file
  -gui               Start the graphical inspector

Examples:
  # Assemble a source file to packed hex words
  qpuasm program.qasm

  # Disassemble packed hex words back to assembly text
  qpuasm -disassemble -o out.qasm words.hex

  # Assemble and reject the program if the validator flags it
  qpuasm -validate -device 7.1 program.qasm

  # Start the diagnostics server for GUI front ends
  qpuasm -api-server -port 9000

  # Explore a program interactively
  qpuasm -tui program.qasm

For more information on instruction syntax, see the README.
`, Version)
}
