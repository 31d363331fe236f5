// Package cli implements the beartype command line: run executes scripts
// with registered packages instrumented, expand prints what the rewriter
// would feed the evaluator.
package cli

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/jpetrucciani/beartype/pkg/bear"
)

// Version is stamped at release build time:
//
//	go build -ldflags "-X github.com/jpetrucciani/beartype/pkg/cli.Version=v1.2.3"
var Version = "dev"

const usage = `beartype instruments annotated functions with runtime type checks.

Usage:
  beartype run <file> [options]    execute a script
  beartype expand <file>           print instrumented source
  beartype version                 print the version
  beartype help                    print this message

Run options:
  --all                check every loaded package
  --packages a,b.c     check the named packages and their subpackages
  --warn-only          log violations instead of failing calls
  --debug              log wrapper generation and loader events
  --config <path>      use an explicit bear.yaml

Without --config, the nearest bear.yaml above the script directory is
used when present.
`

// Entry dispatches command-line arguments and returns the process exit
// code. args excludes the program name.
func Entry(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}
	switch args[0] {
	case "run":
		return runCommand(args[1:], stdout, stderr)
	case "expand":
		return expandCommand(args[1:], stdout, stderr)
	case "version":
		fmt.Fprintf(stdout, "beartype %s\n", Version)
		return 0
	case "help", "-help", "--help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", args[0], usage)
		return 2
	}
}

type runOptions struct {
	file     string
	all      bool
	packages []string
	warnOnly bool
	debug    bool
	config   string
}

func parseRunArgs(args []string) (runOptions, error) {
	var opts runOptions
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; {
		case arg == "--all":
			opts.all = true
		case arg == "--warn-only":
			opts.warnOnly = true
		case arg == "--debug":
			opts.debug = true
		case arg == "--packages":
			if i+1 >= len(args) {
				return opts, errors.New("--packages needs a comma-separated value")
			}
			i++
			for _, name := range strings.Split(args[i], ",") {
				if name = strings.TrimSpace(name); name != "" {
					opts.packages = append(opts.packages, name)
				}
			}
		case arg == "--config":
			if i+1 >= len(args) {
				return opts, errors.New("--config needs a path")
			}
			i++
			opts.config = args[i]
		case strings.HasPrefix(arg, "--"):
			return opts, fmt.Errorf("unknown option %s", arg)
		default:
			if opts.file != "" {
				return opts, fmt.Errorf("unexpected argument %s", arg)
			}
			opts.file = arg
		}
	}
	if opts.file == "" {
		return opts, errors.New("run needs a script file")
	}
	return opts, nil
}

func runCommand(args []string, stdout, stderr io.Writer) int {
	opts, err := parseRunArgs(args)
	if err != nil {
		fail(stderr, err)
		return 2
	}

	logger := zap.NewNop()
	if opts.debug {
		if dev, err := zap.NewDevelopment(); err == nil {
			logger = dev
			defer func() { _ = logger.Sync() }()
		}
	}

	// Flags override the project file only when given; otherwise the
	// project (or default) configuration stands.
	var conf *bear.Conf
	if opts.warnOnly || opts.debug {
		conf = &bear.Conf{IsDebug: opts.debug, IsWarningOnly: opts.warnOnly}
	}

	eng, err := buildEngine(opts, conf, logger, stdout)
	if err != nil {
		fail(stderr, err)
		return 1
	}
	if opts.all {
		if err := eng.RegisterAll(conf); err != nil {
			fail(stderr, err)
			return 1
		}
	}
	if len(opts.packages) > 0 {
		if err := eng.RegisterPackages(conf, opts.packages...); err != nil {
			fail(stderr, err)
			return 1
		}
	}

	if err := eng.Run(opts.file); err != nil {
		fail(stderr, err)
		return 1
	}
	return 0
}

func buildEngine(opts runOptions, conf *bear.Conf, logger *zap.Logger, stdout io.Writer) (*bear.Engine, error) {
	shared := []bear.Option{bear.WithLogger(logger), bear.WithOutput(stdout)}
	if conf != nil {
		shared = append(shared, bear.WithConf(conf))
	}
	if opts.config != "" {
		return bear.FromProjectFile(opts.config, shared...)
	}
	eng, err := bear.FromProject(filepath.Dir(opts.file), shared...)
	if err == nil {
		return eng, nil
	}
	if !errors.Is(err, bear.ErrNoProject) {
		return nil, err
	}
	return bear.New(append(shared, bear.WithRoots(filepath.Dir(opts.file)))...), nil
}

func expandCommand(args []string, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(stderr, "expand needs exactly one file")
		return 2
	}
	out, err := bear.ExpandFile(args[0])
	if err != nil {
		fail(stderr, err)
		return 1
	}
	fmt.Fprint(stdout, out)
	return 0
}

func fail(stderr io.Writer, err error) {
	fmt.Fprintln(stderr, paint(stderr, ansiRed, "error: "+err.Error()))
}
