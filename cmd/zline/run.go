package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/ZebulonRouseFrantzich/zline/internal/bar"
	"github.com/ZebulonRouseFrantzich/zline/internal/config"
	"github.com/ZebulonRouseFrantzich/zline/internal/field"
	"github.com/ZebulonRouseFrantzich/zline/internal/logs"
)

// runRun handles the `zline run` subcommand (also the default command)
func runRun(args []string) error {
	showHelp := false
	configPath := ""
	once := false
	debug := false
	refresh := -1.0
	count := -1
	fieldsCSV := ""
	separator := ""
	template := ""

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "--help", "-h":
			showHelp = true
		case "--once", "-1":
			once = true
		case "--debug":
			debug = true
		case "--config", "-c":
			v, err := flagValue(args, &i, arg)
			if err != nil {
				return err
			}
			configPath = v
		case "--refresh", "-r":
			v, err := flagValue(args, &i, arg)
			if err != nil {
				return err
			}
			f, err := strconv.ParseFloat(v, 64)
			if err != nil || f <= 0 {
				return fmt.Errorf("invalid refresh interval: %s", v)
			}
			refresh = f
		case "--count":
			v, err := flagValue(args, &i, arg)
			if err != nil {
				return err
			}
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return fmt.Errorf("invalid count: %s", v)
			}
			count = n
		case "--fields", "-f":
			v, err := flagValue(args, &i, arg)
			if err != nil {
				return err
			}
			fieldsCSV = v
		case "--separator", "-s":
			v, err := flagValue(args, &i, arg)
			if err != nil {
				return err
			}
			separator = v
		case "--template", "-t":
			v, err := flagValue(args, &i, arg)
			if err != nil {
				return err
			}
			template = v
		default:
			return fmt.Errorf("unknown option: %s\nRun 'zline run --help' for usage", arg)
		}
	}

	if showHelp {
		printRunHelp()
		return nil
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	spec, err := loadOrOffer(ctx, configPath)
	if err != nil {
		return err
	}

	// Command line overrides
	if once {
		spec.RunOnce = true
	}
	if debug {
		spec.Debug = true
	}
	if refresh > 0 {
		spec.Refresh = refresh
	}
	if count >= 0 {
		spec.Count = count
	}
	if separator != "" {
		spec.Separator = separator
	}
	if template != "" {
		spec.Template = template
	}
	if fieldsCSV != "" {
		var names []string
		for _, name := range strings.Split(fieldsCSV, ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
		spec.FieldOrder = names
		spec.Template = template // -fields overrides a configured template
	}

	if err := spec.Validate(); err != nil {
		return err
	}

	logger := logs.Setup(spec.Debug)
	clock := field.RealClock{}

	order := spec.FieldOrder
	if spec.Template != "" {
		tmpl, err := bar.ParseTemplate(spec.Template)
		if err != nil {
			return err
		}
		order = tmpl.Fields()
	}

	fields, err := field.FromSpec(order, spec, clock)
	if err != nil {
		return err
	}

	b, err := bar.New(spec, fields, bar.Options{
		Out:    os.Stdout,
		TTY:    isTerminal(os.Stdout),
		Clock:  clock,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	return b.Run(ctx)
}

// loadOrOffer loads the configuration, offering to create a default
// one when none exists and stdin is interactive.
func loadOrOffer(ctx context.Context, configPath string) (*config.Spec, error) {
	if configPath != "" {
		return config.Load(ctx, configPath)
	}

	spec, path, err := config.LoadDefault(ctx)
	if err == nil {
		return spec, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	if isTerminal(os.Stdin) {
		prompt := fmt.Sprintf("No configuration found at %s. Create a default one?", path)
		if config.Approve(os.Stdin, os.Stderr, prompt) {
			if err := config.WriteDefault(path, false); err != nil {
				return nil, err
			}
			return config.Load(ctx, path)
		}
	}
	return config.DefaultSpec(), nil
}

// flagValue returns the value following a flag, advancing the index.
func flagValue(args []string, i *int, flag string) (string, error) {
	if *i+1 >= len(args) {
		return "", fmt.Errorf("option %s requires a value", flag)
	}
	*i++
	return args[*i], nil
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

func printRunHelp() {
	fmt.Println("Usage: zline run [options]")
	fmt.Println()
	fmt.Println("Run the status line until interrupted.")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -c, --config <path>      Configuration file (.conf, .json or .lua)")
	fmt.Println("  -1, --once               Refresh every field once, print, and exit")
	fmt.Println("  -r, --refresh <secs>     Override the refresh interval")
	fmt.Println("      --count <n>          Stop after n refreshes (0 = forever)")
	fmt.Println("  -f, --fields <a,b,c>     Override the field order")
	fmt.Println("  -s, --separator <text>   Override the field separator")
	fmt.Println("  -t, --template <text>    Override the bar template")
	fmt.Println("      --debug              Enable debug logging")
	fmt.Println("  -h, --help               Show this help")
}
