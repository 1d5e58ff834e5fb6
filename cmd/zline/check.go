package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ZebulonRouseFrantzich/zline/internal/config"
)

// runCheck handles the `zline check` subcommand
func runCheck(args []string) error {
	showHelp := false
	configPath := ""

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "--help", "-h":
			showHelp = true
		case "--config", "-c":
			v, err := flagValue(args, &i, arg)
			if err != nil {
				return err
			}
			configPath = v
		default:
			return fmt.Errorf("unknown option: %s\nRun 'zline check --help' for usage", arg)
		}
	}

	if showHelp {
		printCheckHelp()
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if configPath == "" {
		var err error
		configPath, err = config.DefaultPath()
		if err != nil {
			return err
		}
	}

	_, err := config.Load(ctx, configPath)
	status := config.StatusActive
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist):
		status = config.StatusMissing
	default:
		status = config.StatusInvalid
	}

	fmt.Printf("%s %s: %s\n", status.Symbol(), configPath, status.String())
	if status == config.StatusInvalid {
		fmt.Fprintln(os.Stderr, err)
		return fmt.Errorf("configuration invalid")
	}
	if status == config.StatusMissing {
		fmt.Println("Run 'zline init' to create a default configuration.")
	}
	return nil
}

func printCheckHelp() {
	fmt.Println("Usage: zline check [options]")
	fmt.Println()
	fmt.Println("Parse and validate the configuration file. Syntax errors are")
	fmt.Println("reported with the offending line and a caret marking the spot.")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -c, --config <path>   Configuration file to check")
	fmt.Println("  -h, --help            Show this help")
}
