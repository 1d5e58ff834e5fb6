package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/ZebulonRouseFrantzich/zline/internal/conf"
	"github.com/ZebulonRouseFrantzich/zline/internal/config"
)

// runDump handles the `zline dump` subcommand
func runDump(args []string) error {
	showHelp := false
	asJSON := false
	configPath := ""

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "--help", "-h":
			showHelp = true
		case "--json", "-j":
			asJSON = true
		case "--config", "-c":
			v, err := flagValue(args, &i, arg)
			if err != nil {
				return err
			}
			configPath = v
		default:
			return fmt.Errorf("unknown option: %s\nRun 'zline dump --help' for usage", arg)
		}
	}

	if showHelp {
		printDumpHelp()
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var spec *config.Spec
	var err error
	if configPath != "" {
		spec, err = config.Load(ctx, configPath)
	} else {
		spec, _, err = config.LoadDefault(ctx)
		if errors.Is(err, fs.ErrNotExist) {
			spec, err = config.DefaultSpec(), nil
		}
	}
	if err != nil {
		return err
	}

	mapping := spec.ToMapping()

	if asJSON {
		data, err := json.MarshalIndent(mapping, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	text, err := conf.Serialize(mapping)
	if err != nil {
		return err
	}
	fmt.Print(text)
	return nil
}

func printDumpHelp() {
	fmt.Println("Usage: zline dump [options]")
	fmt.Println()
	fmt.Println("Print the effective configuration after defaults are applied.")
	fmt.Println("The output is valid input for the configuration parser, so it")
	fmt.Println("can be used to seed a config file from a .json or .lua one.")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -c, --config <path>   Configuration file to dump")
	fmt.Println("  -j, --json            Emit JSON instead of the native format")
	fmt.Println("  -h, --help            Show this help")
}
