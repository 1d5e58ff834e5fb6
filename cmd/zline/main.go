package main

import (
	"fmt"
	"os"
)

// Version will be set at build time via -ldflags
var Version = "v0.1.0"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version":
			fmt.Printf("zline %s\n", Version)
			fmt.Println("A status line for terminals and bar programs")
			return
		case "--help", "-h", "help":
			printHelp()
			return
		case "run":
			if err := runRun(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		case "check":
			if err := runCheck(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		case "dump":
			if err := runDump(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		case "fields":
			if err := runFields(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		case "init":
			if err := runInit(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		}
	}

	// Default: run the bar, forwarding any flags
	var args []string
	if len(os.Args) > 1 {
		if os.Args[1][0] != '-' {
			fmt.Fprintf(os.Stderr, "Error: unknown command: %s\n", os.Args[1])
			fmt.Fprintln(os.Stderr, "Run 'zline --help' for usage")
			os.Exit(1)
		}
		args = os.Args[1:]
	}
	if err := runRun(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("zline - a status line for terminals and bar programs")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  zline [options]          Run the status line (same as 'zline run')")
	fmt.Println("  zline run [options]      Run the status line")
	fmt.Println("  zline check [options]    Validate the configuration file")
	fmt.Println("  zline dump [options]     Print the effective configuration")
	fmt.Println("  zline fields             List built-in fields and their availability")
	fmt.Println("  zline init [options]     Write a default configuration file")
	fmt.Println("  zline --version          Show version information")
	fmt.Println()
	fmt.Println("Run 'zline <command> --help' for command options.")
}
