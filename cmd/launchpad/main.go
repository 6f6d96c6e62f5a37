package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "demo":
		if err := demo(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "replay":
		if err := replay(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "export":
		if err := export(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "help", "-h", "--help":
		printUsage()
	case "version", "-v", "--version":
		fmt.Println("launchpad version 1.0.0")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`launchpad - fundraising settlement engine

Usage:
  launchpad <command> [options]

Commands:
  demo       Run a scripted campaign end to end
  replay     Print a campaign's journal timeline
  export     Export a journal to CSV or JSONL
  help       Show this help message
  version    Show version information

Examples:
  # Run the demo campaign and journal it to a SQLite file
  launchpad demo --journal demo.db

  # Show the journal timeline
  launchpad replay demo.db --campaign demo

  # Export the audit trail
  launchpad export demo.db --campaign demo --format csv --output trail.csv

For command-specific help, run:
  launchpad <command> --help`)
}
