package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/terraincognita07/habitdiary/internal/cli"
	"github.com/terraincognita07/habitdiary/internal/config"
	"github.com/terraincognita07/habitdiary/internal/logger"
)

var version = "dev"

func main() {
	var commands cli.CLI
	kctx := kong.Parse(&commands,
		kong.Name("habitdiary"),
		kong.Description("Habit diary API: one entry per day, month calendar, praises."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{"version": version},
	)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log, closeLog, err := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		File:   cfg.LogFile,
		Prefix: "habitdiary",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	runErr := kctx.Run(&cli.Context{Config: cfg, Logger: log, Out: os.Stdout})
	_ = closeLog.Close()
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(1)
	}
}
