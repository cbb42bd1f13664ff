// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ezrec/rrmachine/emulator"
	"github.com/ezrec/rrmachine/image"
	"github.com/ezrec/rrmachine/internal/shell"
)

func main() {
	var compile string
	var memory string
	var output string
	var save bool
	var interactive bool
	var part bool
	var delay time.Duration
	var verbose bool

	flag.StringVar(&compile, "c", "", ".asm file to compile")
	flag.StringVar(&memory, "m", "", "Memory image to load")
	flag.StringVar(&output, "o", "", "Memory image to save on exit")
	flag.BoolVar(&save, "s", false, "Save memory image, do not execute")
	flag.BoolVar(&interactive, "i", false, "Interactive command shell")
	flag.BoolVar(&part, "part", false, "Run by sub-steps instead of full instructions")
	flag.DurationVar(&delay, "delay", 0, "Delay between steps")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		logrus.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose

	if len(memory) != 0 {
		err := image.ReadFile(emu.Machine, memory)
		if err != nil {
			logrus.Fatal(err)
		}
	}

	// Compile a new program over the memory image.
	if len(compile) != 0 {
		inf, err := os.Open(compile)
		if err != nil {
			logrus.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		err = emu.Patch(inf)
		if err != nil {
			logrus.Fatalf("%v: %v", compile, err)
		}
	}

	switch {
	case save:
	case interactive:
		sh := shell.NewShell(emu, os.Stdin, os.Stdout)
		sh.Verbose = verbose
		err := sh.Run(context.Background())
		if err != nil {
			logrus.Fatal(err)
		}
	default:
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		err := emu.Run(ctx, part, delay)
		stop()
		if err != nil {
			logrus.Error(err)
		}
		emu.Dump(os.Stdout)
	}

	if len(output) != 0 {
		err := image.WriteFile(emu.Machine, output)
		if err != nil {
			logrus.Fatal(err)
		}
	}
}
