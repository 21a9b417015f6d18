// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/tebeka/atexit"

	"github.com/ezrec/duet/internal"
	"github.com/ezrec/duet/io"
)

func main() {
	var runfile string
	var defines bool

	flags := DefaultConfig()

	flag.StringVar(&runfile, "f", "", "YAML run file")
	flag.StringVar(&flags.Program, "c", "", "listing to run")
	flag.StringVar(&flags.Dialect, "d", flags.Dialect, "listing dialect (duet, coprocessor)")
	flag.StringVar((*string)(&flags.Mode), "m", string(flags.Mode), "run mode (single, duet, tape)")
	flag.StringVar(&flags.Input, "i", flags.Input, "Tape input")
	flag.StringVar(&flags.Output, "o", flags.Output, "Tape output")
	flag.IntVar(&flags.Limit, "l", 0, "per-program instruction limit, 0 for none")
	flag.IntVar(&flags.Prefix, "p", 0, "run only the first N instructions, 0 for all")
	flag.Int64Var(&flags.Step, "s", 0, "coprocessor: count composites from b to c by this step")
	flag.BoolVar(&flags.Verbose, "v", false, "Verbose mode")
	flag.BoolVar(&defines, "D", false, "List assembler defines, do not execute")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	config := DefaultConfig()
	if len(runfile) != 0 {
		inf, err := os.Open(runfile)
		if err != nil {
			log.Fatalf("%v: %v", runfile, err)
		}
		config, err = LoadConfig(inf)
		inf.Close()
		if err != nil {
			log.Fatalf("%v: %v", runfile, err)
		}
	}

	// Flags given on the command line override the run file.
	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "c":
			config.Program = flags.Program
		case "d":
			config.Dialect = flags.Dialect
		case "m":
			config.Mode = flags.Mode
		case "i":
			config.Input = flags.Input
		case "o":
			config.Output = flags.Output
		case "l":
			config.Limit = flags.Limit
		case "p":
			config.Prefix = flags.Prefix
		case "s":
			config.Step = flags.Step
		case "v":
			config.Verbose = flags.Verbose
		}
	})

	err := config.Validate()
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}

	asm, err := config.Assembler()
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}

	if defines {
		for name, value := range internal.IterSeq2Sorted(asm.Defines()) {
			fmt.Printf("%v = %v\n", name, value)
		}
		return
	}

	if len(config.Program) == 0 {
		log.Fatalf("%v: no listing given", os.Args[0])
	}

	inf, err := os.Open(config.Program)
	if err != nil {
		log.Fatalf("%v: %v", config.Program, err)
	}
	prog, err := asm.Parse(inf)
	inf.Close()
	if err != nil {
		log.Fatalf("%v: %v", config.Program, err)
	}

	tape := &io.Tape{}
	if config.Mode == MODE_TAPE {
		if config.Input == "-" {
			tape.Input = os.Stdin
		} else {
			inf, err := os.Open(config.Input)
			if err != nil {
				log.Fatalf("%v: %v", config.Input, err)
			}
			atexit.Register(func() { inf.Close() })
			tape.Input = inf
		}

		if config.Output == "-" {
			tape.Output = os.Stdout
		} else {
			ouf, err := os.Create(config.Output)
			if err != nil {
				log.Fatalf("%v: %v", config.Output, err)
			}
			atexit.Register(func() { ouf.Close() })
			tape.Output = ouf
		}
	}

	result, err := Run(config, prog, tape)
	if config.Mode == MODE_DUET || (err == nil && config.Mode != MODE_TAPE) {
		// Faulted duet programs still leave a valid send count.
		fmt.Println(result)
	}
	if err != nil {
		atexit.Fatalf("%v: %v", config.Program, err)
	}

	atexit.Exit(0)
}
