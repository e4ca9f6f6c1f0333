// Package main implements a CHIP-8 ROM disassembler
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/disasm"
	"github.com/retroenv/retrochip8/internal/loader"
	"github.com/retroenv/retrogolib/buildinfo"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

type optionFlags struct {
	input  string
	output string
	base   string
	quiet  bool

	noHexComments bool
	noOffsets     bool
}

func main() {
	options := readArguments()

	if !options.quiet {
		printBanner(options)
	}

	if err := disasmFile(options); err != nil {
		fmt.Println(fmt.Errorf("disassembling failed: %w", err))
		os.Exit(1)
	}
}

func readArguments() optionFlags {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	options := optionFlags{}

	flags.StringVar(&options.base, "base", fmt.Sprintf("%x", chip8.ProgramStart), "hexadecimal load address of the ROM")
	flags.BoolVar(&options.noHexComments, "nohexcomments", false, "do not output opcode bytes as hex values in comments")
	flags.BoolVar(&options.noOffsets, "nooffsets", false, "do not output offsets in comments")
	flags.StringVar(&options.output, "o", "", "name of the output .asm file, printed on console if no name given")
	flags.BoolVar(&options.quiet, "q", false, "perform operations quietly")

	err := flags.Parse(os.Args[1:])
	args := flags.Args()

	if err != nil || len(args) == 0 {
		printBanner(options)
		fmt.Printf("usage: chip8disasm [options] <file to disassemble>\n\n")
		flags.PrintDefaults()
		os.Exit(1)
	}
	options.input = args[0]

	return options
}

func printBanner(options optionFlags) {
	if !options.quiet {
		fmt.Println("[----------------------------------------]")
		fmt.Println("[ chip8disasm - CHIP-8 ROM disassembler ]")
		fmt.Printf("[----------------------------------------]\n\n")
		fmt.Printf("version: %s\n\n", buildinfo.Version(version, commit, date))
	}
}

func disasmFile(options optionFlags) error {
	base, err := strconv.ParseUint(options.base, 16, 16)
	if err != nil {
		return fmt.Errorf("parsing base address '%s': %w", options.base, err)
	}

	rom, err := loader.New().ReadFile(options.input)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	opts := disasm.Options{
		BaseAddress:    uint16(base),
		HexComments:    !options.noHexComments,
		OffsetComments: !options.noOffsets,
	}

	var outputFile io.WriteCloser
	if options.output == "" {
		outputFile = os.Stdout
	} else {
		outputFile, err = os.Create(options.output)
		if err != nil {
			return fmt.Errorf("creating file '%s': %w", options.output, err)
		}
	}

	if err = disasm.Write(outputFile, rom, opts); err != nil {
		return fmt.Errorf("processing file: %w", err)
	}
	if err = outputFile.Close(); err != nil {
		return fmt.Errorf("closing file: %w", err)
	}
	return nil
}
