package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"
	"github.com/urfave/cli/v3"

	"github.com/wudi/php-parser/arena"
	"github.com/wudi/php-parser/ast"
	"github.com/wudi/php-parser/errors"
	"github.com/wudi/php-parser/lexer"
	"github.com/wudi/php-parser/parser"
	"github.com/wudi/php-parser/source"
	"github.com/wudi/php-parser/version"
)

func main() {
	app := &cli.Command{
		Name:      "php-parser",
		Usage:     "A fault-tolerant PHP 8.4 parser written in Go",
		ArgsUsage: "[file|-]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "tokens",
				Usage: "Print the token stream instead of the AST",
			},
			&cli.BoolFlag{
				Name:  "dump",
				Usage: "Print the stable textual AST dump (default)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the AST as JSON",
			},
			&cli.BoolFlag{
				Name:  "errors-only",
				Usage: "Print diagnostics only",
			},
			&cli.BoolFlag{
				Name:    "interactive",
				Aliases: []string{"a"},
				Usage:   "Run as interactive shell",
			},
			&cli.BoolFlag{
				Name:    "version",
				Aliases: []string{"v"},
				Usage:   "Show version",
			},
		},
		Action: run,
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "php-parser: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("version") {
		fmt.Println(version.Version())
		return nil
	}
	if cmd.Bool("interactive") {
		return runREPL(cmd)
	}

	name := cmd.Args().First()
	var input []byte
	var err error
	if name == "" || name == "-" {
		name = "<stdin>"
		input, err = io.ReadAll(os.Stdin)
	} else {
		input, err = os.ReadFile(name)
	}
	if err != nil {
		return err
	}

	src := source.New(name, input)
	hadErrors := parseAndPrint(cmd, src, os.Stdout)
	if hadErrors {
		os.Exit(1)
	}
	return nil
}

// parseAndPrint 按标志渲染结果，返回是否存在 error 级诊断
func parseAndPrint(cmd *cli.Command, src *source.Source, w io.Writer) bool {
	if cmd.Bool("tokens") {
		tokens, diags := lexer.Tokenize(src)
		for _, tok := range tokens {
			fmt.Fprintf(w, "%-42s %-12s %q\n", tok.Type, tok.Span, tok.Text(src))
		}
		printDiags(diags, src)
		return diags.HasErrors()
	}

	a := arena.NewArena()
	program, diags := parser.Parse(src, a)

	switch {
	case cmd.Bool("errors-only"):
	case cmd.Bool("json"):
		out, err := json.MarshalIndent(program, "", "  ")
		if err == nil {
			fmt.Fprintln(w, string(out))
		}
	default:
		fmt.Fprint(w, ast.Dump(program))
	}
	printDiags(diags, src)
	return diags.HasErrors()
}

func printDiags(diags *errors.DiagnosticList, src *source.Source) {
	for _, d := range diags.Items() {
		fmt.Fprintln(os.Stderr, d.Format(src))
	}
}

// runREPL 交互模式：逐行解析并打印 AST 与诊断
func runREPL(cmd *cli.Command) error {
	rl, err := readline.New("php-parser> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	fmt.Printf("php-parser %s interactive shell\n", version.Version())
	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			return nil
		}
		if line == "exit" || line == "quit" {
			return nil
		}
		if line == "" {
			continue
		}
		src := source.New("<repl>", []byte("<?php "+line))
		parseAndPrint(cmd, src, os.Stdout)
	}
}
