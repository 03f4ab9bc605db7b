package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

func newShellCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Run commands in one process so elevated sessions persist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.shell(cmd)
		},
	}
}

func (a *app) shell(parent *cobra.Command) error {
	ctx := parent.Context()
	for {
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprint(a.errOut, "adminctl> ")
		line, err := a.in.ReadString('\n')
		if err != nil && line == "" {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(a.errOut)
				return nil
			}
			return err
		}

		args, err := splitArgs(line)
		if err != nil {
			fmt.Fprintln(a.errOut, "error:", err)
			continue
		}
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "exit", "quit":
			return nil
		case "shell":
			fmt.Fprintln(a.errOut, "already in a shell")
			continue
		}

		root := newRootCmd(a)
		root.SetArgs(args)
		root.SetOut(a.out)
		root.SetErr(a.errOut)
		if err := root.ExecuteContext(ctx); err != nil && !errors.Is(err, errStopped) {
			fmt.Fprintln(a.errOut, "error:", err)
		}
	}
}

// splitArgs splits a shell line on whitespace, honouring single and double quotes.
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		current strings.Builder
		quote   rune
		inArg   bool
	)
	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote, inArg = r, true
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			if inArg {
				args = append(args, current.String())
				current.Reset()
				inArg = false
			}
		default:
			current.WriteRune(r)
			inArg = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated quote")
	}
	if inArg {
		args = append(args, current.String())
	}
	return args, nil
}
