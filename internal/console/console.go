// Package console is the plain line front end: it reads commands from an
// input stream and writes each reply between dividers.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jrchoo/ip/internal/command"
)

const divider = "____________________________________________________________"

// Run serves lines from in until bye, end of input or ctx is done.
func Run(ctx context.Context, in io.Reader, out io.Writer, handler command.Handler) error {
	writeBlock(out, command.MessageGreeting)

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		resp, err := handler.Interpret(ctx, line)
		if err != nil {
			return err
		}
		writeBlock(out, resp.Text)
		if resp.Exit {
			return nil
		}
	}
	return scanner.Err()
}

func writeBlock(out io.Writer, text string) {
	fmt.Fprintln(out, divider)
	for _, line := range strings.Split(text, "\n") {
		fmt.Fprintf(out, " %s\n", line)
	}
	fmt.Fprintln(out, divider)
}
