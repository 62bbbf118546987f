// Command rpncalc is an interactive RPN stack calculator.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/rpncalc/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(cli.GetExitCode(err))
}
