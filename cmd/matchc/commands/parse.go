package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matchc-lang/matchc/internal/parser"
	"github.com/matchc-lang/matchc/internal/scope"
)

var parseCmd = &cobra.Command{
	Use:   "parse <pattern>",
	Short: "Parse a pattern and print its tree form",
	Long: `Parse a pattern and print its normalized tree rendering.

Examples:
  matchc parse "(5 | 10 | 15) @ val, str"
  matchc parse "[first, *rest]"
  matchc parse "Shape(Circle(r))"`,
	Args: cobra.ExactArgs(1),
	Run:  runParse,
}

func runParse(cmd *cobra.Command, args []string) {
	tree, err := parser.Parse(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := scope.Check(tree); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(tree)
}
