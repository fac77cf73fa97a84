package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matchc-lang/matchc/internal/descriptor"
	"github.com/matchc-lang/matchc/internal/normalizer"
	"github.com/matchc-lang/matchc/internal/parser"
	"github.com/matchc-lang/matchc/internal/scope"
	"github.com/matchc-lang/matchc/internal/validator"
)

var checkTypeSpec string

var checkCmd = &cobra.Command{
	Use:   "check <pattern>",
	Short: "Validate a pattern against a JSON type spec",
	Long: `Validate a pattern against a scrutinee type described by a JSON
type spec, without a Go process supplying the type.

Examples:
  matchc check -t point.json "Point(x: 0, y)"
  matchc check -t pair.json "(a, b)"`,
	Args: cobra.ExactArgs(1),
	Run:  runCheck,
}

func init() {
	checkCmd.Flags().StringVarP(&checkTypeSpec, "type-spec", "t", "", "Path to the JSON type spec file")
	checkCmd.MarkFlagRequired("type-spec")
}

func runCheck(cmd *cobra.Command, args []string) {
	data, err := os.ReadFile(checkTypeSpec)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot read type spec: %v\n", err)
		os.Exit(1)
	}
	desc, err := descriptor.FromSpec(data)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	tree, err := parser.Parse(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	tree, err = normalizer.Normalize(tree, desc)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := scope.Check(tree); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := validator.Validate(tree, desc); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("valid: %s matches %s\n", tree, desc)
}
