package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/n0madic/go-bookrec/internal/lambda"
)

var lambdaCmd = &cobra.Command{
	Use:   "lambda",
	Short: "Run the configured function under the AWS Lambda runtime",
	Long: `Run the function selected by $BOOKREC_FUNCTION (books or analyze) under
the AWS Lambda runtime. Intended as the bootstrap of a provided.al2023 function.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		functions, err := buildFunctions(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		fn, ok := functions[cfg.Function]
		if !ok {
			return fmt.Errorf("unknown function %q", cfg.Function)
		}
		lambda.Start(cfg.Function, fn)
		return nil
	},
}
