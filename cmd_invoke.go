package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/tidwall/sjson"

	"github.com/n0madic/go-bookrec/internal/codec"
	"github.com/n0madic/go-bookrec/internal/recommend"
	"github.com/n0madic/go-bookrec/internal/types"
)

// errNonSuccess makes the process exit non-zero after a non-2xx response
// has already been printed.
var errNonSuccess = errors.New("function returned a non-success status")

var (
	invokeEvent string
	invokeText  string
	invokeList  bool
)

var invokeCmd = &cobra.Command{
	Use:   "invoke [books|analyze]",
	Short: "Run a function once against an event document",
	Long: `Run a function once and print its response.

The event is read from --event (a file, or - for stdin) and may be any shape
the function accepts: an API Gateway proxy event, a console test event, or a
direct {"text": ...} payload. --text builds a direct payload instead.`,
	Example: `  go-bookrec invoke books --text "Dune, Hyperion, The Left Hand of Darkness"
  go-bookrec invoke analyze --event testdata/apigw.json
  echo '{"text":"their is a cat"}' | go-bookrec invoke analyze --event -`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"books", "analyze"},
	RunE:      runInvoke,
}

func init() {
	invokeCmd.Flags().StringVar(&invokeEvent, "event", "", "Event document file, or - for stdin")
	invokeCmd.Flags().StringVar(&invokeText, "text", "", "Text to send as a direct invocation")
	invokeCmd.Flags().BoolVar(&invokeList, "list", false, "Print book recommendations as a list instead of JSON")
	invokeCmd.MarkFlagsMutuallyExclusive("event", "text")
}

func runInvoke(cmd *cobra.Command, args []string) error {
	name := cfg.Function
	if len(args) == 1 {
		name = args[0]
	}

	event, err := readEvent(cmd.InOrStdin())
	if err != nil {
		return err
	}

	functions, err := buildFunctions(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	fn, ok := functions[name]
	if !ok {
		return fmt.Errorf("unknown function %q", name)
	}

	resp := fn.Handle(cmd.Context(), event)
	if err := printResponse(cmd.OutOrStdout(), name, resp); err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errNonSuccess
	}
	return nil
}

func readEvent(stdin io.Reader) ([]byte, error) {
	switch {
	case invokeText != "":
		return sjson.SetBytes([]byte(`{}`), "text", invokeText)
	case invokeEvent == "-":
		return io.ReadAll(stdin)
	case invokeEvent != "":
		return os.ReadFile(invokeEvent)
	default:
		return nil, errors.New("one of --event or --text is required")
	}
}

func printResponse(w io.Writer, name string, resp *codec.Response) error {
	fmt.Fprintf(w, "HTTP %d\n", resp.StatusCode)
	if resp.Body == "" {
		return nil
	}

	if invokeList && name == recommend.Name && resp.StatusCode == 200 {
		var rec types.RecommendationResponse
		if err := json.Unmarshal([]byte(resp.Body), &rec); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		fmt.Fprintln(w, rec.Analysis)
		fmt.Fprintln(w)
		for i, b := range rec.Books() {
			fmt.Fprintf(w, "%2d. %s\n", i+1, b)
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, rec.Reasoning)
		return nil
	}

	var out bytes.Buffer
	if err := json.Indent(&out, []byte(resp.Body), "", "  "); err != nil {
		fmt.Fprintln(w, resp.Body)
		return nil
	}
	out.WriteByte('\n')
	_, err := out.WriteTo(w)
	return err
}
