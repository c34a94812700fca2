package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vcrobe/nojs-history/location"
	"github.com/vcrobe/nojs-history/params"
)

// ComposeOptions holds flags for the compose command.
type ComposeOptions struct {
	Search    []string
	Hash      []string
	RawSearch string
	RawHash   string
}

// ComposeResult is the JSON payload of the compose command.
type ComposeResult struct {
	URL          string        `json:"url"`
	Pathname     string        `json:"pathname"`
	Search       string        `json:"search"`
	Hash         string        `json:"hash"`
	SearchParams params.Values `json:"search_params"`
	HashParams   params.Values `json:"hash_params"`
}

// NewComposeCommand creates the compose command.
func NewComposeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ComposeOptions{}

	cmd := &cobra.Command{
		Use:   "compose <target>",
		Short: "Compose a router URL",
		Long: `Compose the normalized URL the router would push for target.

Raw overrides replace a component, key=value overrides are merged into it and
a bare key removes it. Raw overrides are applied before merged ones.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompose(rootOpts, opts, args[0], cmd)
		},
	}

	cmd.Flags().StringArrayVar(&opts.Search, "search", nil, "search parameter override key=value (repeatable)")
	cmd.Flags().StringArrayVar(&opts.Hash, "hash", nil, "hash parameter override key=value (repeatable)")
	cmd.Flags().StringVar(&opts.RawSearch, "raw-search", "", "replace the search component")
	cmd.Flags().StringVar(&opts.RawHash, "raw-hash", "", "replace the hash component")

	return cmd
}

func runCompose(rootOpts *RootOptions, opts *ComposeOptions, target string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}

	var composeOpts []location.Option
	if cmd.Flags().Changed("raw-search") {
		composeOpts = append(composeOpts, location.WithRawSearch(opts.RawSearch))
	}
	if len(opts.Search) > 0 {
		v, err := parseAssignments(opts.Search)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeFlag, "invalid --search", err)
		}
		composeOpts = append(composeOpts, location.WithSearch(v))
	}
	if cmd.Flags().Changed("raw-hash") {
		composeOpts = append(composeOpts, location.WithRawHash(opts.RawHash))
	}
	if len(opts.Hash) > 0 {
		v, err := parseAssignments(opts.Hash)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeFlag, "invalid --hash", err)
		}
		composeOpts = append(composeOpts, location.WithHash(v))
	}

	composed, err := location.Compose(params.QueryCodec{}, target, composeOpts...)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeCompose, "compose failed", err)
	}
	formatter.VerboseLog("Composed %q from %q", composed.URL, target)

	return formatter.Success(ComposeResult{
		URL:          composed.URL,
		Pathname:     composed.Pathname,
		Search:       composed.Search,
		Hash:         composed.Hash,
		SearchParams: composed.SearchParams,
		HashParams:   composed.HashParams,
	}, composed.URL)
}

// parseAssignments turns key=value flags into Values. A bare key maps to nil,
// which removes it. Repeated keys accumulate into a list.
func parseAssignments(assignments []string) (params.Values, error) {
	v := params.Values{}
	for _, a := range assignments {
		key, value, found := strings.Cut(a, "=")
		if key == "" {
			return nil, fmt.Errorf("missing key in %q", a)
		}
		if !found {
			v[key] = nil
			continue
		}
		switch prev := v[key].(type) {
		case string:
			v[key] = []string{prev, value}
		case []string:
			v[key] = append(prev, value)
		default:
			v[key] = value
		}
	}
	return v, nil
}
