package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/itchyny/gojq"
	"github.com/spf13/cobra"

	"github.com/meropasal/pasal-cli/internal/api"
	"github.com/meropasal/pasal-cli/internal/appctx"
	"github.com/meropasal/pasal-cli/internal/apperr"
)

// NewAPICmd creates the api command for raw API access.
func NewAPICmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "api <verb> <path>",
		Short: "Raw API access",
		Long:  "Make raw requests to any endpoint. Useful for operations not covered by dedicated commands.",
	}

	cmd.AddCommand(
		newAPIVerbCmd("get", false),
		newAPIVerbCmd("post", true),
		newAPIVerbCmd("put", true),
		newAPIVerbCmd("patch", true),
		newAPIVerbCmd("delete", false),
	)

	return cmd
}

func newAPIVerbCmd(verb string, hasBody bool) *cobra.Command {
	var data, jqExpr string
	var customer bool

	cmd := &cobra.Command{
		Use:   verb + " <path>",
		Short: strings.ToUpper(verb) + " request to the API",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(cmd *cobra.Command, args []string, a *appctx.App) error {
			path := parsePath(args[0])

			var body any
			if hasBody && data != "" {
				if err := json.Unmarshal([]byte(data), &body); err != nil {
					return apperr.ErrUsageHint("Invalid JSON data",
						fmt.Sprintf("JSON parse error: %v", err))
				}
			}

			profile := a.API.Session()
			if customer {
				profile = a.API.Customer()
			}

			var resp *api.Response
			var err error
			switch verb {
			case "get":
				resp, err = profile.Get(cmd.Context(), path)
			case "post":
				resp, err = profile.Post(cmd.Context(), path, body)
			case "put":
				resp, err = profile.Put(cmd.Context(), path, body)
			case "patch":
				resp, err = profile.Patch(cmd.Context(), path, body)
			case "delete":
				resp, err = profile.Delete(cmd.Context(), path)
			}
			if err != nil {
				return err
			}

			var payload any
			if len(resp.Data) > 0 {
				if err := json.Unmarshal(resp.Data, &payload); err != nil {
					// Not JSON (gateway forms and such). Print as-is.
					fmt.Fprintln(cmd.OutOrStdout(), string(resp.Data))
					return nil
				}
			}

			if jqExpr != "" {
				payload, err = applyJQ(jqExpr, payload)
				if err != nil {
					return err
				}
			}

			return a.OK(payload, fmt.Sprintf("%s %s", strings.ToUpper(verb), path))
		}),
	}

	if hasBody {
		cmd.Flags().StringVarP(&data, "data", "d", "", "JSON request body")
	}
	cmd.Flags().StringVar(&jqExpr, "jq", "", "Filter the response through a jq expression")
	cmd.Flags().BoolVar(&customer, "customer", false, "Use the customer bearer profile")
	return cmd
}

// parsePath normalizes a user-supplied endpoint path.
func parsePath(s string) string {
	if !strings.HasPrefix(s, "/") {
		return "/" + s
	}
	return s
}

// applyJQ runs a jq expression over the decoded payload. A single result
// is returned bare, multiple results as a slice.
func applyJQ(expr string, payload any) (any, error) {
	query, err := gojq.Parse(expr)
	if err != nil {
		return nil, apperr.ErrUsageHint("Invalid jq expression", err.Error())
	}

	var results []any
	iter := query.Run(payload)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := v.(error); ok {
			return nil, apperr.ErrUsage("jq: " + err.Error())
		}
		results = append(results, v)
	}

	if len(results) == 1 {
		return results[0], nil
	}
	return results, nil
}
