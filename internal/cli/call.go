package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Seeyong/pyowm/internal/app"
)

// callResult is what the raw verb commands print.
type callResult struct {
	Status int `json:"status" yaml:"status"`
	Data   any `json:"data" yaml:"data"`
}

func newCallCmd(o *options, method string) *cobra.Command {
	var (
		params  []string
		headers []string
		data    string
	)

	upper := strings.ToUpper(method)
	cmd := &cobra.Command{
		Use:   method + " <uri>",
		Short: fmt.Sprintf("Send a %s request to the API", upper),
		Long: fmt.Sprintf(`Send a %s request and print the status with the decoded JSON body.

A uri starting with "/" is resolved against OWM_BASE_URL.

Examples:
  owm %s /data/2.5/weather --param q=London --param units=metric
  owm %s https://api.openweathermap.org/data/3.0/stations -o yaml`, upper, method, method),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := parsePairs("param", params)
			if err != nil {
				return err
			}
			hdrs, err := parsePairs("header", headers)
			if err != nil {
				return err
			}
			body, err := parseData(data)
			if err != nil {
				return err
			}

			return o.withApp(cmd, func(a *app.App) error {
				status, payload, err := a.Call(cmd.Context(), upper, args[0], query, hdrs, body)
				if err != nil {
					return err
				}
				return printResult(cmd.OutOrStdout(), o.output, callResult{Status: status, Data: payload})
			})
		},
	}

	cmd.Flags().StringArrayVar(&params, "param", nil, "Query parameter as key=value (repeatable)")
	cmd.Flags().StringArrayVar(&headers, "header", nil, "Request header as key=value (repeatable)")
	if method != "get" {
		cmd.Flags().StringVarP(&data, "data", "d", "", "JSON request body, or @file to read it from a file")
	}
	return cmd
}

// parsePairs turns repeated key=value flags into a map.
func parsePairs(flag string, pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	var errs []error
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			errs = append(errs, fmt.Errorf("--%s %q: want key=value", flag, pair))
			continue
		}
		out[key] = value
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

// parseData decodes the --data flag. An empty flag means no body.
func parseData(raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	content := []byte(raw)
	source := "--data"
	if path, ok := strings.CutPrefix(raw, "@"); ok {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read request body: %w", err)
		}
		content = b
		source = path
	}

	var body any
	if err := json.Unmarshal(content, &body); err != nil {
		return nil, fmt.Errorf("decode %s as JSON: %w", source, err)
	}
	return body, nil
}
