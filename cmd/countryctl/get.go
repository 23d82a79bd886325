package main

import (
	"encoding/json"
	"fmt"

	"github.com/imroc/req/v3"
	"github.com/spf13/cobra"

	"github.com/bihua-university/countries/internal/document"
	"github.com/bihua-university/countries/internal/task"
)

var getFilter string

var getCmd = &cobra.Command{
	Use:   "get NAME",
	Short: "Show a country document",
	Long: `Fetches a country from the server. --filter keeps only the listed fields,
nested fields are written as parent.child, e.g. name.official,area.`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func init() {
	getCmd.Flags().StringVarP(&getFilter, "filter", "f", "", "comma separated fields to keep")
	rootCmd.AddCommand(getCmd)
}

type countryResponse struct {
	Name    string          `json:"name"`
	Data    *document.Value `json:"data"`
	Message string          `json:"message"`
}

func runGet(cmd *cobra.Command, args []string) error {
	if _, err := document.ParsePaths(getFilter); err != nil {
		return err
	}

	var out countryResponse
	r := req.C().
		SetBaseURL(serverURL).
		SetCommonHeader(task.VersionHeader, task.ClientVersion).
		R().
		SetContext(cmd.Context()).
		SetPathParam("name", args[0]).
		SetSuccessResult(&out).
		SetErrorResult(&out)
	if getFilter != "" {
		r.SetQueryParam("filter_names", getFilter)
	}
	resp, err := r.Get("/countries/{name}")
	if err != nil {
		return fmt.Errorf("get country: %w", err)
	}
	if resp.IsErrorState() {
		return &task.APIError{Status: resp.StatusCode, Message: out.Message}
	}
	return printJSON(cmd, out.Data)
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
