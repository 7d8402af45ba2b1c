package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/legal-assistant/backend/internal/extraction"
)

var extractFormat string

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Print the text and counts extracted from a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		format := extractFormat
		if format == "" {
			format = strings.TrimPrefix(filepath.Ext(path), ".")
		}

		result, err := extraction.Extract(data, format)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"file_name":  filepath.Base(path),
			"text":       result.Text,
			"word_count": result.WordCount,
			"char_count": result.CharCount,
		})
	},
}

func init() {
	extractCmd.Flags().StringVarP(&extractFormat, "format", "f", "", "media type or extension (default: from file name)")
}
