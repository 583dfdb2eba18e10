// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/hep-ingest/internal/hep"
	"github.com/pdiddy/hep-ingest/pkg/types"
)

var validateCmd = &cobra.Command{
	Use:   "validate [record-files...]",
	Short: "Validate HEP-format record files",
	Long: `Validate checks each JSON record file against the canonical HEP shape
and reports the first violation per file.`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more record files")
	}

	invalid := 0
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid: %s (%v)\n", path, err)
			invalid++
			continue
		}
		var rec types.Record
		if err := json.Unmarshal(data, &rec); err != nil {
			fmt.Fprintf(os.Stderr, "invalid: %s (%v)\n", path, err)
			invalid++
			continue
		}
		if err := hep.Validate(rec); err != nil {
			fmt.Fprintf(os.Stderr, "invalid: %s (%v)\n", path, err)
			invalid++
			continue
		}
		fmt.Fprintf(os.Stdout, "ok:      %s\n", path)
	}

	if invalid > 0 {
		return fmt.Errorf("%d record(s) failed validation", invalid)
	}
	return nil
}
