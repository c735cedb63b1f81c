package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/mlmd-go/pkg/mlmd"
)

var getTypesKind string

var getTypesCmd = &cobra.Command{
	Use:   "get-types",
	Short: "List every registered type of one kind",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		var types []mlmd.Type
		var err error
		switch getTypesKind {
		case "artifact":
			types, err = store.GetArtifactTypes(ctx)
		case "execution":
			types, err = store.GetExecutionTypes(ctx)
		case "context":
			types, err = store.GetContextTypes(ctx)
		default:
			return fmt.Errorf("--kind must be one of artifact, execution, context")
		}
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(types)
	},
}

func init() {
	getTypesCmd.Flags().StringVar(&getTypesKind, "kind", "", "artifact, execution or context")
	_ = getTypesCmd.MarkFlagRequired("kind")
}
