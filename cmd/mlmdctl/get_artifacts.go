package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/mlmd-go/pkg/mlmd"
)

var (
	getArtifactsTypeName string
	getArtifactsLimit    int
)

var getArtifactsCmd = &cobra.Command{
	Use:   "get-artifacts",
	Short: "List artifacts, optionally narrowed by type",
	RunE: func(cmd *cobra.Command, args []string) error {
		var opts []mlmd.FilterOption
		if getArtifactsTypeName != "" {
			opts = append(opts, mlmd.WithTypeName(getArtifactsTypeName))
		}
		if getArtifactsLimit > 0 {
			opts = append(opts, mlmd.WithLimit(getArtifactsLimit))
		}
		artifacts, err := store.GetArtifacts(cmd.Context(), mlmd.NewFilter(opts...))
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(artifacts)
	},
}

func init() {
	getArtifactsCmd.Flags().StringVar(&getArtifactsTypeName, "type", "", "restrict to this type name")
	getArtifactsCmd.Flags().IntVar(&getArtifactsLimit, "limit", 0, "maximum number of results")
}
