package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/mlmd-go/pkg/mlmd"
)

var (
	postArtifactTypeName string
	postArtifactName     string
	postArtifactURI      string
	postArtifactState    string
)

var postArtifactCmd = &cobra.Command{
	Use:   "post-artifact",
	Short: "Create a new artifact",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		t, err := store.GetArtifactType(ctx, postArtifactTypeName, "")
		if err != nil {
			return fmt.Errorf("look up artifact type %q: %w", postArtifactTypeName, err)
		}

		state, err := parseArtifactState(postArtifactState)
		if err != nil {
			return err
		}

		id, err := store.PostArtifact(ctx, mlmd.ArtifactSpec{
			EntitySpec: mlmd.EntitySpec{
				TypeID:   t.ID,
				TypeName: t.Name,
				Name:     postArtifactName,
			},
			URI:   postArtifactURI,
			State: state,
		})
		if err != nil {
			return err
		}
		cmd.Println(id)
		return nil
	},
}

func parseArtifactState(s string) (mlmd.ArtifactState, error) {
	switch s {
	case "", "unknown":
		return mlmd.ArtifactStateUnknown, nil
	case "pending":
		return mlmd.ArtifactStatePending, nil
	case "live":
		return mlmd.ArtifactStateLive, nil
	case "marked-for-deletion":
		return mlmd.ArtifactStateMarkedForDeletion, nil
	case "deleted":
		return mlmd.ArtifactStateDeleted, nil
	default:
		return 0, fmt.Errorf("unknown artifact state %q", s)
	}
}

func init() {
	postArtifactCmd.Flags().StringVar(&postArtifactTypeName, "type", "", "artifact type name")
	postArtifactCmd.Flags().StringVar(&postArtifactName, "name", "", "artifact name")
	postArtifactCmd.Flags().StringVar(&postArtifactURI, "uri", "", "artifact URI")
	postArtifactCmd.Flags().StringVar(&postArtifactState, "state", "unknown", "artifact state")
	_ = postArtifactCmd.MarkFlagRequired("type")
}
