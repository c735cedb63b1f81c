package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/mlmd-go/pkg/mlmd"
)

var (
	putEventArtifactID  int64
	putEventExecutionID int64
	putEventType        string
)

var putEventCmd = &cobra.Command{
	Use:   "put-event",
	Short: "Record that an artifact played a role in an execution",
	RunE: func(cmd *cobra.Command, args []string) error {
		typ, err := parseEventType(putEventType)
		if err != nil {
			return err
		}
		id, err := store.PutEvent(cmd.Context(),
			mlmd.ArtifactID(putEventArtifactID),
			mlmd.ExecutionID(putEventExecutionID),
			typ, nil)
		if err != nil {
			return err
		}
		cmd.Println(id)
		return nil
	},
}

func parseEventType(s string) (mlmd.EventType, error) {
	switch s {
	case "declared-output":
		return mlmd.EventTypeDeclaredOutput, nil
	case "declared-input":
		return mlmd.EventTypeDeclaredInput, nil
	case "input":
		return mlmd.EventTypeInput, nil
	case "output":
		return mlmd.EventTypeOutput, nil
	case "internal-input":
		return mlmd.EventTypeInternalInput, nil
	case "internal-output":
		return mlmd.EventTypeInternalOutput, nil
	case "pending-output":
		return mlmd.EventTypePendingOutput, nil
	default:
		return 0, fmt.Errorf("unknown event type %q", s)
	}
}

func init() {
	putEventCmd.Flags().Int64Var(&putEventArtifactID, "artifact-id", 0, "artifact id")
	putEventCmd.Flags().Int64Var(&putEventExecutionID, "execution-id", 0, "execution id")
	putEventCmd.Flags().StringVar(&putEventType, "type", "", "event type")
	_ = putEventCmd.MarkFlagRequired("artifact-id")
	_ = putEventCmd.MarkFlagRequired("execution-id")
	_ = putEventCmd.MarkFlagRequired("type")
}
