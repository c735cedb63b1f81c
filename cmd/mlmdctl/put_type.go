package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/mlmd-go/pkg/mlmd"
)

var (
	putTypeKind          string
	putTypeName          string
	putTypeVersion       string
	putTypeProperties    string
	putTypeCanAddFields  bool
	putTypeCanOmitFields bool
)

var putTypeCmd = &cobra.Command{
	Use:   "put-type",
	Short: "Register or evolve an artifact/execution/context type",
	RunE: func(cmd *cobra.Command, args []string) error {
		props := map[string]mlmd.DataType{}
		if putTypeProperties != "" {
			raw := map[string]string{}
			if err := json.Unmarshal([]byte(putTypeProperties), &raw); err != nil {
				return fmt.Errorf("parse --properties: %w", err)
			}
			for name, dt := range raw {
				switch dt {
				case "int":
					props[name] = mlmd.DataTypeInt
				case "double":
					props[name] = mlmd.DataTypeDouble
				case "string":
					props[name] = mlmd.DataTypeString
				default:
					return fmt.Errorf("unknown property data type %q for %q", dt, name)
				}
			}
		}

		var opts []mlmd.TypeOption
		if putTypeCanAddFields {
			opts = append(opts, mlmd.CanAddFields())
		}
		if putTypeCanOmitFields {
			opts = append(opts, mlmd.CanOmitFields())
		}
		spec := mlmd.NewTypeSpec(0, putTypeName, props, opts...)
		spec.Version = putTypeVersion

		ctx := cmd.Context()
		var id mlmd.TypeID
		var err error
		switch putTypeKind {
		case "artifact":
			id, err = store.PutArtifactType(ctx, spec)
		case "execution":
			id, err = store.PutExecutionType(ctx, spec)
		case "context":
			id, err = store.PutContextType(ctx, spec)
		default:
			return fmt.Errorf("--kind must be one of artifact, execution, context")
		}
		if err != nil {
			return err
		}
		cmd.Println(id)
		return nil
	},
}

func init() {
	putTypeCmd.Flags().StringVar(&putTypeKind, "kind", "", "artifact, execution or context")
	putTypeCmd.Flags().StringVar(&putTypeName, "name", "", "type name")
	putTypeCmd.Flags().StringVar(&putTypeVersion, "version", "", "type version")
	putTypeCmd.Flags().StringVar(&putTypeProperties, "properties", "", `JSON object of property name to "int"|"double"|"string"`)
	putTypeCmd.Flags().BoolVar(&putTypeCanAddFields, "can-add-fields", false, "allow adding new declared properties to an existing type")
	putTypeCmd.Flags().BoolVar(&putTypeCanOmitFields, "can-omit-fields", false, "allow omitting previously declared properties")
	_ = putTypeCmd.MarkFlagRequired("kind")
	_ = putTypeCmd.MarkFlagRequired("name")
}
