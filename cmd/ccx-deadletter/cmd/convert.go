package cmd

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/openshift-assisted/ccx-deadletter/pkg/deadletter"
)

var (
	convertFormat   string
	convertFile     string
	convertBinary   bool
	convertSchemaID uint32
)

// convertCmd represents the convert command
var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a json error description into a dead letter record",
	Long: `Read an error description as json (from --file or stdin) and print the dead letter
record: its json rendering, or its base64 encoded binary form with --binary.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := deadletter.ParseFormat(convertFormat)
		if err != nil {
			return err
		}

		converter, err := deadletter.NewConverter(format)
		if err != nil {
			return fmt.Errorf("failed to create converter: %w", err)
		}

		input, err := readInput(cmd.InOrStdin(), convertFile)
		if err != nil {
			return err
		}

		description := deadletter.Description{}

		err = json.Unmarshal(input, &description)
		if err != nil {
			return fmt.Errorf("failed to unmarshal description: %w", err)
		}

		record := converter.Convert(description)

		out, err := renderRecord(record, convertBinary, convertSchemaID)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), out)

		return nil
	},
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "" || path == "-" {
		ret, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}

		return ret, nil
	}

	ret, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return ret, nil
}

func renderRecord(record deadletter.Record, binary bool, schemaID uint32) (string, error) {
	if !binary {
		ret, err := record.MarshalJSON()
		if err != nil {
			return "", fmt.Errorf("failed to render record: %w", err)
		}

		return string(ret), nil
	}

	data, err := record.Marshal()
	if err != nil {
		return "", fmt.Errorf("failed to marshal record: %w", err)
	}

	return base64.StdEncoding.EncodeToString(deadletter.Frame(record.Format(), schemaID, data)), nil
}

func init() {
	convertCmd.Flags().StringVar(&convertFormat, "format", string(deadletter.FormatProtobuf), "record format: protobuf or avro")
	convertCmd.Flags().StringVar(&convertFile, "file", "", "description file, stdin when empty")
	convertCmd.Flags().BoolVar(&convertBinary, "binary", false, "print the binary record, base64 encoded")
	convertCmd.Flags().Uint32Var(&convertSchemaID, "schema-id", 0, "schema registry id used to frame the binary record, 0 to disable")

	rootCmd.AddCommand(convertCmd)
}
