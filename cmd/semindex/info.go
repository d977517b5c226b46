package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <id>",
	Short: "Show the stored record for an indexed file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closeFn, err := openService()
		if err != nil {
			return err
		}
		defer closeFn()

		record, err := svc.Info(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if record == nil {
			return fmt.Errorf("no record with id %s", args[0])
		}

		fmt.Printf("Path:     %s\n", record.Path)
		fmt.Printf("Name:     %s\n", record.Name)
		fmt.Printf("MIME:     %s\n", record.MIMEType)
		fmt.Printf("Size:     %d bytes\n", record.SizeBytes)
		fmt.Printf("Created:  %s\n", record.CreatedAt.Format(time.RFC3339))
		fmt.Printf("Modified: %s\n", record.ModifiedAt.Format(time.RFC3339))
		fmt.Printf("Summary:  %s\n", record.Summary)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
