package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Xausdorf/pix-pay-hub/internal/domain/pix"
)

var templateTags = map[string]bool{
	pix.TagMerchantAccount: true,
	pix.TagAdditionalData:  true,
}

func decodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode [payload]",
		Short: "Print the field tree of a payload and check its CRC",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(cmd.OutOrStdout(), args[0])
		},
	}
}

func runDecode(w io.Writer, payload string) error {
	fields, err := pix.ParseFields(payload)
	if err != nil {
		return err
	}
	printFields(w, fields, "")

	switch err := pix.Verify(payload); {
	case err == nil:
		fmt.Fprintln(w, "crc: ok")
	case errors.Is(err, pix.ErrChecksumMismatch):
		fmt.Fprintf(w, "crc: %v\n", err)
		return err
	default:
		return err
	}
	return nil
}

func printFields(w io.Writer, fields []pix.Field, indent string) {
	for _, f := range fields {
		if templateTags[f.Tag] && indent == "" {
			if nested, err := pix.ParseFields(f.Value); err == nil {
				fmt.Fprintf(w, "%s%s\n", indent, f.Tag)
				printFields(w, nested, indent+"  ")
				continue
			}
		}
		fmt.Fprintf(w, "%s%s %02d %s\n", indent, f.Tag, len(f.Value), f.Value)
	}
}
