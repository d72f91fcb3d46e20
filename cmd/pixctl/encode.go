package main

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Xausdorf/pix-pay-hub/internal/domain/pix"
	"github.com/Xausdorf/pix-pay-hub/internal/infrastructure/qrgenerator"
)

type encodeOptions struct {
	key    string
	name   string
	city   string
	amount string
	txid   string
	qrPath string
	qrSize int
}

func encodeCmd() *cobra.Command {
	var opts encodeOptions

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Print the payload for a merchant, optionally writing its QR code",
		Long: `Print the Pix copia e cola payload for the given merchant data.

Examples:
  pixctl encode --key chave@exemplo.com --name "João" --city "São Paulo" --amount 10
  pixctl encode --key +5511999998888 --name Loja --city Recife --qr loja.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEncode(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.key, "key", "k", "", "Pix key of the payee (required)")
	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "payee name (required)")
	cmd.Flags().StringVarP(&opts.city, "city", "c", "", "payee city (required)")
	cmd.Flags().StringVarP(&opts.amount, "amount", "a", "", "amount in BRL; omit for a static payload")
	cmd.Flags().StringVarP(&opts.txid, "txid", "t", "", "reference label (default \"***\")")
	cmd.Flags().StringVar(&opts.qrPath, "qr", "", "write a PNG QR code to this file")
	cmd.Flags().IntVar(&opts.qrSize, "qr-size", 370, "QR code width and height in pixels")

	for _, name := range []string{"key", "name", "city"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func runEncode(cmd *cobra.Command, opts encodeOptions) error {
	req := pix.Request{
		PixKey:        opts.key,
		PayeeName:     opts.name,
		PayeeCity:     opts.city,
		TransactionID: opts.txid,
	}
	if opts.amount != "" {
		amount, err := decimal.NewFromString(opts.amount)
		if err != nil {
			return fmt.Errorf("invalid amount %q: %w", opts.amount, err)
		}
		req.Amount = decimal.NewNullDecimal(amount)
	}

	payload, err := pix.Encode(req)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), payload)

	if opts.qrPath == "" {
		return nil
	}

	png, err := qrgenerator.NewGenerator(opts.qrSize).Render(payload)
	if err != nil {
		return fmt.Errorf("render qr code: %w", err)
	}
	if err := os.WriteFile(opts.qrPath, png, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.qrPath, err)
	}
	return nil
}
