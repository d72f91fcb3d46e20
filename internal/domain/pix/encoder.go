package pix

const (
	TagPayloadFormat      = "00"
	TagMerchantAccount    = "26"
	TagMerchantCategory   = "52"
	TagCurrency           = "53"
	TagAmount             = "54"
	TagCountry            = "58"
	TagMerchantName       = "59"
	TagMerchantCity       = "60"
	TagAdditionalData     = "62"
	TagCRC                = "63"
	TagAccountGUI         = "00"
	TagAccountKey         = "01"
	TagAdditionalRefLabel = "05"

	pixGUI    = "br.gov.bcb.pix"
	crcHeader = TagCRC + "04"
)

// Encode builds the "copia e cola" text for req, terminated by its CRC.
// Nothing is assembled until req passes validation.
func Encode(req Request) (string, error) {
	n, err := req.Normalized()
	if err != nil {
		return "", err
	}

	account, err := formatFields(
		Field{Tag: TagAccountGUI, Value: pixGUI},
		Field{Tag: TagAccountKey, Value: n.PixKey},
	)
	if err != nil {
		return "", err
	}

	additional, err := formatFields(Field{Tag: TagAdditionalRefLabel, Value: n.TransactionID})
	if err != nil {
		return "", err
	}

	fields := []Field{
		{Tag: TagPayloadFormat, Value: "01"},
		{Tag: TagMerchantAccount, Value: account},
		{Tag: TagMerchantCategory, Value: "0000"},
		{Tag: TagCurrency, Value: "986"},
	}
	if n.Amount.Valid {
		fields = append(fields, Field{Tag: TagAmount, Value: n.Amount.Decimal.StringFixed(2)})
	}
	fields = append(fields,
		Field{Tag: TagCountry, Value: "BR"},
		Field{Tag: TagMerchantName, Value: n.PayeeName},
		Field{Tag: TagMerchantCity, Value: n.PayeeCity},
		Field{Tag: TagAdditionalData, Value: additional},
	)

	body, err := formatFields(fields...)
	if err != nil {
		return "", err
	}

	body += crcHeader
	return body + Checksum(body), nil
}
