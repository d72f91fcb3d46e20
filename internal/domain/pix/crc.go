package pix

import "fmt"

const (
	crcInit = 0xFFFF
	crcPoly = 0x1021
)

// CRC16 computes CRC-16/CCITT-FALSE: init 0xFFFF, polynomial 0x1021, MSB first,
// no reflection and no final XOR.
func CRC16(data []byte) uint16 {
	crc := uint16(crcInit)
	for _, b := range data {
		crc ^= uint16(b) << 8
		for range 8 {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ crcPoly
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}

// Checksum renders the CRC of payload as four uppercase hex digits.
func Checksum(payload string) string {
	return fmt.Sprintf("%04X", CRC16([]byte(payload)))
}
