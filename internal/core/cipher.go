package core

// EncryptMessage obfuscates content by reversing its characters. It offers no
// confidentiality.
//
// content is text, i.e. valid UTF-8, and for text applying EncryptMessage
// twice yields the original. Each byte that is not part of a valid encoding
// is replaced with U+FFFD, so invalid input does not round-trip.
func EncryptMessage(content string) string {
	runes := []rune(content)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}
