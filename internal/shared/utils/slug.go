package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Các ký tự không tách được bằng NFD (đ, ø, ß...) map thủ công
var letterFolds = strings.NewReplacer(
	"đ", "d", "Đ", "D",
	"ø", "o", "Ø", "O",
	"ł", "l", "Ł", "L",
	"æ", "ae", "Æ", "AE",
	"œ", "oe", "Œ", "OE",
	"ß", "ss",
)

// GenerateSlug tạo slug ASCII từ tên/tiêu đề
// "Ada Lovelace" → "ada-lovelace", "Nguyễn Nhật Ánh" → "nguyen-nhat-anh"
func GenerateSlug(input string) string {
	// Step 1: NFD + bỏ dấu (combining marks)
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMark), norm.NFC)
	ascii, _, err := transform.String(t, letterFolds.Replace(input))
	if err != nil {
		ascii = input
	}

	// Step 2: lowercase, mọi run không phải [a-z0-9] thành một dấu '-'
	var b strings.Builder
	b.Grow(len(ascii))
	pendingHyphen := false
	for _, r := range strings.ToLower(ascii) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}

	return b.String()
}

func isMark(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
