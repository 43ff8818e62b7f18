package controller

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncatePreviewRuneSafe(t *testing.T) {
	// konten Thai: 1 karakter = 3 byte; byte-slice akan membelah rune
	thai := strings.Repeat("ขอบคุณครับ", 30)
	out := truncatePreview(thai, 120)
	assert.True(t, utf8.ValidString(out))
	assert.Equal(t, 121, utf8.RuneCountInString(out)) // 120 + ellipsis

	// konten pendek tidak disentuh
	assert.Equal(t, "สั้น", truncatePreview("สั้น", 120))
	assert.Equal(t, "plain ascii", truncatePreview("plain ascii", 120))
}
