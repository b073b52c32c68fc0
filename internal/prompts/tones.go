package prompts

import (
	"fmt"
	"strings"
)

const (
	ToneProfessional = "Professional"
	ToneFriendly     = "Friendly"
	ToneApologetic   = "Apologetic"
	ToneShortSweet   = "Short & Sweet"
)

var tones = []string{ToneProfessional, ToneFriendly, ToneApologetic, ToneShortSweet}

func Tones() []string {
	out := make([]string, len(tones))
	copy(out, tones)
	return out
}

// NormalizeTone maps a user supplied tone onto one of the supported tones,
// ignoring case and surrounding whitespace. An empty tone is Professional.
func NormalizeTone(tone string) (string, error) {
	tone = strings.TrimSpace(tone)
	if tone == "" {
		return ToneProfessional, nil
	}
	for _, t := range tones {
		if strings.EqualFold(t, tone) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unsupported tone '%s', expected one of %s", tone, strings.Join(tones, ", "))
}
