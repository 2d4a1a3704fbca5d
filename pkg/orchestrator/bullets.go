package orchestrator

import (
	"regexp"
	"strings"
)

var (
	dashBullet     = regexp.MustCompile(`^\s*[-•*]\s+(.+)$`)
	numberedBullet = regexp.MustCompile(`^\s*\d+[.)]\s+(.+)$`)
)

// defaultBullets keeps drafting unblocked when planning never stored any
// bullet points for the section.
var defaultBullets = []string{
	"Introduction to the topic",
	"Main arguments",
	"Supporting evidence",
	"Conclusion",
}

// ExtractBullets pulls itemized bullet points out of a free-form
// message. Dash, star, dot and numbered list markers are recognized;
// an unmarked line following a bullet is treated as its own bullet when
// long enough to carry content.
func ExtractBullets(message string) []string {
	var bullets []string
	for _, line := range strings.Split(strings.TrimSpace(message), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if m := dashBullet.FindStringSubmatch(line); m != nil {
			bullets = append(bullets, strings.TrimSpace(m[1]))
			continue
		}
		if m := numberedBullet.FindStringSubmatch(line); m != nil {
			bullets = append(bullets, strings.TrimSpace(m[1]))
			continue
		}
		if len(bullets) > 0 && len(line) > 3 {
			bullets = append(bullets, line)
		}
	}
	return bullets
}
