package extract

import (
	"regexp"
	"strconv"
)

// Default segmenter bounds for domestic delivery notes.
const (
	DefaultLookahead        = 60
	DefaultPalletWindow     = 3
	DefaultKeepProductLines = 4
)

// Block is everything collected for one batch anchor.
type Block struct {
	Batch        string
	PalletHint   string   // "22 PAL", empty when none was seen
	SSCCs        []string // distinct, in encounter order
	ProductLines []string // at most KeepProductLines, closest to the quantities
}

// PalletCount parses the numeric part of PalletHint.
func (b Block) PalletCount() (int, bool) {
	m := PalletToken.FindStringSubmatch(b.PalletHint)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// SegmentConfig bounds the segmenter.
type SegmentConfig struct {
	Anchor           *regexp.Regexp
	Lookahead        int // lines idx+1 .. idx+Lookahead-1 are scanned
	PalletWindow     int // lines after the anchor searched for a pallet hint
	KeepProductLines int
}

// DomesticSegmentConfig returns the bounds used for ZAPI delivery notes.
func DomesticSegmentConfig() SegmentConfig {
	return SegmentConfig{
		Anchor:           BatchAnchor,
		Lookahead:        DefaultLookahead,
		PalletWindow:     DefaultPalletWindow,
		KeepProductLines: DefaultKeepProductLines,
	}
}

// Segment opens one block per anchor line and fills it from the following
// lines. A block never reads past the next anchor line.
func Segment(lines []string, cfg SegmentConfig) []Block {
	if cfg.Anchor == nil {
		return nil
	}
	var blocks []Block
	for idx, line := range lines {
		m := cfg.Anchor.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		end := blockEnd(lines, idx, cfg)
		blocks = append(blocks, Block{
			Batch:        m[1],
			PalletHint:   palletHint(lines, idx, end, cfg.PalletWindow),
			SSCCs:        collectSSCCs(lines[idx+1 : end]),
			ProductLines: collectProductLines(lines[idx+1:end], cfg.KeepProductLines),
		})
	}
	return blocks
}

// blockEnd returns the exclusive end index of the block opened at idx.
func blockEnd(lines []string, idx int, cfg SegmentConfig) int {
	limit := min(idx+cfg.Lookahead, len(lines))
	for j := idx + 1; j < limit; j++ {
		if cfg.Anchor.MatchString(lines[j]) {
			return j
		}
	}
	return max(limit, idx+1)
}

func palletHint(lines []string, idx, end, window int) string {
	if m := PalletToken.FindStringSubmatch(lines[idx]); m != nil {
		return m[1] + " PAL"
	}
	for j := idx + 1; j <= idx+window && j < end; j++ {
		if m := PalletToken.FindStringSubmatch(lines[j]); m != nil {
			return m[1] + " PAL"
		}
	}
	return ""
}

func collectSSCCs(lines []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, line := range lines {
		for _, m := range SSCCToken.FindAllStringSubmatch(line, -1) {
			if seen[m[1]] {
				continue
			}
			seen[m[1]] = true
			out = append(out, m[1])
		}
	}
	return out
}

func collectProductLines(lines []string, keep int) []string {
	var out []string
	for _, line := range lines {
		if HasProductToken(line) {
			out = append(out, line)
		}
	}
	if keep > 0 && len(out) > keep {
		out = out[len(out)-keep:]
	}
	return out
}
