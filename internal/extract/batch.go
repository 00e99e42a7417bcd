package extract

import (
	"regexp"
	"strings"

	"udyami/internal/domain"
)

var separatorLine = regexp.MustCompile(`^[ \t]*={10,}[ \t]*\r?\n?$`)

// Block is one slice of a batch text, expected to describe at most one document.
type Block struct {
	Index  int    `json:"index"`
	Offset int    `json:"offset"`
	Text   string `json:"text"`
}

// Extracted pairs a recognized record with the block it came from.
type Extracted struct {
	Block  Block
	Record domain.Record
}

// BatchResult separates recognized records from blocks that yielded nothing.
// Skipped blocks are not errors.
type BatchResult struct {
	Documents []Extracted
	Blocks    int
	Skipped   int
}

// SplitBlocks partitions text into blocks. A line made only of ten or more
// '=' characters ends the current block and is dropped. A production order
// heading starts a new block and stays with it. Blocks containing only
// whitespace are omitted, so joining the returned texts reproduces the input
// minus separator lines and blank filler.
func SplitBlocks(text string) []Block {
	var (
		blocks []Block
		cur    strings.Builder
		start  int
		offset int
	)

	flush := func() {
		if strings.TrimSpace(cur.String()) != "" {
			blocks = append(blocks, Block{Index: len(blocks), Offset: start, Text: cur.String()})
		}
		cur.Reset()
	}

	for _, line := range splitLinesKeepEnds(text) {
		switch {
		case separatorLine.MatchString(line):
			flush()
			start = offset + len(line)
		case orderHeading.MatchString(line) && strings.TrimSpace(cur.String()) != "" && !headingOnly(cur.String()):
			flush()
			start = offset
			cur.WriteString(line)
		default:
			if cur.Len() == 0 {
				start = offset
			}
			cur.WriteString(line)
		}
		offset += len(line)
	}
	flush()
	return blocks
}

// headingOnly reports whether the pending block holds nothing but markdown
// headings that are not themselves order headings, such as a
// "## Production Schedule" title above the first order.
func headingOnly(pending string) bool {
	for _, line := range strings.Split(pending, "\n") {
		l := strings.TrimSpace(line)
		if l == "" {
			continue
		}
		if !strings.HasPrefix(l, "#") || orderHeading.MatchString(l) {
			return false
		}
	}
	return true
}

func splitLinesKeepEnds(text string) []string {
	var lines []string
	for len(text) > 0 {
		i := strings.IndexByte(text, '\n')
		if i < 0 {
			lines = append(lines, text)
			break
		}
		lines = append(lines, text[:i+1])
		text = text[i+1:]
	}
	return lines
}

// ExtractBatch splits text and extracts every block independently, keeping
// recognized records in input order.
func ExtractBatch(text string) BatchResult {
	blocks := SplitBlocks(text)
	res := BatchResult{Blocks: len(blocks)}
	for _, b := range blocks {
		rec, ok := Extract(b.Text)
		if !ok {
			res.Skipped++
			continue
		}
		res.Documents = append(res.Documents, Extracted{Block: b, Record: rec})
	}
	return res
}
