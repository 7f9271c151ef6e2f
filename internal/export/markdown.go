package export

import "strings"

// BlockKind classifies one rendered block.
type BlockKind int

const (
	BlockHeading BlockKind = iota
	BlockParagraph
)

// Block is one element of the rendered document: a heading (level 1-3)
// or a paragraph.
type Block struct {
	Kind  BlockKind
	Level int // headings only, 1..3
	Text  string
}

// ParseMarkdown classifies markdown line by line: "# ", "## ", "### "
// prefixes become headings with the prefix stripped, blank lines
// contribute nothing, every other line is a paragraph verbatim. Lists,
// tables, emphasis and deeper headings are NOT interpreted; they come
// through as paragraph text with their markdown punctuation. One-way
// and lossy; there is no reconstruction back to markdown.
func ParseMarkdown(markdown string) []Block {
	var blocks []Block
	for _, line := range strings.Split(markdown, "\n") {
		switch {
		case strings.HasPrefix(line, "# "):
			blocks = append(blocks, Block{Kind: BlockHeading, Level: 1, Text: line[2:]})
		case strings.HasPrefix(line, "## "):
			blocks = append(blocks, Block{Kind: BlockHeading, Level: 2, Text: line[3:]})
		case strings.HasPrefix(line, "### "):
			blocks = append(blocks, Block{Kind: BlockHeading, Level: 3, Text: line[4:]})
		case strings.TrimSpace(line) == "":
			// blank line, no block
		default:
			blocks = append(blocks, Block{Kind: BlockParagraph, Text: line})
		}
	}
	return blocks
}
