package guide

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"

	"ai-reportdraft-be/pkg/llm"
)

// ErrUnparsableGuide is returned when neither the LLM nor the structural
// scanner can find a single chapter in the uploaded text.
var ErrUnparsableGuide = errors.New("guide text could not be parsed into chapters")

const extractionPrompt = `You are a document structure extractor. Given the text of a report guide, produce ONLY a JSON object with this exact shape, no prose before or after:

{
  "title": "...",
  "description": "...",
  "chapters": [
    {
      "title": "...",
      "description": "...",
      "sections": [
        {"title": "...", "description": "...", "requirements": ["..."]}
      ]
    }
  ]
}

Preserve the order of chapters and sections as they appear. Use empty strings for missing descriptions and an empty array for missing requirements.

Guide text:
%s`

// Parser turns raw guide text into a Tree, preferring the LLM extraction
// and falling back to a structural heading scan when the model output is
// unusable.
type Parser struct {
	llm    llm.LLMProvider
	logger *log.Logger
}

func NewParser(provider llm.LLMProvider, logger *log.Logger) *Parser {
	if logger == nil {
		logger = log.Default()
	}
	return &Parser{llm: provider, logger: logger}
}

func (p *Parser) ParseGuide(ctx context.Context, text string) (*Tree, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrUnparsableGuide
	}

	if p.llm != nil {
		raw, err := p.llm.Generate(ctx, fmt.Sprintf(extractionPrompt, text), llm.WithTemperature(0.1))
		if err == nil {
			tree, perr := decodeTree(raw)
			if perr == nil {
				return tree, nil
			}
			p.logger.Printf("guide: llm output rejected, falling back to structural scan: %v", perr)
		} else {
			p.logger.Printf("guide: llm extraction failed, falling back to structural scan: %v", err)
		}
	}

	tree := scanStructure(text)
	if len(tree.Chapters) == 0 {
		return nil, ErrUnparsableGuide
	}
	return tree, nil
}

func decodeTree(raw string) (*Tree, error) {
	cleaned := sanitizeJSON(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("no json object found in model output")
	}

	var tree Tree
	if err := json.Unmarshal([]byte(cleaned), &tree); err != nil {
		return nil, fmt.Errorf("decode guide json: %w", err)
	}
	if len(tree.Chapters) == 0 {
		return nil, fmt.Errorf("guide json has no chapters")
	}
	for _, ch := range tree.Chapters {
		if len(ch.Sections) == 0 {
			return nil, fmt.Errorf("chapter %q has no sections", ch.Title)
		}
	}
	return &tree, nil
}

// sanitizeJSON strips markdown fences and surrounding prose, keeping the
// outermost JSON object.
func sanitizeJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return raw[start : end+1]
}

var (
	chapterLinePattern = regexp.MustCompile(`(?i)^(?:chapter|bab)\s+\d+\s*[:.\-]?\s*(.*)$`)
	numberedSection    = regexp.MustCompile(`^\d+\.\d+\.?\s+(.+)$`)
	numberedChapter    = regexp.MustCompile(`^\d+\.?\s+(.+)$`)
	requirementLine    = regexp.MustCompile(`^[-*•]\s+(.+)$`)
)

// scanStructure recovers a tree from markdown-ish headings. It is the
// last line of defence when the model cannot be reached or returns prose.
func scanStructure(text string) *Tree {
	tree := &Tree{}
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var chapter *Chapter
	var section *Section

	flushSection := func() {
		if chapter != nil && section != nil {
			chapter.Sections = append(chapter.Sections, *section)
		}
		section = nil
	}
	flushChapter := func() {
		flushSection()
		if chapter != nil {
			tree.Chapters = append(tree.Chapters, *chapter)
		}
		chapter = nil
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "### "):
			flushSection()
			section = &Section{Title: strings.TrimSpace(line[4:])}
		case strings.HasPrefix(line, "## "):
			flushChapter()
			chapter = &Chapter{Title: strings.TrimSpace(line[3:])}
		case strings.HasPrefix(line, "# "):
			if tree.Title == "" {
				tree.Title = strings.TrimSpace(line[2:])
			} else {
				flushChapter()
				chapter = &Chapter{Title: strings.TrimSpace(line[2:])}
			}
		case chapterLinePattern.MatchString(line):
			flushChapter()
			title := chapterLinePattern.FindStringSubmatch(line)[1]
			chapter = &Chapter{Title: strings.TrimSpace(title)}
		case numberedSection.MatchString(line):
			flushSection()
			title := numberedSection.FindStringSubmatch(line)[1]
			section = &Section{Title: strings.TrimSpace(title)}
		case requirementLine.MatchString(line):
			if section != nil {
				req := requirementLine.FindStringSubmatch(line)[1]
				section.Requirements = append(section.Requirements, strings.TrimSpace(req))
			}
		case numberedChapter.MatchString(line) && chapter == nil:
			title := numberedChapter.FindStringSubmatch(line)[1]
			chapter = &Chapter{Title: strings.TrimSpace(title)}
		case tree.Title == "" && chapter == nil:
			tree.Title = line
		}
	}
	flushChapter()

	// A chapter without sections still resolves; give it one covering
	// the chapter itself so the workflow has something to draft.
	for i := range tree.Chapters {
		if len(tree.Chapters[i].Sections) == 0 {
			tree.Chapters[i].Sections = []Section{{Title: tree.Chapters[i].Title}}
		}
	}
	return tree
}
