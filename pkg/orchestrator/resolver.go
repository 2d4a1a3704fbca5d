package orchestrator

import (
	"fmt"

	"ai-reportdraft-be/pkg/guide"
)

// SectionInfo is the resolved metadata for one guide section, always
// renderable even when the guide tree is inconsistent.
type SectionInfo struct {
	SectionID    string
	ChapterTitle string
	ChapterIndex int
	SectionTitle string
	SectionIndex int
	Requirements []string
	Description  string
}

// ResolveSection maps a "<chapter>.<section>" identifier onto the guide
// tree. Malformed ids, out-of-range indices and missing tree parts all
// yield the same deterministic fallback record so callers can always
// show the user something.
func ResolveSection(tree *guide.Tree, rawID string) SectionInfo {
	fallback := SectionInfo{
		SectionID:    rawID,
		ChapterTitle: "Unknown Chapter",
		ChapterIndex: -1,
		SectionTitle: "Unknown Section",
		SectionIndex: -1,
		Requirements: []string{},
		Description:  "No description available.",
	}

	id, err := ParseSectionID(rawID)
	if err != nil {
		return fallback
	}
	if tree == nil || id.Chapter >= len(tree.Chapters) {
		return fallback
	}
	chapter := tree.Chapters[id.Chapter]
	if id.Section >= len(chapter.Sections) {
		return fallback
	}
	section := chapter.Sections[id.Section]

	chapterTitle := chapter.Title
	if chapterTitle == "" {
		chapterTitle = fmt.Sprintf("Chapter %d", id.Chapter+1)
	}
	sectionTitle := section.Title
	if sectionTitle == "" {
		sectionTitle = fmt.Sprintf("Section %d", id.Section+1)
	}
	requirements := section.Requirements
	if requirements == nil {
		requirements = []string{}
	}

	return SectionInfo{
		SectionID:    rawID,
		ChapterTitle: chapterTitle,
		ChapterIndex: id.Chapter,
		SectionTitle: sectionTitle,
		SectionIndex: id.Section,
		Requirements: requirements,
		Description:  section.Description,
	}
}
