package guide

// Tree is the parsed report guide: an ordered hierarchy of chapters and
// sections that drives section resolution and eager section-record creation.
type Tree struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Chapters    []Chapter `json:"chapters"`
}

type Chapter struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Sections    []Section `json:"sections"`
}

type Section struct {
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	Requirements []string `json:"requirements,omitempty"`
}

// SectionCount returns the total number of sections across all chapters.
func (t *Tree) SectionCount() int {
	if t == nil {
		return 0
	}
	n := 0
	for _, ch := range t.Chapters {
		n += len(ch.Sections)
	}
	return n
}
