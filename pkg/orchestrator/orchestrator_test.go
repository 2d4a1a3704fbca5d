package orchestrator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"ai-reportdraft-be/pkg/events"
	"ai-reportdraft-be/pkg/llm"
	"ai-reportdraft-be/pkg/memory"
)

// --- fakes ---

type fakeSessions struct {
	sessions map[uuid.UUID]*Session
}

func (f *fakeSessions) GetSession(ctx context.Context, sessionID uuid.UUID) (*Session, error) {
	return f.sessions[sessionID], nil
}

type fakeStates struct {
	states map[uuid.UUID]*State
	fail   bool
}

func (f *fakeStates) Load(ctx context.Context, sessionID uuid.UUID) (*State, error) {
	if f.fail {
		return nil, errors.New("storage down")
	}
	return f.states[sessionID], nil
}

func (f *fakeStates) Save(ctx context.Context, state *State) error {
	if f.fail {
		return errors.New("storage down")
	}
	copied := *state
	f.states[state.SessionID] = &copied
	return nil
}

type fakeDrafts struct {
	drafts      map[string]string
	savedMarks  []string
	markMatched bool
}

func (f *fakeDrafts) SaveDraft(ctx context.Context, sessionID uuid.UUID, id SectionID, content string) error {
	if f.drafts == nil {
		f.drafts = map[string]string{}
	}
	f.drafts[id.String()] = content
	return nil
}

func (f *fakeDrafts) MarkSaved(ctx context.Context, sessionID uuid.UUID, id SectionID) (bool, error) {
	f.savedMarks = append(f.savedMarks, id.String())
	return f.markMatched, nil
}

type fakeIntake struct {
	done    bool
	missing []string
	fields  map[string]string
}

func (f *fakeIntake) StoreField(ctx context.Context, sessionID uuid.UUID, field, value string) (bool, []string, error) {
	if f.fields == nil {
		f.fields = map[string]string{}
	}
	f.fields[field] = value
	return f.done, f.missing, nil
}

type fakeMemory struct {
	entries []memory.Entry
}

func (f *fakeMemory) Append(ctx context.Context, sessionID uuid.UUID, role, content string, categories []string) error {
	f.entries = append(f.entries, memory.Entry{
		ID:         uuid.New(),
		SessionID:  sessionID,
		Role:       role,
		Content:    content,
		Categories: categories,
	})
	return nil
}

func (f *fakeMemory) Search(ctx context.Context, sessionID uuid.UUID, categories []string, limit int) ([]memory.Entry, error) {
	var out []memory.Entry
	// most recent first
	for i := len(f.entries) - 1; i >= 0; i-- {
		entry := f.entries[i]
		if entry.SessionID != sessionID {
			continue
		}
		if !hasAllCategories(entry.Categories, categories) {
			continue
		}
		out = append(out, entry)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (f *fakeMemory) SemanticSearch(ctx context.Context, sessionID uuid.UUID, query string, limit int) ([]memory.Entry, error) {
	return nil, nil
}

func hasAllCategories(have, want []string) bool {
	for _, w := range want {
		found := false
		for _, h := range have {
			if h == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

type fakeLLM struct {
	reply string
	err   error
	calls int
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	f.calls++
	return f.reply, f.err
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.Chat(ctx, nil)
}

type fakePublisher struct {
	events []events.Event
}

func (f *fakePublisher) Publish(ctx context.Context, event events.Event) error {
	f.events = append(f.events, event)
	return nil
}

func (f *fakePublisher) types() []string {
	var out []string
	for _, e := range f.events {
		out = append(out, e.EventType())
	}
	return out
}

// --- harness ---

type harness struct {
	orch      *Orchestrator
	sessionID uuid.UUID
	states    *fakeStates
	drafts    *fakeDrafts
	intake    *fakeIntake
	mem       *fakeMemory
	llm       *fakeLLM
	publisher *fakePublisher
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	sessionID := uuid.New()
	sessions := &fakeSessions{sessions: map[uuid.UUID]*Session{
		sessionID: {
			ID:     sessionID,
			Guide:  testTree(),
			Intake: map[string]string{},
		},
	}}
	states := &fakeStates{states: map[uuid.UUID]*State{}}
	drafts := &fakeDrafts{markMatched: true}
	intake := &fakeIntake{missing: []string{"department", "objectives", "problem_statement", "sample_size"}}
	mem := &fakeMemory{}
	provider := &fakeLLM{reply: "assistant reply"}
	publisher := &fakePublisher{}

	orch := New(sessions, states, drafts, intake, mem, provider, nil, publisher, nil)
	return &harness{
		orch:      orch,
		sessionID: sessionID,
		states:    states,
		drafts:    drafts,
		intake:    intake,
		mem:       mem,
		llm:       provider,
		publisher: publisher,
	}
}

func (h *harness) setState(phase Phase, section *SectionID) {
	h.states.states[h.sessionID] = &State{SessionID: h.sessionID, Phase: phase, CurrentSection: section}
}

// --- tests ---

func TestProcessMessageUnknownSession(t *testing.T) {
	h := newHarness(t)
	_, err := h.orch.ProcessMessage(context.Background(), uuid.New(), "hello")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestIntakeTurn(t *testing.T) {
	h := newHarness(t)

	resp, err := h.orch.ProcessMessage(context.Background(), h.sessionID, "Water Quality in Urban Rivers")
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}

	if resp.Metadata.Phase != PhaseIntake {
		t.Errorf("phase = %v, want intake", resp.Metadata.Phase)
	}
	if resp.Metadata.IntakeDone {
		t.Error("intake should not be done")
	}
	if len(resp.Metadata.MissingFields) != 4 {
		t.Errorf("missing = %v", resp.Metadata.MissingFields)
	}
	if resp.Message != "assistant reply" {
		t.Errorf("message = %q", resp.Message)
	}

	// without a previous assistant question the answer lands in notes
	if _, ok := h.intake.fields["notes"]; !ok {
		t.Errorf("stored fields = %v, want notes", h.intake.fields)
	}

	// both turns recorded under the intake category
	entries, _ := h.mem.Search(context.Background(), h.sessionID, []string{"intake"}, 10)
	if len(entries) != 2 {
		t.Errorf("memory entries = %d, want 2", len(entries))
	}
}

func TestIntakeClassifiesFromPreviousQuestion(t *testing.T) {
	h := newHarness(t)
	h.mem.Append(context.Background(), h.sessionID, memory.RoleAssistant, "[DEPARTMENT] Which department is this for?", []string{"intake"})

	if _, err := h.orch.ProcessMessage(context.Background(), h.sessionID, "Environmental Engineering"); err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}

	if got := h.intake.fields["department"]; got != "Environmental Engineering" {
		t.Errorf("department = %q, stored fields %v", got, h.intake.fields)
	}
}

func TestIntakeCompletionPublishesOnce(t *testing.T) {
	h := newHarness(t)
	h.intake.done = true
	h.intake.missing = []string{}

	resp, err := h.orch.ProcessMessage(context.Background(), h.sessionID, "30 participants")
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	if !resp.Metadata.IntakeDone {
		t.Error("IntakeDone should be true")
	}

	found := false
	for _, typ := range h.publisher.types() {
		if typ == events.TypeIntakeCompleted {
			found = true
		}
	}
	if !found {
		t.Errorf("events = %v, want intake completed", h.publisher.types())
	}

	// a session already marked done does not publish again
	h.publisher.events = nil
	sess := &Session{ID: h.sessionID, Guide: testTree(), Intake: map[string]string{}, IntakeDone: true}
	h.orch.sessions.(*fakeSessions).sessions[h.sessionID] = sess
	if _, err := h.orch.ProcessMessage(context.Background(), h.sessionID, "more detail"); err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	for _, typ := range h.publisher.types() {
		if typ == events.TypeIntakeCompleted {
			t.Error("intake completed published twice")
		}
	}
}

func TestForceCompleteIntake(t *testing.T) {
	h := newHarness(t)

	resp, err := h.orch.ProcessMessage(context.Background(), h.sessionID, "  Force-Complete-Intake  ")
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	if resp.Message != "Intake phase forced to complete. Transitioning to planning phase." {
		t.Errorf("message = %q", resp.Message)
	}
	if resp.Metadata.Phase != PhasePlanning {
		t.Errorf("phase = %v, want planning", resp.Metadata.Phase)
	}
	if h.states.states[h.sessionID].Phase != PhasePlanning {
		t.Error("state not persisted as planning")
	}
	if got := h.publisher.types(); len(got) != 1 || got[0] != events.TypePhaseChanged {
		t.Errorf("events = %v, want one phase change", got)
	}
}

func TestSelectSection(t *testing.T) {
	h := newHarness(t)

	t.Run("unknown section", func(t *testing.T) {
		_, err := h.orch.SelectSection(context.Background(), h.sessionID, SectionID{Chapter: 9, Section: 0})
		if !errors.Is(err, ErrUnknownSection) {
			t.Fatalf("err = %v, want ErrUnknownSection", err)
		}
	})

	t.Run("unknown session", func(t *testing.T) {
		_, err := h.orch.SelectSection(context.Background(), uuid.New(), SectionID{})
		if !errors.Is(err, ErrSessionNotFound) {
			t.Fatalf("err = %v, want ErrSessionNotFound", err)
		}
	})

	t.Run("valid selection moves to planning", func(t *testing.T) {
		st, err := h.orch.SelectSection(context.Background(), h.sessionID, SectionID{Chapter: 0, Section: 1})
		if err != nil {
			t.Fatalf("SelectSection: %v", err)
		}
		if st.Phase != PhasePlanning {
			t.Errorf("phase = %v, want planning", st.Phase)
		}
		if st.CurrentSection == nil || st.CurrentSection.String() != "0.1" {
			t.Errorf("section = %v, want 0.1", st.CurrentSection)
		}
		if got := h.publisher.types(); len(got) == 0 || got[len(got)-1] != events.TypePhaseChanged {
			t.Errorf("events = %v, want phase change", got)
		}
	})
}

func TestPlanningWithoutSelectedSection(t *testing.T) {
	h := newHarness(t)
	h.setState(PhasePlanning, nil)

	resp, err := h.orch.ProcessMessage(context.Background(), h.sessionID, "- a bullet that goes nowhere")
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	if resp.Metadata.Phase != PhasePlanning {
		t.Errorf("phase = %v, want planning", resp.Metadata.Phase)
	}
	if resp.Metadata.SectionID != "" {
		t.Errorf("section = %q, want none", resp.Metadata.SectionID)
	}
	if h.llm.calls != 1 {
		t.Errorf("llm calls = %d, want guidance reply", h.llm.calls)
	}
}

func TestPlanningCapturesBullets(t *testing.T) {
	h := newHarness(t)
	section := SectionID{Chapter: 0, Section: 0}
	h.setState(PhasePlanning, &section)

	resp, err := h.orch.ProcessMessage(context.Background(), h.sessionID, "- urban runoff sources\n- sampling methodology")
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}

	if resp.Metadata.Phase != PhaseExecution {
		t.Errorf("phase = %v, want execution", resp.Metadata.Phase)
	}
	if len(resp.Metadata.BulletPoints) != 2 {
		t.Errorf("bullets = %v", resp.Metadata.BulletPoints)
	}
	if !strings.Contains(resp.Message, "Background") {
		t.Errorf("message = %q, want section title mentioned", resp.Message)
	}

	// bullets stored as a system record for execution to pick up
	entries, _ := h.mem.Search(context.Background(), h.sessionID, []string{"bullet_points", "0.0"}, 1)
	if len(entries) != 1 || entries[0].Role != memory.RoleSystem {
		t.Fatalf("stored bullet record = %v", entries)
	}
	if !strings.Contains(entries[0].Content, "urban runoff sources") {
		t.Errorf("bullet payload = %q", entries[0].Content)
	}

	if h.states.states[h.sessionID].Phase != PhaseExecution {
		t.Error("state not persisted as execution")
	}
	if got := h.publisher.types(); len(got) != 1 || got[0] != events.TypePhaseChanged {
		t.Errorf("events = %v", got)
	}
}

func TestPlanningWithoutBulletsStaysPut(t *testing.T) {
	h := newHarness(t)
	section := SectionID{Chapter: 0, Section: 0}
	h.setState(PhasePlanning, &section)

	resp, err := h.orch.ProcessMessage(context.Background(), h.sessionID, "what should I even write here")
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	if resp.Metadata.Phase != PhasePlanning {
		t.Errorf("phase = %v, want planning", resp.Metadata.Phase)
	}
	if len(h.publisher.events) != 0 {
		t.Errorf("events = %v, want none", h.publisher.types())
	}
}

func TestExecutionDraftsWithStoredBullets(t *testing.T) {
	h := newHarness(t)
	section := SectionID{Chapter: 0, Section: 0}
	h.setState(PhaseExecution, &section)
	h.mem.Append(context.Background(), h.sessionID, memory.RoleSystem,
		`{"section_id":"0.0","bullet_points":["runoff sources","sampling plan"]}`,
		[]string{"bullet_points", "0.0"})
	h.llm.reply = "Generated section draft text."

	resp, err := h.orch.ProcessMessage(context.Background(), h.sessionID, "go ahead")
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}

	if resp.Metadata.Phase != PhaseReflection {
		t.Errorf("phase = %v, want reflection", resp.Metadata.Phase)
	}
	if !resp.Metadata.GeneratedContent {
		t.Error("GeneratedContent should be true")
	}
	if h.drafts.drafts["0.0"] != "Generated section draft text." {
		t.Errorf("saved draft = %q", h.drafts.drafts["0.0"])
	}

	// draft recorded for reflection to find
	entries, _ := h.mem.Search(context.Background(), h.sessionID, []string{"execution", "0.0", "draft"}, 1)
	if len(entries) != 1 || entries[0].Content != "Generated section draft text." {
		t.Fatalf("draft memory = %v", entries)
	}

	types := h.publisher.types()
	wantDrafted, wantPhase := false, false
	for _, typ := range types {
		if typ == events.TypeSectionDrafted {
			wantDrafted = true
		}
		if typ == events.TypePhaseChanged {
			wantPhase = true
		}
	}
	if !wantDrafted || !wantPhase {
		t.Errorf("events = %v", types)
	}
}

func TestExecutionFallsBackToDefaultBullets(t *testing.T) {
	h := newHarness(t)
	section := SectionID{Chapter: 0, Section: 0}
	h.setState(PhaseExecution, &section)
	h.llm.err = errors.New("model offline")

	resp, err := h.orch.ProcessMessage(context.Background(), h.sessionID, "draft it")
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	if resp.Metadata.Phase != PhaseReflection {
		t.Errorf("phase = %v, want reflection", resp.Metadata.Phase)
	}
	// failed drafting still answers with the apology text
	if resp.Message == "" || resp.Message == "assistant reply" {
		t.Errorf("message = %q, want failure fallback", resp.Message)
	}
}

func TestReflectionMarksSectionSaved(t *testing.T) {
	h := newHarness(t)
	section := SectionID{Chapter: 0, Section: 0}
	h.setState(PhaseReflection, &section)
	h.llm.reply = "1. What evidence supports this?"

	resp, err := h.orch.ProcessMessage(context.Background(), h.sessionID, "looks good to me")
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}

	if resp.Metadata.Phase != PhasePlanning {
		t.Errorf("phase = %v, want planning", resp.Metadata.Phase)
	}
	if !resp.Metadata.SectionCompleted {
		t.Error("SectionCompleted should be true")
	}
	if len(h.drafts.savedMarks) != 1 || h.drafts.savedMarks[0] != "0.0" {
		t.Errorf("savedMarks = %v", h.drafts.savedMarks)
	}

	// section stays selected for a follow-up pass
	st := h.states.states[h.sessionID]
	if st.CurrentSection == nil || st.CurrentSection.String() != "0.0" {
		t.Errorf("CurrentSection = %v, want 0.0 retained", st.CurrentSection)
	}

	found := false
	for _, typ := range h.publisher.types() {
		if typ == events.TypeSectionSaved {
			found = true
		}
	}
	if !found {
		t.Errorf("events = %v, want section saved", h.publisher.types())
	}
}

func TestReflectionWithoutMatchingRecord(t *testing.T) {
	h := newHarness(t)
	h.drafts.markMatched = false
	section := SectionID{Chapter: 0, Section: 0}
	h.setState(PhaseReflection, &section)

	resp, err := h.orch.ProcessMessage(context.Background(), h.sessionID, "done")
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	if resp.Metadata.SectionCompleted {
		t.Error("SectionCompleted should be false when nothing matched")
	}
	for _, typ := range h.publisher.types() {
		if typ == events.TypeSectionSaved {
			t.Error("section saved event should not fire")
		}
	}
}

func TestCorruptStateStartsFresh(t *testing.T) {
	h := newHarness(t)
	h.states.fail = true

	resp, err := h.orch.ProcessMessage(context.Background(), h.sessionID, "hello")
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	// broken storage degrades to a fresh intake turn, never an error
	if resp.Metadata.Phase != PhaseIntake {
		t.Errorf("phase = %v, want intake", resp.Metadata.Phase)
	}
}

func TestFullSectionCycle(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	if _, err := h.orch.SelectSection(ctx, h.sessionID, SectionID{Chapter: 0, Section: 0}); err != nil {
		t.Fatalf("SelectSection: %v", err)
	}

	if _, err := h.orch.ProcessMessage(ctx, h.sessionID, "- point one\n- point two"); err != nil {
		t.Fatalf("planning: %v", err)
	}
	if h.states.states[h.sessionID].Phase != PhaseExecution {
		t.Fatalf("phase after planning = %v", h.states.states[h.sessionID].Phase)
	}

	h.llm.reply = "draft content"
	if _, err := h.orch.ProcessMessage(ctx, h.sessionID, "write it"); err != nil {
		t.Fatalf("execution: %v", err)
	}
	if h.states.states[h.sessionID].Phase != PhaseReflection {
		t.Fatalf("phase after execution = %v", h.states.states[h.sessionID].Phase)
	}

	h.llm.reply = "1. Question?"
	resp, err := h.orch.ProcessMessage(ctx, h.sessionID, "all good")
	if err != nil {
		t.Fatalf("reflection: %v", err)
	}
	if resp.Metadata.Phase != PhasePlanning || !resp.Metadata.SectionCompleted {
		t.Fatalf("final metadata = %+v", resp.Metadata)
	}
}
