package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/alexanderramin/roadmap/internal/codec"
	"github.com/alexanderramin/roadmap/internal/config"
	"github.com/alexanderramin/roadmap/internal/domain"
	"github.com/alexanderramin/roadmap/internal/reorder"
	"github.com/alexanderramin/roadmap/internal/repository"
)

type roadmapService struct {
	docs         repository.DocumentRepo
	settingsRepo repository.SettingsRepo
	saves        repository.SaveLogRepo
	prefs        PreferenceService
	observer     UseCaseObserver
	now          func() time.Time
	debounce     time.Duration
	engineOpts   []reorder.Option

	mu       sync.Mutex
	doc      *domain.Roadmap
	settings *config.Settings
	dirty    bool
	lastErr  error

	// renumbered is set while the settings file and stored preferences still
	// use phase keys from before the last Renumber. prefOrigin maps a current
	// phase key to the key its preferences are stored under.
	renumbered bool
	prefOrigin map[string]string

	saveMu sync.Mutex
	saver  *debouncer

	engineMu sync.Mutex
	engine   *reorder.Engine
}

// RoadmapOption configures NewRoadmapService.
type RoadmapOption func(*roadmapService)

func WithObserver(o UseCaseObserver) RoadmapOption {
	return func(s *roadmapService) {
		if o != nil {
			s.observer = o
		}
	}
}

// WithClock injects the time source used for date stamps and changelog entries.
func WithClock(now func() time.Time) RoadmapOption {
	return func(s *roadmapService) { s.now = now }
}

// WithSaveDebounce overrides the settings' save_debounce.
func WithSaveDebounce(d time.Duration) RoadmapOption {
	return func(s *roadmapService) { s.debounce = d }
}

// WithSaveLog records every write of the document.
func WithSaveLog(r repository.SaveLogRepo) RoadmapOption {
	return func(s *roadmapService) { s.saves = r }
}

// WithPreferences lets phase renumbering carry the board's expand state along.
func WithPreferences(p PreferenceService) RoadmapOption {
	return func(s *roadmapService) { s.prefs = p }
}

func WithEngineOptions(opts ...reorder.Option) RoadmapOption {
	return func(s *roadmapService) { s.engineOpts = append(s.engineOpts, opts...) }
}

func NewRoadmapService(docs repository.DocumentRepo, settings repository.SettingsRepo, opts ...RoadmapOption) RoadmapService {
	s := &roadmapService{
		docs:         docs,
		settingsRepo: settings,
		observer:     NoopUseCaseObserver{},
		now:          time.Now,
		doc:          newDocument(),
		settings:     config.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	delay := s.debounce
	if delay <= 0 {
		delay = config.DefaultSaveDebounce
	}
	s.saver = newDebouncer(delay, s.autosave)
	s.engine = reorder.New(s, s.engineOpts...)
	return s
}

// newDocument is the starting point when no file exists yet.
func newDocument() *domain.Roadmap {
	doc := domain.NewRoadmap()
	for n := 1; n <= 4; n++ {
		doc.SetItems(domain.PhaseKey(n), nil)
	}
	return doc
}

func (s *roadmapService) Load(ctx context.Context) (err error) {
	fields := map[string]any{"document": s.docs.Path()}
	defer s.observe(ctx, "load-roadmap", time.Now(), &err, fields)

	settings, err := s.settingsRepo.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	var doc *domain.Roadmap
	text, err := s.docs.Load(ctx)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		doc, err = newDocument(), nil
		fields["created"] = true
	case err != nil:
		return fmt.Errorf("loading document: %w", err)
	default:
		doc = codec.Parse(text, settings.Columns)
	}
	fields["phases"] = len(doc.Phases)
	fields["items"] = doc.CountItems()

	s.saver.Stop()
	s.mu.Lock()
	s.doc = doc
	s.settings = settings
	s.dirty = false
	s.lastErr = nil
	s.renumbered = false
	s.prefOrigin = nil
	s.renumberLocked()
	s.mu.Unlock()

	if s.debounce <= 0 {
		s.saver.SetDelay(settings.SaveDebounce)
	}
	return nil
}

func (s *roadmapService) Document() *domain.Roadmap {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

func (s *roadmapService) Schema() domain.Schema {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append(domain.Schema(nil), s.settings.Columns...)
}

func (s *roadmapService) Settings() *config.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cloneSettingsLocked()
}

func (s *roadmapService) DocumentPath() string {
	return s.docs.Path()
}

func (s *roadmapService) Markdown() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.markdownLocked()
}

func (s *roadmapService) markdownLocked() string {
	doc := s.doc
	if s.settings.Title != "" {
		cp := *doc
		cp.Title = s.settings.Title
		doc = &cp
	}
	return codec.Generator{Now: s.now}.Generate(doc, s.settings.Phases, s.settings.Columns)
}

// --- reorder.Host ---

func (s *roadmapService) PhaseOrder() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.OrderedPhaseKeys()
}

func (s *roadmapService) PhaseItems(phase string) []*domain.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Phases[phase]
}

func (s *roadmapService) ReorderPhases(fromKey, toKey string) {
	var err error
	defer s.observe(context.Background(), "reorder-phases", time.Now(), &err, map[string]any{"from": fromKey, "to": toKey})

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.doc.MovePhase(fromKey, toKey) {
		err = fmt.Errorf("%w: %s -> %s", domain.ErrPhaseNotFound, fromKey, toKey)
		return
	}
	s.renumberLocked()
	s.markDirtyLocked()
}

func (s *roadmapService) MoveItem(itemID, sourcePhase, targetPhase string, newSource, newTarget []*domain.Item) {
	var err error
	defer s.observe(context.Background(), "move-item", time.Now(), &err,
		map[string]any{"item": itemID, "from": sourcePhase, "to": targetPhase})

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.doc.HasPhase(sourcePhase) || !s.doc.HasPhase(targetPhase) {
		err = fmt.Errorf("%w: %s -> %s", domain.ErrPhaseNotFound, sourcePhase, targetPhase)
		return
	}
	s.doc.Phases[sourcePhase] = newSource
	s.doc.Phases[targetPhase] = newTarget
	s.markDirtyLocked()
}

func (s *roadmapService) ReorderItems(phaseKey string, newList []*domain.Item) {
	var err error
	defer s.observe(context.Background(), "reorder-items", time.Now(), &err, map[string]any{"phase": phaseKey})

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.doc.HasPhase(phaseKey) {
		err = fmt.Errorf("%w: %q", domain.ErrPhaseNotFound, phaseKey)
		return
	}
	s.doc.Phases[phaseKey] = newList
	s.markDirtyLocked()
}

func (s *roadmapService) Reorder(fn func(e *reorder.Engine)) {
	s.engineMu.Lock()
	defer s.engineMu.Unlock()
	fn(s.engine)
}

// --- item edits ---

func (s *roadmapService) AddItem(ctx context.Context, phase string, fields map[string]string) (it *domain.Item, err error) {
	defer s.observe(ctx, "add-item", time.Now(), &err, map[string]any{"phase": phase})

	s.mu.Lock()
	defer s.mu.Unlock()
	if it, err = s.newItemLocked(fields); err != nil {
		return nil, err
	}
	if err = s.doc.AppendItem(phase, it); err != nil {
		return nil, err
	}
	s.markDirtyLocked()
	return it, nil
}

func (s *roadmapService) InsertBelow(ctx context.Context, siblingID string, fields map[string]string) (it *domain.Item, err error) {
	defer s.observe(ctx, "insert-item-below", time.Now(), &err, map[string]any{"sibling": siblingID})

	s.mu.Lock()
	defer s.mu.Unlock()
	if it, err = s.newItemLocked(fields); err != nil {
		return nil, err
	}
	if err = s.doc.InsertBelow(siblingID, it); err != nil {
		return nil, err
	}
	s.markDirtyLocked()
	return it, nil
}

func (s *roadmapService) AddSubtask(ctx context.Context, parentID string, fields map[string]string) (it *domain.Item, err error) {
	defer s.observe(ctx, "add-subtask", time.Now(), &err, map[string]any{"parent": parentID})

	s.mu.Lock()
	defer s.mu.Unlock()
	if it, err = s.newItemLocked(fields); err != nil {
		return nil, err
	}
	if err = s.doc.InsertChild(parentID, it); err != nil {
		return nil, err
	}
	s.markDirtyLocked()
	return it, nil
}

func (s *roadmapService) DeleteItem(ctx context.Context, id string) (it *domain.Item, err error) {
	defer s.observe(ctx, "delete-item", time.Now(), &err, map[string]any{"item": id})

	s.mu.Lock()
	defer s.mu.Unlock()
	if it, err = s.doc.DeleteItem(id); err != nil {
		return nil, err
	}
	s.markDirtyLocked()
	return it, nil
}

func (s *roadmapService) SetField(ctx context.Context, id, key, value string) (err error) {
	defer s.observe(ctx, "set-field", time.Now(), &err, map[string]any{"item": id, "column": key})

	s.mu.Lock()
	defer s.mu.Unlock()
	if title, ok := s.settings.Columns.TitleColumn(); ok && title.Key == key && strings.TrimSpace(value) == "" {
		return domain.ErrTitleRequired
	}
	if err = s.doc.SetField(s.settings.Columns, id, key, value); err != nil {
		return err
	}
	s.markDirtyLocked()
	return nil
}

// newItemLocked validates raw field input against the schema and fills
// missing columns.
func (s *roadmapService) newItemLocked(fields map[string]string) (*domain.Item, error) {
	schema := s.settings.Columns
	values := make(map[string]string, len(schema))
	for k, raw := range fields {
		v, err := schema.NormalizeValue(k, raw)
		if err != nil {
			return nil, err
		}
		values[k] = v
	}
	if title, ok := schema.TitleColumn(); ok && values[title.Key] == "" {
		return nil, domain.ErrTitleRequired
	}
	for _, c := range schema {
		if _, ok := values[c.Key]; ok {
			continue
		}
		if c.Type == domain.ColumnStatus {
			values[c.Key] = domain.StatusNone
		} else {
			values[c.Key] = ""
		}
	}
	return domain.NewItem(values), nil
}

// --- phases ---

func (s *roadmapService) AddPhase(ctx context.Context, name string) (key string, err error) {
	defer s.observe(ctx, "add-phase", time.Now(), &err, map[string]any{"name": name})

	s.mu.Lock()
	defer s.mu.Unlock()
	key = s.doc.AddPhase(strings.TrimSpace(name))
	s.markDirtyLocked()
	return key, nil
}

// RenamePhase stores the name in the document heading. A name pinned in the
// settings file takes precedence on output, so it is updated as well.
func (s *roadmapService) RenamePhase(ctx context.Context, key, name string) (err error) {
	defer s.observe(ctx, "rename-phase", time.Now(), &err, map[string]any{"phase": key})

	name = strings.TrimSpace(name)
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.doc.HasPhase(key) {
		return fmt.Errorf("%w: %q", domain.ErrPhaseNotFound, key)
	}
	if name == "" {
		return fmt.Errorf("phase name is required")
	}
	if pc, ok := s.settings.Phases[key]; ok && pc.Name != "" {
		if err = s.updateSettingsLocked(ctx, func(next *config.Settings) {
			pc.Name = name
			next.Phases[key] = pc
		}); err != nil {
			return err
		}
	}
	s.doc.Names[key] = name
	s.markDirtyLocked()
	return nil
}

func (s *roadmapService) SetPhaseColor(ctx context.Context, key, color string) (err error) {
	defer s.observe(ctx, "set-phase-color", time.Now(), &err, map[string]any{"phase": key, "color": color})

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.doc.HasPhase(key) {
		return fmt.Errorf("%w: %q", domain.ErrPhaseNotFound, key)
	}
	return s.updateSettingsLocked(ctx, func(next *config.Settings) {
		pc := next.Phases[key]
		pc.Color = color
		next.Phases[key] = pc
	})
}

func (s *roadmapService) RemovePhase(ctx context.Context, key string) (err error) {
	defer s.observe(ctx, "remove-phase", time.Now(), &err, map[string]any{"phase": key})

	s.mu.Lock()
	defer s.mu.Unlock()
	if err = s.doc.RemovePhase(key); err != nil {
		return err
	}
	if _, ok := s.settings.Phases[key]; ok {
		if err = s.updateSettingsLocked(ctx, func(next *config.Settings) {
			delete(next.Phases, key)
		}); err != nil {
			return err
		}
	}
	s.renumberLocked()
	s.markDirtyLocked()
	return nil
}

// --- aux tables ---

func (s *roadmapService) AddChangelogEntry(ctx context.Context, change string) (err error) {
	defer s.observe(ctx, "add-changelog-entry", time.Now(), &err, nil)

	change = strings.TrimSpace(change)
	if change == "" {
		return fmt.Errorf("change description is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Aux.Changelog = append(s.doc.Aux.Changelog, domain.ChangeEntry{
		Date:   s.now().Format("2006-01-02"),
		Change: change,
	})
	s.markDirtyLocked()
	return nil
}

func (s *roadmapService) AddNote(ctx context.Context, table NoteTable, title, description string) (err error) {
	defer s.observe(ctx, "add-note", time.Now(), &err, map[string]any{"table": string(table)})

	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("note title is required")
	}
	note := domain.NoteEntry{Title: title, Description: strings.TrimSpace(description)}

	s.mu.Lock()
	defer s.mu.Unlock()
	switch table {
	case NoteErrors:
		s.doc.Aux.Errors = append(s.doc.Aux.Errors, note)
	case NoteOtherChanges:
		s.doc.Aux.OtherChanges = append(s.doc.Aux.OtherChanges, note)
	default:
		return fmt.Errorf("unknown note table %q (want %s or %s)", table, NoteErrors, NoteOtherChanges)
	}
	s.markDirtyLocked()
	return nil
}

// --- persistence ---

func (s *roadmapService) markDirtyLocked() {
	s.dirty = true
	s.saver.Trigger()
}

func (s *roadmapService) Save(ctx context.Context) (err error) {
	defer s.observe(ctx, "save-roadmap", time.Now(), &err, map[string]any{"document": s.docs.Path()})
	s.saver.Stop()
	return s.write(ctx)
}

func (s *roadmapService) Flush(ctx context.Context) error {
	s.saver.Stop()
	// Wait out an autosave that already fired; it cleared dirty before writing.
	s.saveMu.Lock()
	s.saveMu.Unlock()

	s.mu.Lock()
	dirty := s.dirty
	s.mu.Unlock()
	if !dirty {
		return nil
	}
	return s.write(ctx)
}

func (s *roadmapService) Close() error {
	return s.Flush(context.Background())
}

func (s *roadmapService) autosave() {
	ctx := context.Background()
	started := time.Now()
	err := s.write(ctx)
	s.observe(ctx, "autosave", started, &err, map[string]any{"document": s.docs.Path()})
}

// write serializes the current document and stores it. Writes are
// serialized so an older snapshot never lands after a newer one.
func (s *roadmapService) write(ctx context.Context) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	content := s.markdownLocked()
	rec := domain.SaveRecord{
		Document: s.docs.Path(),
		SavedAt:  s.now().UTC(),
		Bytes:    len(content),
		Phases:   len(s.doc.OrderedPhaseKeys()),
		Items:    s.doc.CountItems(),
	}
	s.dirty = false
	s.mu.Unlock()

	if err := s.docs.Save(ctx, content); err != nil {
		s.mu.Lock()
		s.dirty = true
		s.lastErr = err
		s.mu.Unlock()
		return fmt.Errorf("saving document: %w", err)
	}
	s.mu.Lock()
	s.lastErr = nil
	err := s.syncPhaseKeysLocked(ctx)
	if err != nil {
		s.dirty = true
		s.lastErr = err
	}
	s.mu.Unlock()
	if err != nil {
		return err
	}

	if s.saves != nil {
		if err := s.saves.Append(ctx, &rec); err != nil {
			return fmt.Errorf("recording save: %w", err)
		}
	}
	return nil
}

func (s *roadmapService) cloneSettingsLocked() *config.Settings {
	next := *s.settings
	next.Columns = append(domain.Schema(nil), s.settings.Columns...)
	next.Phases = make(domain.PhaseConfigs, len(s.settings.Phases))
	for k, v := range s.settings.Phases {
		next.Phases[k] = v
	}
	return &next
}

// updateSettingsLocked applies mutate to a copy of the settings, persists
// it and swaps it in only when the write succeeded.
func (s *roadmapService) updateSettingsLocked(ctx context.Context, mutate func(next *config.Settings)) error {
	next := s.cloneSettingsLocked()
	mutate(next)
	if err := s.settingsRepo.Save(ctx, next); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	s.settings = next
	if s.renumbered {
		// The file now uses the new keys; the headings have to follow.
		s.markDirtyLocked()
	}
	return nil
}

// renumberLocked keeps phase keys positional. Configured names and colors
// move with their phases right away; the settings file and stored
// preferences are rewritten with the next document write.
func (s *roadmapService) renumberLocked() {
	renames := s.doc.Renumber()
	if len(renames) == 0 {
		return
	}
	next := s.cloneSettingsLocked()
	next.Phases = renamePhaseConfigs(s.settings.Phases, renames)
	s.settings = next

	origin := make(map[string]string, len(renames)+len(s.prefOrigin))
	for cur, stored := range s.prefOrigin {
		if _, moved := renames[cur]; !moved {
			origin[cur] = stored
		}
	}
	for old, cur := range renames {
		stored, ok := s.prefOrigin[old]
		if !ok {
			stored = old
		}
		origin[cur] = stored
	}
	for cur, stored := range origin {
		if cur == stored {
			delete(origin, cur)
		}
	}
	s.prefOrigin = origin
	s.renumbered = true
}

// syncPhaseKeysLocked persists a pending renumbering once the document
// carrying the new headings is on disk.
func (s *roadmapService) syncPhaseKeysLocked(ctx context.Context) error {
	if !s.renumbered {
		return nil
	}
	if err := s.settingsRepo.Save(ctx, s.cloneSettingsLocked()); err != nil {
		return fmt.Errorf("saving renumbered phases: %w", err)
	}
	if s.prefs != nil && len(s.prefOrigin) > 0 {
		renames := make(map[string]string, len(s.prefOrigin))
		for cur, stored := range s.prefOrigin {
			renames[stored] = cur
		}
		if err := s.prefs.RenamePhases(ctx, s.docs.Path(), renames); err != nil {
			return fmt.Errorf("renaming phase preferences: %w", err)
		}
	}
	s.renumbered = false
	s.prefOrigin = nil
	return nil
}

// renamePhaseConfigs re-keys configs by renames. An unmoved entry sitting on
// a key another phase moved onto belonged to a removed phase and is dropped.
func renamePhaseConfigs(in domain.PhaseConfigs, renames map[string]string) domain.PhaseConfigs {
	out := make(domain.PhaseConfigs, len(in))
	targets := make(map[string]bool, len(renames))
	for _, to := range renames {
		targets[to] = true
	}
	for k, v := range in {
		if to, moved := renames[k]; moved {
			out[to] = v
		} else if !targets[k] {
			out[k] = v
		}
	}
	return out
}
