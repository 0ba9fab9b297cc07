package registry

import (
	"cmp"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"taglog/internal/logging"
	"taglog/internal/textutil"
)

// Entry is one identifier and its display name.
type Entry struct {
	TagID string
	Name  string
}

// Registry provides thread-safe access to the identifier to name mapping.
type Registry struct {
	path   string
	logger *slog.Logger

	mu    sync.RWMutex
	names map[string]string
}

// Open loads the registry stored at path.
func Open(path string, logger *slog.Logger) (*Registry, error) {
	logger = logging.NewComponentLogger(logger, "registry")

	names, err := Load(path)
	if err != nil {
		return nil, err
	}

	logger.Debug("loaded tag registry",
		logging.Int("entry_count", len(names)),
		logging.String("path", path))

	return &Registry{path: path, logger: logger, names: names}, nil
}

// Path returns the backing file location.
func (r *Registry) Path() string {
	return r.path
}

// Get returns the display name registered for id. Identifiers match exactly.
func (r *Registry) Get(id string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.names[id]
	return name, ok
}

// Set registers or overwrites the display name for id and persists the change.
func (r *Registry) Set(id, name string) error {
	if err := validate(id, name); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.commit(func(next map[string]string) { next[id] = name }); err != nil {
		return err
	}
	r.logger.Info("registered tag",
		logging.String(logging.FieldTagID, id),
		logging.String("name", name))
	return nil
}

// Rename changes the display name of an already registered id.
func (r *Registry) Rename(id, name string) error {
	if err := validate(id, name); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	previous, ok := r.names[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err := r.commit(func(next map[string]string) { next[id] = name }); err != nil {
		return err
	}
	r.logger.Info("renamed tag",
		logging.String(logging.FieldTagID, id),
		logging.String("previous_name", previous),
		logging.String("name", name))
	return nil
}

// Remove deletes id from the registry and persists the change.
func (r *Registry) Remove(id string) error {
	if id == "" {
		return fmt.Errorf("%w: tag id cannot be empty", ErrValidation)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.names[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err := r.commit(func(next map[string]string) { delete(next, id) }); err != nil {
		return err
	}
	r.logger.Info("removed tag", logging.String(logging.FieldTagID, id))
	return nil
}

// List returns all entries in alphabetical name order, then by identifier.
func (r *Registry) List() []Entry {
	r.mu.RLock()
	entries := make([]Entry, 0, len(r.names))
	for id, name := range r.names {
		entries = append(entries, Entry{TagID: id, Name: name})
	}
	r.mu.RUnlock()

	byName := textutil.NameComparer()
	slices.SortFunc(entries, func(a, b Entry) int {
		return cmp.Or(
			byName(a.Name, b.Name),
			cmp.Compare(a.Name, b.Name),
			cmp.Compare(a.TagID, b.TagID),
		)
	})
	return entries
}

// Len returns the number of registered identifiers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.names)
}

// commit applies mutate to a copy of the mapping, saves the copy, and only
// then swaps it in. Callers hold r.mu.
func (r *Registry) commit(mutate func(map[string]string)) error {
	next := maps.Clone(r.names)
	if next == nil {
		next = map[string]string{}
	}
	mutate(next)
	if err := Save(r.path, next); err != nil {
		logging.ErrorWithContext(r.logger, "failed to persist tag registry", "registry_save_failed",
			logging.Error(err),
			logging.String("path", r.path),
			logging.String(logging.FieldErrorHint, "check permissions and free space for the registry file"))
		return err
	}
	r.names = next
	return nil
}

// validate only rejects empty values. Both strings are stored as given.
func validate(id, name string) error {
	if id == "" {
		return fmt.Errorf("%w: tag id cannot be empty", ErrValidation)
	}
	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrValidation)
	}
	return nil
}
