package store

import "context"

// Theme reports whether the dark theme is selected.
func (s *Store) Theme() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dark
}

// SetTheme selects the dark or light theme and persists the choice.
func (s *Store) SetTheme(ctx context.Context, dark bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setThemeLocked(ctx, dark)
}

// ToggleTheme switches between dark and light and returns the new value.
func (s *Store) ToggleTheme(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setThemeLocked(ctx, !s.dark)
	return s.dark
}

func (s *Store) setThemeLocked(ctx context.Context, dark bool) {
	s.dark = dark
	s.themeErr = s.adapter.SaveTheme(ctx, dark)
	if s.themeErr != nil {
		s.warnPersist("save theme", s.themeErr)
	}
	s.events.ThemeChanged(dark)
}
