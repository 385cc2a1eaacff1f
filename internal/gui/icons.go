package gui

import (
	"context"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"github.com/keagan/mpvdeck/internal/icons"
)

// Resource wraps an encoded icon variant for fyne widgets
func Resource(img icons.Image) fyne.Resource {
	return fyne.NewStaticResource(img.Name, img.PNG)
}

// darkTheme reports whether the app currently renders the dark variant
func darkTheme(a fyne.App) bool {
	return a.Settings().ThemeVariant() == theme.VariantDark
}

// iconSetter swaps button icons once the cache has them, picking the
// variant for the theme in effect at each load
type iconSetter struct {
	logger zerolog.Logger
	cache  *icons.Cache
	dark   func() bool
	apply  func(btn *widget.Button, res fyne.Resource)

	mu      sync.Mutex
	buttons map[*widget.Button]icons.Key
}

func newIconSetter(logger zerolog.Logger, cache *icons.Cache, dark func() bool) *iconSetter {
	return &iconSetter{
		logger: logger,
		cache:  cache,
		dark:   dark,
		apply: func(btn *widget.Button, res fyne.Resource) {
			fyne.Do(func() {
				btn.SetIcon(res)
			})
		},
		buttons: make(map[*widget.Button]icons.Key),
	}
}

// watch reloads every icon whenever the app settings change
func (s *iconSetter) watch(ctx context.Context, a fyne.App) {
	changes := make(chan fyne.Settings, 1)
	a.Settings().AddChangeListener(changes)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-changes:
				s.refresh(ctx)
			}
		}
	}()
}

// set remembers key for btn and loads it in the background
func (s *iconSetter) set(ctx context.Context, btn *widget.Button, key icons.Key) {
	s.mu.Lock()
	s.buttons[btn] = key
	s.mu.Unlock()

	dark := s.dark()
	go func() {
		img, err := s.cache.Get(ctx, key, dark)
		if err != nil {
			s.logger.Warn().Err(err).Str("icon", string(key)).Msg("keeping text button")
			return
		}
		s.apply(btn, Resource(img))
	}()
}

// refresh reapplies the current icon of every button
func (s *iconSetter) refresh(ctx context.Context) {
	s.mu.Lock()
	current := make(map[*widget.Button]icons.Key, len(s.buttons))
	for btn, key := range s.buttons {
		current[btn] = key
	}
	s.mu.Unlock()

	for btn, key := range current {
		s.set(ctx, btn, key)
	}
}
