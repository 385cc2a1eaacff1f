package gui

import (
	"context"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"github.com/keagan/mpvdeck/internal/ffmpeg"
	"github.com/keagan/mpvdeck/internal/icons"
	"github.com/keagan/mpvdeck/pkg/util"
)

var mediaExtensions = []string{".mp4", ".mov", ".mkv", ".webm", ".mp3", ".flac", ".ogg"}

// positionText renders "position / duration" for the seek label
func positionText(positionMs, durationMs float64) string {
	return fmt.Sprintf("%s / %s", util.MsToTime(positionMs, false), util.MsToTime(durationMs, false))
}

// RunGUI opens the player window and blocks until it is closed.
// prober may be nil, in which case durations are not shown.
func RunGUI(ctx context.Context, logger zerolog.Logger, cache *icons.Cache, prober *ffmpeg.Prober) {
	logger = logger.With().Str("component", "gui").Logger()

	a := app.NewWithID("mpvdeck")
	w := a.NewWindow("mpvdeck")
	w.Resize(fyne.NewSize(600, 200))

	setter := newIconSetter(logger, cache, func() bool { return darkTheme(a) })
	setter.watch(ctx, a)

	var durationMs float64
	mediaLabel := widget.NewLabel("No media loaded")
	positionLabel := widget.NewLabel(positionText(0, 0))
	slider := widget.NewSlider(0, 1)
	slider.OnChanged = func(val float64) {
		positionLabel.SetText(positionText(val, durationMs))
	}

	playing := false
	playButton := widget.NewButton("Play", nil)
	playButton.OnTapped = func() {
		playing = !playing
		key := icons.Key("play_arrow")
		if playing {
			key = "pause"
		}
		setter.set(ctx, playButton, key)
	}
	stopButton := widget.NewButton("Stop", func() {
		playing = false
		slider.SetValue(0)
		setter.set(ctx, playButton, "play_arrow")
	})

	loadButton := widget.NewButton("Open", func() {
		fd := dialog.NewFileOpen(func(ur fyne.URIReadCloser, err error) {
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			if ur == nil {
				return
			}
			defer ur.Close()

			path := ur.URI().Path()
			mediaLabel.SetText(path)
			logger.Info().Str("media", path).Msg("media loaded")

			if prober == nil {
				return
			}
			go func() {
				info, err := prober.Probe(ctx, path)
				if err != nil {
					logger.Warn().Err(err).Str("media", path).Msg("probe failed")
					return
				}
				fyne.Do(func() {
					durationMs = float64(info.Duration.Milliseconds())
					slider.Max = durationMs
					slider.Step = 1000
					slider.SetValue(0)
					positionLabel.SetText(positionText(0, durationMs))
				})
			}()
		}, w)
		fd.SetFilter(storage.NewExtensionFileFilter(mediaExtensions))
		fd.Show()
	})

	setter.set(ctx, playButton, "play_arrow")
	setter.set(ctx, stopButton, "stop")
	setter.set(ctx, loadButton, "folder_open")

	w.SetContent(
		container.NewVBox(
			mediaLabel,
			slider,
			positionLabel,
			container.NewHBox(loadButton, playButton, stopButton),
		),
	)

	w.ShowAndRun()
}
