package windows

import (
	"fmt"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"trackboard/source"
)

// SynthDialog collects the synthetic-generation parameters: track count,
// outlier level and the injection flag.
type SynthDialog struct {
	dialog       dialog.Dialog
	window       fyne.Window
	tracksEntry  *widget.Entry
	levelEntry   *widget.Entry
	injectCheck  *widget.Check
	callback     func(source.Config)
}

// NewSynthDialog creates the dialog, pre-filled from the given config.
func NewSynthDialog(w fyne.Window, cfg source.Config, callback func(source.Config)) *SynthDialog {
	sd := &SynthDialog{
		window:   w,
		callback: callback,
	}

	tracksLabel := widget.NewLabel("Number of tracks:")
	tracksLabel.TextStyle = fyne.TextStyle{Bold: true}
	sd.tracksEntry = widget.NewEntry()
	sd.tracksEntry.SetText(strconv.Itoa(cfg.Tracks))

	levelLabel := widget.NewLabel("Outlier level:")
	levelLabel.TextStyle = fyne.TextStyle{Bold: true}
	sd.levelEntry = widget.NewEntry()
	sd.levelEntry.SetText(strconv.FormatFloat(cfg.OutlierLevel, 'g', -1, 64))

	levelHelp := widget.NewLabel("Scales the random spikes mixed into the trajectories. 0 disables them.")
	levelHelp.TextStyle = fyne.TextStyle{Italic: true}

	sd.injectCheck = widget.NewCheck("Inject fixed outlier segments (detector test data)", nil)
	sd.injectCheck.SetChecked(cfg.InjectOutliers)

	content := container.NewVBox(
		tracksLabel,
		sd.tracksEntry,
		widget.NewSeparator(),
		levelLabel,
		sd.levelEntry,
		levelHelp,
		widget.NewSeparator(),
		sd.injectCheck,
	)

	sd.dialog = dialog.NewCustomConfirm(
		"Generate Synthetic Data",
		"Generate",
		"Cancel",
		content,
		func(confirmed bool) {
			if confirmed {
				sd.handleConfirm(cfg)
			}
		},
		sd.window,
	)
	sd.dialog.Resize(fyne.NewSize(420, 320))
	return sd
}

func (sd *SynthDialog) handleConfirm(cfg source.Config) {
	tracksText := strings.TrimSpace(sd.tracksEntry.Text)
	if tracksText != "" {
		tracks, err := strconv.Atoi(tracksText)
		if err != nil || tracks <= 0 {
			dialog.ShowError(fmt.Errorf("invalid track count: must be a positive number"), sd.window)
			return
		}
		cfg.Tracks = tracks
	}

	levelText := strings.TrimSpace(sd.levelEntry.Text)
	if levelText != "" {
		level, err := strconv.ParseFloat(levelText, 64)
		if err != nil || level < 0 {
			dialog.ShowError(fmt.Errorf("invalid outlier level: must be a non-negative number"), sd.window)
			return
		}
		cfg.OutlierLevel = level
	}

	cfg.InjectOutliers = sd.injectCheck.Checked

	if sd.callback != nil {
		sd.callback(cfg)
	}
}

func (sd *SynthDialog) Show() {
	sd.dialog.Show()
}
