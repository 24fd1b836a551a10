package windows

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"trackboard/analysis"
	"trackboard/arbiter"
	"trackboard/normalize"
	"trackboard/source"
	"trackboard/tabular"
)

// canonicalHeaders are the column titles of the data tab.
var canonicalHeaders = [4]string{"ID", "TIME", "MEAS", "FOV"}

// Options configures the dashboard at startup.
type Options struct {
	// PreloadFile, when set, is loaded as the file source before the
	// window shows.
	PreloadFile string
	// Tracks overrides the default synthetic track count.
	Tracks int
}

// MainWindow is the dashboard: it owns the two sources, the arbitration
// controller, the mapping panel and the consumer tabs.
type MainWindow struct {
	a         fyne.App
	w         fyne.Window
	top       fyne.CanvasObject
	left      fyne.CanvasObject
	bottom    fyne.CanvasObject
	statusBar *widget.Label
	tabs      *container.AppTabs

	loader  *source.FileLoader
	genCfg  source.Config
	arb     *arbiter.Controller
	mapping *MappingPanel

	// published is the snapshot the data table widget renders from; it is
	// only replaced on the UI thread in refreshConsumers.
	published  *tabular.CanonicalTable
	dataTable  *widget.Table
	heatmapImg *canvas.Image
	outlierImg *canvas.Image

	log *logrus.Entry
}

// CreateMainWindow builds the dashboard.
func CreateMainWindow(opts Options) *MainWindow {
	var v MainWindow
	v.newMainWindow(opts)
	return &v
}

// Run shows the window and enters the Fyne main loop.
func (t *MainWindow) Run() {
	t.w.ShowAndRun()
}

// SetStatus updates the status bar message
func (t *MainWindow) SetStatus(message string) {
	if t.statusBar != nil {
		t.statusBar.SetText(message)
	}
}

func (t *MainWindow) newMainWindow(opts Options) {
	t.log = logrus.WithField("component", "ui")
	t.a = app.NewWithID("trackboard")
	t.a.Settings().SetTheme(&CustomTheme{})
	t.w = t.a.NewWindow("Trackboard")
	t.w.Resize(fyne.NewSize(1100, 720))

	t.loader = source.NewFileLoader()
	t.genCfg = source.DefaultConfig()
	if opts.Tracks > 0 {
		t.genCfg.Tracks = opts.Tracks
	}

	t.mapping = NewMappingPanel(t.onMappingChanged)

	t.arb = arbiter.New(
		func() *tabular.Table { return t.loader.Table() },
		func() (*tabular.Table, error) { return source.NewGenerator(t.genCfg).Generate() },
		func() normalize.Selection { return t.mapping.Selection() },
		nil,
	)

	// Create status bar
	t.statusBar = widget.NewLabel("Ready")
	t.statusBar.TextStyle = fyne.TextStyle{Italic: true}
	t.bottom = container.NewHBox(t.statusBar)

	t.buildTabs()

	t.left = container.NewGridWrap(fyne.NewSize(230, 720), container.NewVScroll(t.mapping.Container()))

	toolbar := widget.NewToolbar(
		widget.NewToolbarAction(theme.MenuIcon(), func() {
			if !t.left.Visible() {
				t.left.Show()
			} else {
				t.left.Hide()
			}
		}),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.FolderOpenIcon(), t.openFile),
		widget.NewToolbarAction(theme.MediaPlayIcon(), t.generate),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.DownloadIcon(), t.showExportMenu),
	)
	t.top = toolbar

	c := container.NewBorder(t.top, t.bottom, t.left, nil, widget.NewCard("", "", t.tabs))
	t.w.SetContent(c)

	if opts.PreloadFile != "" {
		t.loadDataFile(opts.PreloadFile)
	}
}

func (t *MainWindow) buildTabs() {
	t.dataTable = widget.NewTable(
		func() (int, int) {
			if t.published == nil {
				return 1, len(canonicalHeaders)
			}
			return t.published.NumRows() + 1, len(canonicalHeaders)
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("template")
		},
		func(id widget.TableCellID, co fyne.CanvasObject) {
			label := co.(*widget.Label)
			if id.Row == 0 {
				label.TextStyle = fyne.TextStyle{Bold: true}
				label.SetText(canonicalHeaders[id.Col])
				return
			}
			label.TextStyle = fyne.TextStyle{}
			if t.published == nil || id.Row-1 >= t.published.NumRows() {
				label.SetText("")
				return
			}
			r := t.published.Rows[id.Row-1]
			switch id.Col {
			case 0:
				label.SetText(r.ID)
			case 1:
				label.SetText(strconv.FormatFloat(r.Time, 'g', -1, 64))
			case 2:
				label.SetText(strconv.FormatFloat(r.Meas, 'g', 6, 64))
			case 3:
				label.SetText(r.FOV)
			}
		},
	)
	for i := range canonicalHeaders {
		t.dataTable.SetColumnWidth(i, 140)
	}

	t.heatmapImg = canvas.NewImageFromImage(blank(900, 600))
	t.heatmapImg.FillMode = canvas.ImageFillContain
	t.outlierImg = canvas.NewImageFromImage(blank(900, 600))
	t.outlierImg.FillMode = canvas.ImageFillContain

	t.tabs = container.NewAppTabs(
		container.NewTabItem("Data", widget.NewCard("", "Canonical Table", t.dataTable)),
		container.NewTabItem("Heatmap", widget.NewCard("", "Clustered Heatmap", t.heatmapImg)),
		container.NewTabItem("Outliers", widget.NewCard("", "Rolling-Window Outliers", t.outlierImg)),
	)
}

func (t *MainWindow) openFile() {
	fd := NewDataFileDialog(t.w, func(path string, err error) {
		if err != nil {
			t.SetStatus("Error selecting file")
			dialog.ShowError(err, t.w)
			return
		}
		t.loadDataFile(path)
	})
	fd.Show()
}

func (t *MainWindow) loadDataFile(path string) {
	t.SetStatus("Loading file: " + filepath.Base(path))
	tbl, err := t.loader.Load(path)
	if err != nil {
		t.SetStatus("Error loading file: " + err.Error())
		dialog.ShowError(err, t.w)
		return
	}
	if tbl == nil {
		return
	}

	t.mapping.SetColumns(tabular.Columns(tbl))
	t.arb.Bump(arbiter.SourceFile)
	t.recompute()
	t.SetStatus(fmt.Sprintf("Loaded %s (%d rows, %d columns)",
		filepath.Base(path), tbl.NumRows(), tbl.NumCols()))
}

func (t *MainWindow) generate() {
	NewSynthDialog(t.w, t.genCfg, func(cfg source.Config) {
		t.genCfg = cfg
		t.arb.Bump(arbiter.SourceSynthetic)
		t.recompute()
	}).Show()
}

// recompute runs one arbitration pass and refreshes the consumer tabs
// when a table was published.
func (t *MainWindow) recompute() {
	src, err := t.arb.Recompute()
	if errors.Is(err, arbiter.ErrNoTrigger) {
		return
	}
	if err != nil {
		t.surfaceMappingError(err)
		return
	}
	t.refreshConsumers(src)
}

// onMappingChanged re-projects the live file source under the new column
// selection. No trigger counter moves; the scope is exactly "remap the
// current winner".
func (t *MainWindow) onMappingChanged() {
	if err := t.arb.Remap(); err != nil {
		t.surfaceMappingError(err)
		return
	}
	t.refreshConsumers(arbiter.SourceFile)
}

// surfaceMappingError turns a mapping failure into UI feedback. Missing
// columns are the normal state while the user is still picking selectors,
// so they only reach the status bar; everything else gets a dialog too.
func (t *MainWindow) surfaceMappingError(err error) {
	if errors.Is(err, normalize.ErrColumnMissing) {
		t.SetStatus("Waiting for column mapping: " + err.Error())
		return
	}
	t.SetStatus("Error: " + err.Error())
	dialog.ShowError(err, t.w)
}

func (t *MainWindow) refreshConsumers(src arbiter.Source) {
	ct := t.arb.Published()
	if ct == nil {
		return
	}
	t.published = ct
	t.dataTable.Refresh()

	den := analysis.Cluster(ct, 64)
	t.heatmapImg.Image = renderHeatmap(ct, den, 900, 600)
	t.heatmapImg.Refresh()

	res := analysis.RollingOutliers(ct, analysis.DefaultRollingConfig())
	t.outlierImg.Image = renderOutlierChart(ct, res, 900, 600)
	t.outlierImg.Refresh()

	t.SetStatus(fmt.Sprintf("Published %d rows from %s source (%d tracks)",
		ct.NumRows(), src, len(ct.IDs())))
}

func (t *MainWindow) showExportMenu() {
	exportMenu := fyne.NewMenu("",
		fyne.NewMenuItem("Export CSV...", func() { t.exportData(FormatCSV) }),
		fyne.NewMenuItem("Export Parquet...", func() { t.exportData(FormatParquet) }),
		fyne.NewMenuItem("Export JSON...", func() { t.exportData(FormatJSON) }),
	)
	widget.ShowPopUpMenuAtPosition(exportMenu, t.w.Canvas(), fyne.NewPos(140, 40))
}

// exportData handles the export of the published table to different formats.
func (t *MainWindow) exportData(format ExportFormat) {
	ct := t.arb.Published()
	if ct == nil {
		dialog.ShowInformation("Nothing to Export", "No canonical table has been published yet", t.w)
		return
	}

	var ext string
	switch format {
	case FormatParquet:
		ext = ".parquet"
	case FormatCSV:
		ext = ".csv"
	case FormatJSON:
		ext = ".json"
	}

	saveDialog := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, t.w)
			return
		}
		if writer == nil {
			// User cancelled
			return
		}
		filePath := writer.URI().Path()
		writer.Close()

		var exportErr error
		switch format {
		case FormatParquet:
			exportErr = ExportToParquet(ct, filePath)
		case FormatCSV:
			exportErr = ExportToCSV(ct, filePath)
		case FormatJSON:
			exportErr = ExportToJSON(ct, filePath)
		}

		if exportErr != nil {
			dialog.ShowError(fmt.Errorf("export failed: %w", exportErr), t.w)
		} else {
			dialog.ShowInformation("Export Successful",
				fmt.Sprintf("Data exported successfully to:\n%s", filePath), t.w)
		}
	}, t.w)

	saveDialog.SetFileName(cleanFilename("canonical_table") + ext)
	saveDialog.Show()
}
