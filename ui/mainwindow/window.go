// Package mainwindow provides the configurator's desktop window.
package mainwindow

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"mime"
	"path/filepath"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"umbrella-configurator/internal/config"
	"umbrella-configurator/internal/configurator"
	"umbrella-configurator/internal/logging"
	"umbrella-configurator/internal/orbit"
	"umbrella-configurator/internal/transform"
	"umbrella-configurator/internal/upload"
)

const (
	stageWidth  = 720
	stageHeight = 720

	prefKeyLastDir = "lastDirectory"
)

// MainWindow is the configurator window. It implements configurator.View.
type MainWindow struct {
	fyne.Window
	app fyne.App
	cfg config.Config

	ctrl *configurator.Controller

	stage       *stage
	variantBtns map[string]*widget.Button
	uploadBtn   *widget.Button
	scale       *widget.Slider
	scaleLabel  *widget.Label
	rotation    *widget.Slider
	rotLabel    *widget.Label
	logoPanel   *fyne.Container
	undoBtn     *widget.Button
	redoBtn     *widget.Button
	resetBtn    *widget.Button
	exportBtn   *widget.Button
	statusBar   *widget.Label

	// syncing is set while the controller pushes a transform into the
	// sliders, so their callbacks do not echo it back.
	mu      sync.Mutex
	syncing bool
}

var _ configurator.View = (*MainWindow)(nil)

// New creates the window. Call Bind once the controller exists.
func New(fyneApp fyne.App, cfg config.Config) *MainWindow {
	win := fyneApp.NewWindow("Umbrella Configurator")

	mw := &MainWindow{
		Window:      win,
		app:         fyneApp,
		cfg:         cfg,
		variantBtns: make(map[string]*widget.Button),
	}
	mw.setupUI()
	mw.setupMenus()
	return mw
}

// Bind connects the window's intents to ctrl.
func (mw *MainWindow) Bind(ctrl *configurator.Controller) {
	mw.ctrl = ctrl
	mw.stage.pointer = ctrl
	mw.SetOnClosed(ctrl.Close)
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.stage = newStage(stageWidth, stageHeight)
	mw.statusBar = widget.NewLabel("Ready")

	// Variant picker
	picker := container.NewHBox(widget.NewLabel("Color:"))
	for _, v := range mw.cfg.Variants {
		id := v.ID
		btn := widget.NewButton(v.Label, func() { mw.onSelectVariant(id) })
		mw.variantBtns[id] = btn
		picker.Add(btn)
	}

	mw.uploadBtn = widget.NewButton("Upload Logo...", mw.onUpload)

	// Logo controls
	lim := transform.Limits{Scale: transform.Range(mw.cfg.Scale), Rotation: transform.Range(mw.cfg.Rotation)}
	def := lim.Default()

	mw.scale = widget.NewSlider(float64(lim.Scale.Min), float64(lim.Scale.Max))
	mw.scale.Step = 1
	mw.scale.SetValue(float64(def.Scale))
	mw.scaleLabel = widget.NewLabel(def.ScaleLabel())
	mw.scale.OnChanged = func(v float64) {
		if mw.ctrl == nil || mw.isSyncing() {
			return
		}
		if st, ok := mw.ctrl.AdjustScale(int(v)); ok {
			mw.scaleLabel.SetText(st.ScaleLabel())
		}
	}
	mw.scale.OnChangeEnded = func(float64) { mw.onCommit() }

	mw.rotation = widget.NewSlider(float64(lim.Rotation.Min), float64(lim.Rotation.Max))
	mw.rotation.Step = 1
	mw.rotation.SetValue(float64(def.Rotation))
	mw.rotLabel = widget.NewLabel(def.RotationLabel())
	mw.rotation.OnChanged = func(v float64) {
		if mw.ctrl == nil || mw.isSyncing() {
			return
		}
		if st, ok := mw.ctrl.AdjustRotation(int(v)); ok {
			mw.rotLabel.SetText(st.RotationLabel())
		}
	}
	mw.rotation.OnChangeEnded = func(float64) { mw.onCommit() }

	mw.undoBtn = widget.NewButton("Undo", mw.onUndo)
	mw.redoBtn = widget.NewButton("Redo", mw.onRedo)
	mw.resetBtn = widget.NewButton("Reset", mw.onReset)
	mw.undoBtn.Disable()
	mw.redoBtn.Disable()

	mw.logoPanel = container.NewVBox(
		widget.NewLabel("Scale"),
		container.NewBorder(nil, nil, nil, mw.scaleLabel, mw.scale),
		widget.NewLabel("Rotation"),
		container.NewBorder(nil, nil, nil, mw.rotLabel, mw.rotation),
		container.NewHBox(mw.undoBtn, mw.redoBtn, mw.resetBtn),
	)
	mw.logoPanel.Hide()

	mw.exportBtn = widget.NewButton("Download Design", mw.onExport)
	mw.exportBtn.Importance = widget.HighImportance

	side := container.NewVBox(
		picker,
		widget.NewSeparator(),
		mw.uploadBtn,
		mw.logoPanel,
		widget.NewSeparator(),
		mw.exportBtn,
	)

	split := container.NewHSplit(side, mw.stage)
	split.SetOffset(0.3)

	content := container.NewBorder(
		nil,                               // top
		container.NewPadded(mw.statusBar), // bottom
		nil,                               // left
		nil,                               // right
		split,                             // center
	)
	mw.SetContent(content)
	mw.Resize(fyne.NewSize(1100, 760))
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Upload Logo...", mw.onUpload),
		fyne.NewMenuItem("Download Design...", mw.onExport),
	)
	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", mw.onUndo),
		fyne.NewMenuItem("Redo", mw.onRedo),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Reset Logo", mw.onReset),
	)
	colorItems := make([]*fyne.MenuItem, 0, len(mw.cfg.Variants))
	for _, v := range mw.cfg.Variants {
		id := v.ID
		colorItems = append(colorItems, fyne.NewMenuItem(v.Label, func() { mw.onSelectVariant(id) }))
	}
	colorMenu := fyne.NewMenu("Color", colorItems...)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, colorMenu))
}

func (mw *MainWindow) isSyncing() bool {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	return mw.syncing
}

func (mw *MainWindow) updateStatus(msg string) {
	mw.statusBar.SetText(msg)
}

func (mw *MainWindow) onSelectVariant(id string) {
	if mw.ctrl == nil {
		return
	}
	done, err := mw.ctrl.SelectVariant(id)
	switch {
	case errors.Is(err, configurator.ErrSameVariant), errors.Is(err, configurator.ErrLocked):
		return
	case err != nil:
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.updateStatus("Switching color...")
	go func() {
		if err := <-done; err != nil {
			if !errors.Is(err, context.Canceled) {
				dialog.ShowError(err, mw.Window)
			}
			return
		}
		mw.updateStatus("Ready")
	}()
}

func (mw *MainWindow) onUpload() {
	if mw.ctrl == nil {
		return
	}
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		mw.saveLastDir(reader.URI().Path())

		data, err := io.ReadAll(reader)
		if err != nil {
			logging.Component("mainwindow").Warn("read logo", "uri", reader.URI().String(), "err", err)
			dialog.ShowInformation("Upload", upload.Message(err), mw.Window)
			return
		}
		name := reader.URI().Name()
		mw.uploadLogo(name, mime.TypeByExtension(filepath.Ext(name)), data)
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".png", ".jpg", ".jpeg"}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) uploadLogo(name, mimeType string, data []byte) {
	done, err := mw.ctrl.UploadLogo(name, mimeType, data)
	if errors.Is(err, configurator.ErrLocked) {
		return
	}
	if err != nil {
		dialog.ShowInformation("Upload", upload.Message(err), mw.Window)
		return
	}
	mw.updateStatus("Loading " + name + "...")
	go func() {
		if err := <-done; err != nil {
			if !errors.Is(err, context.Canceled) {
				dialog.ShowInformation("Upload", upload.Message(err), mw.Window)
			}
			return
		}
		mw.updateStatus("Logo loaded: " + name)
	}()
}

func (mw *MainWindow) onCommit() {
	if mw.ctrl != nil && !mw.isSyncing() {
		mw.ctrl.CommitAdjustment()
	}
}

func (mw *MainWindow) onUndo() {
	if mw.ctrl != nil {
		mw.ctrl.Undo()
	}
}

func (mw *MainWindow) onRedo() {
	if mw.ctrl != nil {
		mw.ctrl.Redo()
	}
}

func (mw *MainWindow) onReset() {
	if mw.ctrl != nil {
		mw.ctrl.Reset()
	}
}

func (mw *MainWindow) onExport() {
	if mw.ctrl == nil {
		return
	}
	exp, err := mw.ctrl.Export()
	if err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		mw.saveLastDir(writer.URI().Path())
		if _, err := writer.Write(exp.Data); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.updateStatus(fmt.Sprintf("Saved %s (%dx%d)", writer.URI().Name(), exp.Width, exp.Height))
	}, mw.Window)
	fd.SetFileName(exp.FileName)
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) saveLastDir(path string) {
	mw.app.Preferences().SetString(prefKeyLastDir, filepath.Dir(path))
}

func (mw *MainWindow) getLastDir() fyne.ListableURI {
	dir := mw.app.Preferences().String(prefKeyLastDir)
	if dir == "" {
		return nil
	}
	lister, err := storage.ListerForURI(storage.NewFileURI(dir))
	if err != nil {
		return nil
	}
	return lister
}

// SetLoading implements configurator.View.
func (mw *MainWindow) SetLoading(loading bool) {
	mw.stage.setLoading(loading)
	for _, btn := range mw.variantBtns {
		setEnabled(btn, !loading)
	}
	setEnabled(mw.uploadBtn, !loading)
	setEnabled(mw.exportBtn, !loading)
}

// SetBaseImage implements configurator.View.
func (mw *MainWindow) SetBaseImage(variant string, img image.Image) {
	mw.stage.setBase(img)
}

// SetTheme implements configurator.View.
func (mw *MainWindow) SetTheme(variant string) {
	v, ok := mw.cfg.Variant(variant)
	if !ok {
		return
	}
	mw.app.Settings().SetTheme(newVariantTheme(v.Accent))
	for id, btn := range mw.variantBtns {
		if id == variant {
			btn.Importance = widget.HighImportance
		} else {
			btn.Importance = widget.MediumImportance
		}
		btn.Refresh()
	}
}

// SetLogo implements configurator.View.
func (mw *MainWindow) SetLogo(img image.Image) {
	mw.stage.setLogo(img)
}

// SetTransform implements configurator.View.
func (mw *MainWindow) SetTransform(st transform.State) {
	mw.mu.Lock()
	mw.syncing = true
	mw.mu.Unlock()

	mw.scale.SetValue(float64(st.Scale))
	mw.rotation.SetValue(float64(st.Rotation))

	mw.mu.Lock()
	mw.syncing = false
	mw.mu.Unlock()

	mw.scaleLabel.SetText(st.ScaleLabel())
	mw.rotLabel.SetText(st.RotationLabel())
	mw.stage.setTransform(st)
}

// SetLogoControls implements configurator.View.
func (mw *MainWindow) SetLogoControls(enabled bool) {
	if enabled {
		mw.logoPanel.Show()
	} else {
		mw.logoPanel.Hide()
	}
}

// SetHistory implements configurator.View.
func (mw *MainWindow) SetHistory(canUndo, canRedo bool) {
	setEnabled(mw.undoBtn, canUndo)
	setEnabled(mw.redoBtn, canRedo)
}

// SetOrbit implements configurator.View.
func (mw *MainWindow) SetOrbit(a orbit.Angles) {
	mw.stage.setOrbit(a)
}

func setEnabled(btn *widget.Button, enabled bool) {
	if enabled {
		btn.Enable()
	} else {
		btn.Disable()
	}
}
