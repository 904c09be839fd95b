package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	goerrors "github.com/go-errors/errors"
	"github.com/jesseduffield/gocui"
	"go.uber.org/zap"

	"github.com/jrchoo/ip/internal/command"
	"github.com/jrchoo/ip/internal/logger"
	"github.com/jrchoo/ip/internal/model"
)

const (
	viewHeader = "header"
	viewFooter = "footer"
	viewDialog = "dialog"
	viewTasks  = "tasks"
	viewInput  = "input"
	viewHelp   = "help"
)

// farewellDelay is how long the farewell stays on screen before the window
// closes.
const farewellDelay = 800 * time.Millisecond

type UI struct {
	handler command.Handler
	gui     *gocui.Gui

	dialog      []entry
	tasks       []model.Task
	input       string
	inputEditor *inputEditor
	helpActive  bool
	closing     bool
	status      string
}

func Run(handler command.Handler) error {
	gui, err := gocui.NewGui(gocui.NewGuiOpts{OutputMode: gocui.OutputNormal})
	if err != nil {
		return err
	}
	defer gui.Close()

	ui := newUI(handler)
	ui.gui = gui
	gui.Mouse = true
	gui.Cursor = true

	gui.SetManagerFunc(ui.layout)
	if err := ui.bindKeys(gui); err != nil {
		return err
	}

	if err := gui.MainLoop(); err != nil && err != gocui.ErrQuit {
		return err
	}

	return nil
}

func newUI(handler command.Handler) *UI {
	ui := &UI{handler: handler}
	ui.inputEditor = &inputEditor{ui: ui}
	ui.dialog = append(ui.dialog, entry{speaker: speakerGideon, text: command.MessageGreeting})
	ui.tasks = handler.Tasks()
	return ui
}

func (u *UI) bindKeys(gui *gocui.Gui) error {
	if err := gui.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone, u.quit); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", gocui.KeyF1, gocui.ModNone, u.toggleHelp); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewInput, gocui.KeyEnter, gocui.ModNone, u.submitInput); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewInput, gocui.KeyPgup, gocui.ModNone, u.scrollDialogUp); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewInput, gocui.KeyPgdn, gocui.ModNone, u.scrollDialogDown); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewHelp, gocui.KeyEsc, gocui.ModNone, u.closeHelp); err != nil {
		return err
	}
	for _, name := range []string{viewDialog, viewTasks} {
		if err := gui.SetKeybinding(name, gocui.MouseWheelUp, gocui.ModNone, u.scrollUp); err != nil {
			return err
		}
		if err := gui.SetKeybinding(name, gocui.MouseWheelDown, gocui.ModNone, u.scrollDown); err != nil {
			return err
		}
	}
	return nil
}

func (u *UI) layout(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	if maxX <= 0 || maxY <= 0 {
		return nil
	}
	u.tasks = u.handler.Tasks()

	headerView, err := gui.SetView(viewHeader, 0, 0, maxX-1, 0, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	headerView.Frame = false
	headerView.FgColor = gocui.ColorDefault
	u.renderHeader(headerView)

	footerY1 := maxY - 1
	footerY0 := max(footerY1-1, 1)
	footerView, err := gui.SetView(viewFooter, 0, footerY0, maxX-1, footerY1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	footerView.Frame = false
	footerView.Wrap = true
	footerView.FgColor = gocui.ColorDefault | gocui.AttrDim
	u.renderFooter(footerView)

	inputY1 := footerY0 - 1
	inputY0 := max(inputY1-2, 1)
	inputView, err := gui.SetView(viewInput, 0, inputY0, maxX-1, inputY1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		inputView.Title = "Say something"
		inputView.TitleColor = gocui.ColorCyan
	}
	inputView.Editable = !u.closing
	inputView.Editor = u.inputEditor
	inputView.FrameColor = gocui.ColorCyan
	u.renderInput(inputView)

	bodyTop := 1
	bodyBottom := inputY0 - 1
	if bodyBottom <= bodyTop {
		return nil
	}
	dialogX1, tasksX0 := splitBody(maxX)

	dialogView, err := gui.SetView(viewDialog, 0, bodyTop, dialogX1, bodyBottom, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		dialogView.Title = "Gideon"
		dialogView.Wrap = true
		dialogView.Autoscroll = true
	}
	u.renderDialog(dialogView)

	tasksView, err := gui.SetView(viewTasks, tasksX0, bodyTop, maxX-1, bodyBottom, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		tasksView.Wrap = true
	}
	tasksView.Title = fmt.Sprintf("Tasks (%d)", len(u.tasks))
	u.renderTasks(tasksView)

	if u.helpActive {
		if err := u.showHelp(gui); err != nil {
			return err
		}
	} else {
		_ = gui.DeleteView(viewHelp)
		_, _ = gui.SetCurrentView(viewInput)
	}

	return nil
}

// splitBody gives the dialog two thirds of the width and the task list the
// rest.
func splitBody(width int) (dialogX1, tasksX0 int) {
	dialogX1 = max(width*2/3, 20)
	if dialogX1 >= width-2 {
		dialogX1 = width - 2
	}
	return dialogX1, dialogX1 + 1
}

func (u *UI) renderHeader(view *gocui.View) {
	view.Clear()
	done := 0
	for _, task := range u.tasks {
		if task.Done {
			done++
		}
	}
	fmt.Fprintf(view, "Gideon | %d tasks | %d done | F1 help", len(u.tasks), done)
}

func (u *UI) renderFooter(view *gocui.View) {
	view.Clear()
	fmt.Fprintln(view, "enter send | pgup/pgdn scroll | ctrl+u clear | F1 help | ctrl+c quit")
	if u.status != "" {
		fmt.Fprint(view, u.status)
	}
}

func (u *UI) renderDialog(view *gocui.View) {
	view.Clear()
	for _, item := range u.dialog {
		for _, line := range formatEntry(item) {
			fmt.Fprintln(view, line)
		}
		fmt.Fprintln(view)
	}
}

func (u *UI) renderTasks(view *gocui.View) {
	view.Clear()
	if len(u.tasks) == 0 {
		fmt.Fprint(view, command.MessageEmptyList)
		return
	}
	for i, task := range u.tasks {
		fmt.Fprintf(view, "%d.%s\n", i+1, task.Render())
	}
}

func (u *UI) submitInput(gui *gocui.Gui, view *gocui.View) error {
	if u.closing {
		return nil
	}
	line := strings.TrimSpace(u.input)
	u.input = ""
	u.renderInput(view)
	if line == "" {
		return nil
	}

	exit, err := u.handleLine(line)
	if err != nil {
		return err
	}
	if exit {
		u.closing = true
		go func() {
			time.Sleep(farewellDelay)
			gui.Update(func(*gocui.Gui) error {
				return gocui.ErrQuit
			})
		}()
	}
	return nil
}

// handleLine sends one line to the interpreter and records the exchange.
// It reports whether the session should end.
func (u *UI) handleLine(line string) (bool, error) {
	u.dialog = append(u.dialog, entry{speaker: speakerUser, text: line})

	resp, err := u.handler.Interpret(context.Background(), line)
	if err != nil {
		logger.Error("interpret failed", err, zap.String("input", line))
		return false, err
	}

	u.dialog = append(u.dialog, entry{speaker: speakerGideon, text: resp.Text, failed: resp.Err != nil})
	u.tasks = u.handler.Tasks()

	switch {
	case resp.Err != nil:
		u.status = resp.Err.Error()
	case resp.Kind.Mutates():
		u.status = fmt.Sprintf("saved %d tasks", len(u.tasks))
	default:
		u.status = ""
	}
	return resp.Exit, nil
}

func (u *UI) scrollDialogUp(gui *gocui.Gui, _ *gocui.View) error {
	view, err := gui.View(viewDialog)
	if err != nil {
		return nil
	}
	view.Autoscroll = false
	view.ScrollUp(5)
	return nil
}

func (u *UI) scrollDialogDown(gui *gocui.Gui, _ *gocui.View) error {
	view, err := gui.View(viewDialog)
	if err != nil {
		return nil
	}
	view.ScrollDown(5)
	return nil
}

func (u *UI) scrollUp(gui *gocui.Gui, view *gocui.View) error {
	if view == nil {
		return nil
	}
	view.Autoscroll = false
	view.ScrollUp(1)
	return nil
}

func (u *UI) scrollDown(gui *gocui.Gui, view *gocui.View) error {
	if view == nil {
		return nil
	}
	view.ScrollDown(1)
	return nil
}

func (u *UI) toggleHelp(gui *gocui.Gui, _ *gocui.View) error {
	u.helpActive = !u.helpActive
	return nil
}

func (u *UI) closeHelp(gui *gocui.Gui, _ *gocui.View) error {
	u.helpActive = false
	_ = gui.DeleteView(viewHelp)
	_, _ = gui.SetCurrentView(viewInput)
	return nil
}

func (u *UI) showHelp(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	width := min(max(50, maxX/2), maxX-2)
	height := min(16, maxY-2)
	x0 := (maxX - width) / 2
	y0 := (maxY - height) / 2

	view, err := gui.SetView(viewHelp, x0, y0, x0+width, y0+height, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		view.Title = "Help (esc to close)"
		view.Wrap = true
	}
	view.Clear()
	fmt.Fprint(view, helpText())
	_, _ = gui.SetViewOnTop(viewHelp)
	_, _ = gui.SetCurrentView(viewHelp)
	return nil
}

func (u *UI) quit(_ *gocui.Gui, _ *gocui.View) error {
	return gocui.ErrQuit
}

func helpText() string {
	return strings.Join([]string{
		"Commands:",
		"  todo <description>",
		"  deadline <description> /by <when>",
		"  event <description> /from <start> /to <end>",
		"  list | find <keyword>",
		"  mark <n> | unmark <n> | delete <n>",
		"  bye",
		"",
		"Dates written as YYYY-MM-DD (optionally HHMM) are shown as Oct 15 2019.",
		"",
		"Keys:",
		"  enter send | pgup/pgdn scroll the dialog",
		"  ctrl+u clear input | F1 help | ctrl+c quit",
	}, "\n")
}
