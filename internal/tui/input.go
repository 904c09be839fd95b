package tui

import (
	"fmt"

	"github.com/jesseduffield/gocui"
)

const prompt = "> "

type inputEditor struct {
	ui *UI
}

func (e *inputEditor) Edit(view *gocui.View, key gocui.Key, ch rune, mod gocui.Modifier) bool {
	ui := e.ui
	if ui == nil || view == nil || ui.closing {
		return false
	}

	ui.input = applyKey(ui.input, key, ch, mod)
	ui.renderInput(view)
	return true
}

// applyKey returns the input buffer after one key press.
func applyKey(value string, key gocui.Key, ch rune, mod gocui.Modifier) string {
	switch key {
	case gocui.KeyBackspace, gocui.KeyBackspace2:
		runes := []rune(value)
		if len(runes) > 0 {
			value = string(runes[:len(runes)-1])
		}
	case gocui.KeySpace:
		value += " "
	case gocui.KeyCtrlU:
		value = ""
	}

	if ch != 0 && ch != '\n' && ch != '\r' && mod == gocui.ModNone {
		value += string(ch)
	}
	return value
}

func (u *UI) renderInput(view *gocui.View) {
	if view == nil {
		return
	}
	view.Clear()
	fmt.Fprint(view, prompt+u.input)
	view.SetCursor(len([]rune(prompt+u.input)), 0)
}
