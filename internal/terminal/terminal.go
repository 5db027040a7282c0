// Package terminal is the in-game command bar drawn over the raylib scene.
package terminal

import (
	"strings"
	"unicode/utf8"

	rl "github.com/gen2brain/raylib-go/raylib"

	"sphere-trail/internal/commands"
	"sphere-trail/internal/logger"
)

const (
	BarHeight = 40
	// WindowedBarOffset lifts the bar in windowed mode so the taskbar does not hide it.
	WindowedBarOffset = 56
	prompt            = "> "
	fontSize          = 20
	padding           = 8
	maxLinesOnScreen  = 14
	lineHeight        = fontSize + 4
	maxLineLen        = 200
	noticeFrames      = 180
)

var (
	termBarColor    = rl.NewColor(40, 40, 40, 255)
	termLineColor   = rl.NewColor(80, 80, 80, 255)
	termChatBgColor = rl.NewColor(24, 24, 24, 240)
	noticeColor     = rl.NewColor(255, 200, 60, 255)
)

// Terminal is the command bar at the bottom of the screen, toggled with ESC.
// While it is open it captures the keyboard and the player keys are not forwarded.
// Lines starting with "cmd " go to the command registry; anything else is echoed with a hint.
type Terminal struct {
	log      *logger.Logger
	reg      *commands.Registry
	inputBuf string
	open     bool

	notice       string
	noticeFrames int
}

// New returns a closed terminal that logs to log and runs commands through reg.
func New(log *logger.Logger, reg *commands.Registry) *Terminal {
	return &Terminal{log: log, reg: reg}
}

// IsOpen reports whether the terminal is capturing input.
func (t *Terminal) IsOpen() bool {
	return t.open
}

// Notify logs msg and flashes it on screen even while the terminal is closed.
func (t *Terminal) Notify(msg string) {
	t.log.Warn().Msg(msg)
	t.notice = msg
	t.noticeFrames = noticeFrames
}

// Say logs a command reply.
func (t *Terminal) Say(msg string) {
	t.log.Log(msg)
}

// Submit runs one input line as if it were typed and entered.
func (t *Terminal) Submit(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	t.log.Log(prompt + line)
	args, isCmd := commands.Parse(line)
	if !isCmd {
		t.log.Log(`not a command; try "cmd help"`)
		return
	}
	if err := t.reg.Execute(args); err != nil {
		t.log.Log(err.Error())
	}
}

// Update handles ESC and, while open, typing, paste, backspace and enter. Call once per frame.
func (t *Terminal) Update() {
	if t.noticeFrames > 0 {
		t.noticeFrames--
	}
	if rl.IsKeyPressed(rl.KeyEscape) {
		t.open = !t.open
	}
	if !t.open {
		return
	}
	ctrl := rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl) ||
		rl.IsKeyDown(rl.KeyLeftSuper) || rl.IsKeyDown(rl.KeyRightSuper)
	if ctrl && rl.IsKeyPressed(rl.KeyV) {
		t.inputBuf += rl.GetClipboardText()
	} else {
		for c := rl.GetCharPressed(); c != 0; c = rl.GetCharPressed() {
			t.inputBuf += string(rune(c))
		}
	}
	if rl.IsKeyPressed(rl.KeyBackspace) && len(t.inputBuf) > 0 {
		_, size := utf8.DecodeLastRuneInString(t.inputBuf)
		t.inputBuf = t.inputBuf[:len(t.inputBuf)-size]
	}
	if rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeyKpEnter) {
		line := t.inputBuf
		t.inputBuf = ""
		t.Submit(line)
	}
}

func drawText(text string, x, y int32, color rl.Color) {
	if len(text) > maxLineLen {
		text = text[:maxLineLen-3] + "..."
	}
	rl.DrawText(text, x, y, fontSize, color)
}

// Draw draws the last notice, and when open the recent log lines and the input bar.
func (t *Terminal) Draw() {
	screenW := rl.GetScreenWidth()
	screenH := rl.GetScreenHeight()
	if t.noticeFrames > 0 && t.notice != "" {
		w := rl.MeasureText(t.notice, fontSize)
		drawText(t.notice, (int32(screenW)-w)/2, padding, noticeColor)
	}
	if !t.open {
		return
	}

	barY := screenH - BarHeight
	if !rl.IsWindowFullscreen() {
		barY -= WindowedBarOffset
	}
	chatHeight := maxLinesOnScreen * lineHeight
	chatY := barY - chatHeight
	if chatY < 0 {
		chatHeight = barY
		chatY = 0
	}
	if chatHeight > 0 {
		rl.DrawRectangle(0, int32(chatY), int32(screenW), int32(chatHeight), termChatBgColor)
	}
	lines := t.log.Lines()
	if len(lines) > maxLinesOnScreen {
		lines = lines[len(lines)-maxLinesOnScreen:]
	}
	for i, line := range lines {
		drawText(line, padding, int32(chatY+i*lineHeight+padding), rl.LightGray)
	}

	rl.DrawRectangle(0, int32(barY), int32(screenW), BarHeight, termBarColor)
	rl.DrawRectangle(0, int32(barY), int32(screenW), 1, termLineColor)
	drawText(prompt+t.inputBuf+"|", padding, int32(barY+padding), rl.White)
}
