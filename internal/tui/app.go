package tui

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"digame/internal/app/chat"
	"digame/internal/app/message"
	"digame/internal/pkg/errs"
	"digame/internal/pkg/logx"
)

const helpText = "Enter send · Ctrl-R reply to older message · Esc cancel reply · Ctrl-C quit"

// App is the interactive chat screen.
type App struct {
	client   *chat.Client
	interval time.Duration

	app      *tview.Application
	status   *tview.TextView
	messages *tview.TextView
	quote    *tview.TextView
	notice   *tview.TextView
	input    *tview.InputField

	// set while the program itself rewrites the input field.
	resetting atomic.Bool

	// index, counted from the newest message, of the current reply target; -1 when none.
	replyIndex int

	// the view last drawn.
	last chat.View
}

// NewApp builds the chat screen for a signed-in client polling every interval.
func NewApp(client *chat.Client, interval time.Duration) *App {
	a := &App{
		client:     client,
		interval:   interval,
		app:        tview.NewApplication(),
		status:     tview.NewTextView().SetDynamicColors(true),
		messages:   tview.NewTextView().SetDynamicColors(true).SetScrollable(true),
		quote:      tview.NewTextView().SetDynamicColors(true),
		notice:     tview.NewTextView().SetDynamicColors(true).SetText("[gray]" + helpText),
		input:      tview.NewInputField().SetLabel("> "),
		replyIndex: -1,
	}

	a.messages.SetBorder(true).SetTitle(" diga-me ")
	a.messages.SetChangedFunc(func() { a.messages.ScrollToEnd() })

	a.input.SetChangedFunc(func(text string) {
		if a.resetting.Load() {
			return
		}
		a.client.SetInput(text)
	})
	a.input.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter {
			a.submit()
		}
	})
	a.input.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyCtrlR:
			a.cycleReply()
			return nil
		case tcell.KeyEscape:
			a.clearReply()
			return nil
		}
		return event
	})

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.status, 1, 0, false).
		AddItem(a.messages, 0, 1, false).
		AddItem(a.quote, 1, 0, false).
		AddItem(a.input, 1, 0, true).
		AddItem(a.notice, 1, 0, false)

	a.app.SetRoot(layout, true).SetFocus(a.input)
	a.draw(client.Snapshot())

	return a
}

// Run shows the screen and polls until the user quits or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	poller := chat.NewPoller(a.client, a.interval, func(v chat.View) {
		a.app.QueueUpdateDraw(func() { a.draw(v) })
	})
	go poller.Run(ctx)

	go func() {
		<-ctx.Done()
		a.app.Stop()
	}()

	return a.app.Run()
}

func (a *App) draw(v chat.View) {
	a.last = v
	a.status.SetText(Status(v))

	viewer := ""
	if v.User != nil {
		viewer = v.User.Nickname
	}

	lines := make([]string, 0, len(v.Messages))
	for _, m := range v.Messages {
		lines = append(lines, Markup(m, viewer))
	}
	a.messages.SetText(strings.Join(lines, "\n"))

	if v.Reply != nil {
		a.quote.SetText("[gray]↩ replying to " + tview.Escape(v.Reply.Sender) + ": " + tview.Escape(Truncate(v.Reply.Text, QuoteMaxRunes)))
	} else {
		a.quote.SetText("")
	}
}

// submit claims the draft on the UI goroutine and delivers it in the background so a slow store
// never freezes the screen. The field is left alone when the client refuses the draft.
func (a *App) submit() {
	out, err := a.client.BeginSend()
	if err != nil {
		a.showError(err)
		return
	}
	if out == nil {
		return
	}

	a.resetting.Store(true)
	a.input.SetText("")
	a.resetting.Store(false)
	a.replyIndex = -1
	a.draw(a.client.Snapshot())

	go func() {
		_, err := a.client.Deliver(context.Background(), out)
		a.app.QueueUpdateDraw(func() {
			if err != nil {
				a.showError(err)
			}
			a.draw(a.client.Snapshot())
		})
	}()
}

// cycleReply moves the reply target one quotable message further back, wrapping around.
func (a *App) cycleReply() {
	var quotable []message.Message
	for _, m := range a.last.Messages {
		if !m.IsSystem {
			quotable = append(quotable, m)
		}
	}
	if len(quotable) == 0 {
		return
	}

	a.replyIndex = (a.replyIndex + 1) % len(quotable)
	target := quotable[len(quotable)-1-a.replyIndex]

	if err := a.client.SetReply(target); err != nil {
		a.showError(err)
		return
	}
	a.draw(a.client.Snapshot())
}

func (a *App) clearReply() {
	a.replyIndex = -1
	a.client.ClearReply()
	a.draw(a.client.Snapshot())
}

func (a *App) showError(err error) {
	msg := err.Error()
	if customErr, ok := errs.AsCustomError(err); ok {
		msg = customErr.Message
	}
	logx.Warn("Chat action failed.", "error", err.Error())
	a.notice.SetText("[red]" + tview.Escape(msg) + "[-]  [gray]" + helpText)
}
