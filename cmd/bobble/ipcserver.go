package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"

	"github.com/kexlie/bobble/internal/bubble"
	"github.com/kexlie/bobble/internal/engine"
	"github.com/kexlie/bobble/internal/history"
	"github.com/kexlie/bobble/internal/message"
	"github.com/kexlie/bobble/internal/wire"
)

// handleConn serves one IPC request/response exchange. Unknown ids come back
// as ERROR responses; they never take the daemon down.
func (d *daemon) handleConn(conn net.Conn) {
	defer conn.Close()
	wc := wire.New(conn, d.key)

	msg, err := wc.ReadMsg()
	if err != nil {
		slog.Debug("ipc read failed", "err", err)
		return
	}

	resp := d.dispatch(msg)
	if err := wc.WriteMsg(resp); err != nil {
		slog.Debug("ipc write failed", "err", err)
	}
}

func (d *daemon) dispatch(msg *message.Message) *message.Message {
	switch msg.Type {
	case message.TypeCut:
		return d.handleCut(msg)

	case message.TypeTap:
		id, rerr := d.resolveID(msg.ID)
		if rerr != nil {
			return errResponse(rerr)
		}
		eff, err := d.eng.Interact(id)
		if err != nil {
			return errResponse(err)
		}
		d.deliver(eff)
		resp := &message.Message{Type: message.TypeTapResponse, Effect: eff.Kind.String()}
		if eff.Kind == engine.EffectConsume {
			resp.SetText(eff.Text)
			resp.ContentType = eff.ContentType
		}
		return resp

	case message.TypeMove:
		id, err := d.resolveID(msg.ID)
		if err != nil {
			return errResponse(err)
		}
		if err := d.eng.UpdatePosition(id, msg.X, msg.Y); err != nil {
			return errResponse(err)
		}
		return &message.Message{Type: message.TypeOK}

	case message.TypeDismiss:
		id, err := d.resolveID(msg.ID)
		if err != nil {
			return errResponse(err)
		}
		if err := d.eng.Destroy(id); err != nil {
			return errResponse(err)
		}
		return &message.Message{Type: message.TypeOK}

	case message.TypeKeyboard:
		d.eng.KeyboardVisibilityChanged(msg.Visible)
		return &message.Message{Type: message.TypeOK}

	case message.TypeResize:
		if msg.Width <= 0 || msg.Height <= 0 {
			return message.Errorf("invalid container size %gx%g", msg.Width, msg.Height)
		}
		d.eng.ContainerResized(msg.Width, msg.Height)
		return &message.Message{Type: message.TypeOK}

	case message.TypeMode:
		mode := bubble.CaptureMode(msg.Mode)
		if mode != bubble.ModeExtend && mode != bubble.ModeReplace {
			return message.Errorf("unknown capture mode %q", msg.Mode)
		}
		d.eng.SetCaptureMode(mode)
		return &message.Message{Type: message.TypeOK}

	case message.TypeList:
		return d.listResponse(message.TypeListResponse)

	case message.TypeStatus:
		w, h := d.eng.ContainerSize()
		resp := d.listResponse(message.TypeStatusResponse)
		resp.Width, resp.Height = w, h
		resp.Visible = d.eng.KeyboardVisible()
		resp.Mode = string(d.eng.CaptureMode())
		return resp

	case message.TypeHistory:
		return d.handleHistory(msg)

	default:
		return message.Errorf("unknown message type %q", msg.Type)
	}
}

// handleCut submits externally classified text as a bubble. The class
// defaults to paste; pin, alert and quick captures arrive pre-tagged.
func (d *daemon) handleCut(msg *message.Message) *message.Message {
	text := msg.Text()
	if text == "" {
		return message.Errorf("empty payload")
	}
	if len(text) > maxCaptureSize {
		return message.Errorf("payload exceeds %d bytes", maxCaptureSize)
	}

	var (
		b   bubble.Bubble
		err error
	)
	switch bubble.ClassID(msg.Class) {
	case "", bubble.ClassPaste:
		b, err = d.capture(text, msg.ContentType, msg.Source)
	case bubble.ClassPin:
		b, err = d.eng.Add(bubble.ClassPin, bubble.PinnedItem{Text: text})
	case bubble.ClassQuick:
		b, err = d.eng.Add(bubble.ClassQuick, bubble.QuickAction{Text: text})
	case bubble.ClassAlert:
		b, err = d.eng.Add(bubble.ClassAlert, bubble.SystemAlert{
			Title: bubble.Truncate(text, 40), Body: text,
		})
	default:
		return message.Errorf("class %q cannot be cut to", msg.Class)
	}
	if err != nil {
		return errResponse(err)
	}
	return &message.Message{Type: message.TypeOK, ID: b.ID, Class: string(b.Class)}
}

func (d *daemon) handleHistory(msg *message.Message) *message.Message {
	var (
		entries []history.Entry
		err     error
	)
	if msg.Search != "" {
		entries, err = d.store.Search(msg.Search, msg.Limit)
	} else {
		entries, err = d.store.List(msg.Limit)
	}
	if err != nil {
		return errResponse(err)
	}
	resp := &message.Message{Type: message.TypeHistoryRows}
	for _, e := range entries {
		resp.Rows = append(resp.Rows, message.HistoryRow{
			ID:          e.ID,
			Preview:     bubble.Truncate(e.Text, bubble.PreviewLength),
			ContentType: e.ContentType,
			CreatedAt:   e.CreatedAt,
		})
	}
	return resp
}

func (d *daemon) listResponse(t message.Type) *message.Message {
	resp := &message.Message{Type: t}
	for _, b := range d.eng.Snapshot() {
		resp.Bubbles = append(resp.Bubbles, message.BubbleInfo{
			ID:              b.ID,
			Class:           string(b.Class),
			Kind:            string(b.Payload.Kind()),
			X:               b.X,
			Y:               b.Y,
			Size:            b.Size,
			Visible:         b.Visible,
			Minimized:       b.Minimized,
			Preview:         b.Preview(),
			LastInteraction: b.LastInteraction,
		})
	}
	return resp
}

// resolveID expands a unique id prefix (as printed by "bobble list") to the
// full bubble id. Full ids pass through untouched.
func (d *daemon) resolveID(prefix string) (string, error) {
	if prefix == "" {
		return "", fmt.Errorf("%w: empty id", engine.ErrNotFound)
	}
	var match string
	for _, b := range d.eng.Snapshot() {
		if b.ID == prefix {
			return prefix, nil
		}
		if strings.HasPrefix(b.ID, prefix) {
			if match != "" {
				return "", fmt.Errorf("ambiguous id prefix %q", prefix)
			}
			match = b.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("%w: %s", engine.ErrNotFound, prefix)
	}
	return match, nil
}

func errResponse(err error) *message.Message {
	if errors.Is(err, engine.ErrNotFound) {
		return message.Errorf("not found: %v", err)
	}
	return message.Errorf("%v", err)
}
