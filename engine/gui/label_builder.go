package gui

import (
	"github.com/Carmen-Shannon/oxy-frontier/common"
	"github.com/Carmen-Shannon/oxy-frontier/engine/text"
)

type LabelBuilderOption func(*labelImpl)

// WithRect gives the label a fixed rectangle. Text is aligned inside it instead of sizing it.
func WithRect(q common.Quad) LabelBuilderOption {
	return func(l *labelImpl) {
		l.rect = q
		l.fixed = true
	}
}

func WithAlignment(h text.HAlign, v text.VAlign) LabelBuilderOption {
	return func(l *labelImpl) {
		l.hAlign = h
		l.vAlign = v
	}
}

// WithEditable makes the label a focusable text editor.
func WithEditable() LabelBuilderOption {
	return func(l *labelImpl) {
		l.editable = true
	}
}

// WithMultiline lets Shift+Enter insert a newline.
func WithMultiline() LabelBuilderOption {
	return func(l *labelImpl) {
		l.multiline = true
	}
}

// WithCancelable lets Escape restore the text held when focus was gained.
func WithCancelable() LabelBuilderOption {
	return func(l *labelImpl) {
		l.cancelable = true
	}
}

// WithClearOnConfirm empties the text after the confirm callback runs.
func WithClearOnConfirm() LabelBuilderOption {
	return func(l *labelImpl) {
		l.clearOnConfirm = true
	}
}

func WithFocusLostAction(a FocusLostAction) LabelBuilderOption {
	return func(l *labelImpl) {
		l.focusLost = a
	}
}

func WithTextColor(c common.Color) LabelBuilderOption {
	return func(l *labelImpl) {
		l.color = c
	}
}

// WithBackgroundColor sets the background of an editable label.
func WithBackgroundColor(c common.Color) LabelBuilderOption {
	return func(l *labelImpl) {
		l.bgColor = c
	}
}

func WithConfirmCallback(fn func(l Label)) LabelBuilderOption {
	return func(l *labelImpl) {
		l.onConfirm = fn
	}
}

func WithTextChangedCallback(fn func(l Label)) LabelBuilderOption {
	return func(l *labelImpl) {
		l.onTextChanged = fn
	}
}

func WithUpdateCallback(fn func(l Label, dt float32)) LabelBuilderOption {
	return func(l *labelImpl) {
		l.onUpdate = fn
	}
}
