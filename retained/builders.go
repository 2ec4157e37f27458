package retained

import (
	"strings"
	"unicode/utf8"
)

// Builder helpers for common widget patterns.

// textCharWidth and textLineHeight size Text widgets without a font backend.
const (
	textCharWidth  = 8
	textLineHeight = 20
)

// Container creates a generic container widget.
// Children keep their own positions.
func Container(classes string, children ...*Widget) *Widget {
	w := NewWidget(KindContainer)
	if classes != "" {
		w.SetClasses(classes)
		if hasClass(classes, "w-full") {
			w.SetFillWidth(true)
		}
	}
	for _, child := range children {
		w.AddChild(child)
	}
	return w
}

// HStack creates a horizontal stack container.
// Children are laid out left-to-right, gap pixels apart.
func HStack(gap float32, children ...*Widget) *Widget {
	w := NewWidget(KindHStack)
	w.SetGap(gap)
	for _, child := range children {
		w.AddChild(child)
	}
	return w
}

// Box creates a fixed-size widget.
func Box(width, height float32) *Widget {
	return NewWidget(KindBox).SetSize(width, height)
}

// Text creates a text widget sized to its content.
func Text(text string) *Widget {
	w := NewWidget(KindText).SetText(text)
	w.SetSize(float32(utf8.RuneCountInString(text))*textCharWidth, textLineHeight)
	return w
}

func splitClasses(classes string) []string {
	return strings.Fields(classes)
}

func hasClass(classes, name string) bool {
	for _, c := range splitClasses(classes) {
		if c == name {
			return true
		}
	}
	return false
}
