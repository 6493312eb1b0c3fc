package ui

import (
	"github.com/charmbracelet/bubbles/list"
)

var _ list.Item = methodItem{}

// AuthMethod is a way of capturing browser headers.
type AuthMethod int

const (
	MethodCurl AuthMethod = iota
	MethodManual
)

// methodItem wraps [AuthMethod] to implement [list.Item].
type methodItem struct {
	method AuthMethod
}

func (i methodItem) FilterValue() string { return i.Title() }

func (i methodItem) Title() string {
	if i.method == MethodCurl {
		return "Paste a cURL command"
	}
	return "Enter headers manually"
}

func (i methodItem) Description() string {
	if i.method == MethodCurl {
		return "DevTools → Network → browse request → Copy as cURL"
	}
	return "Copy the Cookie, Authorization and X-Goog-AuthUser values"
}

func methodItems() []list.Item {
	return []list.Item{methodItem{method: MethodCurl}, methodItem{method: MethodManual}}
}
