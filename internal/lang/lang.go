// Package lang lists the display languages the tutor supports and the
// prompt prefix that asks the model to answer in one of them.
package lang

import "strings"

// Source is the language learning content is authored in unless a unit
// says otherwise.
const Source = "English"

// Language is a selectable display language.
type Language struct {
	Name   string // English name, used in prompts
	Native string // label shown in the picker
	RTL    bool
}

// All is the display language picker, in menu order.
var All = []Language{
	{Name: "English", Native: "English"},
	{Name: "Chinese", Native: "中文"},
	{Name: "Tibetan", Native: "བོད་ཡིག"},
	{Name: "Uyghur", Native: "ئۇيغۇرچە", RTL: true},
	{Name: "Korean", Native: "한국어"},
	{Name: "French", Native: "Français"},
	{Name: "German", Native: "Deutsch"},
	{Name: "Spanish", Native: "Español"},
}

// Lookup finds a language by English or native name, ignoring case.
func Lookup(name string) (Language, bool) {
	name = strings.TrimSpace(name)
	for _, l := range All {
		if strings.EqualFold(l.Name, name) || l.Native == name {
			return l, true
		}
	}
	return Language{}, false
}

// Normalize returns the canonical English name for name, or Source when
// the language is unknown.
func Normalize(name string) string {
	if l, ok := Lookup(name); ok {
		return l.Name
	}
	return Source
}

// IsRTL reports whether the language is written right to left.
func IsRTL(name string) bool {
	l, ok := Lookup(name)
	return ok && l.RTL
}

// Same reports whether a and b name the same language.
func Same(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// ReplyPrefix is prepended to every prompt so the model replies in the
// display language. It is empty for the default source language.
func ReplyPrefix(name string) string {
	if name == "" || Same(name, Source) {
		return ""
	}
	return "Please reply in " + name + ".\n"
}
