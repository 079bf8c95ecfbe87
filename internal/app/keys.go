package app

import (
	"unicode"

	"golang.org/x/mobile/event/key"
)

// Action names shared by key bindings, toolbar buttons and status shortcuts.
const (
	actPen      = "pen"
	actSquare   = "square"
	actErase    = "erase"
	actWider    = "wider"
	actNarrower = "narrower"
	actSubmit   = "submit"
	actSave     = "save"
	actCopy     = "copy"
	actPaste    = "paste"
	actQuit     = "quit"
)

// KeyShortcut describes a keyboard combination that triggers an action.
// Code matches keys whose rune is not printable; Rune matches the rest.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

func (k KeyShortcut) matches(e key.Event) bool {
	// shift is implied by the rune
	if e.Modifiers&^key.ModShift != k.Modifiers {
		return false
	}
	if k.Code != key.CodeUnknown && e.Code == k.Code {
		return true
	}
	return k.Rune != 0 && unicode.ToLower(e.Rune) == k.Rune
}

type binding struct {
	keys   []KeyShortcut
	action string
}

var bindings = []binding{
	{[]KeyShortcut{{Rune: 'p', Code: key.CodeP}, {Rune: 'b', Code: key.CodeB}}, actPen},
	{[]KeyShortcut{{Rune: 'r', Code: key.CodeR}, {Rune: 'x', Code: key.CodeX}}, actSquare},
	{[]KeyShortcut{{Rune: 'e', Code: key.CodeE}}, actErase},
	{[]KeyShortcut{{Rune: '+'}, {Rune: '=', Code: key.CodeEqualSign}, {Code: key.CodeKeypadPlusSign}}, actWider},
	{[]KeyShortcut{{Rune: '-', Code: key.CodeHyphenMinus}, {Code: key.CodeKeypadHyphenMinus}}, actNarrower},
	{[]KeyShortcut{{Code: key.CodeReturnEnter}, {Code: key.CodeKeypadEnter}}, actSubmit},
	{[]KeyShortcut{{Rune: 's', Code: key.CodeS, Modifiers: key.ModControl}}, actSave},
	{[]KeyShortcut{{Rune: 'c', Code: key.CodeC, Modifiers: key.ModControl}}, actCopy},
	{[]KeyShortcut{{Rune: 'v', Code: key.CodeV, Modifiers: key.ModControl}}, actPaste},
	{[]KeyShortcut{{Rune: 'q', Code: key.CodeQ}}, actQuit},
}

// actionFor returns the action bound to e, if any.
func actionFor(e key.Event) (string, bool) {
	for _, b := range bindings {
		for _, k := range b.keys {
			if k.matches(e) {
				return b.action, true
			}
		}
	}
	return "", false
}

// categoryDigit maps unmodified 1-9 to a category index.
func categoryDigit(e key.Event) (int, bool) {
	if e.Modifiers&^key.ModShift != 0 {
		return 0, false
	}
	if e.Rune >= '1' && e.Rune <= '9' {
		return int(e.Rune - '1'), true
	}
	return 0, false
}
