// internal/input/keymap.go
package input

import (
	"github.com/gdamore/tcell/v2"
)

// Keymap maps specific key events to review actions.
type Keymap map[tcell.Key]Action        // For special keys (Esc, PgUp, etc.)
type RuneKeymap map[rune]Action         // For plain letter bindings
type ModKeymap map[tcell.ModMask]Keymap // For keys combined with modifiers (Ctrl, Alt, Shift)

// InputProcessor translates tcell events into ActionEvents.
type InputProcessor struct {
	keymap     Keymap
	runeKeymap RuneKeymap
	modKeymap  ModKeymap
}

// NewInputProcessor creates a processor with default keybindings.
func NewInputProcessor() *InputProcessor {
	p := &InputProcessor{
		keymap:     make(Keymap),
		runeKeymap: make(RuneKeymap),
		modKeymap:  make(ModKeymap),
	}
	p.loadDefaultBindings()
	return p
}

// loadDefaultBindings sets up the initial key mappings.
func (p *InputProcessor) loadDefaultBindings() {
	// --- Simple Keys ---
	p.keymap[tcell.KeyDown] = ActionNextSuggestion
	p.keymap[tcell.KeyUp] = ActionPrevSuggestion
	p.keymap[tcell.KeyRight] = ActionNextSentence
	p.keymap[tcell.KeyLeft] = ActionPrevSentence
	p.keymap[tcell.KeyPgUp] = ActionPageUp
	p.keymap[tcell.KeyPgDn] = ActionPageDown
	p.keymap[tcell.KeyEnter] = ActionApply
	p.keymap[tcell.KeyEscape] = ActionQuit // Primary quit action (checks modified)
	p.keymap[tcell.KeyCtrlC] = ActionQuit

	// --- Modifier Keys ---
	ctrlMap := make(Keymap)
	ctrlMap[tcell.KeyCtrlS] = ActionSave
	ctrlMap[tcell.KeyCtrlQ] = ActionForceQuit
	ctrlMap[tcell.KeyCtrlB] = ActionPageUp
	ctrlMap[tcell.KeyCtrlF] = ActionPageDown
	p.modKeymap[tcell.ModCtrl] = ctrlMap

	// --- Rune Mappings ---
	p.runeKeymap['j'] = ActionNextSuggestion
	p.runeKeymap['k'] = ActionPrevSuggestion
	p.runeKeymap['n'] = ActionNextSentence
	p.runeKeymap['p'] = ActionPrevSentence
	p.runeKeymap['a'] = ActionApply
	p.runeKeymap['u'] = ActionUndo
	p.runeKeymap['r'] = ActionReject
	p.runeKeymap['c'] = ActionReconsider
	p.runeKeymap['i'] = ActionImproveSentence
	p.runeKeymap['I'] = ActionImproveAll
	p.runeKeymap['s'] = ActionSave
	p.runeKeymap['y'] = ActionYank
	p.runeKeymap['e'] = ActionExport
	p.runeKeymap['q'] = ActionQuit
	p.runeKeymap['Q'] = ActionForceQuit
}

// Bind maps r to action, replacing any existing binding.
func (p *InputProcessor) Bind(r rune, action Action) {
	p.runeKeymap[r] = action
}

// ProcessEvent takes a tcell key event and returns the corresponding ActionEvent.
func (p *InputProcessor) ProcessEvent(ev *tcell.EventKey) ActionEvent {
	key := ev.Key()
	mod := ev.Modifiers()
	runeVal := ev.Rune()

	// 1. Check Modifier + Key combinations
	if modKeyMap, modOk := p.modKeymap[mod]; modOk {
		if action, keyOk := modKeyMap[key]; keyOk {
			return ActionEvent{Action: action}
		}
	}
	// Ctrl+letter keys already imply the modifier
	if key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ {
		if action, ok := p.modKeymap[tcell.ModCtrl][key]; ok {
			return ActionEvent{Action: action}
		}
		mod &^= tcell.ModCtrl
	}

	// 2. Check simple Key mappings
	if mod == tcell.ModNone || mod == tcell.ModShift {
		if action, ok := p.keymap[key]; ok {
			return ActionEvent{Action: action}
		}
	}

	// 3. Check Rune mappings. Shift is part of the rune ('I').
	if key == tcell.KeyRune && (mod == tcell.ModNone || mod == tcell.ModShift) {
		if action, ok := p.runeKeymap[runeVal]; ok {
			return ActionEvent{Action: action, Rune: runeVal}
		}
	}

	// 4. No mapping found
	return ActionEvent{Action: ActionUnknown, Rune: runeVal}
}
