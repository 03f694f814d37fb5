// internal/input/action.go
package input

// Action represents a command or operation to be performed by the reviewer.
type Action int

// Define the set of possible review actions.
const (
	// --- Meta Actions ---
	ActionUnknown Action = iota // Default/invalid action
	ActionQuit
	ActionForceQuit // Quit without checking modified status
	ActionSave

	// --- Suggestion Navigation ---
	ActionNextSuggestion
	ActionPrevSuggestion
	ActionNextSentence
	ActionPrevSentence

	// --- Review ---
	ActionApply
	ActionUndo
	ActionReject
	ActionReconsider

	// --- Improvement Requests ---
	ActionImproveSentence
	ActionImproveAll

	// --- Output ---
	ActionYank
	ActionExport

	// --- Viewport ---
	ActionPageUp
	ActionPageDown
)

var actionNames = map[Action]string{
	ActionQuit:            "quit",
	ActionForceQuit:       "force-quit",
	ActionSave:            "save",
	ActionNextSuggestion:  "next-suggestion",
	ActionPrevSuggestion:  "prev-suggestion",
	ActionNextSentence:    "next-sentence",
	ActionPrevSentence:    "prev-sentence",
	ActionApply:           "apply",
	ActionUndo:            "undo",
	ActionReject:          "reject",
	ActionReconsider:      "reconsider",
	ActionImproveSentence: "improve-sentence",
	ActionImproveAll:      "improve-all",
	ActionYank:            "yank",
	ActionExport:          "export",
	ActionPageUp:          "page-up",
	ActionPageDown:        "page-down",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// ActionEvent represents a decoded input event resulting in an action.
type ActionEvent struct {
	Action Action
	Rune   rune // The key that produced the action, for rune bindings
}
