package workflow

import "github.com/vkarpenko/faultlog/internal/domain/model/record"

// TriggerKind enumerates the events that can advance the workflow.
type TriggerKind string

const (
	TriggerSearch      TriggerKind = "SEARCH"       // "search" command
	TriggerPhrase      TriggerKind = "PHRASE"       // phrase text supplied
	TriggerNavigate    TriggerKind = "NAVIGATE"     // prev/next button
	TriggerChooseField TriggerKind = "CHOOSE_FIELD" // edit-field button
	TriggerInput       TriggerKind = "INPUT"        // replacement text supplied
	TriggerConfirm     TriggerKind = "CONFIRM"      // confirm button
	TriggerCancel      TriggerKind = "CANCEL"       // cancel button
	TriggerExit        TriggerKind = "EXIT"         // exit / main menu
)

// Trigger is one user action plus its payload.
type Trigger struct {
	Kind  TriggerKind
	Text  string       // PHRASE, INPUT
	Delta int          // NAVIGATE: ±1
	Field record.Field // CHOOSE_FIELD
}

// Search builds the trigger that opens the workflow.
func Search() Trigger { return Trigger{Kind: TriggerSearch} }

// Phrase builds a search-phrase trigger.
func Phrase(text string) Trigger { return Trigger{Kind: TriggerPhrase, Text: text} }

// Navigate builds a prev/next trigger.
func Navigate(delta int) Trigger { return Trigger{Kind: TriggerNavigate, Delta: delta} }

// ChooseField builds an edit-field trigger.
func ChooseField(f record.Field) Trigger { return Trigger{Kind: TriggerChooseField, Field: f} }

// Input builds a replacement-text trigger.
func Input(text string) Trigger { return Trigger{Kind: TriggerInput, Text: text} }

// Confirm builds the confirm trigger.
func Confirm() Trigger { return Trigger{Kind: TriggerConfirm} }

// Cancel builds the cancel trigger.
func Cancel() Trigger { return Trigger{Kind: TriggerCancel} }

// Exit builds the exit trigger.
func Exit() Trigger { return Trigger{Kind: TriggerExit} }
