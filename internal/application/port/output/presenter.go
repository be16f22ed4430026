// Package output defines the ports the application layer renders through.
package output

import "github.com/vkarpenko/faultlog/internal/domain/model/record"

// Presenter defines the interface for presenting workflow output to the
// operator. From the workflow's point of view these are pure render calls;
// how they reach the user (terminal, chat message, anything else) is the
// adapter's business.
type Presenter interface {
	// ShowRecord renders one record with its pagination position.
	ShowRecord(rec *record.Record, index, total int, editable bool)

	// PromptPhrase asks the operator for a search phrase.
	PromptPhrase()

	// PromptNewValue asks for a replacement value, offering the present
	// value for copying.
	PromptNewValue(f record.Field, oldValue string)

	// ConfirmEdit renders the staged change with confirm/cancel controls.
	ConfirmEdit(f record.Field, oldValue, newValue string)

	// Notice renders an informational or error message.
	Notice(msg string)
}
