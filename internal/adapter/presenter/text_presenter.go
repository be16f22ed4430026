package presenter

import (
	"fmt"
	"io"
	"strings"

	"github.com/vkarpenko/faultlog/internal/application/port/output"
	"github.com/vkarpenko/faultlog/internal/domain/model/record"
)

// TextPresenter implements output.Presenter for terminal output.
// Formats records as the Russian-language card the operators are used to.
type TextPresenter struct {
	output io.Writer
}

// NewTextPresenter creates a new text presenter
func NewTextPresenter(output io.Writer) output.Presenter {
	return &TextPresenter{output: output}
}

// ShowRecord renders one record card with its pagination position.
func (p *TextPresenter) ShowRecord(rec *record.Record, index, total int, editable bool) {
	var b strings.Builder

	fmt.Fprintf(&b, "ЗАЯВКА #%d — СТРАНИЦА %d/%d\n", rec.ID, index+1, total)
	fmt.Fprintf(&b, "%s\n", strings.Repeat("─", 32))
	writeLine(&b, "Дата", rec.Date)
	writeLine(&b, "Исполнители работ", rec.Workers)
	writeLine(&b, "Цех", rec.Shop)
	writeLine(&b, "Станок", rec.Machine)
	writeLine(&b, "Инвентарный номер", rec.InventoryNumber)
	writeLine(&b, "Дата начала", rec.StartTime)
	writeLine(&b, "Дата окончания", rec.EndTime)
	writeLine(&b, "Затраченное время", rec.Duration)
	writeLine(&b, "Описание проблемы", rec.Description)
	writeLine(&b, "Решение", rec.Solution)
	writeLine(&b, "Статус неисправности", rec.Status)

	if editable {
		b.WriteString("\nДля изменения выберите поле:\n")
		for _, f := range record.Fields() {
			fmt.Fprintf(&b, "  [%s] %s\n", f, f.Label())
		}
	}

	fmt.Fprint(p.output, b.String())
}

func writeLine(b *strings.Builder, label, value string) {
	if value == "" {
		value = "—"
	}
	fmt.Fprintf(b, "%s: %s\n", label, value)
}

// PromptPhrase asks for a search phrase.
func (p *TextPresenter) PromptPhrase() {
	fmt.Fprintln(p.output, "Введите фразу для поиска:")
}

// PromptNewValue asks for a replacement value, echoing the present one.
func (p *TextPresenter) PromptNewValue(f record.Field, oldValue string) {
	fmt.Fprintf(p.output, "%s\nТекущее значение: %s\n", f.Prompt(), oldValue)
}

// ConfirmEdit renders the staged change for confirmation.
func (p *TextPresenter) ConfirmEdit(f record.Field, oldValue, newValue string) {
	fmt.Fprintf(p.output, "Изменить поле «%s»?\n  Было:  %s\n  Станет: %s\n[да / нет]\n",
		f.Label(), oldValue, newValue)
}

// Notice renders an informational or error message.
func (p *TextPresenter) Notice(msg string) {
	fmt.Fprintf(p.output, "%s\n", msg)
}
