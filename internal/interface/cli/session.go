package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/vkarpenko/faultlog/internal/application/workflow"
	"github.com/vkarpenko/faultlog/internal/domain/model/record"
	"github.com/vkarpenko/faultlog/internal/domain/model/session"
)

func newSessionCmd() *cobra.Command {
	var userID int64
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Run an interactive search-and-edit session",
		RunE: func(c *cobra.Command, _ []string) error {
			container, err := newContainer(c.OutOrStdout())
			if err != nil {
				return err
			}
			defer container.Close()

			if !container.GetAccessRepository().RoleOf(userID).Exists() {
				return fmt.Errorf("user %d is not in the access roster", userID)
			}

			return runSession(c.Context(), container.GetEngine(), userID)
		},
	}
	cmd.Flags().Int64Var(&userID, "user", 0, "ID of the operator")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

// runSession maps terminal controls onto workflow triggers until the
// operator exits. The engine renders records and notices on its own; this
// loop only supplies the next trigger for the current state.
func runSession(ctx context.Context, engine *workflow.Engine, userID int64) error {
	state := engine.Dispatch(ctx, userID, workflow.Search())

	for state != session.StateIdle {
		trg, err := nextTrigger(state)
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				engine.Dispatch(ctx, userID, workflow.Exit())
				return nil
			}
			return err
		}
		state = engine.Dispatch(ctx, userID, trg)
	}
	return nil
}

func nextTrigger(state session.State) (workflow.Trigger, error) {
	switch state {
	case session.StateAwaitingPhrase:
		return promptPhrase()
	case session.StateViewing:
		return chooseViewingAction()
	case session.StateAwaitingNewValue:
		return promptNewValue()
	case session.StateConfirmingEdit:
		return chooseConfirmAction()
	default:
		return workflow.Exit(), nil
	}
}

func promptPhrase() (workflow.Trigger, error) {
	input := promptui.Prompt{Label: "Фраза для поиска"}
	text, err := input.Run()
	if err != nil {
		return workflow.Trigger{}, err
	}
	return workflow.Phrase(text), nil
}

func chooseViewingAction() (workflow.Trigger, error) {
	menu := promptui.Select{
		Label: "Действие",
		Items: []string{"Следующая запись", "Предыдущая запись", "Изменить поле", "Выход"},
	}
	idx, _, err := menu.Run()
	if err != nil {
		return workflow.Trigger{}, err
	}

	switch idx {
	case 0:
		return workflow.Navigate(1), nil
	case 1:
		return workflow.Navigate(-1), nil
	case 2:
		return chooseField()
	default:
		return workflow.Exit(), nil
	}
}

func chooseField() (workflow.Trigger, error) {
	fields := record.Fields()
	items := make([]string, 0, len(fields)+1)
	for _, f := range fields {
		items = append(items, f.Label())
	}
	items = append(items, "Назад")

	menu := promptui.Select{Label: "Какое поле изменить?", Items: items}
	idx, _, err := menu.Run()
	if err != nil {
		return workflow.Trigger{}, err
	}
	if idx == len(fields) {
		// Back to viewing: a zero navigate just re-renders.
		return workflow.Navigate(0), nil
	}
	return workflow.ChooseField(fields[idx]), nil
}

func promptNewValue() (workflow.Trigger, error) {
	input := promptui.Prompt{Label: "Новое значение (пустая строка — отмена)"}
	text, err := input.Run()
	if err != nil {
		return workflow.Trigger{}, err
	}
	if text == "" {
		return workflow.Cancel(), nil
	}
	return workflow.Input(text), nil
}

func chooseConfirmAction() (workflow.Trigger, error) {
	menu := promptui.Select{
		Label: "Сохранить изменение?",
		Items: []string{"Подтвердить", "Отменить"},
	}
	idx, _, err := menu.Run()
	if err != nil {
		return workflow.Trigger{}, err
	}
	if idx == 0 {
		return workflow.Confirm(), nil
	}
	return workflow.Cancel(), nil
}
