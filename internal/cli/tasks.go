package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/daybook/internal/common"
	"github.com/dmitrijs2005/daybook/internal/models"
)

func (a *App) addTask(ctx context.Context) {
	text, err := getSimpleText(a.reader, "Task", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	task := models.Task{
		ID:        models.NewID(),
		Text:      text,
		CreatedAt: time.Now(),
	}

	if _, err := a.vault.AddTask(ctx, task); err != nil {
		if errors.Is(err, common.ErrValidation) {
			fmt.Println(err.Error())
			return
		}
		a.log.Error(ctx, "error adding task", "error", err)
		return
	}
	fmt.Println("Added.")
}

func (a *App) listTasks(ctx context.Context) {
	tasks, err := a.vault.Tasks(ctx)
	if err != nil {
		a.reportStoreError(ctx, err)
		return
	}
	if len(tasks) == 0 {
		fmt.Println("No tasks.")
		return
	}
	for _, t := range tasks {
		mark := " "
		if t.Completed {
			mark = "x"
		}
		fmt.Printf("[%s] %d  %s\n", mark, t.ID, t.Text)
	}
}

func (a *App) toggleTask(ctx context.Context, args []string) {
	id, ok := a.parseID(args, "toggle")
	if !ok {
		return
	}
	err := a.vault.UpdateTask(ctx, id, func(t *models.Task) error {
		t.Completed = !t.Completed
		return nil
	})
	if err != nil {
		a.reportStoreError(ctx, err)
		return
	}
	fmt.Println("Toggled.")
}

func (a *App) deleteTask(ctx context.Context, args []string) {
	id, ok := a.parseID(args, "deltask")
	if !ok {
		return
	}
	if err := a.vault.DeleteTask(ctx, id); err != nil {
		a.reportStoreError(ctx, err)
		return
	}
	fmt.Println("Deleted.")
}
