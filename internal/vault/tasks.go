package vault

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/daybook/internal/common"
	"github.com/dmitrijs2005/daybook/internal/models"
)

// AddTask encrypts and stores a task, returning its storage id.
func (v *Vault) AddTask(ctx context.Context, t models.Task) (int64, error) {
	if strings.TrimSpace(t.Text) == "" {
		return 0, fmt.Errorf("%w: task text is empty", common.ErrValidation)
	}
	return add(ctx, v, v.tasks, t)
}

// Tasks decrypts and returns every task.
func (v *Vault) Tasks(ctx context.Context) ([]models.Task, error) {
	return list[models.Task](ctx, v, v.tasks)
}

// UpdateTask applies mutate to the task with the given logical id and
// writes it back under a fresh nonce.
func (v *Vault) UpdateTask(ctx context.Context, id int64, mutate func(*models.Task) error) error {
	return update(ctx, v, v.tasks, id, mutate)
}

// DeleteTask removes the task with the given logical id.
func (v *Vault) DeleteTask(ctx context.Context, id int64) error {
	return remove[models.Task](ctx, v, v.tasks, id)
}
