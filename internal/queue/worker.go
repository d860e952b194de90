package queue

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
)

func (q *Queue) HandlePublishPostTask(ctx context.Context, task *asynq.Task) error {
	var payload PublishPostPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	return q.ps.Publish(ctx, payload.PostID)
}
