package queue

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
)

// EnqueuePost hands a claimed post to the publisher. The post was
// already moved to processing by the caller, so the task runs as soon
// as a worker is free.
func EnqueuePost(asynqClient *asynq.Client, payload PublishPostPayload) error {
	taskPayload, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskTypePublishPost, taskPayload)

	_, err = asynqClient.Enqueue(task)
	if err != nil {
		return err
	}

	slog.Info(fmt.Sprintf("publish task enqueued for post %d", payload.PostID))
	return nil
}
