package queue

import (
	"github.com/maheshrc27/postpilot/internal/service"
)

// Queue is the consumer side of the publish dispatch boundary. The
// sweep claims a post, then enqueues a task carrying only the post id;
// the worker hands it to the publisher.
type Queue struct {
	ps service.PublisherService
}

func NewQueue(ps service.PublisherService) *Queue {
	return &Queue{ps: ps}
}

const TaskTypePublishPost = "publish:post"

type PublishPostPayload struct {
	PostID int64 `json:"post_id"`
}
