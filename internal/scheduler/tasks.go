package scheduler

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TaskRevenueAccrue = "trading.revenue.accrue"

type RevenueAccruePayload struct {
	ScheduledAt time.Time `json:"scheduledAt"`
}

func NewRevenueAccrueTask(payload RevenueAccruePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRevenueAccrue, data), nil
}

func ParseRevenueAccruePayload(task *asynq.Task) (RevenueAccruePayload, error) {
	var payload RevenueAccruePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return RevenueAccruePayload{}, err
	}
	return payload, nil
}
