package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskCampaignMetricsRecompute = "campaigns.metrics.recompute"

type CampaignMetricsRecomputePayload struct {
	CampaignID int64 `json:"campaignId"`
}

func NewCampaignMetricsRecomputeTask(payload CampaignMetricsRecomputePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCampaignMetricsRecompute, data), nil
}

func ParseCampaignMetricsRecomputePayload(task *asynq.Task) (CampaignMetricsRecomputePayload, error) {
	var payload CampaignMetricsRecomputePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return CampaignMetricsRecomputePayload{}, err
	}
	return payload, nil
}
