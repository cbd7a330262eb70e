package tasks

import (
	"encoding/json"
	"time"

	"agrimandi/config"

	"github.com/hibiken/asynq"
)

const (
	TypeKYCNudge     = "kyc:nudge"
	TypeSessionSweep = "kyc:session_sweep"
)

// KYCNudgePayload asks the worker to remind a user to finish verification.
type KYCNudgePayload struct {
	UserID string `json:"user_id"`
	Reason string `json:"reason"`
}

// SessionSweepPayload asks the worker to reconcile a consent session that
// should have terminated by now.
type SessionSweepPayload struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
}

func NewKYCNudgeTask(payload KYCNudgePayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeKYCNudge, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}

	return task, opts, nil
}

func NewSessionSweepTask(payload SessionSweepPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSessionSweep, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}

	return task, opts, nil
}

// AsynqScheduler enqueues KYC background jobs. Implements kyc.TaskScheduler.
type AsynqScheduler struct {
	client *asynq.Client
}

// NewAsynqScheduler builds a scheduler on the task-queue Redis DB.
func NewAsynqScheduler() *AsynqScheduler {
	return &AsynqScheduler{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     config.AppConfig.RedisAddr,
			Password: config.AppConfig.RedisPassword,
			DB:       config.AppConfig.RedisTaskQueue,
		}),
	}
}

func (s *AsynqScheduler) ScheduleKYCNudge(userID, reason string, fireAt time.Time) error {
	task, opts, err := NewKYCNudgeTask(KYCNudgePayload{UserID: userID, Reason: reason}, fireAt)
	if err != nil {
		return err
	}
	_, err = s.client.Enqueue(task, opts...)
	return err
}

func (s *AsynqScheduler) ScheduleSessionSweep(sessionID, userID string, fireAt time.Time) error {
	task, opts, err := NewSessionSweepTask(SessionSweepPayload{SessionID: sessionID, UserID: userID}, fireAt)
	if err != nil {
		return err
	}
	_, err = s.client.Enqueue(task, opts...)
	return err
}
