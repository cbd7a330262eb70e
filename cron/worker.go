package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"agrimandi/config"
	userRepo "agrimandi/database/repository/user"
	"agrimandi/models"
	"agrimandi/services/kyc"
	"agrimandi/services/tasks"

	"github.com/hibiken/asynq"
)

// InitKYCWorker runs the async worker in background. It handles the stale
// session sweep (crash backstop for pollers that never reached a terminal
// state) and the "finish your KYC" nudges.
func InitKYCWorker(sessions kyc.SessionStore, users userRepo.UserRepository) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskQueue,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSessionSweep, handleSessionSweep(sessions))
	mux.HandleFunc(tasks.TypeKYCNudge, handleKYCNudge(users))

	// Start async worker with retry logic
	go func() {
		log.Println("[KYCWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[KYCWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[KYCWorker] max retry attempts reached, exiting")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

// handleSessionSweep marks sessions that outlived their deadline without a
// terminal state as timed out in the registry. The profile is untouched: a
// timed-out session leaves the user pending and free to restart.
func handleSessionSweep(sessions kyc.SessionStore) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.SessionSweepPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[SessionSweep] invalid payload: %v", err)
			return err
		}

		sess, err := sessions.Get(ctx, p.SessionID)
		if err != nil {
			return err
		}
		if sess == nil || sess.Status.Terminal() {
			return nil
		}

		sess.Status = models.SessionTimeout
		if err := sessions.Save(ctx, sess); err != nil {
			return err
		}
		log.Printf("[SessionSweep] session %s swept to TIMEOUT", p.SessionID)
		return nil
	}
}

// handleKYCNudge reminds a user whose verification attempt ended unverified.
// Delivery is a log line here; SMS/WhatsApp integration hangs off this hook.
func handleKYCNudge(users userRepo.UserRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.KYCNudgePayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[KYCNudge] invalid payload: %v", err)
			return err
		}

		usr, err := users.GetByIDWithProjection(p.UserID, nil)
		if err != nil {
			return err
		}
		if usr == nil || usr.KYCStatus == models.KYCVerified {
			// Verified in the meantime; nothing to nudge.
			return nil
		}

		log.Printf("[KYCNudge] reminding user %s (%s) to finish verification, last outcome: %s",
			usr.ID, usr.PhoneNumber, p.Reason)
		return nil
	}
}
