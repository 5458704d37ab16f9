package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/BrainDriveAI/memory/pkg/leaselock"
	"github.com/BrainDriveAI/memory/pkg/logger"
	"github.com/BrainDriveAI/memory/pkg/memory"
)

// AddMemoryMsg is the payload of an add_queue message.
type AddMemoryMsg struct {
	CorrelationID string            `json:"correlation_id"`
	UserID        string            `json:"user_id"`
	Content       string            `json:"content"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// UpdateMemoryMsg is the payload of an update_queue message.
type UpdateMemoryMsg struct {
	CorrelationID string            `json:"correlation_id"`
	UserID        string            `json:"user_id"`
	Request       string            `json:"request"`
	DocumentIDs   []string          `json:"document_ids,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// DeleteMemoryMsg is the payload of a delete_queue message.
type DeleteMemoryMsg struct {
	CorrelationID string   `json:"correlation_id"`
	UserID        string   `json:"user_id"`
	Request       string   `json:"request"`
	DocumentIDs   []string `json:"document_ids,omitempty"`
}

// userLeaseOptions serializes graph mutations per user across worker
// instances. Entity resolution reads before it writes, so two concurrent
// mutations for the same user could otherwise create duplicate nodes.
func userLeaseOptions() leaselock.Options {
	return leaselock.Options{
		TTL:        2 * time.Minute,
		RenewEvery: 45 * time.Second,
		Wait:       true,
	}
}

func ProcessAddMessage(
	ctx context.Context,
	engine *memory.Engine,
	locks *leaselock.Client,
	msg string,
) error {
	data := new(AddMemoryMsg)
	if err := json.Unmarshal([]byte(msg), data); err != nil {
		return err
	}

	return locks.WithLease(ctx, "memory:user:"+data.UserID, userLeaseOptions(), func(ctx context.Context) error {
		result, err := engine.Add(ctx, data.UserID, data.Content, data.Metadata)
		if err != nil {
			return err
		}
		logger.Info("[Queue] Memory added",
			"correlation_id", data.CorrelationID,
			"user", data.UserID,
			"documents", len(result.DocumentIDs),
			"relations", len(result.Relations),
		)
		return nil
	})
}

func ProcessUpdateMessage(
	ctx context.Context,
	engine *memory.Engine,
	locks *leaselock.Client,
	msg string,
) error {
	data := new(UpdateMemoryMsg)
	if err := json.Unmarshal([]byte(msg), data); err != nil {
		return err
	}

	return locks.WithLease(ctx, "memory:user:"+data.UserID, userLeaseOptions(), func(ctx context.Context) error {
		result, err := engine.Update(ctx, data.UserID, data.Request, data.DocumentIDs, data.Metadata)
		if err != nil {
			return err
		}
		logger.Info("[Queue] Memory updated",
			"correlation_id", data.CorrelationID,
			"user", data.UserID,
			"documents", len(result.DocumentIDs),
		)
		return nil
	})
}

func ProcessDeleteMessage(
	ctx context.Context,
	engine *memory.Engine,
	locks *leaselock.Client,
	msg string,
) error {
	data := new(DeleteMemoryMsg)
	if err := json.Unmarshal([]byte(msg), data); err != nil {
		return err
	}

	return locks.WithLease(ctx, "memory:user:"+data.UserID, userLeaseOptions(), func(ctx context.Context) error {
		if err := engine.Delete(ctx, data.UserID, data.Request, data.DocumentIDs); err != nil {
			return err
		}
		logger.Info("[Queue] Memory deleted",
			"correlation_id", data.CorrelationID,
			"user", data.UserID,
			"documents", len(data.DocumentIDs),
		)
		return nil
	})
}
