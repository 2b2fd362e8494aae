package repositoryimpl

import (
	"context"
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/taskroster/taskroster/internal/activity"
	"github.com/taskroster/taskroster/pkg/cerr"
	"github.com/taskroster/taskroster/pkg/storage"
)

const activityPrefix = "activity"

type YAMLRepository struct {
	storage storage.Storage
}

func NewYAMLRepository(s storage.Storage) *YAMLRepository {
	return &YAMLRepository{storage: s}
}

func taskPrefix(taskID string) string {
	return fmt.Sprintf("%s/%s", activityPrefix, taskID)
}

func path(taskID, id string) string {
	return fmt.Sprintf("%s/%s.yaml", taskPrefix(taskID), id)
}

func (r *YAMLRepository) Create(ctx context.Context, rec *activity.Record) error {
	exists, err := r.storage.Exists(ctx, path(rec.TaskID, rec.ID))
	if err != nil {
		return cerr.WrapStorageWriteError("activity record", err)
	}
	if exists {
		return cerr.NewError(cerr.AlreadyExists, "activity record already exists", nil)
	}
	data, err := yaml.Marshal(rec)
	if err != nil {
		return cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to marshal activity record: %w", err))
	}
	if err := r.storage.Write(ctx, path(rec.TaskID, rec.ID), data); err != nil {
		return cerr.WrapStorageWriteError("activity record", err)
	}
	return nil
}

func (r *YAMLRepository) ListByTask(ctx context.Context, taskID string, limit, offset int) ([]*activity.Record, int, error) {
	paths, err := r.storage.List(ctx, taskPrefix(taskID))
	if err != nil {
		return nil, 0, cerr.WrapStorageReadError("activity records", err)
	}

	total := len(paths)
	if offset >= total {
		return []*activity.Record{}, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}

	records := make([]*activity.Record, 0, end-offset)
	for _, p := range paths[offset:end] {
		data, err := r.storage.Read(ctx, p)
		if err != nil {
			return nil, 0, cerr.WrapStorageReadError("activity record", err)
		}
		var rec activity.Record
		if err := yaml.Unmarshal(data, &rec); err != nil {
			slog.WarnContext(ctx, "skipping unreadable activity record", "path", p, "error", err)
			continue
		}
		records = append(records, &rec)
	}
	return records, total, nil
}
