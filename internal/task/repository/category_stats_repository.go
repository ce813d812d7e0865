package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"taskly-backend/internal/task/domain"
)

const categoryStatsCollection = "category_stats"

// firestoreCategoryStatsRepository implements CategoryStatsRepository on
// Firestore. Documents are keyed by category name.
type firestoreCategoryStatsRepository struct {
	client *firestore.Client
}

func NewCategoryStatsRepository(client *firestore.Client) CategoryStatsRepository {
	return &firestoreCategoryStatsRepository{client: client}
}

func (r *firestoreCategoryStatsRepository) AddTask(ctx context.Context, category, taskID string) error {
	ref := r.client.Collection(categoryStatsCollection).Doc(category)
	now := time.Now()

	stat, err := r.get(ctx, ref)
	if err != nil {
		return err
	}
	if stat == nil {
		_, err := ref.Set(ctx, &domain.CategoryStat{
			Name:        category,
			TaskIDs:     []string{taskID},
			TaskCount:   1,
			CreatedAt:   now,
			LastUpdated: now,
		})
		return err
	}

	for _, id := range stat.TaskIDs {
		if id == taskID {
			return nil
		}
	}
	stat.TaskIDs = append(stat.TaskIDs, taskID)

	_, err = ref.Update(ctx, []firestore.Update{
		{Path: "tasks", Value: stat.TaskIDs},
		{Path: "taskCount", Value: len(stat.TaskIDs)},
		{Path: "lastUpdated", Value: now},
	})
	return err
}

func (r *firestoreCategoryStatsRepository) RemoveTask(ctx context.Context, category, taskID string) error {
	ref := r.client.Collection(categoryStatsCollection).Doc(category)

	stat, err := r.get(ctx, ref)
	if err != nil || stat == nil {
		return err
	}

	remaining := stat.TaskIDs[:0]
	found := false
	for _, id := range stat.TaskIDs {
		if id == taskID {
			found = true
			continue
		}
		remaining = append(remaining, id)
	}
	if !found {
		return nil
	}

	// The entry is deleted outright once its last member is removed.
	if len(remaining) == 0 {
		_, err := ref.Delete(ctx)
		return err
	}

	_, err = ref.Update(ctx, []firestore.Update{
		{Path: "tasks", Value: remaining},
		{Path: "taskCount", Value: len(remaining)},
		{Path: "lastUpdated", Value: time.Now()},
	})
	return err
}

func (r *firestoreCategoryStatsRepository) List(ctx context.Context) ([]*domain.CategoryStat, error) {
	iter := r.client.Collection(categoryStatsCollection).Documents(ctx)
	defer iter.Stop()

	var stats []*domain.CategoryStat
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		var stat domain.CategoryStat
		if err := doc.DataTo(&stat); err != nil {
			return nil, err
		}
		if stat.Name == "" {
			stat.Name = doc.Ref.ID
		}
		stats = append(stats, &stat)
	}
	return stats, nil
}

func (r *firestoreCategoryStatsRepository) get(ctx context.Context, ref *firestore.DocumentRef) (*domain.CategoryStat, error) {
	doc, err := ref.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, err
	}
	var stat domain.CategoryStat
	if err := doc.DataTo(&stat); err != nil {
		return nil, err
	}
	return &stat, nil
}
