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

const tasksCollection = "tasks"

// firestoreTaskRepository implements TaskRepository on Firestore.
type firestoreTaskRepository struct {
	client *firestore.Client
}

func NewTaskRepository(client *firestore.Client) TaskRepository {
	return &firestoreTaskRepository{client: client}
}

func (r *firestoreTaskRepository) Create(ctx context.Context, task *domain.Task) (string, error) {
	now := time.Now()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	task.UpdatedAt = now

	ref := r.client.Collection(tasksCollection).NewDoc()
	if _, err := ref.Set(ctx, task); err != nil {
		return "", err
	}
	task.ID = ref.ID
	return ref.ID, nil
}

func (r *firestoreTaskRepository) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	doc, err := r.client.Collection(tasksCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, err
	}
	return docToTask(doc)
}

func (r *firestoreTaskRepository) FindByUser(ctx context.Context, userID, category, statusFilter string) ([]*domain.Task, error) {
	query := r.client.Collection(tasksCollection).Where("userId", "==", userID)
	if category != "" && category != FilterAll {
		query = query.Where("category", "==", category)
	}
	if statusFilter != "" && statusFilter != FilterAll {
		query = query.Where("status", "==", statusFilter)
	}
	return collectTasks(query.Documents(ctx))
}

func (r *firestoreTaskRepository) Save(ctx context.Context, task *domain.Task) error {
	task.UpdatedAt = time.Now()
	_, err := r.client.Collection(tasksCollection).Doc(task.ID).Set(ctx, task)
	return err
}

func (r *firestoreTaskRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection(tasksCollection).Doc(id).Delete(ctx)
	return err
}

func (r *firestoreTaskRepository) FindAll(ctx context.Context) ([]*domain.Task, error) {
	return collectTasks(r.client.Collection(tasksCollection).Documents(ctx))
}

func collectTasks(iter *firestore.DocumentIterator) ([]*domain.Task, error) {
	defer iter.Stop()

	var tasks []*domain.Task
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		task, err := docToTask(doc)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func docToTask(doc *firestore.DocumentSnapshot) (*domain.Task, error) {
	var task domain.Task
	if err := doc.DataTo(&task); err != nil {
		return nil, err
	}
	task.ID = doc.Ref.ID
	return &task, nil
}
