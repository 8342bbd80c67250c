package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/St1cky1/team-dashboard/internal/entity"
	"github.com/St1cky1/team-dashboard/internal/repository"
)

// seedConcurrency - сколько записей вставляется одновременно
const seedConcurrency = 3

type SeedResult struct {
	Tasks     int
	Resources int
	Skipped   bool
}

// SeedDemoData заполняет пустое хранилище демо-данными. Если задачи уже есть,
// ничего не делает.
func SeedDemoData(
	ctx context.Context,
	taskRepo repository.ITaskRepository,
	resourceRepo repository.IResourceRepository,
	tasks []entity.Task,
	resources []entity.Resource,
	logger *zap.Logger,
) (SeedResult, error) {
	existing, err := taskRepo.List(ctx)
	if err != nil {
		return SeedResult{}, fmt.Errorf("list tasks: %w", err)
	}
	if len(existing) > 0 {
		logger.Info("storage is not empty, demo seed skipped", zap.Int("tasks", len(existing)))
		return SeedResult{Skipped: true}, nil
	}

	start := time.Now()
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		result    SeedResult
		firstErr  error
		semaphore = make(chan struct{}, seedConcurrency)
	)

	record := func(kind, id string, err error, counter *int) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			logger.Warn("seed insert failed", zap.String("kind", kind), zap.String("id", id), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			return
		}
		*counter++
	}

	for i := range tasks {
		wg.Add(1)
		go func(task entity.Task) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			_, err := taskRepo.Create(ctx, &task)
			record("task", task.ID, err, &result.Tasks)
		}(tasks[i])
	}

	for i := range resources {
		wg.Add(1)
		go func(resource entity.Resource) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			_, err := resourceRepo.Create(ctx, &resource)
			record("resource", resource.ID, err, &result.Resources)
		}(resources[i])
	}

	wg.Wait()

	logger.Info("demo data seeded",
		zap.Int("tasks", result.Tasks),
		zap.Int("resources", result.Resources),
		zap.Duration("took", time.Since(start)),
	)
	return result, firstErr
}
