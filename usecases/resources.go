package usecases

import (
	"context"
	"math"
	"sort"
	"strings"

	"hoa-server/repositories"
)

// ResourceUseCase is plain record keeping over one entity. Patches are
// restricted to the fields listed in the allow-list (JSON name -> column).
type ResourceUseCase[T any] struct {
	repo    repositories.CrudRepository[T]
	fields  map[string]string
	prepare func(actor Actor, item *T)
}

func NewResourceUseCase[T any](repo repositories.CrudRepository[T], fields map[string]string) *ResourceUseCase[T] {
	return &ResourceUseCase[T]{repo: repo, fields: fields}
}

// OnCreate registers a hook run on every new item before it is stored.
func (uc *ResourceUseCase[T]) OnCreate(fn func(actor Actor, item *T)) *ResourceUseCase[T] {
	uc.prepare = fn
	return uc
}

func (uc *ResourceUseCase[T]) Create(ctx context.Context, actor Actor, item *T) error {
	if uc.prepare != nil {
		uc.prepare(actor, item)
	}
	return uc.repo.Create(ctx, item)
}

func (uc *ResourceUseCase[T]) Get(ctx context.Context, id uint) (*T, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return item, nil
}

func (uc *ResourceUseCase[T]) List(ctx context.Context) ([]T, error) {
	return uc.repo.GetAll(ctx)
}

func (uc *ResourceUseCase[T]) Update(ctx context.Context, id uint, patch map[string]interface{}) (*T, error) {
	updates, err := allowList(patch, uc.fields)
	if err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return uc.Get(ctx, id)
	}
	item, err := uc.repo.Update(ctx, id, updates)
	if err != nil {
		return nil, notFound(err)
	}
	return item, nil
}

func (uc *ResourceUseCase[T]) Delete(ctx context.Context, id uint) error {
	return notFound(uc.repo.Delete(ctx, id))
}

// allowList maps a JSON patch onto column updates, rejecting unknown keys.
func allowList(patch map[string]interface{}, fields map[string]string) (map[string]interface{}, error) {
	verr := &ValidationError{}
	updates := make(map[string]interface{}, len(patch))
	for key, value := range patch {
		column, ok := fields[key]
		if !ok {
			verr.add(key, "is not an updatable field (allowed: "+allowedNames(fields)+")")
			continue
		}
		updates[column] = normalizeJSONValue(value)
	}
	if err := verr.err(); err != nil {
		return nil, err
	}
	return updates, nil
}

// normalizeJSONValue turns whole JSON numbers back into integers so they
// bind cleanly to integer columns.
func normalizeJSONValue(v interface{}) interface{} {
	if f, ok := v.(float64); ok && f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return int64(f)
	}
	return v
}

func allowedNames(fields map[string]string) string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
