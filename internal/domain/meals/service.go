package meals

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const imagePrefix = "meals"

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

type Service struct {
	repo   Repository
	images ImageStore
}

func NewService(repo Repository, images ImageStore) *Service {
	return &Service{repo: repo, images: images}
}

func (s *Service) List(ctx context.Context, filter Filter) ([]Meal, error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id int64) (*Meal, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, input CreateInput) (*Meal, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if input.Price <= 0 {
		return nil, fmt.Errorf("%w: price must be positive", ErrInvalidInput)
	}

	meal := Meal{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Price:       input.Price,
		IsSpecial:   input.IsSpecial,
		CookID:      input.CookID,
		ImageURLs:   datatypes.JSONSlice[string]{},
	}
	if err := s.repo.Create(ctx, &meal); err != nil {
		return nil, err
	}
	return &meal, nil
}

func (s *Service) Update(ctx context.Context, id int64, input UpdateInput) (*Meal, error) {
	updates := make(map[string]any)
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
		}
		updates["name"] = name
	}
	if input.Description != nil {
		updates["description"] = strings.TrimSpace(*input.Description)
	}
	if input.Price != nil {
		if *input.Price <= 0 {
			return nil, fmt.Errorf("%w: price must be positive", ErrInvalidInput)
		}
		updates["price"] = *input.Price
	}
	if input.IsSpecial != nil {
		updates["is_special"] = *input.IsSpecial
	}
	if input.CookID != nil {
		updates["cook_id"] = *input.CookID
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// UpdateOwned updates a meal on behalf of a cook, who may not reassign it.
func (s *Service) UpdateOwned(ctx context.Context, cookID, id int64, input UpdateInput) (*Meal, error) {
	if err := s.checkOwner(ctx, cookID, id); err != nil {
		return nil, err
	}
	input.CookID = nil
	return s.Update(ctx, id, input)
}

// Delete refuses while orders reference the meal.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	count, err := s.repo.CountOrders(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: %d orders", ErrMealInUse, count)
	}
	return s.repo.Delete(ctx, id)
}

// AddImage uploads under meals/<id>/ and appends the public URL.
func (s *Service) AddImage(ctx context.Context, id int64, contentType string, body io.Reader) (*Meal, error) {
	if s.images == nil {
		return nil, fmt.Errorf("%w: image storage not configured", ErrInvalidInput)
	}
	contentType = strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, contentType)
	}

	meal, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	objectPath := path.Join(imagePrefix, fmt.Sprint(id), uuid.NewString()+ext)
	url, err := s.images.Upload(ctx, objectPath, contentType, body)
	if err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}

	urls := append(datatypes.JSONSlice[string]{}, meal.ImageURLs...)
	urls = append(urls, url)
	if err := s.repo.Update(ctx, id, map[string]any{"image_urls": urls}); err != nil {
		return nil, err
	}
	meal.ImageURLs = urls
	return meal, nil
}

func (s *Service) AddOwnedImage(ctx context.Context, cookID, id int64, contentType string, body io.Reader) (*Meal, error) {
	if err := s.checkOwner(ctx, cookID, id); err != nil {
		return nil, err
	}
	return s.AddImage(ctx, id, contentType, body)
}

func (s *Service) checkOwner(ctx context.Context, cookID, id int64) error {
	meal, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if meal.CookID == nil || *meal.CookID != cookID {
		return ErrNotOwner
	}
	return nil
}
