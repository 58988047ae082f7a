package words

import (
	"context"
	"errors"

	"github.com/lexikon-app/lexikon/internal/auth"
	"github.com/lexikon-app/lexikon/model"
	"gorm.io/gorm"
)

// WordService is the business-data layer behind the word endpoints. Every
// read applies the caller's scope filter; every mutation verifies ownership
// before touching the row.
type WordService struct {
	wordRepo     WordRepository
	categoryRepo CategoryRepository
}

func NewWordService(wordRepo WordRepository, categoryRepo CategoryRepository) *WordService {
	return &WordService{
		wordRepo:     wordRepo,
		categoryRepo: categoryRepo,
	}
}

func (s *WordService) ListWords(ctx context.Context, scope *auth.Scope, filter ListFilter) ([]*model.Word, error) {
	return s.wordRepo.List(ctx, scope.Where(), filter)
}

func (s *WordService) GetWord(ctx context.Context, scope *auth.Scope, wordID uint) (*model.Word, error) {
	word, err := s.wordRepo.GetByID(ctx, scope.Where(), wordID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrWordNotFound
	}
	return word, err
}

type WordInput struct {
	CategoryID  uint
	Term        string
	Translation string
	Language    string
}

func (s *WordService) CreateWord(ctx context.Context, scope *auth.Scope, input WordInput) (*model.Word, error) {
	if _, err := s.categoryRepo.GetByID(ctx, input.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	word := model.Word{
		UserID:      scope.User.ID,
		CategoryID:  input.CategoryID,
		Term:        input.Term,
		Translation: input.Translation,
		Language:    input.Language,
	}
	if err := s.wordRepo.Create(ctx, &word); err != nil {
		return nil, err
	}
	return &word, nil
}

type WordUpdate struct {
	Term        *string
	Translation *string
	Learned     *bool
}

func (s *WordService) UpdateWord(ctx context.Context, scope *auth.Scope, wordID uint, update WordUpdate) (*model.Word, error) {
	word, err := s.GetWord(ctx, scope, wordID)
	if err != nil {
		return nil, err
	}
	if !scope.CanMutate(word.UserID) {
		return nil, ErrForbidden
	}

	if update.Term != nil {
		word.Term = *update.Term
	}
	if update.Translation != nil {
		word.Translation = *update.Translation
	}
	if update.Learned != nil {
		word.Learned = *update.Learned
	}
	if err := s.wordRepo.Save(ctx, word); err != nil {
		return nil, err
	}
	return word, nil
}

func (s *WordService) DeleteWord(ctx context.Context, scope *auth.Scope, wordID uint) error {
	word, err := s.GetWord(ctx, scope, wordID)
	if err != nil {
		return err
	}
	if !scope.CanMutate(word.UserID) {
		return ErrForbidden
	}
	return s.wordRepo.Delete(ctx, word.ID)
}

func (s *WordService) ListCategories(ctx context.Context) ([]*model.Category, error) {
	return s.categoryRepo.List(ctx)
}
